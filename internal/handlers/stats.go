package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/models"
)

type StatsHandler struct {
	DB *gorm.DB
}

// GetStats aggregates the dashboard overview: order count, revenue, average
// ticket and menu size. Cancelled orders stay in the history and count
// toward the totals the same way the orders list shows them.
func (h *StatsHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	var totalOrders int64
	if err := h.DB.WithContext(ctx).Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var totalRevenue float64
	if err := h.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var menuItems int64
	if err := h.DB.WithContext(ctx).Model(&models.MenuItem{}).Count(&menuItems).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	average := 0.0
	if totalOrders > 0 {
		average = totalRevenue / float64(totalOrders)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue,
		"average_order": average,
		"menu_items":    menuItems,
	})
}
