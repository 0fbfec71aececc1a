package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/logging"
	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/service/order"
)

type OrderHandler struct {
	DB      *gorm.DB
	Service *order.Service
}

// SubmitOrder is the customer checkout action: table number plus cart lines.
func (h *OrderHandler) SubmitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "submit_order")

	var req struct {
		TableNumber int              `json:"table_number"`
		Lines       []order.CartLine `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	o, err := h.Service.Submit(ctx, req.TableNumber, req.Lines)
	if err != nil {
		l.Warn("submit_failed", "table_number", req.TableNumber, "error", err)
		return domainError(c, err)
	}

	l.Info("submit_success", "order_id", o.ID, "table_number", req.TableNumber, "total_price", o.TotalPrice)
	return c.JSON(http.StatusCreated, o)
}

// ListOrders re-fetches the full order set with nested lines, items and
// selected choices. Admin views call this wholesale on every feed event.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	q := h.DB.WithContext(c.Request().Context()).
		Preload("Table").
		Preload("Items").
		Preload("Items.MenuItem").
		Preload("Items.Options").
		Preload("Items.Options.Choice").
		Order("created_at DESC")

	switch filter := c.QueryParam("filter"); filter {
	case "", "all":
	case "pending", "validated", "completed", "cancelled":
		q = q.Where("status = ?", filter)
	default:
		return errorResponse(c, http.StatusBadRequest, errors.New("unknown filter"))
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var o models.Order
	err = h.DB.WithContext(c.Request().Context()).
		Preload("Table").
		Preload("Items").
		Preload("Items.MenuItem").
		Preload("Items.Options").
		Preload("Items.Options.Choice").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, err)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ValidateOrder(c echo.Context) error {
	return h.transition(c, models.OrderValidated)
}

func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	return h.transition(c, models.OrderCompleted)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	return h.transition(c, models.OrderCancelled)
}

func (h *OrderHandler) transition(c echo.Context, to models.OrderStatus) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_transition")

	id, err := pathID(c)
	if err != nil {
		return err
	}

	o, err := h.Service.Transition(ctx, id, to)
	if err != nil {
		l.Warn("transition_failed", "order_id", id, "to", to, "error", err)
		return domainError(c, err)
	}

	l.Info("transition_success", "order_id", id, "to", to)
	return c.JSON(http.StatusOK, o)
}
