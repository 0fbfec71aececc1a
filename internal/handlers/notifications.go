package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/notifications"
)

type NotificationHandler struct {
	DB      *gorm.DB
	Counter *notifications.Counter
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 20)
	offset := (page - 1) * size

	var items []models.Notification
	if err := h.DB.WithContext(c.Request().Context()).
		Order("created_at DESC").
		Offset(offset).Limit(size).
		Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"unread": h.Counter.Unread()})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Counter.MarkRead(c.Request().Context(), id); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": h.Counter.Unread()})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.Counter.MarkAllRead(c.Request().Context()); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": h.Counter.Unread()})
}
