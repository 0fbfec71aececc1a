package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/service/order"
)

func TestSubmitOrderRaisesNotification(t *testing.T) {
	env := newTestEnv(t)
	env.createTable(4, true)
	item := env.createMenuItem("burger", 9.50)

	require.Equal(t, int64(0), env.Counter.Unread())

	rec, err := env.submitOrder(4, []order.CartLine{
		{MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decodeOrder(t, rec)

	require.Equal(t, int64(1), env.Counter.Unread())
	require.Equal(t, 1, *env.Alerts)

	var n models.Notification
	require.NoError(t, env.DB.Where("order_id = ?", o.ID).First(&n).Error)
	require.Equal(t, models.NotificationNewOrder, n.Type)
	require.False(t, n.IsRead)
	require.Contains(t, n.Message, "table 4")
}

func TestUnreadCountEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createTable(1, true)
	item := env.createMenuItem("tea", 2.00)

	for i := 0; i < 3; i++ {
		rec, err := env.submitOrder(1, []order.CartLine{{MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price}})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/notifications/unread", nil)
	require.NoError(t, env.Notifications.UnreadCount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(3), body["unread"])
}

func TestMarkReadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createTable(1, true)
	item := env.createMenuItem("soup", 4.00)

	rec, err := env.submitOrder(1, []order.CartLine{{MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price}})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var n models.Notification
	require.NoError(t, env.DB.First(&n).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/notifications/1/read", nil)
	pathParam(c, n.ID)
	require.NoError(t, env.Notifications.MarkRead(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(0), body["unread"])
}

func TestMarkAllReadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createTable(1, true)
	item := env.createMenuItem("cake", 5.00)

	for i := 0; i < 2; i++ {
		rec, err := env.submitOrder(1, []order.CartLine{{MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price}})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, int64(2), env.Counter.Unread())

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/notifications/read_all", nil)
	require.NoError(t, env.Notifications.MarkAllRead(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, int64(0), env.Counter.Unread())

	var unread int64
	require.NoError(t, env.DB.Model(&models.Notification{}).Where("is_read = ?", false).Count(&unread).Error)
	require.Equal(t, int64(0), unread)
}

func TestListNotificationsPaged(t *testing.T) {
	env := newTestEnv(t)
	env.createTable(1, true)
	item := env.createMenuItem("fries", 3.00)

	for i := 0; i < 5; i++ {
		rec, err := env.submitOrder(1, []order.CartLine{{MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price}})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/notifications?page=1&size=3", nil)
	require.NoError(t, env.Notifications.ListNotifications(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)
}
