package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/changefeed"
	"github.com/zibilo/table-top-orders/internal/db"
	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/notifications"
	"github.com/zibilo/table-top-orders/internal/service/order"
)

type testEnv struct {
	T   *testing.T
	E   *echo.Echo
	DB  *gorm.DB
	Hub *changefeed.Hub

	Orders        *OrderHandler
	Tables        *TableHandler
	Menu          *MenuHandler
	Categories    *CategoryHandler
	Notifications *NotificationHandler
	Stats         *StatsHandler
	Inventory     *InventoryHandler

	Counter *notifications.Counter
	Alerts  *int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	hub := changefeed.NewHub()
	publisher := &changefeed.HubPublisher{Hub: hub}

	alerts := 0
	counter, err := notifications.NewCounter(gdb, hub, notifications.AlerterFunc(func(models.Notification) {
		alerts++
	}))
	require.NoError(t, err)
	t.Cleanup(counter.Close)

	svc := &order.Service{DB: gdb, Publisher: publisher}

	return &testEnv{
		T:             t,
		E:             echo.New(),
		DB:            gdb,
		Hub:           hub,
		Orders:        &OrderHandler{DB: gdb, Service: svc},
		Tables:        &TableHandler{DB: gdb},
		Menu:          &MenuHandler{DB: gdb},
		Categories:    &CategoryHandler{DB: gdb},
		Notifications: &NotificationHandler{DB: gdb, Counter: counter},
		Stats:         &StatsHandler{DB: gdb},
		Inventory:     &InventoryHandler{DB: gdb},
		Counter:       counter,
		Alerts:        &alerts,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createTable(number int, active bool) models.Table {
	table := models.Table{Number: number, IsActive: active}
	require.NoError(env.T, env.DB.Create(&table).Error)
	return table
}

func (env *testEnv) createMenuItem(name string, price float64) models.MenuItem {
	cat := models.Category{Name: "cat-" + name}
	require.NoError(env.T, env.DB.Create(&cat).Error)
	item := models.MenuItem{Name: name, Price: price, CategoryID: cat.ID, IsAvailable: true}
	require.NoError(env.T, env.DB.Create(&item).Error)
	return item
}

func (env *testEnv) createChoice(itemID uint, optName, choiceName string, price float64) models.OptionChoice {
	opt := models.Option{MenuItemID: itemID, Name: optName}
	require.NoError(env.T, env.DB.Create(&opt).Error)
	choice := models.OptionChoice{OptionID: opt.ID, Name: choiceName, Price: price}
	require.NoError(env.T, env.DB.Create(&choice).Error)
	return choice
}

func (env *testEnv) submitOrder(tableNumber int, lines []order.CartLine) (*httptest.ResponseRecorder, error) {
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"table_number": tableNumber,
		"lines":        lines,
	})
	return rec, env.Orders.SubmitOrder(c)
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	return o
}

func pathParam(c echo.Context, id uint) {
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
}
