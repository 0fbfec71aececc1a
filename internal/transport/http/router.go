package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/handlers"
	"github.com/zibilo/table-top-orders/internal/service/token"
)

type Deps struct {
	DB                   *gorm.DB
	AuthHandler          *handlers.AuthHandler
	OrderHandler         *handlers.OrderHandler
	TableHandler         *handlers.TableHandler
	MenuHandler          *handlers.MenuHandler
	CategoryHandler      *handlers.CategoryHandler
	NotificationHandler  *handlers.NotificationHandler
	EventsHandler        *handlers.EventsHandler
	StatsHandler         *handlers.StatsHandler
	InventoryHandler     *handlers.InventoryHandler
	EstablishmentHandler *handlers.EstablishmentHandler
	UploadHandler        *handlers.UploadHandler
	SearchHandler        *handlers.SearchHandler
	ServiceHandler       *token.TokenService
	UploadDir            string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	// Customer surface: menu browse and the checkout action.
	v1.GET("/menu", d.MenuHandler.Browse)
	v1.GET("/menu/items/:id", d.MenuHandler.GetMenuItem)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}
	v1.POST("/orders", d.OrderHandler.SubmitOrder)

	auth := v1.Group("", d.ServiceHandler.AutoRefreshMiddleware)
	auth.GET("/dashboard", d.EstablishmentHandler.Dashboard)
	auth.POST("/establishments", d.EstablishmentHandler.CreateEstablishment)

	admin := v1.Group("/admin", d.ServiceHandler.AutoRefreshMiddlewareAdmin)

	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.GET("/orders/:id", d.OrderHandler.GetOrder)
	admin.POST("/orders/:id/validate", d.OrderHandler.ValidateOrder)
	admin.POST("/orders/:id/complete", d.OrderHandler.CompleteOrder)
	admin.POST("/orders/:id/cancel", d.OrderHandler.CancelOrder)

	admin.GET("/events", d.EventsHandler.Stream)

	admin.GET("/notifications", d.NotificationHandler.ListNotifications)
	admin.GET("/notifications/unread", d.NotificationHandler.UnreadCount)
	admin.POST("/notifications/:id/read", d.NotificationHandler.MarkRead)
	admin.POST("/notifications/read_all", d.NotificationHandler.MarkAllRead)

	admin.GET("/tables", d.TableHandler.ListTables)
	admin.POST("/tables", d.TableHandler.CreateTable)
	admin.POST("/tables/:id/toggle", d.TableHandler.ToggleTable)

	admin.GET("/categories", d.CategoryHandler.ListCategories)
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)

	admin.POST("/menu/items", d.MenuHandler.CreateMenuItem)
	admin.PATCH("/menu/items/:id", d.MenuHandler.PatchMenuItem)
	admin.DELETE("/menu/items/:id", d.MenuHandler.DeleteMenuItem)

	admin.GET("/stats", d.StatsHandler.GetStats)

	admin.GET("/beverage_types", d.InventoryHandler.ListBeverageTypes)
	admin.POST("/beverage_types", d.InventoryHandler.CreateBeverageType)
	admin.GET("/crates", d.InventoryHandler.ListCrates)
	admin.POST("/crates", d.InventoryHandler.CreateCrate)
	admin.POST("/crates/:id/stock", d.InventoryHandler.AdjustCrateStock)
	admin.GET("/grocery_products", d.InventoryHandler.ListGroceryProducts)
	admin.POST("/grocery_products", d.InventoryHandler.CreateGroceryProduct)
	admin.PATCH("/grocery_products/:id", d.InventoryHandler.PatchGroceryProduct)
	admin.DELETE("/grocery_products/:id", d.InventoryHandler.DeleteGroceryProduct)

	admin.POST("/roles", d.EstablishmentHandler.GrantRole)

	admin.POST("/uploads", d.UploadHandler.Upload)
}
