package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zibilo/table-top-orders/internal/changefeed"
	"github.com/zibilo/table-top-orders/internal/config"
	"github.com/zibilo/table-top-orders/internal/db"
	"github.com/zibilo/table-top-orders/internal/es"
	"github.com/zibilo/table-top-orders/internal/handlers"
	"github.com/zibilo/table-top-orders/internal/logging"
	"github.com/zibilo/table-top-orders/internal/models"
	"github.com/zibilo/table-top-orders/internal/notifications"
	"github.com/zibilo/table-top-orders/internal/service/order"
	"github.com/zibilo/table-top-orders/internal/service/token"
	"github.com/zibilo/table-top-orders/internal/storage"
	httpserver "github.com/zibilo/table-top-orders/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, configuration.DATABASE_URL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	hub := changefeed.NewHub()
	publisher := changefeed.NewKafkaPublisher(configuration.KAFKA_BROKERS)
	consumer := changefeed.NewConsumer(
		configuration.KAFKA_BROKERS,
		"table-top-orders",
		hub,
		logger,
		changefeed.TableOrders,
		changefeed.TableNotifications,
	)
	go consumer.Run(ctx)

	alerter := notifications.AlerterFunc(func(n models.Notification) {
		logger.Info("notification received", "type", n.Type, "message", n.Message)
	})
	counter, err := notifications.NewCounter(database, hub, alerter)
	if err != nil {
		log.Fatalf("unread counter init error: %v", err)
	}
	defer counter.Close()

	store, err := storage.NewDiskStore(configuration.UPLOAD_DIR, configuration.UPLOAD_BASEURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	orderService := &order.Service{DB: database, Publisher: publisher}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:                   database,
		AuthHandler:          &handlers.AuthHandler{DB: database, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
		OrderHandler:         &handlers.OrderHandler{DB: database, Service: orderService},
		TableHandler:         &handlers.TableHandler{DB: database},
		CategoryHandler:      &handlers.CategoryHandler{DB: database},
		NotificationHandler:  &handlers.NotificationHandler{DB: database, Counter: counter},
		EventsHandler:        &handlers.EventsHandler{Feed: hub},
		StatsHandler:         &handlers.StatsHandler{DB: database},
		InventoryHandler:     &handlers.InventoryHandler{DB: database},
		EstablishmentHandler: &handlers.EstablishmentHandler{DB: database},
		UploadHandler:        &handlers.UploadHandler{Store: store},
		ServiceHandler:       &token.TokenService{DB: database, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
		UploadDir:            configuration.UPLOAD_DIR,
	}

	menuHandler := &handlers.MenuHandler{DB: database, Index: configuration.ES_INDEX}
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		menuHandler.ES = esClient
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: configuration.ES_INDEX}
	}
	deps.MenuHandler = menuHandler

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(configuration.SERVER_PORT),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		logger.Error("changefeed consumer close error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("changefeed publisher close error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	logger.Info("shutdown complete")
}
