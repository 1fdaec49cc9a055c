package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"brevosync/internal/api/handlers"
	"brevosync/internal/api/middleware"
	"brevosync/internal/config"
	"brevosync/internal/database"
	"brevosync/internal/logger"
	"brevosync/internal/notify"
	"brevosync/internal/sync"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher handlers.EventPublisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Core services
	synchronizer := sync.NewSynchronizer(db.DB, cfg, logger)
	notifyService := notify.NewService(db.DB,
		notify.NewSMTPDispatcher(cfg, logger),
		notify.NewBrevoDispatcher(db.DB, cfg, logger),
		logger)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(db.DB, logger)
	syncHandler := handlers.NewSyncHandler(synchronizer, logger)
	settingsHandler := handlers.NewSettingsHandler(db.DB, cfg, logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(db.DB, publisher, logger)
	cartHandler := handlers.NewCartHandler(db.DB, publisher, logger)
	orderHandler := handlers.NewOrderHandler(db.DB, publisher, logger)
	messageHandler := handlers.NewMessageHandler(db.DB, cfg, notifyService, logger)
	customerHandler := handlers.NewCustomerHandler(db.DB, logger)
	storeHandler := handlers.NewStoreHandler(db.DB, logger)

	// Inbound Brevo callbacks (plain-text responses, fixed paths)
	webhooks := router.Group("/webhooks/brevo")
	{
		webhooks.POST("/unsubscribe", webhookHandler.Unsubscribe)
		webhooks.POST("/import", webhookHandler.ImportDone)
	}

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Synchronization
		v1.POST("/sync", syncHandler.SyncAll)
		v1.POST("/sync/:storeId", syncHandler.SyncStore)
		v1.GET("/sync/import-report", webhookHandler.ImportReport)

		// Settings
		settings := v1.Group("/settings")
		{
			settings.GET("/:storeId", settingsHandler.Get)
			settings.POST("/:storeId", settingsHandler.Save)
		}

		// Subscriptions
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("/subscribe", subscriptionHandler.Subscribe)
			subscriptions.POST("/unsubscribe", subscriptionHandler.Unsubscribe)
		}

		// Shopping carts
		cart := v1.Group("/cart")
		{
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.DeleteItem)
		}

		// Orders
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.Place)
			orders.POST("/:id/pay", orderHandler.Pay)
		}

		// Messages and templates
		messages := v1.Group("/messages")
		{
			messages.POST("/send", messageHandler.Send)
			messages.POST("/templates/:name/export", messageHandler.ExportTemplate)
			messages.POST("/templates/import/:id", messageHandler.ImportTemplate)
		}

		// Customers
		customers := v1.Group("/customers")
		{
			customers.GET("/:id", customerHandler.Get)
			customers.POST("", customerHandler.Create)
			customers.PUT("/:id", customerHandler.Update)
		}

		// Stores
		stores := v1.Group("/stores")
		{
			stores.GET("", storeHandler.List)
			stores.GET("/:id", storeHandler.Get)
			stores.POST("", storeHandler.Create)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for serverless deployments.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
