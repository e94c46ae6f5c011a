package main

import (
	"context"
	"log"

	"github.com/01moynul/bookstore-cart/internal/auth"
	"github.com/01moynul/bookstore-cart/internal/config"
	"github.com/01moynul/bookstore-cart/internal/database"
	"github.com/01moynul/bookstore-cart/internal/handlers"
	"github.com/01moynul/bookstore-cart/internal/logger"
	"github.com/01moynul/bookstore-cart/internal/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB(cfg.Backend.Driver, cfg.Backend.DSN)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.String("driver", cfg.Backend.Driver), zap.Error(err))
	}
	defer db.Close()

	// 2. --- Schema ---
	if err := database.EnsureSchema(context.Background(), db, cfg.Backend.Driver); err != nil {
		zl.Fatal("failed to prepare schema", zap.Error(err))
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:          db,
		JWT:         auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL),
		Logger:      zl,
		PartialEcho: cfg.Backend.PartialEcho,
	}
	if app.PartialEcho {
		zl.Warn("partial echo enabled: cart writes answer with {id, quantity} only")
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, cfg.Backend.AllowedOrigin)

	// --- Start Server ---
	zl.Info("starting bookstore API server", zap.String("port", cfg.Backend.Port), zap.String("driver", cfg.Backend.Driver))
	if err := router.Run(":" + cfg.Backend.Port); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
