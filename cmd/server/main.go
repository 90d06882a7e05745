package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/config"
	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/logger"
	"github.com/smarttransit/station-booking/internal/services"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}

	log.Info("Starting station booking backend")
	log.Infof("Version: %s, Build Time: %s", version, buildTime)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Info("Database schema applied")
	}

	router, rateLimitService := newRouter(cfg, db, log)

	cronService := services.NewCronService(rateLimitService, log)
	if err := cronService.Start(); err != nil {
		log.Fatalf("Failed to start cron service: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited successfully")
}
