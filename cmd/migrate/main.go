package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/smarttransit/station-booking/internal/config"
	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/logger"
)

func main() {
	printOnly := flag.Bool("print", false, "print the schema instead of applying it")
	flag.Parse()

	if *printOnly {
		fmt.Println(database.Schema())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	if err := database.Migrate(ctx, db); err != nil {
		appLogger.WithError(err).Fatal("Migration failed")
	}

	appLogger.WithField("took_ms", time.Since(start).Milliseconds()).Info("Schema is up to date")
}
