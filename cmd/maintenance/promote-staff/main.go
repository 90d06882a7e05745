package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/config"
	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/logger"
	"github.com/smarttransit/station-booking/pkg/validator"
)

func main() {
	email := flag.String("email", "", "email of the account to update")
	revoke := flag.Bool("revoke", false, "remove staff rights instead of granting them")
	flag.Parse()

	address, err := validator.NewEmailValidator().Validate(*email)
	if err != nil {
		log.Fatalf("Invalid -email: %v", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := database.NewUserRepository(db)
	err = users.SetStaff(ctx, address, !*revoke)
	if errors.Is(err, sql.ErrNoRows) {
		appLogger.WithField("email", address).Fatal("No account with that email")
	}
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to update account")
	}

	appLogger.WithFields(logrus.Fields{
		"email":    address,
		"is_staff": !*revoke,
	}).Info("Staff flag updated")
}
