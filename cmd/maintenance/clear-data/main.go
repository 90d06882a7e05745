package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/smarttransit/station-booking/internal/config"
	"github.com/smarttransit/station-booking/internal/database"
)

// Children first so the listing below reads in dependency order.
var tables = []string{
	"tickets",
	"orders",
	"trips",
	"bus_facilities",
	"buses",
	"facilities",
	"users",
}

func main() {
	var dbURLFlag string
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	keepUsers := flag.Bool("keep-users", false, "leave user accounts in place")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	targets := tables
	if *keepUsers {
		targets = tables[:len(tables)-1]
	}

	fmt.Println("Connected to database. Truncating tables...")

	query := "TRUNCATE TABLE "
	for i, t := range targets {
		if i > 0 {
			query += ", "
		}
		query += t
	}
	query += " RESTART IDENTITY CASCADE"

	if _, err := db.Exec(query); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
