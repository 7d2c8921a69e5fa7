package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Connect opens the database connection and verifies it
func Connect(databaseURL string) (*sql.DB, error) {
	database, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Set connection pool settings
	database.SetMaxOpenConns(10)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(time.Minute * 3)

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return database, nil
}
