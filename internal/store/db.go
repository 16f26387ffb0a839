package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
)

// NewDB opens a Postgres connection pool and verifies it with a ping.
func NewDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
