package database

import (
	"database/sql"
	"fmt"

	"attendance.bot/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver
)

// connString builds the PostgreSQL connection URL from config.
func connString(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// NewConnection creates and verifies an uninstrumented connection pool.
// Used for startup work like schema bootstrap, where span-per-statement
// tracing is noise; request-path queries go through
// NewInstrumentedConnection instead.
func NewConnection(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Ping the database to verify the connection is alive
	return db, db.Ping()
}
