package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"taxi-dashboard/config"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// Open connects to Postgres, retrying while the server comes up.
func Open(ctx context.Context, cfg config.DBConfig, attempts int) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			log.Println("Database connected.")
			return db, nil
		}
		log.Printf("Waiting for the database to be ready... (attempt %d)", i+1)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to the database: %w", err)
}
