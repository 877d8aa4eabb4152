// Package postgres opens the hosted project database through pgx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var bootQueries = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		customer TEXT,
		address TEXT,
		reference TEXT,
		markup_percent NUMERIC NOT NULL DEFAULT 0,
		notes TEXT,
		schedule_units INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cost_items (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects (id) DEFERRABLE INITIALLY DEFERRED,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		quantity NUMERIC,
		unit TEXT,
		hours NUMERIC,
		unit_price NUMERIC NOT NULL,
		subtotal NUMERIC NOT NULL,
		uncertainty TEXT,
		tax_deduction_eligible BOOLEAN NOT NULL DEFAULT false,
		PRIMARY KEY (project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS addons (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects (id) DEFERRABLE INITIALLY DEFERRED,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC NOT NULL,
		selected BOOLEAN NOT NULL DEFAULT false,
		PRIMARY KEY (project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS checkpoints (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects (id) DEFERRABLE INITIALLY DEFERRED,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		required BOOLEAN NOT NULL DEFAULT false,
		result TEXT,
		comment TEXT,
		PRIMARY KEY (project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS phases (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects (id) DEFERRABLE INITIALLY DEFERRED,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		start_unit INTEGER NOT NULL,
		duration_units INTEGER NOT NULL,
		color_key TEXT,
		parallel_with TEXT,
		PRIMARY KEY (project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects (id) DEFERRABLE INITIALLY DEFERRED,
		activity_date DATE NOT NULL,
		description TEXT NOT NULL,
		hours NUMERIC,
		crew TEXT,
		PRIMARY KEY (project_id, id)
	)`,
}

type Settings struct {
	DSN          string
	MaxOpenConns int
	BootTimeout  time.Duration
}

func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("pgx", settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}

	timeout := settings.BootTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to boot schema: %w", err)
		}
	}
	return db, nil
}
