// Package sqlite opens the local project database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Money is stored as TEXT so decimals survive without float rounding.
const ProjectsSchema = `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		customer TEXT,
		address TEXT,
		reference TEXT,
		markup_percent TEXT NOT NULL DEFAULT '0',
		notes TEXT,
		schedule_units INTEGER,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const CostItemsSchema = `
	CREATE TABLE IF NOT EXISTS cost_items (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		quantity TEXT,
		unit TEXT,
		hours TEXT,
		unit_price TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		uncertainty TEXT,
		tax_deduction_eligible BOOLEAN NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, id)
	);
`

const AddonsSchema = `
	CREATE TABLE IF NOT EXISTS addons (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		selected BOOLEAN NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, id)
	);
`

const CheckpointsSchema = `
	CREATE TABLE IF NOT EXISTS checkpoints (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		required BOOLEAN NOT NULL DEFAULT 0,
		result TEXT,
		comment TEXT,
		PRIMARY KEY (project_id, id)
	);
`

const PhasesSchema = `
	CREATE TABLE IF NOT EXISTS phases (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		start_unit INTEGER NOT NULL,
		duration_units INTEGER NOT NULL,
		color_key TEXT,
		parallel_with TEXT,
		PRIMARY KEY (project_id, id)
	);
`

const ActivitiesSchema = `
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		activity_date DATETIME NOT NULL,
		description TEXT NOT NULL,
		hours TEXT,
		crew TEXT,
		PRIMARY KEY (project_id, id)
	);
`

var bootQueries = []string{
	ProjectsSchema,
	CostItemsSchema,
	AddonsSchema,
	CheckpointsSchema,
	PhasesSchema,
	ActivitiesSchema,
}

type Settings struct {
	Path string
}

// NewDB opens the database file and creates missing tables. ":memory:" keeps
// everything in a single connection.
func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite", settings.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if settings.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, query := range bootQueries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to boot schema: %w", err)
		}
	}
	return db, nil
}
