// Package sql reads and writes project records over database/sql. Queries use
// $N placeholders, understood by both the sqlite and the postgres driver.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/estimator/pkg/models/store"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("project not found")

type ProjectStore interface {
	GetProject(ctx context.Context, projectID string) (store.Project, error)
	ListCostItems(ctx context.Context, projectID string) ([]store.CostItem, error)
	ListAddons(ctx context.Context, projectID string) ([]store.Addon, error)
	ListCheckpoints(ctx context.Context, projectID string) ([]store.Checkpoint, error)
	ListPhases(ctx context.Context, projectID string) ([]store.Phase, error)
	ListActivities(ctx context.Context, projectID string) ([]store.Activity, error)
	// Import replaces everything stored for the snapshot's project.
	Import(ctx context.Context, snapshot store.Snapshot) error
	// InTransaction runs fn so that every call made with its context shares
	// one transaction.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type projectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) (ProjectStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &projectStore{db: db}, nil
}

func (s *projectStore) conn(ctx context.Context) querier {
	if tx := GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func closeRows(ctx context.Context, rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msgf("failed to close %s rows", what)
	}
}

func (s *projectStore) GetProject(ctx context.Context, projectID string) (store.Project, error) {
	query := `
		SELECT id, name, COALESCE(customer, ''), COALESCE(address, ''), COALESCE(reference, ''),
			markup_percent, COALESCE(notes, ''), COALESCE(schedule_units, 0), created_at
		FROM projects
		WHERE id = $1`

	var p store.Project
	err := s.conn(ctx).QueryRowContext(ctx, query, projectID).Scan(
		&p.ID, &p.Name, &p.Customer, &p.Address, &p.Reference,
		&p.MarkupPercent, &p.Notes, &p.ScheduleUnits, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Project{}, fmt.Errorf("%w: %s", ErrNotFound, projectID)
	}
	if err != nil {
		return store.Project{}, fmt.Errorf("project query failed: %w", err)
	}
	return p, nil
}

func (s *projectStore) ListCostItems(ctx context.Context, projectID string) ([]store.CostItem, error) {
	query := `
		SELECT id, project_id, position, category, description, quantity, COALESCE(unit, ''),
			hours, unit_price, subtotal, COALESCE(uncertainty, ''), tax_deduction_eligible
		FROM cost_items
		WHERE project_id = $1
		ORDER BY position`

	rows, err := s.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("cost items query failed: %w", err)
	}
	defer closeRows(ctx, rows, "cost items")

	var items []store.CostItem
	for rows.Next() {
		var i store.CostItem
		if err := rows.Scan(
			&i.ID, &i.ProjectID, &i.Position, &i.Category, &i.Description, &i.Quantity, &i.Unit,
			&i.Hours, &i.UnitPrice, &i.Subtotal, &i.Uncertainty, &i.TaxDeductionEligible,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cost item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (s *projectStore) ListAddons(ctx context.Context, projectID string) ([]store.Addon, error) {
	query := `
		SELECT id, project_id, position, name, price, selected
		FROM addons
		WHERE project_id = $1
		ORDER BY position`

	rows, err := s.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("addons query failed: %w", err)
	}
	defer closeRows(ctx, rows, "addons")

	var addons []store.Addon
	for rows.Next() {
		var a store.Addon
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Position, &a.Name, &a.Price, &a.Selected); err != nil {
			return nil, fmt.Errorf("failed to scan addon: %w", err)
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

func (s *projectStore) ListCheckpoints(ctx context.Context, projectID string) ([]store.Checkpoint, error) {
	query := `
		SELECT id, project_id, position, text, required, COALESCE(result, ''), COALESCE(comment, '')
		FROM checkpoints
		WHERE project_id = $1
		ORDER BY position`

	rows, err := s.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("checkpoints query failed: %w", err)
	}
	defer closeRows(ctx, rows, "checkpoints")

	var checkpoints []store.Checkpoint
	for rows.Next() {
		var c store.Checkpoint
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Position, &c.Text, &c.Required, &c.Result, &c.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, c)
	}
	return checkpoints, rows.Err()
}

func (s *projectStore) ListPhases(ctx context.Context, projectID string) ([]store.Phase, error) {
	query := `
		SELECT id, project_id, position, name, start_unit, duration_units,
			COALESCE(color_key, ''), COALESCE(parallel_with, '')
		FROM phases
		WHERE project_id = $1
		ORDER BY position`

	rows, err := s.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("phases query failed: %w", err)
	}
	defer closeRows(ctx, rows, "phases")

	var phases []store.Phase
	for rows.Next() {
		var p store.Phase
		if err := rows.Scan(
			&p.ID, &p.ProjectID, &p.Position, &p.Name, &p.StartUnit, &p.DurationUnits, &p.ColorKey, &p.ParallelWith,
		); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (s *projectStore) ListActivities(ctx context.Context, projectID string) ([]store.Activity, error) {
	query := `
		SELECT id, project_id, activity_date, description, hours, COALESCE(crew, '')
		FROM activities
		WHERE project_id = $1
		ORDER BY activity_date, id`

	rows, err := s.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("activities query failed: %w", err)
	}
	defer closeRows(ctx, rows, "activities")

	var activities []store.Activity
	for rows.Next() {
		var a store.Activity
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Date, &a.Description, &a.Hours, &a.Crew); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

var childTables = []string{"cost_items", "addons", "checkpoints", "phases", "activities"}

func (s *projectStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return inTransaction(ctx, s.db, fn)
}

func (s *projectStore) Import(ctx context.Context, snapshot store.Snapshot) error {
	if snapshot.Project.ID == "" {
		return fmt.Errorf("project id is required")
	}
	return s.InTransaction(ctx, func(ctx context.Context) error {
		return s.write(ctx, snapshot)
	})
}

func (s *projectStore) write(ctx context.Context, snap store.Snapshot) error {
	q := s.conn(ctx)
	id := snap.Project.ID
	for _, table := range childTables {
		if _, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = $1", table), id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id); err != nil {
		return fmt.Errorf("clear project: %w", err)
	}

	p := snap.Project
	if _, err := q.ExecContext(ctx, `
		INSERT INTO projects (id, name, customer, address, reference, markup_percent, notes, schedule_units, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Customer, p.Address, p.Reference, p.MarkupPercent, p.Notes, p.ScheduleUnits, p.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	for _, i := range snap.Items {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO cost_items (id, project_id, position, category, description, quantity, unit,
				hours, unit_price, subtotal, uncertainty, tax_deduction_eligible)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			i.ID, id, i.Position, i.Category, i.Description, i.Quantity, i.Unit,
			i.Hours, i.UnitPrice, i.Subtotal, i.Uncertainty, i.TaxDeductionEligible,
		); err != nil {
			return fmt.Errorf("insert cost item %s: %w", i.ID, err)
		}
	}
	for _, a := range snap.Addons {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO addons (id, project_id, position, name, price, selected)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, id, a.Position, a.Name, a.Price, a.Selected,
		); err != nil {
			return fmt.Errorf("insert addon %s: %w", a.ID, err)
		}
	}
	for _, c := range snap.Checkpoints {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO checkpoints (id, project_id, position, text, required, result, comment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, id, c.Position, c.Text, c.Required, c.Result, c.Comment,
		); err != nil {
			return fmt.Errorf("insert checkpoint %s: %w", c.ID, err)
		}
	}
	for _, ph := range snap.Phases {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO phases (id, project_id, position, name, start_unit, duration_units, color_key, parallel_with)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ph.ID, id, ph.Position, ph.Name, ph.StartUnit, ph.DurationUnits, ph.ColorKey, ph.ParallelWith,
		); err != nil {
			return fmt.Errorf("insert phase %s: %w", ph.ID, err)
		}
	}
	for _, a := range snap.Activities {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO activities (id, project_id, activity_date, description, hours, crew)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, id, a.Date, a.Description, a.Hours, a.Crew,
		); err != nil {
			return fmt.Errorf("insert activity %s: %w", a.ID, err)
		}
	}
	return nil
}
