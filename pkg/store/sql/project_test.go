package sql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/estimator/pkg/models/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store ProjectStore
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewProjectStore(db)
	require.NoError(t, err)
	return &fixture{db: db, mock: mock, store: s}
}

func TestNewProjectStore_NilDB(t *testing.T) {
	_, err := NewProjectStore(nil)
	assert.Error(t, err)
}

func TestProjectStore_GetProject(t *testing.T) {
	created := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		rows := sqlmock.NewRows([]string{
			"id", "name", "customer", "address", "reference", "markup_percent", "notes", "schedule_units", "created_at",
		}).AddRow("p-1", "Villa Ågren", "Eva Ågren", "Björkvägen 3", "", "15", "", 8, created)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).WithArgs("p-1").WillReturnRows(rows)

		p, err := f.store.GetProject(context.Background(), "p-1")
		require.NoError(t, err)
		assert.Equal(t, "Villa Ågren", p.Name)
		assert.True(t, p.MarkupPercent.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, 8, p.ScheduleUnits)
		assert.Equal(t, created, p.CreatedAt)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err := f.store.GetProject(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).WillReturnError(errors.New("connection reset"))

		_, err := f.store.GetProject(context.Background(), "p-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestProjectStore_ListCostItems(t *testing.T) {
	f := setupFixture(t)
	rows := sqlmock.NewRows([]string{
		"id", "project_id", "position", "category", "description", "quantity", "unit",
		"hours", "unit_price", "subtotal", "uncertainty", "tax_deduction_eligible",
	}).
		AddRow("i-1", "p-1", 0, "labor", "Snickeri", nil, "tim", "10", "500", "5000", "", true).
		AddRow("i-2", "p-1", 1, "material", "Reglar", "20", "st", nil, "50", "1000", "low", false)
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM cost_items")).WithArgs("p-1").WillReturnRows(rows)

	items, err := f.store.ListCostItems(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.False(t, items[0].Quantity.Valid)
	assert.True(t, items[0].Hours.Valid)
	assert.True(t, items[0].Hours.Decimal.Equal(decimal.NewFromInt(10)))
	assert.True(t, items[0].TaxDeductionEligible)
	assert.True(t, items[1].Quantity.Decimal.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "low", items[1].Uncertainty)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestProjectStore_ListCostItems_ScanError(t *testing.T) {
	f := setupFixture(t)
	rows := sqlmock.NewRows([]string{
		"id", "project_id", "position", "category", "description", "quantity", "unit",
		"hours", "unit_price", "subtotal", "uncertainty", "tax_deduction_eligible",
	}).AddRow("i-1", "p-1", 0, "labor", "Snickeri", nil, "tim", "10", "not a number", "5000", "", true)
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM cost_items")).WillReturnRows(rows)

	_, err := f.store.ListCostItems(context.Background(), "p-1")
	assert.ErrorContains(t, err, "failed to scan cost item")
}

func TestProjectStore_ListOthers(t *testing.T) {
	ctx := context.Background()

	t.Run("addons", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM addons")).WithArgs("p-1").WillReturnRows(
			sqlmock.NewRows([]string{"id", "project_id", "position", "name", "price", "selected"}).
				AddRow("a-1", "p-1", 0, "Extra uttag", "800", true),
		)
		addons, err := f.store.ListAddons(ctx, "p-1")
		require.NoError(t, err)
		require.Len(t, addons, 1)
		assert.True(t, addons[0].Price.Equal(decimal.NewFromInt(800)))
		assert.True(t, addons[0].Selected)
	})

	t.Run("checkpoints", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM checkpoints")).WithArgs("p-1").WillReturnRows(
			sqlmock.NewRows([]string{"id", "project_id", "position", "text", "required", "result", "comment"}).
				AddRow("c-1", "p-1", 0, "Tätskikt", true, "deviation", "Fall saknas").
				AddRow("c-2", "p-1", 1, "Brunn", false, "", ""),
		)
		checkpoints, err := f.store.ListCheckpoints(ctx, "p-1")
		require.NoError(t, err)
		require.Len(t, checkpoints, 2)
		assert.Equal(t, "deviation", checkpoints[0].Result)
		assert.Empty(t, checkpoints[1].Result)
	})

	t.Run("phases", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM phases")).WithArgs("p-1").WillReturnRows(
			sqlmock.NewRows([]string{"id", "project_id", "position", "name", "start_unit", "duration_units", "color_key", "parallel_with"}).
				AddRow("ph-1", "p-1", 0, "Rivning", 1, 2, "red", ""),
		)
		phases, err := f.store.ListPhases(ctx, "p-1")
		require.NoError(t, err)
		require.Len(t, phases, 1)
		assert.Equal(t, 2, phases[0].DurationUnits)
	})

	t.Run("activities", func(t *testing.T) {
		f := setupFixture(t)
		day := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM activities")).WithArgs("p-1").WillReturnRows(
			sqlmock.NewRows([]string{"id", "project_id", "activity_date", "description", "hours", "crew"}).
				AddRow("d-1", "p-1", day, "Rivning kök", "7.5", "Anna, Olle"),
		)
		activities, err := f.store.ListActivities(ctx, "p-1")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, day, activities[0].Date)
		assert.True(t, activities[0].Hours.Valid)
	})
}

func snapshot() store.Snapshot {
	return store.Snapshot{
		Project: store.Project{ID: "p-1", Name: "Villa Ågren", MarkupPercent: decimal.NewFromInt(15)},
		Items: []store.CostItem{
			{ID: "i-1", ProjectID: "p-1", Category: "labor", Description: "Snickeri", UnitPrice: decimal.NewFromInt(500)},
		},
		Checkpoints: []store.Checkpoint{{ID: "c-1", ProjectID: "p-1", Text: "Tätskikt"}},
	}
}

func expectClear(mock sqlmock.Sqlmock) {
	for _, table := range childTables {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table)).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects")).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestProjectStore_Import(t *testing.T) {
	t.Run("commits own transaction", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		expectClear(f.mock)
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_items")).WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkpoints")).WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectCommit()

		require.NoError(t, f.store.Import(context.Background(), snapshot()))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		expectClear(f.mock)
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).WillReturnError(errors.New("constraint failed"))
		f.mock.ExpectRollback()

		err := f.store.Import(context.Background(), snapshot())
		assert.ErrorContains(t, err, "insert project")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("joins transaction from context", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		expectClear(f.mock)
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cost_items")).WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkpoints")).WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectCommit()

		tx, err := f.db.Begin()
		require.NoError(t, err)
		ctx := WithTransaction(context.Background(), tx)
		require.NoError(t, f.store.Import(ctx, snapshot()))
		require.NoError(t, tx.Commit())
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("requires project id", func(t *testing.T) {
		f := setupFixture(t)
		err := f.store.Import(context.Background(), store.Snapshot{})
		assert.Error(t, err)
	})
}

func TestGetTransaction_Empty(t *testing.T) {
	assert.Nil(t, GetTransaction(context.Background()))
}

func TestProjectStore_InTransaction(t *testing.T) {
	t.Run("reads share one transaction", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM addons")).WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "position", "name", "price", "selected"}))
		f.mock.ExpectQuery(regexp.QuoteMeta("FROM checkpoints")).WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "position", "text", "required", "result", "comment"}))
		f.mock.ExpectCommit()

		err := f.store.InTransaction(context.Background(), func(ctx context.Context) error {
			assert.NotNil(t, GetTransaction(ctx))
			if _, err := f.store.ListAddons(ctx, "p-1"); err != nil {
				return err
			}
			_, err := f.store.ListCheckpoints(ctx, "p-1")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		boom := errors.New("boom")
		err := f.store.InTransaction(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

		called := false
		err := f.store.InTransaction(context.Background(), func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorContains(t, err, "begin transaction")
		assert.False(t, called)
	})

	t.Run("commit failure", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		err := f.store.InTransaction(context.Background(), func(context.Context) error { return nil })
		assert.ErrorContains(t, err, "commit transaction")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("nested call joins outer transaction", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		err := f.store.InTransaction(context.Background(), func(ctx context.Context) error {
			outer := GetTransaction(ctx)
			return f.store.InTransaction(ctx, func(ctx context.Context) error {
				assert.Same(t, outer, GetTransaction(ctx))
				return nil
			})
		})
		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}
