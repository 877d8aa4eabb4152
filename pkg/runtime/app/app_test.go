package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/de-tools/estimator/pkg/config"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_UnknownDriver(t *testing.T) {
	_, err := OpenDB(config.StoreConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNew_RenderOnly(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.DB)

	q := decimal.NewFromInt(2)
	totals, err := a.Documents.Totals(context.Background(), domain.KindEstimate, domain.Records{
		Items: []domain.LineItem{{Category: domain.CategoryMaterial, Quantity: &q, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "250", totals.TotalInclTax.String())
}

func TestNew_StoreAndObjects(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Store.DSN = filepath.Join(dir, "estimator.db")
	cfg.Objects.Dir = filepath.Join(dir, "documents")

	a, err := New(context.Background(), cfg, Options{Store: true, Objects: true})
	require.NoError(t, err)
	require.NotNil(t, a.DB)

	stored, err := a.Documents.Import(context.Background(), domain.Records{
		Project:    domain.Project{Name: "Villa Ågren"},
		Phases:     []domain.Phase{{Name: "Rivning", StartUnit: 1, DurationUnits: 2}},
		TotalUnits: 6,
	})
	require.NoError(t, err)

	pub, err := a.Documents.Publish(context.Background(), stored.Project.ID, domain.KindSchedule)
	require.NoError(t, err)
	assert.Equal(t, stored.Project.ID, pub.Receipt.ProjectID)
	assert.FileExists(t, filepath.Join(cfg.Objects.Dir, filepath.FromSlash(pub.Receipt.Key)))
	assert.NoError(t, a.Close())
}

func TestNew_InvalidEngine(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Pricing.TaxPercent = "-1"

	_, err = New(context.Background(), cfg, Options{})
	assert.ErrorContains(t, err, "invalid configuration")
}
