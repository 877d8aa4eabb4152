package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estimator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "25", cfg.Pricing.TaxPercent)
	assert.True(t, cfg.Pricing.ShowNetAfterDeduction)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "fs", cfg.Objects.Backend)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "127.0.0.1:8080", cfg.Address())

	engine, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, layout.A4(), engine.Page)
	assert.True(t, engine.Pricing.TaxPercent.Equal(decimal.NewFromInt(25)))
	assert.True(t, engine.Pricing.DeductionPercent.Equal(decimal.NewFromInt(30)))
	assert.Empty(t, engine.Pricing.AddonsAfterTax)
	assert.Equal(t, "kr", engine.Locale.CurrencySuffix)
	require.NotNil(t, engine.Measurer)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `page:
  margin_left: 20
pricing:
  tax_percent: "12.5"
  addons_after_tax: [schedule, project-report]
  show_net_after_deduction: false
locale:
  currency_suffix: SEK
store:
  driver: postgres
  dsn: postgres://estimator@localhost/estimator
objects:
  backend: s3
  bucket: documents
  path_style: true
server:
  port: 9090
  shutdown_timeout: 3s
log:
  level: debug
  format: console`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "documents", cfg.Objects.Bucket)
	assert.True(t, cfg.Objects.PathStyle)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "console", cfg.Log.Format)

	engine, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, 20.0, engine.Page.MarginLeft)
	assert.Equal(t, 297.0, engine.Page.Height)
	assert.True(t, engine.Pricing.TaxPercent.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, engine.Pricing.AddonsAfterTax[domain.KindSchedule])
	assert.True(t, engine.Pricing.AddonsAfterTax[domain.KindProjectReport])
	assert.False(t, engine.Pricing.AddonsAfterTax[domain.KindEstimate])
	assert.False(t, engine.Pricing.ShowNetAfterDeduction)
	assert.Equal(t, "SEK", engine.Locale.CurrencySuffix)
	assert.Equal(t, " ", engine.Locale.ThousandsSeparator)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ESTIMATOR_SERVER_PORT", "7070")
	t.Setenv("ESTIMATOR_PRICING_DEDUCTION_PERCENT", "50")
	t.Setenv("ESTIMATOR_OBJECTS_DIR", "/var/lib/estimator")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/var/lib/estimator", cfg.Objects.Dir)

	engine, err := cfg.Engine()
	require.NoError(t, err)
	assert.True(t, engine.Pricing.DeductionPercent.Equal(decimal.NewFromInt(50)))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: port: 1: bad"))
		assert.Error(t, err)
	})
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"invalid tax", func(c *Config) { c.Pricing.TaxPercent = "abc" }, "pricing.tax_percent"},
		{"negative deduction", func(c *Config) { c.Pricing.DeductionPercent = "-1" }, "must not be negative"},
		{"unknown kind", func(c *Config) { c.Pricing.AddonsAfterTax = []string{"invoice"} }, "addons_after_tax"},
		{"margins", func(c *Config) { c.Page.MarginLeft = 200 }, "no room"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			_, err = cfg.Engine()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
