// Package app wires configuration into a ready documents service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/estimator/pkg/assembler"
	"github.com/de-tools/estimator/pkg/config"
	"github.com/de-tools/estimator/pkg/objectstore"
	"github.com/de-tools/estimator/pkg/services/documents"
	"github.com/de-tools/estimator/pkg/store/postgres"
	sqlstore "github.com/de-tools/estimator/pkg/store/sql"
	"github.com/de-tools/estimator/pkg/store/sqlite"
	"github.com/rs/zerolog"
)

// Options select the optional backends. Rendering alone needs neither.
type Options struct {
	Store   bool
	Objects bool
	Metrics documents.MetricsRecorder
	Author  string
}

type App struct {
	Config    *config.Config
	Engine    assembler.Config
	DB        *sql.DB
	Documents documents.Service
}

// OpenDB opens the configured SQL driver and boots its schema.
func OpenDB(cfg config.StoreConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return sqlite.NewDB(sqlite.Settings{Path: cfg.DSN})
	case "postgres":
		return postgres.NewDB(postgres.Settings{DSN: cfg.DSN})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ObjectSettings maps the objects section onto backend settings.
func ObjectSettings(cfg config.ObjectsConfig) objectstore.Settings {
	return objectstore.Settings{
		Dir:             cfg.Dir,
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Profile:         cfg.Profile,
		Endpoint:        cfg.Endpoint,
		Prefix:          cfg.Prefix,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		PathStyle:       cfg.PathStyle,
	}
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	engine, err := cfg.Engine()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg, Engine: engine}
	deps := documents.Dependencies{
		Assembler: assembler.NewAssembler(engine),
		Pricing:   engine.Pricing,
		Metrics:   opts.Metrics,
		Author:    opts.Author,
	}

	if opts.Store {
		a.DB, err = OpenDB(cfg.Store)
		if err != nil {
			return nil, err
		}
		deps.Projects, err = sqlstore.NewProjectStore(a.DB)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create project store: %w", err)
		}
	}

	if opts.Objects {
		deps.Objects, err = objectstore.New(ctx, cfg.Objects.Backend, ObjectSettings(cfg.Objects))
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
	}

	zerolog.Ctx(ctx).Debug().
		Bool("store", opts.Store).
		Str("driver", cfg.Store.Driver).
		Bool("objects", opts.Objects).
		Str("backend", cfg.Objects.Backend).
		Msg("documents service configured")

	a.Documents = documents.NewService(deps)
	return a, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
