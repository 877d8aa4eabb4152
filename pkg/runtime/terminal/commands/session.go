package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/estimator/pkg/adapters"
	"github.com/de-tools/estimator/pkg/config"
	"github.com/de-tools/estimator/pkg/logging"
	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/runtime/app"
	"github.com/spf13/cobra"
)

// open loads the configuration, attaches a logger writing to stderr and wires
// the documents service.
func open(cmd *cobra.Command, configPath string, opts app.Options) (context.Context, *app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	ctx := logger.WithContext(cmd.Context())

	a, err := app.New(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}

func closeApp(cmd *cobra.Command, a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}

// loadBundle reads a bundle file and resolves its kind. A non-empty override
// replaces the kind from the file.
func loadBundle(path, override string) (domain.Kind, domain.Records, error) {
	file, err := api.LoadBundleFile(path)
	if err != nil {
		return "", domain.Records{}, err
	}
	records, err := adapters.MapBundleFileToRecords(*file)
	if err != nil {
		return "", domain.Records{}, fmt.Errorf("invalid bundle %s: %w", path, err)
	}

	name := file.Kind
	if override != "" {
		name = override
	}
	if name == "" {
		return "", records, nil
	}
	kind, err := domain.ParseKind(name)
	if err != nil {
		return "", domain.Records{}, err
	}
	return kind, records, nil
}
