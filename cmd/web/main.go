package main

import (
	"fmt"
	"os"

	"github.com/de-tools/estimator/pkg/config"
	"github.com/de-tools/estimator/pkg/logging"
	"github.com/de-tools/estimator/pkg/metrics"
	"github.com/de-tools/estimator/pkg/runtime/app"
	"github.com/de-tools/estimator/pkg/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the estimator",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (ESTIMATOR_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	a, err := app.New(ctx, cfg, app.Options{
		Store:   true,
		Objects: true,
		Metrics: metrics.NewDocumentMetrics(),
		Author:  "estimator",
	})
	if err != nil {
		return fmt.Errorf("failed to start documents service: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close resources")
		}
	}()

	logger.Info().
		Str("store", cfg.Store.Driver).
		Str("objects", cfg.Objects.Backend).
		Msg("configuration loaded")

	web := server.NewWebAPI(server.Config{
		Addr:            cfg.Address(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Documents: a.Documents,
			Logger:    logger,
		},
	})
	return web.Start()
}
