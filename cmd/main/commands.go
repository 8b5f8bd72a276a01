package main

import (
	"context"
	"errors"
	"fmt"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/container"
	"catalog/harvester/internal/domain"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "harvester",
	Short:         "harvester scrapes the fashion catalog into PostgreSQL and serves it back.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level, err := log.ParseLevel(loaded.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", loaded.Log.Level, err)
		}
		log.SetLevel(level)

		cfg = loaded
		log.Info("Configuration loaded successfully")
		return nil
	},
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Scrapes the brand directory and replaces brandData and brandCategories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipelines(cmd.Context(), domain.PipelineBrands)
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Scrapes the just-in feed and replaces trendData.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipelines(cmd.Context(), domain.PipelineTrends)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Runs the brands and trends pipelines one after the other.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipelines(cmd.Context(), domain.PipelineNames...)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the harvested tables over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default ./config.yaml if present)")
	rootCmd.AddCommand(brandsCmd, trendsCmd, allCmd, serveCmd)
}

func runPipelines(ctx context.Context, names ...domain.PipelineName) error {
	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	if err := app.Service.Run(ctx, names...); err != nil {
		return err
	}

	log.Info("Harvest finished successfully")
	return nil
}

func serve(ctx context.Context) error {
	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	srv := app.Server()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
