package container

import (
	"context"
	"fmt"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/metrics"
	"catalog/harvester/internal/normalize"
	"catalog/harvester/internal/parser"
	"catalog/harvester/internal/repository"
	"catalog/harvester/internal/server"
	"catalog/harvester/internal/service"
	"catalog/harvester/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config          *config.Config
	BrandRepository repository.BrandRepository
	TrendRepository repository.TrendRepository
	StatsRepository repository.StatsRepository
	StateManager    state.StateManager

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := repository.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	container.db = db
	log.Info("✅ Connected to PostgreSQL successfully")

	container.BrandRepository = repository.NewBrandRepository(db)
	container.TrendRepository = repository.NewTrendRepository(db)
	container.StatsRepository = repository.NewStatsRepository(db)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			db.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.StateManager = state.NewRedisStateManager(rdb, cfg.Redis.KeyPrefix)
	} else {
		container.StateManager = state.NewMemoryStateManager()
	}

	launch := newBrowserLauncher(cfg.Browser).Launch

	catalogParser := parser.NewCatalogParser(parser.BrandSelectors{
		Title:     cfg.Brands.TitleSelector,
		Category:  cfg.Brands.CategorySelector,
		Image:     cfg.Brands.ImageSelector,
		Chip:      cfg.Brands.ChipSelector,
		ChipLabel: cfg.Brands.ChipLabel,
	}, cfg.Trends.HeadlineSelector)

	container.Service = service.NewService(
		container.StateManager,
		service.NewBrandPipeline(
			cfg.Brands,
			launch,
			catalogParser,
			normalize.NewFuzzyMatcher(cfg.Normalizer.MinScore),
			container.BrandRepository,
		),
		service.NewTrendPipeline(
			cfg.Trends,
			launch,
			catalogParser,
			container.TrendRepository,
		),
	)

	return container, nil
}

// Server builds the read API over the container's stores.
func (c *Container) Server() *server.Server {
	return server.New(c.Config.Server.Addr, server.Dependencies{
		Brands:   c.BrandRepository,
		Trends:   c.TrendRepository,
		Runs:     c.StateManager,
		Registry: metrics.NewRegistry(c.StatsRepository),
	})
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
