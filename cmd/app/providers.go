package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/opening-hours/internal/domain/hours"
	"github.com/yanqian/opening-hours/internal/infra/config"
	"github.com/yanqian/opening-hours/internal/infra/locationrepo"
	"github.com/yanqian/opening-hours/internal/infra/statuscache"
)

func provideHoursConfig(cfg *config.Config) hours.Config {
	return hours.Config{
		CacheTTL: cfg.Hours.CacheTTL,
	}
}

// provideLocationRepository prefers Postgres when a DSN is configured and reachable; configured
// locations are then written through to the database. Any Postgres failure falls back to memory.
func provideLocationRepository(cfg *config.Config, logger *slog.Logger) (hours.LocationRepository, error) {
	locations, err := cfg.BuildLocations()
	if err != nil {
		return nil, err
	}
	fallback := locationrepo.NewMemoryRepository(locations)

	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using configured locations", "locations", len(locations))
		return fallback, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using configured locations", "error", err)
		return fallback, nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using configured locations", "error", err)
		return fallback, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using configured locations", "error", err)
		pool.Close()
		return fallback, nil
	}

	if cfg.Postgres.Migrate {
		applied, err := locationrepo.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("location migrations applied", "count", applied)
	}

	repo := locationrepo.NewPostgresRepository(pool, logger)
	syncLocations(ctx, repo, locations, logger)
	logger.Info("postgres location repository enabled")
	return repo, nil
}

type locationSaver interface {
	Save(ctx context.Context, slug, name, timezone string, entries []hours.DayHours) error
}

// syncLocations writes normalized configured locations through to storage; failures are logged per location.
func syncLocations(ctx context.Context, store locationSaver, locations []hours.Location, logger *slog.Logger) {
	for _, loc := range locations {
		if err := store.Save(ctx, loc.Slug, loc.Name, loc.Timezone, loc.Schedule.Entries()); err != nil {
			logger.Error("failed to sync configured location", "slug", loc.Slug, "error", err)
		}
	}
}

func provideStatusCache(cfg *config.Config, logger *slog.Logger) hours.StatusCache {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return statuscache.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return statuscache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("valkey status cache enabled", "addr", cfg.Valkey.Addr)
			return statuscache.NewValkeyCache(client, cfg.Valkey.Prefix)
		}
	}
	return statuscache.NewMemoryCache()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}
