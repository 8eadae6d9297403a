package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/materials/internal/config"
	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/database"
	"github.com/JonMunkholm/materials/internal/store"
)

// openPool parses the database URL, applies pool settings and verifies the
// connection.
func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

// openStore returns the configured store and a function releasing it.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (core.Store, func(), error) {
	if strings.EqualFold(cfg.Driver, config.DriverMemory) {
		slog.Warn("using in-memory store, data is lost on exit")
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

// openService opens the store and builds the catalog service over it.
func openService(ctx context.Context, cfg *config.Config) (*core.Service, func(), error) {
	st, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	service, err := core.NewService(st, cfg)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}
	return service, closeStore, nil
}
