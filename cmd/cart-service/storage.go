package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sessioncart/internal/config"
	"github.com/nikolayk812/sessioncart/internal/logger"
	"github.com/nikolayk812/sessioncart/internal/migrations"
	"github.com/nikolayk812/sessioncart/internal/port"
	"github.com/nikolayk812/sessioncart/internal/repository"
	"github.com/redis/go-redis/v9"
)

// openRepository builds the CartRepository selected by cfg.Storage.Driver.
// The returned func releases its connections.
func openRepository(ctx context.Context, cfg *config.Config, logg *logger.Logger) (port.CartRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return repository.NewMemoryCart(), func() {}, nil

	case config.StoragePostgres:
		if cfg.Postgres.AutoMigrate {
			if err := migrations.Up(ctx, cfg.Postgres.DSN, logg); err != nil {
				return nil, nil, fmt.Errorf("migrations.Up: %w", err)
			}
		}

		poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
		}
		if cfg.Postgres.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Postgres.MaxConns
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}

		repo, err := repository.NewPostgresCart(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return repo, pool.Close, nil

	case config.StorageRedis:
		opts, err := redisOptions(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("client.Ping: %w", err), client.Close())
		}

		repo, err := repository.NewRedisCart(client, cfg.Redis.CartTTL)
		if err != nil {
			return nil, nil, errors.Join(err, client.Close())
		}

		closeFn := func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis client", err)
			}
		}

		return repo, closeFn, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// redisOptions prefers the URL form and fills unset pool settings from cfg.
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}

	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("redis.ParseURL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	return opts, nil
}
