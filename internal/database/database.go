// Package database opens the backend connections a roster store needs.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// retryDelay is the pause between connection attempts.
var retryDelay = 2 * time.Second

// NewPostgres opens and validates a PostgreSQL handle through the pgx
// driver. It retries to accommodate containers starting up.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, attempts int, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	err = retry(ctx, attempts, log, "postgres", func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// NewRedis creates a Redis client and waits until it answers PING.
func NewRedis(ctx context.Context, cfg config.RedisConfig, attempts int, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	err := retry(ctx, attempts, log, "redis", func() error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

func retry(ctx context.Context, attempts int, log *zap.Logger, what string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Warn("connect attempt failed, retrying",
			zap.String("backend", what),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", retryDelay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return err
}
