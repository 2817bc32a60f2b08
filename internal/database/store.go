package database

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"go.uber.org/zap"
)

// OpenRosterStore builds the store selected by cfg.Roster.Driver, seeded
// with seed. The returned close func releases backend connections.
func OpenRosterStore(ctx context.Context, cfg *config.Config, seed model.Roster, log *zap.Logger) (repository.RosterStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Roster.Driver {
	case config.DriverMemory:
		return repository.NewMemoryStore(seed), noop, nil

	case config.DriverPostgres:
		db, err := NewPostgres(ctx, cfg.Database.Postgres, cfg.Database.ConnectRetries, log)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(db, seed)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := store.SeedIfEmpty(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.DriverRedis:
		rdb, err := NewRedis(ctx, cfg.Database.Redis, cfg.Database.ConnectRetries, log)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewRedisStore(rdb, cfg.Database.Redis.KeyPrefix, seed)
		if err := store.SeedIfEmpty(ctx); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		return store, rdb.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown roster driver %q", cfg.Roster.Driver)
}
