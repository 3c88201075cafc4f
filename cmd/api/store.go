package main

import (
	"context"
	"fmt"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/repository"
	"inventory/internal/server"

	"go.uber.org/zap"
)

// openStore connects the backend selected by DB_DRIVER and prepares its schema
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (server.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			return server.Store{}, err
		}

		version, err := database.RunMigrations(db, cfg.Database.MigrationsDir, log)
		if err != nil {
			db.Close()
			return server.Store{}, err
		}
		log.Info("Database migrations completed", zap.Int64("version", version))

		return server.Store{
			Driver:     config.DriverPostgres,
			Categories: repository.NewCategoryRepository(db),
			Products:   repository.NewProductRepository(db),
			Ping:       db.PingContext,
			Close:      db.Close,
		}, nil

	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return server.Store{}, err
		}

		db := client.Database(cfg.Mongo.Database)
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			client.Disconnect(context.Background())
			return server.Store{}, err
		}

		return server.Store{
			Driver:     config.DriverMongo,
			Categories: repository.NewMongoCategoryRepository(db),
			Products:   repository.NewMongoProductRepository(db),
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			Close: func() error {
				return client.Disconnect(context.Background())
			},
		}, nil

	case config.DriverMemory:
		log.Warn("Using the in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		return server.Store{
			Driver:     config.DriverMemory,
			Categories: store.Categories(),
			Products:   store.Products(),
			Ping:       store.Ping,
		}, nil

	default:
		return server.Store{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}
}
