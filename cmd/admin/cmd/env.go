package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/app"
	"github.com/littlesteps/booking/internal/cache"
	"github.com/littlesteps/booking/internal/config"
	"github.com/littlesteps/booking/internal/db"
	"github.com/littlesteps/booking/internal/logger"
)

// openDB connects without migrating.
func openDB() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(logger.Options{IsDev: cfg.IsDevelopment()})

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

// withApp runs fn against a migrated database. Media storage is left
// out; none of the commands touch it.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, database, err := openDB()
	if err != nil {
		return err
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return err
	}

	// shared cache so running servers see settings changes
	c, err := cache.New(cfg.RedisURL, time.Minute)
	if err != nil {
		_ = db.Close(database)
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	a := app.NewWithDB(cfg, database, c, nil)
	defer a.Close()

	return fn(ctx, a)
}
