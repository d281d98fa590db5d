package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init opens the booking database. driver is "sqlite" for a single-site
// install or "pgx" for Postgres.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		dir := filepath.Dir(strings.SplitN(connection, "?", 2)[0])
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create booking data directory: %w", err)
		}
		connection = sqliteDSN(connection)
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open booking database (%s): %w", driver, err)
	}

	maxOpen, maxIdle := poolLimits(driver)
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = db.Ping()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("booking database not reachable (%s): %w", driver, err)
	}

	slog.Info("database connected", "driver", driver, "max_open_conns", maxOpen)
	return db, nil
}

// sqliteDSN adds a busy timeout when the DSN has none. The cleanup jobs
// write while requests do, and without it one side fails with SQLITE_BUSY.
func sqliteDSN(connection string) string {
	if strings.Contains(connection, "busy_timeout") {
		return connection
	}
	sep := "?"
	if strings.Contains(connection, "?") {
		sep = "&"
	}
	return connection + sep + "_pragma=busy_timeout(5000)"
}

// SQLite has a single writer, so a big pool only queues on the lock.
func poolLimits(driver string) (maxOpen, maxIdle int) {
	if driver == "sqlite" {
		return 8, 2
	}
	return 25, 5
}

func Close(db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
