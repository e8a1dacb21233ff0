// Package sqlstore implements the relational repositories on top of bun.
//
// SQLite, PostgreSQL and MySQL are supported. Foreign keys and unique
// constraints declared by Migrate carry the integrity rules: a loft that
// still houses birds cannot be deleted, and a task has at most one
// completion per day.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/config"
)

// Store owns the bun database handle shared by all repositories.
type Store struct {
	db     *bun.DB
	logger *zap.Logger
}

// Open connects to the configured database, verifies the connection and installs
// the query hooks.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, db, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		// In-memory databases live as long as their connection, and the
		// foreign_keys pragma is per connection: keep exactly one.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	if cfg.QueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	if cfg.SlowQueryTime > 0 {
		db.AddQueryHook(newSlowQueryHook(cfg.SlowQueryTime, logger))
	}

	logger.Info("database connected", zap.String("driver", cfg.Driver))
	return &Store{db: db, logger: logger}, nil
}

func connect(cfg config.DatabaseConfig) (*sql.DB, *bun.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		sqlDB, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlDB, bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case config.DriverPostgres:
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return sqlDB, bun.NewDB(sqlDB, pgdialect.New()), nil
	case config.DriverMySQL:
		sqlDB, err := sql.Open("mysql", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		return sqlDB, bun.NewDB(sqlDB, mysqldialect.New()), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// DB exposes the underlying bun handle.
func (s *Store) DB() *bun.DB { return s.db }

// Ping checks database reachability, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }
