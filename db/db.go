// Package db provides database connectivity and migration functionality for
// the marketdash backend. It establishes the pgx connection pool used by the
// credential store and the price-bar sink, and runs schema migrations.
//
// The pool is constructed once at startup and injected into the packages that
// need it; nothing in the application re-derives a connection from ambient
// globals.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres migration driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// migration source
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver used by migrate's postgres driver

	"github.com/user/marketdash-go/apperror"
)

// NewPool establishes a PostgreSQL connection pool from a connection string.
//
// The pool is created even when the database is unreachable: connections are
// established lazily, so a database that comes up later is picked up without
// a restart and the health endpoint can report "disconnected" in the
// meantime. Only a malformed connection string is an error.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing database connection string", err)
	}

	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating connection pool", err)
	}
	return pool, nil
}

// Ping verifies the pool can reach the database.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return apperror.NewDatabaseError("error connecting to the database", err)
	}
	return nil
}

// RunMigrations applies any pending database migrations from the specified
// migrations directory. It uses golang-migrate to handle migration
// versioning and execution; migrate's postgres driver takes the DSN directly.
func RunMigrations(databaseURL string, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return apperror.NewDatabaseError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				fmt.Printf("Warning: error closing migration source: %v\n", srcErr)
			}
			if dbErr != nil {
				fmt.Printf("Warning: error closing migration database instance: %v\n", dbErr)
			}
		}
	}()

	// migrate.ErrNoChange means the schema is already current.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}
	return nil
}
