// Package store is the Postgres access layer backing the Indexer stage
// (spec.md §4.5, §6). It is grounded on
// lueurxax-TelegramDigestBot/internal/storage/db.go: a pgxpool connection
// pool, retried connect, and goose migrations guarded by a Postgres
// advisory lock — adapted here to raw SQL queries (ratings.go's style)
// instead of sqlc-generated code, since hand-authoring a faithful sqlc
// query layer for four tables adds generated-code weight with no benefit
// over writing the SQL directly.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/iParadigms/indexer/store/migrations"
)

const (
	defaultMaxConns          = int32(10)
	defaultMinConns          = int32(2)
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultMaxConnLifetime   = time.Hour
	defaultHealthCheckPeriod = time.Minute

	maxConnectionRetries = 5
	connectionRetrySleep = time.Second

	migrationLockID = 8416 // arbitrary, stable advisory lock key for this module
)

// DB wraps a Postgres connection pool and implements indexer.Store.
type DB struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

// DSN builds a libpq-style connection string from the spec's discrete
// DB_HOST/DB_PORT/DB_USERNAME/DB_PASSWORD/DB_DATABASE env vars (spec.md
// §6).
func DSN(host string, port int, username, password, database string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		username, password, host, port, database,
	)
}

// New connects to dsn with retries, mirroring
// lueurxax-TelegramDigestBot/internal/storage/db.go's connectWithRetries:
// a bad/unreachable database at startup is fatal (spec.md §7), but a few
// retries absorb the ordinary "database container isn't listening yet"
// startup race.
func New(ctx context.Context, dsn string, logger zerolog.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}
	cfg.MaxConns = defaultMaxConns
	cfg.MinConns = defaultMinConns
	cfg.MaxConnIdleTime = defaultMaxConnIdleTime
	cfg.MaxConnLifetime = defaultMaxConnLifetime
	cfg.HealthCheckPeriod = defaultHealthCheckPeriod

	var pool *pgxpool.Pool
	for attempt := 0; attempt < maxConnectionRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return &DB{Pool: pool, Logger: logger.With().Str("component", "store").Logger()}, nil
			}
		}
		if pool != nil {
			pool.Close()
		}
		time.Sleep(connectionRetrySleep)
	}
	return nil, fmt.Errorf("connecting to database after %d attempts: %w", maxConnectionRetries, err)
}

// Close closes the underlying connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) { l.logger.Fatal().Msgf(format, v...) }
func (l *gooseLogger) Printf(format string, v ...interface{}) { l.logger.Info().Msgf(format, v...) }

// Migrate runs the embedded goose migrations under an advisory lock, so
// that if this binary is ever run with more than one process pointed at
// the same database, only one of them actually migrates (mirrors
// lueurxax-TelegramDigestBot/internal/storage/db.go's Migrate exactly).
func (db *DB) Migrate(ctx context.Context) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection for migration: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquiring migration advisory lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	dbSQL := stdlib.OpenDB(*db.Pool.Config().ConnConfig)
	defer dbSQL.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&gooseLogger{logger: db.Logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(dbSQL, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
