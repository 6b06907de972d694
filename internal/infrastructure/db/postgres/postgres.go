// Package postgres owns the connection pool and the repository
// implementations backed by it. The pool is constructed once at startup and
// injected; nothing in this package reaches for global state.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/infrastructure/db/postgres/migrations"
)

const (
	defaultMaxConns       = 20
	defaultIdleTimeout    = 30 * time.Second
	defaultConnectTimeout = 2 * time.Second
	defaultAcquireTimeout = 5 * time.Second
)

// Config captures the settings of the connection pool.
type Config struct {
	URL             string
	MaxConns        int32
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
	// AcquireTimeout bounds how long a caller may wait for a pooled
	// connection before the wait fails with ErrPoolExhausted.
	AcquireTimeout time.Duration
}

// DB wraps a pgx pool with bounded acquisition.
type DB struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// Connect builds the pool, verifies connectivity with a ping, and returns
// the wrapped handle. Defaults are applied for any zero setting.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.MaxConnIdleTime <= 0 {
		cfg.MaxConnIdleTime = defaultIdleTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = defaultAcquireTimeout
	}

	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres parse config: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &DB{pool: pool, acquireTimeout: cfg.AcquireTimeout}, nil
}

// Acquire checks a connection out of the pool, waiting at most the
// configured acquire timeout. The caller must Release it on every exit path.
func (db *DB) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx, cancel := context.WithTimeout(ctx, db.acquireTimeout)
	defer cancel()

	conn, err := db.pool.Acquire(actx)
	if err != nil {
		if actx.Err() != nil && ctx.Err() == nil {
			return nil, domain.ErrPoolExhausted
		}
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// Begin opens a transaction on a dedicated connection, with the same bounded
// acquisition wait as Acquire. The connection returns to the pool when the
// transaction commits or rolls back.
func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	actx, cancel := context.WithTimeout(ctx, db.acquireTimeout)
	defer cancel()

	tx, err := db.pool.Begin(actx)
	if err != nil {
		if actx.Err() != nil && ctx.Err() == nil {
			return nil, domain.ErrPoolExhausted
		}
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close drains the pool. Call once on shutdown.
func (db *DB) Close() {
	db.pool.Close()
}

// RunMigrations applies the embedded goose migrations. goose drives a stdlib
// *sql.DB, so a short-lived connection is opened through the pgx stdlib
// driver and closed when migrations finish.
func RunMigrations(ctx context.Context, url string) error {
	sqlDB, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("migrations open: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}

// pgErrorKind maps storage-level rejections onto the domain taxonomy. Errors
// that are not integrity violations pass through unchanged.
func pgErrorKind(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.TableName == "usuarios":
			return domain.ErrEmailTaken
		case strings.HasPrefix(pgErr.Code, "23"):
			return domain.ErrConstraintViolation
		}
	}
	return err
}
