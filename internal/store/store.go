package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSchemaMissing reports a reachable database whose collection tables have
// not been created yet.
var ErrSchemaMissing = errors.New("collection schema not migrated")

// Options controls the pool and whether the schema is brought up on open.
type Options struct {
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	// Migrate applies the embedded migrations right after connecting.
	Migrate bool
	Logger  *slog.Logger
}

// Store owns the Postgres pool shared by the collection repositories.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	opts   Options
}

// New connects to dbURL, pings it and, with opts.Migrate, applies the schema.
func New(ctx context.Context, dbURL string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	cfg, err := poolConfig(dbURL, opts)
	if err != nil {
		return nil, err
	}

	connCtx, cancel := withTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{pool: pool, logger: logger, opts: opts}
	if opts.Migrate {
		if err := s.Migrate(connCtx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logger.Info("collection store ready",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
		"stmt_cache", opts.StatementCacheCapacity,
		"migrated", opts.Migrate,
	)
	return s, nil
}

func poolConfig(dbURL string, opts Options) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	// Negative disables the statement cache (CLI one-shots).
	if opts.StatementCacheCapacity >= 0 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.ConnConfig.StatementCacheCapacity = opts.StatementCacheCapacity
	}
	return cfg, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// Close releases database resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.logger.Info("closing connection pool")
	s.pool.Close()
}

// HealthCheck pings the database and confirms the owned and figures tables
// exist, returning ErrSchemaMissing when they do not.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx, cancel := withTimeout(ctx, s.opts.ConnTimeout)
	defer cancel()

	var ready bool
	err := s.pool.QueryRow(checkCtx,
		`SELECT to_regclass('public.figures') IS NOT NULL AND to_regclass('public.owned') IS NOT NULL`,
	).Scan(&ready)
	if err != nil {
		return err
	}
	if !ready {
		return ErrSchemaMissing
	}
	return nil
}

// Pool exposes the underlying pgx pool for repositories.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// PoolStats is the subset of pgxpool statistics reported by /healthz.
type PoolStats struct {
	TotalConns    int32 `json:"totalConns"`
	IdleConns     int32 `json:"idleConns"`
	AcquiredConns int32 `json:"acquiredConns"`
	MaxConns      int32 `json:"maxConns"`
}

// Stats snapshots pool usage. A nil store reports zeros.
func (s *Store) Stats() PoolStats {
	if s == nil || s.pool == nil {
		return PoolStats{}
	}
	st := s.pool.Stat()
	return PoolStats{
		TotalConns:    st.TotalConns(),
		IdleConns:     st.IdleConns(),
		AcquiredConns: st.AcquiredConns(),
		MaxConns:      st.MaxConns(),
	}
}
