package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Clark-Hu/figure-collector/db"
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ApplyMigrations runs every embedded up migration in order. The scripts are
// idempotent so re-running them is safe.
func ApplyMigrations(ctx context.Context, exec Execer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	migrations, err := db.UpMigrations()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(migrations) == 0 {
		return fmt.Errorf("no migration files found")
	}
	for _, m := range migrations {
		if _, err := exec.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		logger.Info("migration applied", "component", "store", "name", m.Name)
	}
	return nil
}

// Migrate applies the embedded migrations to the store's pool.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	return ApplyMigrations(ctx, s.pool, s.logger)
}
