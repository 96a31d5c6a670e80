package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/slug"
)

// SlugBackfill fills in slugs for rows created before slugs existed.
type SlugBackfill struct {
	pool *pgxpool.Pool
}

// BackfillResult reports how many rows were updated per table.
type BackfillResult struct {
	Series  int
	Figures int
}

// Run assigns a unique slug to every series and figure missing one, in a
// single transaction.
func (b *SlugBackfill) Run(ctx context.Context) (BackfillResult, error) {
	var res BackfillResult
	err := pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		var err error
		if res.Series, err = backfillTable(ctx, tx, "series"); err != nil {
			return err
		}
		res.Figures, err = backfillTable(ctx, tx, "figures")
		return err
	})
	return res, err
}

func backfillTable(ctx context.Context, tx pgx.Tx, table string) (int, error) {
	ident := pgx.Identifier{table}.Sanitize()

	used := make(map[string]bool)
	rows, err := tx.Query(ctx, `SELECT slug FROM `+ident+` WHERE slug IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return 0, err
		}
		used[s] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	type pending struct{ id, name string }
	var todo []pending
	rows, err = tx.Query(ctx, `SELECT id, name FROM `+ident+` WHERE slug IS NULL ORDER BY created_at, id`)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.name); err != nil {
			rows.Close()
			return 0, err
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, p := range todo {
		s := slug.Unique(p.name, func(s string) bool { return used[s] })
		used[s] = true
		if _, err := tx.Exec(ctx, `UPDATE `+ident+` SET slug = $2 WHERE id = $1`, p.id, s); err != nil {
			return 0, fmt.Errorf("update %s %s: %w", table, p.id, err)
		}
	}
	return len(todo), nil
}
