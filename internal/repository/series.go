package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/slug"
)

// SeriesRepository persists series.
type SeriesRepository struct {
	pool *pgxpool.Pool
}

const seriesColumns = `
    s.id,
    s.name,
    s.slug,
    (SELECT count(*) FROM figures f WHERE f.series_id = s.id),
    s.created_at
`

// List returns every series ordered by name, with figure counts.
func (r *SeriesRepository) List(ctx context.Context) ([]domain.Series, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+seriesColumns+` FROM series s ORDER BY lower(s.name), s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Series, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Names returns series names ordered by name.
func (r *SeriesRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM series ORDER BY lower(name), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetByID fetches a series by identifier.
func (r *SeriesRepository) GetByID(ctx context.Context, id string) (domain.Series, error) {
	if !ValidID(id) {
		return domain.Series{}, ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+seriesColumns+` FROM series s WHERE s.id = $1`, id)
	s, err := scanSeries(row)
	if err != nil {
		return domain.Series{}, classify(err)
	}
	return s, nil
}

// Create inserts a series with a unique slug derived from its name. A
// duplicate name returns ErrConflict.
func (r *SeriesRepository) Create(ctx context.Context, name string) (domain.Series, error) {
	var created domain.Series
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		sl, err := nextSlug(ctx, tx, "series", name)
		if err != nil {
			return err
		}
		row := tx.QueryRow(ctx, `
            WITH ins AS (
                INSERT INTO series (name, slug) VALUES ($1, $2)
                RETURNING id, name, slug, created_at
            )
            SELECT id, name, slug, 0::bigint, created_at FROM ins
        `, name, sl)
		created, err = scanSeries(row)
		return err
	})
	if err != nil {
		return domain.Series{}, classify(err)
	}
	return created, nil
}

// Rename changes the series name; the slug is kept stable.
func (r *SeriesRepository) Rename(ctx context.Context, id, name string) (domain.Series, error) {
	if !ValidID(id) {
		return domain.Series{}, ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE series SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return domain.Series{}, classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Series{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a series. Without force it fails with ErrInUse while
// figures belong to it; with force the figures and every owned and wishlist
// row referencing them are removed in the same transaction.
func (r *SeriesRepository) Delete(ctx context.Context, id string, force bool) error {
	if !ValidID(id) {
		return ErrNotFound
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM series WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}

		if force {
			const figureIDs = `SELECT id FROM figures WHERE series_id = $1`
			for _, stmt := range []string{
				`DELETE FROM owned WHERE figure_id IN (` + figureIDs + `)`,
				`DELETE FROM wishlist WHERE figure_id IN (` + figureIDs + `)`,
				`DELETE FROM figures WHERE series_id = $1`,
			} {
				if _, err := tx.Exec(ctx, stmt, id); err != nil {
					return err
				}
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM series WHERE id = $1`, id); err != nil {
			return classify(err)
		}
		return nil
	})
}

func scanSeries(row pgx.Row) (domain.Series, error) {
	var s domain.Series
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.FigureCount, &s.CreatedAt)
	return s, err
}

// nextSlug picks a slug for name not yet used in table.
func nextSlug(ctx context.Context, q pgx.Tx, table, name string) (string, error) {
	base := slug.Base(name)
	rows, err := q.Query(ctx, `SELECT slug FROM `+pgx.Identifier{table}.Sanitize()+` WHERE slug = $1 OR slug LIKE $2`, base, escapeLike(base)+"-%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	used := make(map[string]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return "", err
		}
		used[s] = true
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return slug.Unique(name, func(s string) bool { return used[s] }), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
