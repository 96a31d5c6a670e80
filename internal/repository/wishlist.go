package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// WishlistRepository persists wishlist entries, at most one per user and figure.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

const wishColumns = `id, user_id, figure_id, want_another, note, created_at`

// WishUpsertParams captures the payload required to upsert a wishlist entry.
type WishUpsertParams struct {
	UserID      string
	FigureID    string
	WantAnother bool
	Note        *string
}

// ListByUser returns the user's wishlist, newest first.
func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.Wish, error) {
	if !ValidID(userID) {
		return []domain.Wish{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+wishColumns+` FROM wishlist WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Wish, 0)
	for rows.Next() {
		w, err := scanWish(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert inserts or updates the entry for (user, figure) and indicates whether
// it was newly created. An unknown figure returns ErrNotFound.
func (r *WishlistRepository) Upsert(ctx context.Context, params WishUpsertParams) (domain.Wish, bool, error) {
	if !ValidID(params.UserID) || !ValidID(params.FigureID) {
		return domain.Wish{}, false, ErrNotFound
	}
	const query = `
        INSERT INTO wishlist (user_id, figure_id, want_another, note)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, figure_id)
        DO UPDATE SET want_another = EXCLUDED.want_another, note = EXCLUDED.note
        RETURNING ` + wishColumns + `, (xmax = 0) AS inserted
    `

	var w domain.Wish
	var inserted bool
	err := r.pool.QueryRow(ctx, query, params.UserID, params.FigureID, params.WantAnother, params.Note).Scan(
		&w.ID,
		&w.UserID,
		&w.FigureID,
		&w.WantAnother,
		&w.Note,
		&w.CreatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Wish{}, false, missingParent(err)
	}
	return w, inserted, nil
}

// Delete removes one of the user's entries.
func (r *WishlistRepository) Delete(ctx context.Context, userID, id string) error {
	if !ValidID(userID) || !ValidID(id) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWish(row pgx.Row) (domain.Wish, error) {
	var w domain.Wish
	err := row.Scan(&w.ID, &w.UserID, &w.FigureID, &w.WantAnother, &w.Note, &w.CreatedAt)
	return w, err
}
