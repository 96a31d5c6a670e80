package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// OwnedRepository persists owned copies. Every user-facing call is scoped by
// user id so rows of other users behave as missing.
type OwnedRepository struct {
	pool *pgxpool.Pool
}

const ownedColumns = `
    id,
    user_id,
    figure_id,
    price_paid_cents,
    tax_cents,
    shipping_cents,
    currency,
    fx_per_eur::float8,
    note,
    created_at
`

// OwnedCreateParams captures a new owned copy.
type OwnedCreateParams struct {
	UserID         string
	FigureID       string
	PricePaidCents int64
	TaxCents       int64
	ShippingCents  int64
	Currency       string
	FxPerEUR       *float64
	Note           *string
}

// OwnedUpdateParams carries a partial update; nil fields are left unchanged.
type OwnedUpdateParams struct {
	PricePaidCents *int64
	TaxCents       *int64
	ShippingCents  *int64
	Currency       *string
	FxPerEUR       *float64
	Note           *string
}

// OwnedSummary counts a user's owned rows and distinct figures.
type OwnedSummary struct {
	Copies int64
	Unique int64
}

// ListByUser returns the user's owned rows, newest first.
func (r *OwnedRepository) ListByUser(ctx context.Context, userID string) ([]domain.Owned, error) {
	if !ValidID(userID) {
		return []domain.Owned{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+ownedColumns+` FROM owned WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOwned(rows)
}

// ListAll returns every owned row across users.
func (r *OwnedRepository) ListAll(ctx context.Context) ([]domain.Owned, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ownedColumns+` FROM owned ORDER BY user_id, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOwned(rows)
}

// Create inserts an owned copy. An unknown figure returns ErrNotFound.
func (r *OwnedRepository) Create(ctx context.Context, params OwnedCreateParams) (domain.Owned, error) {
	if !ValidID(params.UserID) || !ValidID(params.FigureID) {
		return domain.Owned{}, ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
        INSERT INTO owned (user_id, figure_id, price_paid_cents, tax_cents, shipping_cents, currency, fx_per_eur, note)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING `+ownedColumns,
		params.UserID, params.FigureID, params.PricePaidCents, params.TaxCents, params.ShippingCents,
		params.Currency, params.FxPerEUR, params.Note)
	owned, err := scanOwned(row)
	if err != nil {
		return domain.Owned{}, missingParent(err)
	}
	return owned, nil
}

// Update modifies one of the user's rows.
func (r *OwnedRepository) Update(ctx context.Context, userID, id string, params OwnedUpdateParams) (domain.Owned, error) {
	if !ValidID(userID) || !ValidID(id) {
		return domain.Owned{}, ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
        UPDATE owned
        SET price_paid_cents = COALESCE($3, price_paid_cents),
            tax_cents = COALESCE($4, tax_cents),
            shipping_cents = COALESCE($5, shipping_cents),
            currency = COALESCE($6, currency),
            fx_per_eur = COALESCE($7, fx_per_eur),
            note = COALESCE($8, note)
        WHERE id = $1 AND user_id = $2
        RETURNING `+ownedColumns,
		id, userID, params.PricePaidCents, params.TaxCents, params.ShippingCents,
		params.Currency, params.FxPerEUR, params.Note)
	owned, err := scanOwned(row)
	if err != nil {
		return domain.Owned{}, classify(err)
	}
	return owned, nil
}

// Delete removes one of the user's rows.
func (r *OwnedRepository) Delete(ctx context.Context, userID, id string) error {
	if !ValidID(userID) || !ValidID(id) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM owned WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary counts all owned rows and distinct figures for the user.
func (r *OwnedRepository) Summary(ctx context.Context, userID string) (OwnedSummary, error) {
	var s OwnedSummary
	if !ValidID(userID) {
		return s, nil
	}
	err := r.pool.QueryRow(ctx, `SELECT count(*), count(DISTINCT figure_id) FROM owned WHERE user_id = $1`, userID).
		Scan(&s.Copies, &s.Unique)
	return s, err
}

// Count returns how many copies of figureID the user owns, or all copies when
// figureID is empty.
func (r *OwnedRepository) Count(ctx context.Context, userID, figureID string) (int64, error) {
	if !ValidID(userID) {
		return 0, nil
	}
	if figureID == "" {
		var n int64
		err := r.pool.QueryRow(ctx, `SELECT count(*) FROM owned WHERE user_id = $1`, userID).Scan(&n)
		return n, err
	}
	if !ValidID(figureID) {
		return 0, nil
	}
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM owned WHERE user_id = $1 AND figure_id = $2`, userID, figureID).Scan(&n)
	return n, err
}

func collectOwned(rows pgx.Rows) ([]domain.Owned, error) {
	items := make([]domain.Owned, 0)
	for rows.Next() {
		o, err := scanOwned(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanOwned(row pgx.Row) (domain.Owned, error) {
	var o domain.Owned
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.FigureID,
		&o.PricePaidCents,
		&o.TaxCents,
		&o.ShippingCents,
		&o.Currency,
		&o.FxPerEUR,
		&o.Note,
		&o.CreatedAt,
	)
	return o, err
}
