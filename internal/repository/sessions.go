package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// SessionsRepository stores login sessions keyed by the token hash; raw
// tokens never reach the database.
type SessionsRepository struct {
	pool *pgxpool.Pool
}

// Create records a session for userID.
func (r *SessionsRepository) Create(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	if !ValidID(userID) {
		return ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO sessions (token_hash, user_id, expires_at) VALUES ($1,$2,$3)`, tokenHash, userID, expiresAt)
	return missingParent(err)
}

// Lookup returns the user owning an unexpired session.
func (r *SessionsRepository) Lookup(ctx context.Context, tokenHash string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT u.id, u.email, u.name, u.role, u.password_hash, u.created_at
        FROM sessions s JOIN users u ON u.id = s.user_id
        WHERE s.token_hash = $1 AND s.expires_at > now()
    `, tokenHash)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, classify(err)
	}
	return u, nil
}

// Delete ends a session. Unknown tokens are ignored.
func (r *SessionsRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

// DeleteExpired purges stale sessions and returns how many were removed.
func (r *SessionsRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
