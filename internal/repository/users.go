package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// UsersRepository persists accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, name, role, password_hash, created_at`

// UserCreateParams captures a registration.
type UserCreateParams struct {
	Email        string
	Name         *string
	PasswordHash string
}

// Create inserts a user. The first account ever created becomes ADMIN, every
// later one USER. A duplicate email returns ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (email, name, password_hash, role)
        SELECT $1, $2, $3, CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'USER' ELSE 'ADMIN' END
        RETURNING `+userColumns,
		normalizeEmail(params.Email), params.Name, params.PasswordHash)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, classify(err)
	}
	return u, nil
}

// Count returns the number of accounts.
func (r *UsersRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
	if err != nil {
		return domain.User{}, classify(err)
	}
	return u, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	if !ValidID(id) {
		return domain.User{}, ErrNotFound
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, classify(err)
	}
	return u, nil
}

// UpdateName sets the display name. An empty name clears it.
func (r *UsersRepository) UpdateName(ctx context.Context, id string, name *string) (domain.User, error) {
	if !ValidID(id) {
		return domain.User{}, ErrNotFound
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `UPDATE users SET name = NULLIF($2, '') WHERE id = $1 RETURNING `+userColumns, id, name))
	if err != nil {
		return domain.User{}, classify(err)
	}
	return u, nil
}

// UpdatePassword stores a new password hash.
func (r *UsersRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	if !ValidID(id) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdminUpdate changes role and/or password hash; nil fields are left unchanged.
func (r *UsersRepository) AdminUpdate(ctx context.Context, id string, role *domain.Role, passwordHash *string) (domain.User, error) {
	if !ValidID(id) {
		return domain.User{}, ErrNotFound
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `
        UPDATE users
        SET role = COALESCE($2, role),
            password_hash = COALESCE($3, password_hash)
        WHERE id = $1
        RETURNING `+userColumns, id, role, passwordHash))
	if err != nil {
		return domain.User{}, classify(err)
	}
	return u, nil
}

// ListWithCounts returns every user with owned and wishlist counts, oldest first.
func (r *UsersRepository) ListWithCounts(ctx context.Context) ([]domain.UserWithCounts, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT u.id, u.email, u.name, u.role, u.password_hash, u.created_at,
               (SELECT count(*) FROM owned o WHERE o.user_id = u.id),
               (SELECT count(*) FROM wishlist w WHERE w.user_id = u.id)
        FROM users u
        ORDER BY u.created_at, u.id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.UserWithCounts, 0)
	for rows.Next() {
		var u domain.UserWithCounts
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt, &u.OwnedCount, &u.WishlistCount); err != nil {
			return nil, err
		}
		u.Role = domain.Role(role)
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
