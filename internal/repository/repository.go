package repository

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("repository: conflict")
	// ErrInUse indicates the entity is still referenced by other rows.
	ErrInUse = errors.New("repository: in use")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Series   *SeriesRepository
	Figures  *FiguresRepository
	Owned    *OwnedRepository
	Wishlist *WishlistRepository
	Users    *UsersRepository
	Sessions *SessionsRepository
	Slugs    *SlugBackfill
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Series:   &SeriesRepository{pool: pool},
		Figures:  &FiguresRepository{pool: pool},
		Owned:    &OwnedRepository{pool: pool},
		Wishlist: &WishlistRepository{pool: pool},
		Users:    &UsersRepository{pool: pool},
		Sessions: &SessionsRepository{pool: pool},
		Slugs:    &SlugBackfill{pool: pool},
	}
}

// ValidID reports whether id is a well-formed row identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// classify maps driver errors onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInUse, pgErr.ConstraintName)
		}
	}
	return err
}

// missingParent turns a foreign key violation on insert into ErrNotFound: the
// referenced parent row does not exist.
func missingParent(err error) error {
	err = classify(err)
	if errors.Is(err, ErrInUse) {
		return ErrNotFound
	}
	return err
}

// Cursor allows stable pagination by created_at/id.
type Cursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

func encodeCursor(c Cursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses a cursor token.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	if !ValidID(cursor.ID) {
		return nil, fmt.Errorf("invalid cursor id")
	}
	return &cursor, nil
}
