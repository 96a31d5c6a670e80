package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// FiguresRepository provides persistence helpers for catalog figures.
type FiguresRepository struct {
	pool *pgxpool.Pool
}

const figureColumns = `
    f.id,
    f.name,
    f.slug,
    f.character,
    f.character_base,
    f.variant,
    f.line,
    f.release_year,
    f.release_type,
    f.body_version,
    f.body_version_tag,
    f.saga,
    f.msrp_cents,
    f.msrp_currency,
    f.image,
    f.series_id,
    s.name,
    f.created_at,
    f.updated_at
`

const figureFrom = ` FROM figures f JOIN series s ON s.id = f.series_id`

// FigureCreateParams bundles the fields required to create a figure.
type FigureCreateParams struct {
	Name           string
	Character      string
	CharacterBase  *string
	Variant        *string
	Line           string
	ReleaseYear    int
	ReleaseType    *domain.ReleaseType
	BodyVersion    *domain.BodyVersion
	BodyVersionTag *string
	Saga           *string
	MSRPCents      int64
	MSRPCurrency   string
	Image          string
	SeriesID       string
}

// FigureUpdateParams carries a partial update; nil fields are left unchanged.
type FigureUpdateParams struct {
	Name           *string
	Character      *string
	CharacterBase  *string
	Variant        *string
	Line           *string
	ReleaseYear    *int
	ReleaseType    *domain.ReleaseType
	BodyVersion    *domain.BodyVersion
	BodyVersionTag *string
	Saga           *string
	MSRPCents      *int64
	MSRPCurrency   *string
	Image          *string
	SeriesID       *string
}

// FigureListFilters encapsulates search and pagination options.
type FigureListFilters struct {
	Query    *string
	SeriesID *string
	Year     *int
	Limit    int
	Cursor   *Cursor
}

// FigureListResult returns the paginated payload.
type FigureListResult struct {
	Items      []domain.Figure
	NextCursor *string
}

// Create inserts a figure. Base and variant are derived from the character
// name when not supplied. An unknown series returns ErrNotFound.
func (r *FiguresRepository) Create(ctx context.Context, params FigureCreateParams) (domain.Figure, error) {
	if !ValidID(params.SeriesID) {
		return domain.Figure{}, ErrNotFound
	}
	base, variant := deriveCharacter(params.Character, params.CharacterBase, params.Variant)

	var created domain.Figure
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		sl, err := nextSlug(ctx, tx, "figures", params.Name)
		if err != nil {
			return err
		}
		var id string
		err = tx.QueryRow(ctx, `
            INSERT INTO figures (name, slug, character, character_base, variant, line, release_year,
                release_type, body_version, body_version_tag, saga, msrp_cents, msrp_currency, image, series_id)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
            RETURNING id
        `, params.Name, sl, params.Character, base, variant, params.Line, params.ReleaseYear,
			params.ReleaseType, params.BodyVersion, params.BodyVersionTag, params.Saga,
			params.MSRPCents, params.MSRPCurrency, params.Image, params.SeriesID).Scan(&id)
		if err != nil {
			return err
		}
		created, err = scanFigure(tx.QueryRow(ctx, `SELECT `+figureColumns+figureFrom+` WHERE f.id = $1`, id))
		return err
	})
	if err != nil {
		return domain.Figure{}, missingParent(err)
	}
	return created, nil
}

// GetByID fetches a figure by its identifier.
func (r *FiguresRepository) GetByID(ctx context.Context, id string) (domain.Figure, error) {
	if !ValidID(id) {
		return domain.Figure{}, ErrNotFound
	}
	figure, err := scanFigure(r.pool.QueryRow(ctx, `SELECT `+figureColumns+figureFrom+` WHERE f.id = $1`, id))
	if err != nil {
		return domain.Figure{}, classify(err)
	}
	return figure, nil
}

// Catalog returns every figure ordered by name.
func (r *FiguresRepository) Catalog(ctx context.Context) ([]domain.Figure, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+figureColumns+figureFrom+` ORDER BY lower(f.name), f.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFigures(rows)
}

// Update applies a partial update. Moving to an unknown series returns
// ErrNotFound.
func (r *FiguresRepository) Update(ctx context.Context, id string, params FigureUpdateParams) (domain.Figure, error) {
	if !ValidID(id) {
		return domain.Figure{}, ErrNotFound
	}
	if params.SeriesID != nil && !ValidID(*params.SeriesID) {
		return domain.Figure{}, ErrNotFound
	}
	if params.Character != nil && params.CharacterBase == nil && params.Variant == nil {
		base, variant := deriveCharacter(*params.Character, nil, nil)
		params.CharacterBase, params.Variant = base, variant
	}

	tag, err := r.pool.Exec(ctx, `
        UPDATE figures
        SET name = COALESCE($2, name),
            character = COALESCE($3, character),
            character_base = COALESCE($4, character_base),
            variant = COALESCE($5, variant),
            line = COALESCE($6, line),
            release_year = COALESCE($7, release_year),
            release_type = COALESCE($8, release_type),
            body_version = COALESCE($9, body_version),
            body_version_tag = COALESCE($10, body_version_tag),
            saga = COALESCE($11, saga),
            msrp_cents = COALESCE($12, msrp_cents),
            msrp_currency = COALESCE($13, msrp_currency),
            image = COALESCE($14, image),
            series_id = COALESCE($15, series_id),
            updated_at = now()
        WHERE id = $1
    `, id, params.Name, params.Character, params.CharacterBase, params.Variant, params.Line,
		params.ReleaseYear, params.ReleaseType, params.BodyVersion, params.BodyVersionTag, params.Saga,
		params.MSRPCents, params.MSRPCurrency, params.Image, params.SeriesID)
	if err != nil {
		return domain.Figure{}, missingParent(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Figure{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Reassign moves a figure to another series.
func (r *FiguresRepository) Reassign(ctx context.Context, id, seriesID string) (domain.Figure, error) {
	return r.Update(ctx, id, FigureUpdateParams{SeriesID: &seriesID})
}

// Delete removes a figure. It returns ErrInUse while owned or wishlist rows
// reference it.
func (r *FiguresRepository) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM figures WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns figures that match the provided filters, newest first.
func (r *FiguresRepository) List(ctx context.Context, filters FigureListFilters) (FigureListResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	} else if filters.Limit > 100 {
		filters.Limit = 100
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Query != nil && strings.TrimSpace(*filters.Query) != "" {
		q := "%" + escapeLike(strings.TrimSpace(*filters.Query)) + "%"
		p := arg(q)
		where = append(where, fmt.Sprintf("(f.name ILIKE %[1]s OR f.character ILIKE %[1]s OR f.line ILIKE %[1]s)", p))
	}
	if filters.SeriesID != nil {
		if !ValidID(*filters.SeriesID) {
			return FigureListResult{Items: []domain.Figure{}}, nil
		}
		where = append(where, fmt.Sprintf("f.series_id = %s", arg(*filters.SeriesID)))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("f.release_year = %s", arg(*filters.Year)))
	}
	if filters.Cursor != nil {
		cursorCreated := arg(filters.Cursor.CreatedAt)
		cursorID := arg(filters.Cursor.ID)
		where = append(where, fmt.Sprintf("(f.created_at, f.id) < (%s, %s::uuid)", cursorCreated, cursorID))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(figureColumns)
	queryBuilder.WriteString(figureFrom)

	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY f.created_at DESC, f.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", filters.Limit))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return FigureListResult{}, err
	}
	defer rows.Close()

	items, err := collectFigures(rows)
	if err != nil {
		return FigureListResult{}, err
	}

	var nextCursor *string
	if len(items) == filters.Limit {
		last := items[len(items)-1]
		token, err := encodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return FigureListResult{}, err
		}
		nextCursor = &token
	}

	return FigureListResult{Items: items, NextCursor: nextCursor}, nil
}

func collectFigures(rows pgx.Rows) ([]domain.Figure, error) {
	items := make([]domain.Figure, 0)
	for rows.Next() {
		figure, err := scanFigure(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, figure)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanFigure(row pgx.Row) (domain.Figure, error) {
	var (
		figure      domain.Figure
		releaseType *string
		bodyVersion *string
	)

	err := row.Scan(
		&figure.ID,
		&figure.Name,
		&figure.Slug,
		&figure.Character,
		&figure.CharacterBase,
		&figure.Variant,
		&figure.Line,
		&figure.ReleaseYear,
		&releaseType,
		&bodyVersion,
		&figure.BodyVersionTag,
		&figure.Saga,
		&figure.MSRPCents,
		&figure.MSRPCurrency,
		&figure.Image,
		&figure.SeriesID,
		&figure.Series,
		&figure.CreatedAt,
		&figure.UpdatedAt,
	)
	if err != nil {
		return domain.Figure{}, err
	}

	if releaseType != nil {
		rt := domain.ReleaseType(*releaseType)
		figure.ReleaseType = &rt
	}
	if bodyVersion != nil {
		bv := domain.BodyVersion(*bodyVersion)
		figure.BodyVersion = &bv
	}
	return figure, nil
}

func deriveCharacter(character string, base, variant *string) (*string, *string) {
	if base != nil {
		return base, variant
	}
	b, v := domain.SplitCharacter(character)
	base = &b
	if variant == nil && v != "" {
		variant = &v
	}
	return base, variant
}
