package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/domain"
)

// TitlesRepository provides persistence helpers for titles and their
// genre links.
type TitlesRepository struct {
	pool *pgxpool.Pool
}

const titleColumns = `
    t.id,
    t.name,
    t.year,
    t.description,
    t.rating,
    t.created_at,
    t.updated_at,
    c.id,
    c.name,
    c.slug
`

const titleFrom = ` FROM titles t JOIN categories c ON c.id = t.category_id`

// TitleCreateParams bundles the fields required to create a title.
type TitleCreateParams struct {
	Name        string
	Year        int
	Description string
	CategoryID  string
	GenreIDs    []string
}

// TitleUpdateParams carries a partial update; nil fields are untouched.
// GenreIDs, when non-nil, replaces the full genre set.
type TitleUpdateParams struct {
	Name        *string
	Year        *int
	Description *string
	CategoryID  *string
	GenreIDs    []string
}

// TitleListFilters encapsulates the supported search options.
type TitleListFilters struct {
	Name         *string
	Year         *int
	CategorySlug *string
	GenreSlug    *string
}

// Create inserts a title with its genre links and returns the stored entity.
func (r *TitlesRepository) Create(ctx context.Context, params TitleCreateParams) (domain.Title, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Title{}, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
        INSERT INTO titles (name, year, description, category_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id
    `, params.Name, params.Year, params.Description, params.CategoryID).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Title{}, ErrNotFound
		}
		return domain.Title{}, err
	}

	if err := replaceTitleGenres(ctx, tx, id, params.GenreIDs); err != nil {
		return domain.Title{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Title{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a title with its category and genres.
func (r *TitlesRepository) GetByID(ctx context.Context, id string) (domain.Title, error) {
	query := `SELECT` + titleColumns + titleFrom + ` WHERE t.id = $1`
	title, err := scanTitle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Title{}, ErrNotFound
		}
		return domain.Title{}, err
	}

	genres, err := r.genresFor(ctx, []string{id})
	if err != nil {
		return domain.Title{}, err
	}
	title.Genres = genres[id]
	return title, nil
}

// List returns titles matching the provided filters.
func (r *TitlesRepository) List(ctx context.Context, filters TitleListFilters) ([]domain.Title, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Name != nil && strings.TrimSpace(*filters.Name) != "" {
		// Case-insensitive exact match, no wildcards.
		where = append(where, fmt.Sprintf("t.name ILIKE %s", arg(strings.TrimSpace(*filters.Name))))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("t.year = %s", arg(*filters.Year)))
	}
	if filters.CategorySlug != nil && *filters.CategorySlug != "" {
		where = append(where, fmt.Sprintf("c.slug = %s", arg(*filters.CategorySlug)))
	}
	if filters.GenreSlug != nil && *filters.GenreSlug != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id WHERE tg.title_id = t.id AND g.slug = %s)",
			arg(*filters.GenreSlug)))
	}

	query := `SELECT` + titleColumns + titleFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make([]domain.Title, 0)
	ids := make([]string, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
		ids = append(ids, title.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genres, err := r.genresFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range titles {
		titles[i].Genres = genres[titles[i].ID]
	}
	return titles, nil
}

// Update applies a partial update and returns the stored entity.
func (r *TitlesRepository) Update(ctx context.Context, id string, params TitleUpdateParams) (domain.Title, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Title{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE titles
        SET name = COALESCE($2, name),
            year = COALESCE($3, year),
            description = COALESCE($4, description),
            category_id = COALESCE($5, category_id),
            updated_at = now()
        WHERE id = $1
    `, id, params.Name, params.Year, params.Description, params.CategoryID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Title{}, ErrNotFound
		}
		return domain.Title{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Title{}, ErrNotFound
	}

	if params.GenreIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, id); err != nil {
			return domain.Title{}, err
		}
		if err := replaceTitleGenres(ctx, tx, id, params.GenreIDs); err != nil {
			return domain.Title{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Title{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a title; reviews and comments cascade.
func (r *TitlesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func replaceTitleGenres(ctx context.Context, tx pgx.Tx, titleID string, genreIDs []string) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(ctx, `
            INSERT INTO title_genres (title_id, genre_id)
            VALUES ($1,$2)
            ON CONFLICT DO NOTHING
        `, titleID, genreID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

func (r *TitlesRepository) genresFor(ctx context.Context, titleIDs []string) (map[string][]domain.Genre, error) {
	result := make(map[string][]domain.Genre, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT tg.title_id, g.id, g.name, g.slug
        FROM title_genres tg
        JOIN genres g ON g.id = tg.genre_id
        WHERE tg.title_id = ANY($1)
        ORDER BY g.name
    `, titleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var titleID string
		var genre domain.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, err
		}
		result[titleID] = append(result[titleID], genre)
	}
	return result, rows.Err()
}

func scanTitle(row pgx.Row) (domain.Title, error) {
	var title domain.Title
	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.Rating,
		&title.CreatedAt,
		&title.UpdatedAt,
		&title.Category.ID,
		&title.Category.Name,
		&title.Category.Slug,
	)
	if err != nil {
		return domain.Title{}, err
	}
	return title, nil
}
