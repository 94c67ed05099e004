package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/domain"
)

// CategoriesRepository provides persistence helpers for categories.
// Categories and genres share their shape, so both repositories lean on
// the same query helpers parameterized by table name.
type CategoriesRepository struct {
	pool *pgxpool.Pool
}

// GenresRepository provides persistence helpers for genres.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// NameSlugParams bundles the fields of a category or genre.
type NameSlugParams struct {
	Name string
	Slug string
}

type nameSlugRow struct {
	ID   string
	Name string
	Slug string
}

// List returns categories, optionally filtered by a case-insensitive
// name search.
func (r *CategoriesRepository) List(ctx context.Context, search string) ([]domain.Category, error) {
	rows, err := listNameSlug(ctx, r.pool, "categories", search)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category(row))
	}
	return categories, nil
}

// Create inserts a category.
func (r *CategoriesRepository) Create(ctx context.Context, params NameSlugParams) (domain.Category, error) {
	row, err := createNameSlug(ctx, r.pool, "categories", params)
	if err != nil {
		return domain.Category{}, err
	}
	return domain.Category(row), nil
}

// GetBySlug fetches a category by slug.
func (r *CategoriesRepository) GetBySlug(ctx context.Context, slug string) (domain.Category, error) {
	row, err := getNameSlug(ctx, r.pool, "categories", slug)
	if err != nil {
		return domain.Category{}, err
	}
	return domain.Category(row), nil
}

// Delete removes a category by slug.
func (r *CategoriesRepository) Delete(ctx context.Context, slug string) error {
	return deleteNameSlug(ctx, r.pool, "categories", slug)
}

// List returns genres, optionally filtered by a case-insensitive name search.
func (r *GenresRepository) List(ctx context.Context, search string) ([]domain.Genre, error) {
	rows, err := listNameSlug(ctx, r.pool, "genres", search)
	if err != nil {
		return nil, err
	}
	genres := make([]domain.Genre, 0, len(rows))
	for _, row := range rows {
		genres = append(genres, domain.Genre(row))
	}
	return genres, nil
}

// Create inserts a genre.
func (r *GenresRepository) Create(ctx context.Context, params NameSlugParams) (domain.Genre, error) {
	row, err := createNameSlug(ctx, r.pool, "genres", params)
	if err != nil {
		return domain.Genre{}, err
	}
	return domain.Genre(row), nil
}

// GetBySlug fetches a genre by slug.
func (r *GenresRepository) GetBySlug(ctx context.Context, slug string) (domain.Genre, error) {
	row, err := getNameSlug(ctx, r.pool, "genres", slug)
	if err != nil {
		return domain.Genre{}, err
	}
	return domain.Genre(row), nil
}

// Delete removes a genre by slug.
func (r *GenresRepository) Delete(ctx context.Context, slug string) error {
	return deleteNameSlug(ctx, r.pool, "genres", slug)
}

func listNameSlug(ctx context.Context, pool *pgxpool.Pool, table, search string) ([]nameSlugRow, error) {
	query := `SELECT id, name, slug FROM ` + table
	args := make([]any, 0, 1)
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+s+"%")
	}
	query += ` ORDER BY name`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]nameSlugRow, 0)
	for rows.Next() {
		var row nameSlugRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Slug); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func createNameSlug(ctx context.Context, pool *pgxpool.Pool, table string, params NameSlugParams) (nameSlugRow, error) {
	query := `INSERT INTO ` + table + ` (name, slug) VALUES ($1,$2) RETURNING id, name, slug`
	var row nameSlugRow
	err := pool.QueryRow(ctx, query, params.Name, params.Slug).Scan(&row.ID, &row.Name, &row.Slug)
	if err != nil {
		if isUniqueViolation(err) {
			return nameSlugRow{}, ErrConflict
		}
		return nameSlugRow{}, err
	}
	return row, nil
}

func getNameSlug(ctx context.Context, pool *pgxpool.Pool, table, slug string) (nameSlugRow, error) {
	query := `SELECT id, name, slug FROM ` + table + ` WHERE slug = $1`
	var row nameSlugRow
	err := pool.QueryRow(ctx, query, slug).Scan(&row.ID, &row.Name, &row.Slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nameSlugRow{}, ErrNotFound
		}
		return nameSlugRow{}, err
	}
	return row, nil
}

func deleteNameSlug(ctx context.Context, pool *pgxpool.Pool, table, slug string) error {
	tag, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
