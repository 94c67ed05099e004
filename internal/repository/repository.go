package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a uniqueness constraint was violated, e.g. a
// second review by the same author on the same title.
var ErrConflict = errors.New("repository: conflict")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users      *UsersRepository
	Categories *CategoriesRepository
	Genres     *GenresRepository
	Titles     *TitlesRepository
	Reviews    *ReviewsRepository
	Comments   *CommentsRepository
	EmailCodes *EmailCodesRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Users:      &UsersRepository{pool: pool},
		Categories: &CategoriesRepository{pool: pool},
		Genres:     &GenresRepository{pool: pool},
		Titles:     &TitlesRepository{pool: pool},
		Reviews:    &ReviewsRepository{pool: pool},
		Comments:   &CommentsRepository{pool: pool},
		EmailCodes: &EmailCodesRepository{pool: pool},
	}
}

// isUniqueViolation detects PostgreSQL unique constraint violations
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation detects referential integrity violations
// (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
