package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/domain"
)

// ReviewsRepository provides persistence helpers for reviews. Every
// review mutation recomputes the parent title's derived rating within
// the same transaction, holding a lock on the title row so concurrent
// mutations on one title serialize.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `
    r.id,
    r.title_id,
    r.author_id,
    u.username,
    r.text,
    r.score,
    r.pub_date
`

const reviewFrom = ` FROM reviews r JOIN users u ON u.id = r.author_id`

// ReviewCreateParams bundles the fields required to create a review.
type ReviewCreateParams struct {
	TitleID  string
	AuthorID string
	Text     string
	Score    int
}

// ReviewUpdateParams carries a partial update; nil fields are untouched.
type ReviewUpdateParams struct {
	Text  *string
	Score *int
}

// Create inserts a review and recomputes the title rating. A second
// review by the same author on the same title fails with ErrConflict.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Review{}, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
        INSERT INTO reviews (title_id, author_id, text, score)
        VALUES ($1,$2,$3,$4)
        RETURNING id
    `, params.TitleID, params.AuthorID, params.Text, params.Score).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Review{}, ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}

	if err := recomputeRatingTx(ctx, tx, params.TitleID); err != nil {
		return domain.Review{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Review{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a review by identifier.
func (r *ReviewsRepository) GetByID(ctx context.Context, id string) (domain.Review, error) {
	query := `SELECT` + reviewColumns + reviewFrom + ` WHERE r.id = $1`
	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// ListByTitle returns all reviews for a title, newest first.
func (r *ReviewsRepository) ListByTitle(ctx context.Context, titleID string) ([]domain.Review, error) {
	query := `SELECT` + reviewColumns + reviewFrom + ` WHERE r.title_id = $1 ORDER BY r.pub_date DESC, r.id DESC`
	rows, err := r.pool.Query(ctx, query, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// ExistsByAuthorAndTitle reports whether the author already reviewed the title.
func (r *ReviewsRepository) ExistsByAuthorAndTitle(ctx context.Context, authorID, titleID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM reviews WHERE author_id = $1 AND title_id = $2)
    `, authorID, titleID).Scan(&exists)
	return exists, err
}

// Update applies a partial update and recomputes the title rating.
func (r *ReviewsRepository) Update(ctx context.Context, id string, params ReviewUpdateParams) (domain.Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Review{}, err
	}
	defer tx.Rollback(ctx)

	var titleID string
	err = tx.QueryRow(ctx, `
        UPDATE reviews
        SET text = COALESCE($2, text),
            score = COALESCE($3, score)
        WHERE id = $1
        RETURNING title_id
    `, id, params.Text, params.Score).Scan(&titleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}

	if err := recomputeRatingTx(ctx, tx, titleID); err != nil {
		return domain.Review{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Review{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review and recomputes the title rating. Removing the
// last review leaves the title's rating NULL.
func (r *ReviewsRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var titleID string
	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING title_id`, id).Scan(&titleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := recomputeRatingTx(ctx, tx, titleID); err != nil && !errors.Is(err, domain.ErrNoReviews) {
		return err
	}
	return tx.Commit(ctx)
}

// RecomputeRating rereads all review scores for a title and persists the
// rounded mean. With zero reviews the stored rating is cleared and
// domain.ErrNoReviews is returned.
func (r *ReviewsRepository) RecomputeRating(ctx context.Context, titleID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	recomputeErr := recomputeRatingTx(ctx, tx, titleID)
	if recomputeErr != nil && !errors.Is(recomputeErr, domain.ErrNoReviews) {
		return recomputeErr
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	return recomputeErr
}

// recomputeRatingTx performs the read-then-write inside the caller's
// transaction. The title row is locked for the duration so the
// aggregate cannot be computed against a stale review set.
func recomputeRatingTx(ctx context.Context, tx pgx.Tx, titleID string) error {
	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM titles WHERE id = $1 FOR UPDATE`, titleID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	rows, err := tx.Query(ctx, `SELECT score FROM reviews WHERE title_id = $1`, titleID)
	if err != nil {
		return err
	}
	scores := make([]int, 0)
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			rows.Close()
			return err
		}
		scores = append(scores, score)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rating, err := domain.AverageScore(scores)
	if err != nil {
		if _, execErr := tx.Exec(ctx, `UPDATE titles SET rating = NULL, updated_at = now() WHERE id = $1`, titleID); execErr != nil {
			return execErr
		}
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE titles SET rating = $2, updated_at = now() WHERE id = $1`, titleID, rating)
	return err
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}
