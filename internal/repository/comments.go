package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/domain"
)

// CommentsRepository provides persistence helpers for review comments.
type CommentsRepository struct {
	pool *pgxpool.Pool
}

const commentColumns = `
    cm.id,
    cm.review_id,
    cm.author_id,
    u.username,
    cm.text,
    cm.pub_date
`

const commentFrom = ` FROM comments cm JOIN users u ON u.id = cm.author_id`

// CommentCreateParams bundles the fields required to create a comment.
type CommentCreateParams struct {
	ReviewID string
	AuthorID string
	Text     string
}

// CommentUpdateParams carries a partial update; nil fields are untouched.
type CommentUpdateParams struct {
	Text *string
}

// Create inserts a comment and returns the stored entity.
func (r *CommentsRepository) Create(ctx context.Context, params CommentCreateParams) (domain.Comment, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
        INSERT INTO comments (review_id, author_id, text)
        VALUES ($1,$2,$3)
        RETURNING id
    `, params.ReviewID, params.AuthorID, params.Text).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Comment{}, ErrNotFound
		}
		return domain.Comment{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a comment by identifier.
func (r *CommentsRepository) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	query := `SELECT` + commentColumns + commentFrom + ` WHERE cm.id = $1`
	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Comment{}, ErrNotFound
		}
		return domain.Comment{}, err
	}
	return comment, nil
}

// ListByReview returns all comments for a review, oldest first.
func (r *CommentsRepository) ListByReview(ctx context.Context, reviewID string) ([]domain.Comment, error) {
	query := `SELECT` + commentColumns + commentFrom + ` WHERE cm.review_id = $1 ORDER BY cm.pub_date, cm.id`
	rows, err := r.pool.Query(ctx, query, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Update applies a partial update and returns the stored entity.
func (r *CommentsRepository) Update(ctx context.Context, id string, params CommentUpdateParams) (domain.Comment, error) {
	tag, err := r.pool.Exec(ctx, `
        UPDATE comments SET text = COALESCE($2, text) WHERE id = $1
    `, id, params.Text)
	if err != nil {
		return domain.Comment{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Comment{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a comment.
func (r *CommentsRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Text,
		&comment.PubDate,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}
