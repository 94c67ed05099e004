package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/domain"
)

// EmailCodesRepository stores the one-time codes mailed out during
// registration. An email holds at most one outstanding code; issuing a
// new one overwrites the previous value, last write wins.
type EmailCodesRepository struct {
	pool *pgxpool.Pool
}

// Upsert stores or replaces the code for an email.
func (r *EmailCodesRepository) Upsert(ctx context.Context, email, code string) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO email_codes (email, code)
        VALUES ($1,$2)
        ON CONFLICT (email)
        DO UPDATE SET code = EXCLUDED.code, updated_at = now()
    `, email, code)
	return err
}

// Get returns the outstanding code for an email, or ErrNotFound when no
// code was ever requested for it.
func (r *EmailCodesRepository) Get(ctx context.Context, email string) (domain.EmailCode, error) {
	var code domain.EmailCode
	err := r.pool.QueryRow(ctx, `
        SELECT email, code, updated_at FROM email_codes WHERE email = $1
    `, email).Scan(&code.Email, &code.Code, &code.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EmailCode{}, ErrNotFound
		}
		return domain.EmailCode{}, err
	}
	return code, nil
}
