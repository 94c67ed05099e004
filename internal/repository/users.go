package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/senyehor/yamdb/internal/domain"
)

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    username,
    email,
    first_name,
    last_name,
    bio,
    role,
    created_at,
    updated_at
`

// UserCreateParams bundles the fields required to create a user.
type UserCreateParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      domain.Role
}

// ProfilePatch carries the subset of profile fields a user may change
// about themselves. Nil fields are left untouched.
type ProfilePatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// Create inserts a new user row and returns the stored entity.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	if params.Role == 0 {
		params.Role = domain.RoleUser
	}
	query := fmt.Sprintf(`
        INSERT INTO users (username, email, first_name, last_name, bio, role)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING %s
    `, userColumns)

	row := r.pool.QueryRow(ctx, query,
		params.Username, params.Email, params.FirstName, params.LastName, params.Bio, params.Role)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail fetches a user by email address.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByUsername fetches a user by username.
func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UsersRepository) getBy(ctx context.Context, column, value string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	user, err := scanUser(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// List returns all users ordered by username.
func (r *UsersRepository) List(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY username`, userColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile applies a profile patch to the user identified by id.
// Each field is written explicitly; nothing outside the patch is touched.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (domain.User, error) {
	query := fmt.Sprintf(`
        UPDATE users
        SET username = COALESCE($2, username),
            email = COALESCE($3, email),
            first_name = COALESCE($4, first_name),
            last_name = COALESCE($5, last_name),
            bio = COALESCE($6, bio),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, userColumns)

	row := r.pool.QueryRow(ctx, query, id,
		patch.Username, patch.Email, patch.FirstName, patch.LastName, patch.Bio)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateRole changes a user's role.
func (r *UsersRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (domain.User, error) {
	query := fmt.Sprintf(`
        UPDATE users SET role = $2, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Delete removes a user by username.
func (r *UsersRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
