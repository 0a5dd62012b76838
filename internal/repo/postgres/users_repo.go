package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staylink/staylink-backend/internal/domain"
)

type UsersRepo interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, name, email *string) (*domain.User, error)
}

type UsersRepoImpl struct{ pool *pgxpool.Pool }

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepoImpl { return &UsersRepoImpl{pool: pool} }

const userCols = `id, name, email, password_hash, role, auth_mode,
terms_accepted, terms_accepted_at, terms_version, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var hash *string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.AuthMode,
		&u.Terms.Accepted, &u.Terms.AcceptedAt, &u.Terms.Version,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	return &u, nil
}

func (r *UsersRepoImpl) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (name, email, password_hash, role, auth_mode, terms_accepted, terms_accepted_at, terms_version)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var hash *string
	if u.PasswordHash != "" {
		hash = &u.PasswordHash
	}

	created, err := scanUser(db(ctx, r.pool).QueryRow(ctx, q,
		u.Name, u.Email, hash, u.Role, u.AuthMode,
		u.Terms.Accepted, u.Terms.AcceptedAt, u.Terms.Version,
	))
	if isUniqueViolation(err, "users_email_key") {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	return created, err
}

func (r *UsersRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(db(ctx, r.pool).QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UsersRepoImpl) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(db(ctx, r.pool).QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UsersRepoImpl) UpdateProfile(ctx context.Context, id int64, name, email *string) (*domain.User, error) {
	const q = `
UPDATE users
SET name = COALESCE($2, name),
    email = COALESCE($3, email),
    updated_at = now()
WHERE id=$1
RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(db(ctx, r.pool).QueryRow(ctx, q, id, name, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err, "users_email_key") {
		return nil, fmt.Errorf("%w: email already in use", domain.ErrConflict)
	}
	return u, err
}
