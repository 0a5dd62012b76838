package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staylink/staylink-backend/internal/domain"
)

type AccessCodesRepo interface {
	Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error)
	FindByID(ctx context.Context, id int64) (*domain.AccessCode, error)
	FindActiveByLabel(ctx context.Context, label string) (*domain.AccessCode, error)
	Bind(ctx context.Context, id, guestUserID, stayID int64) (bool, error)
	Revoke(ctx context.Context, id int64, now time.Time) error
}

type AccessCodesRepoImpl struct{ pool *pgxpool.Pool }

func NewAccessCodesRepo(pool *pgxpool.Pool) *AccessCodesRepoImpl {
	return &AccessCodesRepoImpl{pool: pool}
}

const accessCodeCols = `id, hotel_id, code_label, code_hash, seq, status,
guest_user_id, stay_id, intended_email, issued_at, expires_at, revoked_at`

func scanAccessCode(row pgx.Row) (*domain.AccessCode, error) {
	var c domain.AccessCode
	var intendedEmail *string
	err := row.Scan(
		&c.ID, &c.HotelID, &c.CodeLabel, &c.CodeHash, &c.Seq, &c.Status,
		&c.GuestUserID, &c.StayID, &intendedEmail, &c.IssuedAt, &c.ExpiresAt, &c.RevokedAt,
	)
	if err != nil {
		return nil, err
	}
	if intendedEmail != nil {
		c.IntendedEmail = *intendedEmail
	}
	return &c, nil
}

func (r *AccessCodesRepoImpl) Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	const q = `
INSERT INTO access_codes (hotel_id, code_label, code_hash, seq, intended_email, expires_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),$6)
RETURNING ` + accessCodeCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanAccessCode(db(ctx, r.pool).QueryRow(ctx, q,
		c.HotelID, c.CodeLabel, c.CodeHash, c.Seq, c.IntendedEmail, c.ExpiresAt,
	))
	if isUniqueViolation(err, "") {
		return nil, fmt.Errorf("%w: code label already exists", domain.ErrConflict)
	}
	return created, err
}

func (r *AccessCodesRepoImpl) FindByID(ctx context.Context, id int64) (*domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanAccessCode(db(ctx, r.pool).QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *AccessCodesRepoImpl) FindActiveByLabel(ctx context.Context, label string) (*domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE code_label=$1 AND status='active'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanAccessCode(db(ctx, r.pool).QueryRow(ctx, q, label))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// Bind attaches an active code to a guest and stay. The guard in the WHERE
// clause makes binding first-wins: a code already bound to another guest is
// left untouched and Bind reports false.
func (r *AccessCodesRepoImpl) Bind(ctx context.Context, id, guestUserID, stayID int64) (bool, error) {
	const q = `
UPDATE access_codes
SET guest_user_id=$2, stay_id=$3
WHERE id=$1 AND status='active' AND (guest_user_id IS NULL OR guest_user_id=$2)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := db(ctx, r.pool).Exec(ctx, q, id, guestUserID, stayID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// Revoke closes the code's validity window immediately. Idempotent: a second
// call matches no rows and is a no-op.
func (r *AccessCodesRepoImpl) Revoke(ctx context.Context, id int64, now time.Time) error {
	const q = `
UPDATE access_codes
SET status='revoked', revoked_at=$2, expires_at=$2
WHERE id=$1 AND status='active'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := db(ctx, r.pool).Exec(ctx, q, id, now)
	return err
}
