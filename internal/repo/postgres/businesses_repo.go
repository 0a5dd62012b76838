package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staylink/staylink-backend/internal/domain"
)

type BusinessesRepo interface {
	Create(ctx context.Context, b *domain.Business) (*domain.Business, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.Business, error)
	Update(ctx context.Context, userID int64, patch *domain.UpdateBusinessRequest) (*domain.Business, error)
}

type BusinessesRepoImpl struct{ pool *pgxpool.Pool }

func NewBusinessesRepo(pool *pgxpool.Pool) *BusinessesRepoImpl {
	return &BusinessesRepoImpl{pool: pool}
}

const businessCols = `id, user_id, business_name, contact_phone, category, is_active, created_at, updated_at`

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var b domain.Business
	err := row.Scan(
		&b.ID, &b.UserID, &b.BusinessName, &b.ContactPhone, &b.Category,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessesRepoImpl) Create(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	const q = `
INSERT INTO businesses (user_id, business_name, contact_phone, category)
VALUES ($1,$2,$3,$4)
RETURNING ` + businessCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBusiness(db(ctx, r.pool).QueryRow(ctx, q,
		b.UserID, b.BusinessName, b.ContactPhone, b.Category,
	))
}

func (r *BusinessesRepoImpl) FindByUserID(ctx context.Context, userID int64) (*domain.Business, error) {
	const q = `SELECT ` + businessCols + ` FROM businesses WHERE user_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBusiness(db(ctx, r.pool).QueryRow(ctx, q, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *BusinessesRepoImpl) Update(ctx context.Context, userID int64, patch *domain.UpdateBusinessRequest) (*domain.Business, error) {
	const q = `
UPDATE businesses
SET business_name = COALESCE($2, business_name),
    contact_phone = COALESCE($3, contact_phone),
    category      = COALESCE($4, category),
    is_active     = COALESCE($5, is_active),
    updated_at    = now()
WHERE user_id=$1
RETURNING ` + businessCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBusiness(db(ctx, r.pool).QueryRow(ctx, q,
		userID, patch.BusinessName, patch.ContactPhone, patch.Category, patch.IsActive,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}
