package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staylink/staylink-backend/internal/domain"
)

type GuestsRepo interface {
	Create(ctx context.Context, g *domain.Guest) (*domain.Guest, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.Guest, error)
	UpdateFullName(ctx context.Context, userID int64, fullName string) error
	SetLastHotelCode(ctx context.Context, userID int64, codeLabel string) error
}

type GuestsRepoImpl struct{ pool *pgxpool.Pool }

func NewGuestsRepo(pool *pgxpool.Pool) *GuestsRepoImpl { return &GuestsRepoImpl{pool: pool} }

const guestCols = `id, user_id, full_name, last_hotel_code, is_active, created_at, updated_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	var lastCode *string
	err := row.Scan(&g.ID, &g.UserID, &g.FullName, &lastCode, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastCode != nil {
		g.LastHotelCode = *lastCode
	}
	return &g, nil
}

func (r *GuestsRepoImpl) Create(ctx context.Context, g *domain.Guest) (*domain.Guest, error) {
	const q = `
INSERT INTO guests (user_id, full_name, last_hotel_code)
VALUES ($1,$2,NULLIF($3,''))
RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(db(ctx, r.pool).QueryRow(ctx, q, g.UserID, g.FullName, g.LastHotelCode))
}

func (r *GuestsRepoImpl) FindByUserID(ctx context.Context, userID int64) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE user_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(db(ctx, r.pool).QueryRow(ctx, q, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *GuestsRepoImpl) UpdateFullName(ctx context.Context, userID int64, fullName string) error {
	const q = `UPDATE guests SET full_name=$2, updated_at=now() WHERE user_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := db(ctx, r.pool).Exec(ctx, q, userID, fullName)
	return err
}

func (r *GuestsRepoImpl) SetLastHotelCode(ctx context.Context, userID int64, codeLabel string) error {
	const q = `UPDATE guests SET last_hotel_code=$2, updated_at=now() WHERE user_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := db(ctx, r.pool).Exec(ctx, q, userID, codeLabel)
	return err
}
