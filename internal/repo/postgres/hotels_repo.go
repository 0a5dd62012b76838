package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staylink/staylink-backend/internal/domain"
)

type HotelsRepo interface {
	Create(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error)
	FindByID(ctx context.Context, id int64) (*domain.Hotel, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.Hotel, error)
	List(ctx context.Context, limit, offset int) ([]domain.Hotel, error)
	Update(ctx context.Context, userID int64, patch *domain.UpdateHotelRequest) (*domain.Hotel, error)
	NextCheckInSeq(ctx context.Context, hotelID int64) (int64, error)
}

type HotelsRepoImpl struct{ pool *pgxpool.Pool }

func NewHotelsRepo(pool *pgxpool.Pool) *HotelsRepoImpl { return &HotelsRepoImpl{pool: pool} }

const hotelCols = `id, user_id, hotel_name, contact_phone, location_text,
peak_days, category, code_prefix, check_in_seq, is_active, created_at, updated_at`

func scanHotel(row pgx.Row) (*domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(
		&h.ID, &h.UserID, &h.HotelName, &h.ContactPhone, &h.LocationText,
		&h.PeakDays, &h.Category, &h.CodePrefix, &h.CheckInSeq,
		&h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HotelsRepoImpl) Create(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	const q = `
INSERT INTO hotels (user_id, hotel_name, contact_phone, location_text, peak_days, category, code_prefix)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + hotelCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	peakDays := h.PeakDays
	if peakDays == nil {
		peakDays = []string{}
	}

	return scanHotel(db(ctx, r.pool).QueryRow(ctx, q,
		h.UserID, h.HotelName, h.ContactPhone, h.LocationText,
		peakDays, h.Category, h.CodePrefix,
	))
}

func (r *HotelsRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	const q = `SELECT ` + hotelCols + ` FROM hotels WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	h, err := scanHotel(db(ctx, r.pool).QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return h, err
}

func (r *HotelsRepoImpl) FindByUserID(ctx context.Context, userID int64) (*domain.Hotel, error) {
	const q = `SELECT ` + hotelCols + ` FROM hotels WHERE user_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	h, err := scanHotel(db(ctx, r.pool).QueryRow(ctx, q, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return h, err
}

func (r *HotelsRepoImpl) List(ctx context.Context, limit, offset int) ([]domain.Hotel, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + hotelCols + ` FROM hotels ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := db(ctx, r.pool).Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

func (r *HotelsRepoImpl) Update(ctx context.Context, userID int64, patch *domain.UpdateHotelRequest) (*domain.Hotel, error) {
	// code_prefix and check_in_seq are deliberately not updatable here.
	const q = `
UPDATE hotels
SET hotel_name    = COALESCE($2, hotel_name),
    contact_phone = COALESCE($3, contact_phone),
    location_text = COALESCE($4, location_text),
    peak_days     = COALESCE($5, peak_days),
    category      = COALESCE($6, category),
    is_active     = COALESCE($7, is_active),
    updated_at    = now()
WHERE user_id=$1
RETURNING ` + hotelCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	h, err := scanHotel(db(ctx, r.pool).QueryRow(ctx, q,
		userID, patch.HotelName, patch.ContactPhone, patch.LocationText,
		patch.PeakDays, patch.Category, patch.IsActive,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return h, err
}

// NextCheckInSeq atomically increments and returns the hotel's check-in
// counter. A single UPDATE keeps concurrent issuances linearizable per hotel;
// two callers can never observe the same value.
func (r *HotelsRepoImpl) NextCheckInSeq(ctx context.Context, hotelID int64) (int64, error) {
	const q = `UPDATE hotels SET check_in_seq = check_in_seq + 1, updated_at = now() WHERE id=$1 RETURNING check_in_seq`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var seq int64
	err := db(ctx, r.pool).QueryRow(ctx, q, hotelID).Scan(&seq)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("%w: hotel not found", domain.ErrNotFound)
	}
	return seq, err
}
