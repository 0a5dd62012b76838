package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staylink/staylink-backend/internal/domain"
)

type StaysRepo interface {
	Create(ctx context.Context, guestUserID, hotelID int64, accessCodeID *int64) (*domain.Stay, error)
	FindByID(ctx context.Context, id int64) (*domain.Stay, error)
	FindActiveByGuest(ctx context.Context, guestUserID int64) (*domain.Stay, error)
	CurrentWithHotel(ctx context.Context, guestUserID int64) (*domain.StayWithHotel, error)
	Checkout(ctx context.Context, id int64, now time.Time) (*domain.Stay, error)
}

type StaysRepoImpl struct{ pool *pgxpool.Pool }

func NewStaysRepo(pool *pgxpool.Pool) *StaysRepoImpl { return &StaysRepoImpl{pool: pool} }

const stayCols = `id, guest_user_id, hotel_id, access_code_id, status,
check_in_at, check_out_at, created_at, updated_at`

func scanStay(row pgx.Row) (*domain.Stay, error) {
	var s domain.Stay
	err := row.Scan(
		&s.ID, &s.GuestUserID, &s.HotelID, &s.AccessCodeID, &s.Status,
		&s.CheckInAt, &s.CheckOutAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts an active stay. The partial unique index on
// (guest_user_id) WHERE status='active' is the enforcement point for the
// one-active-stay-per-guest rule; a concurrent second insert fails here
// rather than racing a prior existence check.
func (r *StaysRepoImpl) Create(ctx context.Context, guestUserID, hotelID int64, accessCodeID *int64) (*domain.Stay, error) {
	const q = `
INSERT INTO stays (guest_user_id, hotel_id, access_code_id, status)
VALUES ($1,$2,$3,'active')
RETURNING ` + stayCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStay(db(ctx, r.pool).QueryRow(ctx, q, guestUserID, hotelID, accessCodeID))
	if isUniqueViolation(err, "stays_one_active_per_guest") {
		return nil, fmt.Errorf("%w: guest already has an active stay", domain.ErrConflict)
	}
	return s, err
}

func (r *StaysRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Stay, error) {
	const q = `SELECT ` + stayCols + ` FROM stays WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStay(db(ctx, r.pool).QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *StaysRepoImpl) FindActiveByGuest(ctx context.Context, guestUserID int64) (*domain.Stay, error) {
	const q = `SELECT ` + stayCols + ` FROM stays WHERE guest_user_id=$1 AND status='active'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStay(db(ctx, r.pool).QueryRow(ctx, q, guestUserID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *StaysRepoImpl) CurrentWithHotel(ctx context.Context, guestUserID int64) (*domain.StayWithHotel, error) {
	const q = `
SELECT s.id, s.guest_user_id, s.hotel_id, s.access_code_id, s.status,
       s.check_in_at, s.check_out_at, s.created_at, s.updated_at,
       h.hotel_name, h.location_text, h.category
FROM stays s
JOIN hotels h ON h.id = s.hotel_id
WHERE s.guest_user_id=$1 AND s.status='active'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.StayWithHotel
	err := db(ctx, r.pool).QueryRow(ctx, q, guestUserID).Scan(
		&s.ID, &s.GuestUserID, &s.HotelID, &s.AccessCodeID, &s.Status,
		&s.CheckInAt, &s.CheckOutAt, &s.CreatedAt, &s.UpdatedAt,
		&s.HotelName, &s.LocationText, &s.Category,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Checkout flips an active stay to checked_out. Returns nil when the stay is
// absent or no longer active; the caller decides which of those it was.
func (r *StaysRepoImpl) Checkout(ctx context.Context, id int64, now time.Time) (*domain.Stay, error) {
	const q = `
UPDATE stays
SET status='checked_out', check_out_at=$2, updated_at=now()
WHERE id=$1 AND status='active'
RETURNING ` + stayCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStay(db(ctx, r.pool).QueryRow(ctx, q, id, now))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}
