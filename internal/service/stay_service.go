package service

import (
	"context"
	"fmt"
	"time"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/repo/postgres"
	"github.com/staylink/staylink-backend/pkg/events"
	"github.com/staylink/staylink-backend/pkg/logger"
)

// StayService owns the stay lifecycle: one active stay per guest, checkout by
// either party, and the code revocation that rides along with checkout.
type StayService interface {
	CheckIn(ctx context.Context, guestUserID int64, req *domain.CheckInRequest) (*domain.Stay, error)
	CheckOut(ctx context.Context, guestUserID int64) (*domain.Stay, error)
	CheckOutGuest(ctx context.Context, hotelUserID int64, req *domain.CheckoutGuestRequest) (*domain.Stay, error)
	Current(ctx context.Context, guestUserID int64) (*domain.StayWithHotel, error)
}

type StayServiceImpl struct {
	stays  postgres.StaysRepo
	hotels postgres.HotelsRepo
	codes  postgres.AccessCodesRepo
	tx     TxRunner
	bus    events.Publisher
}

func NewStayService(
	stays postgres.StaysRepo,
	hotels postgres.HotelsRepo,
	codes postgres.AccessCodesRepo,
	tx TxRunner,
	bus events.Publisher,
) *StayServiceImpl {
	return &StayServiceImpl{stays: stays, hotels: hotels, codes: codes, tx: tx, bus: bus}
}

// CheckIn starts a stay at a hotel without an access code (walk-in flow). The
// one-active-stay rule is enforced by the insert itself, so a guest with an
// open stay gets a conflict even under concurrent requests.
func (s *StayServiceImpl) CheckIn(ctx context.Context, guestUserID int64, req *domain.CheckInRequest) (*domain.Stay, error) {
	if req.HotelID <= 0 {
		return nil, fmt.Errorf("%w: hotel_id is required", domain.ErrBadRequest)
	}

	hotel, err := s.hotels.FindByID(ctx, req.HotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("%w: hotel not found", domain.ErrNotFound)
	}
	if !hotel.IsActive {
		return nil, fmt.Errorf("%w: hotel is deactivated", domain.ErrForbidden)
	}

	stay, err := s.stays.Create(ctx, guestUserID, hotel.ID, nil)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Guest checked in",
		"stay_id", stay.ID, "guest_user_id", guestUserID, "hotel_id", hotel.ID)
	s.publishCheckedIn(ctx, stay)
	return stay, nil
}

// CheckOut ends the guest's active stay. The stay flip and the revocation of
// its bound code commit together; a crash can never leave a checked-out stay
// with a still-live code.
func (s *StayServiceImpl) CheckOut(ctx context.Context, guestUserID int64) (*domain.Stay, error) {
	active, err := s.stays.FindActiveByGuest(ctx, guestUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active stay: %w", err)
	}
	if active == nil {
		return nil, fmt.Errorf("%w: no active stay", domain.ErrInvalidState)
	}

	stay, err := s.closeStay(ctx, active)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Guest checked out",
		"stay_id", stay.ID, "guest_user_id", guestUserID, "hotel_id", stay.HotelID)
	s.publishCheckedOut(ctx, stay, domain.CheckoutByGuest)
	return stay, nil
}

// CheckOutGuest lets the hotel end a stay at its own property.
func (s *StayServiceImpl) CheckOutGuest(ctx context.Context, hotelUserID int64, req *domain.CheckoutGuestRequest) (*domain.Stay, error) {
	if req.StayID <= 0 {
		return nil, fmt.Errorf("%w: stay_id is required", domain.ErrBadRequest)
	}

	hotel, err := s.hotels.FindByUserID(ctx, hotelUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel profile: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("%w: hotel profile not found", domain.ErrNotFound)
	}

	target, err := s.stays.FindByID(ctx, req.StayID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stay: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: stay not found", domain.ErrNotFound)
	}
	if target.HotelID != hotel.ID {
		return nil, fmt.Errorf("%w: stay belongs to another hotel", domain.ErrForbidden)
	}
	if target.Status != domain.StayActive {
		return nil, fmt.Errorf("%w: stay is not active", domain.ErrInvalidState)
	}

	stay, err := s.closeStay(ctx, target)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Hotel checked out guest",
		"stay_id", stay.ID, "guest_user_id", stay.GuestUserID, "hotel_id", hotel.ID)
	s.publishCheckedOut(ctx, stay, domain.CheckoutByHotel)
	return stay, nil
}

// Current returns the guest's active stay with hotel display fields, or nil
// when the guest is not checked in anywhere.
func (s *StayServiceImpl) Current(ctx context.Context, guestUserID int64) (*domain.StayWithHotel, error) {
	return s.stays.CurrentWithHotel(ctx, guestUserID)
}

func (s *StayServiceImpl) closeStay(ctx context.Context, target *domain.Stay) (*domain.Stay, error) {
	now := time.Now()
	var stay *domain.Stay
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stay, err = s.stays.Checkout(ctx, target.ID, now)
		if err != nil {
			return fmt.Errorf("failed to check out stay: %w", err)
		}
		if stay == nil {
			// lost a race; the stay was closed between lookup and update
			return fmt.Errorf("%w: stay is not active", domain.ErrInvalidState)
		}
		if stay.AccessCodeID != nil {
			if err := s.codes.Revoke(ctx, *stay.AccessCodeID, now); err != nil {
				return fmt.Errorf("failed to revoke access code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stay, nil
}

func (s *StayServiceImpl) publishCheckedIn(ctx context.Context, stay *domain.Stay) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.StayCheckedIn, events.StayCheckedInEvent{
		StayID:      stay.ID,
		GuestUserID: stay.GuestUserID,
		HotelID:     stay.HotelID,
		CheckInAt:   stay.CheckInAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish stay checked-in event", "error", err)
	}
}

func (s *StayServiceImpl) publishCheckedOut(ctx context.Context, stay *domain.Stay, by string) {
	if s.bus == nil {
		return
	}
	checkOutAt := time.Now()
	if stay.CheckOutAt != nil {
		checkOutAt = *stay.CheckOutAt
	}
	if err := s.bus.Publish(ctx, events.StayCheckedOut, events.StayCheckedOutEvent{
		StayID:      stay.ID,
		GuestUserID: stay.GuestUserID,
		HotelID:     stay.HotelID,
		CheckOutAt:  checkOutAt,
		By:          by,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish stay checked-out event", "error", err)
	}
}
