package service

import (
	"context"
	"fmt"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/repo/postgres"
	"github.com/staylink/staylink-backend/pkg/logger"
)

type HotelProfile struct {
	User  *domain.UserInfo `json:"user"`
	Hotel *domain.Hotel    `json:"hotel"`
}

type BusinessProfile struct {
	User     *domain.UserInfo `json:"user"`
	Business *domain.Business `json:"business"`
}

type GuestProfile struct {
	User  *domain.UserInfo `json:"user"`
	Guest *domain.Guest    `json:"guest"`
}

// ProfileService reads and patches role profiles and serves the hotel
// directory.
type ProfileService interface {
	HotelMe(ctx context.Context, userID int64) (*HotelProfile, error)
	UpdateHotel(ctx context.Context, userID int64, patch *domain.UpdateHotelRequest) (*domain.Hotel, error)
	BusinessMe(ctx context.Context, userID int64) (*BusinessProfile, error)
	UpdateBusiness(ctx context.Context, userID int64, patch *domain.UpdateBusinessRequest) (*domain.Business, error)
	GuestMe(ctx context.Context, userID int64) (*GuestProfile, error)
	UpdateGuest(ctx context.Context, userID int64, patch *domain.UpdateGuestRequest) (*GuestProfile, error)
	ListHotels(ctx context.Context, limit, offset int) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
}

type ProfileServiceImpl struct {
	users      postgres.UsersRepo
	hotels     postgres.HotelsRepo
	businesses postgres.BusinessesRepo
	guests     postgres.GuestsRepo
	tx         TxRunner
}

func NewProfileService(
	users postgres.UsersRepo,
	hotels postgres.HotelsRepo,
	businesses postgres.BusinessesRepo,
	guests postgres.GuestsRepo,
	tx TxRunner,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		users:      users,
		hotels:     hotels,
		businesses: businesses,
		guests:     guests,
		tx:         tx,
	}
}

func (s *ProfileServiceImpl) HotelMe(ctx context.Context, userID int64) (*HotelProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}

	hotel, err := s.hotels.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel profile: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("%w: hotel profile not found", domain.ErrNotFound)
	}
	return &HotelProfile{User: user.ToUserInfo(), Hotel: hotel}, nil
}

// UpdateHotel patches the hotel profile. The code prefix and check-in counter
// are owned by the check-in subsystem and cannot be written through here.
func (s *ProfileServiceImpl) UpdateHotel(ctx context.Context, userID int64, patch *domain.UpdateHotelRequest) (*domain.Hotel, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	hotel, err := s.hotels.Update(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update hotel profile: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("%w: hotel profile not found", domain.ErrNotFound)
	}

	logger.InfoContext(ctx, "Hotel profile updated", "user_id", userID, "hotel_id", hotel.ID)
	return hotel, nil
}

func (s *ProfileServiceImpl) BusinessMe(ctx context.Context, userID int64) (*BusinessProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}

	business, err := s.businesses.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}
	if business == nil {
		return nil, fmt.Errorf("%w: business profile not found", domain.ErrNotFound)
	}
	return &BusinessProfile{User: user.ToUserInfo(), Business: business}, nil
}

func (s *ProfileServiceImpl) UpdateBusiness(ctx context.Context, userID int64, patch *domain.UpdateBusinessRequest) (*domain.Business, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	business, err := s.businesses.Update(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update business profile: %w", err)
	}
	if business == nil {
		return nil, fmt.Errorf("%w: business profile not found", domain.ErrNotFound)
	}

	logger.InfoContext(ctx, "Business profile updated", "user_id", userID, "business_id", business.ID)
	return business, nil
}

func (s *ProfileServiceImpl) GuestMe(ctx context.Context, userID int64) (*GuestProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}

	guest, err := s.guests.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest profile: %w", err)
	}
	if guest == nil {
		return nil, fmt.Errorf("%w: guest profile not found", domain.ErrNotFound)
	}
	return &GuestProfile{User: user.ToUserInfo(), Guest: guest}, nil
}

// UpdateGuest patches the guest's name and email. The account row and the
// guest profile row change in one transaction so the display name never
// drifts between the two.
func (s *ProfileServiceImpl) UpdateGuest(ctx context.Context, userID int64, patch *domain.UpdateGuestRequest) (*GuestProfile, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.UpdateProfile(ctx, userID, patch.Name, patch.Email)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: account not found", domain.ErrNotFound)
		}
		if patch.Name != nil {
			return s.guests.UpdateFullName(ctx, userID, *patch.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	guest, err := s.guests.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest profile: %w", err)
	}
	if guest == nil {
		return nil, fmt.Errorf("%w: guest profile not found", domain.ErrNotFound)
	}

	logger.InfoContext(ctx, "Guest profile updated", "user_id", userID)
	return &GuestProfile{User: user.ToUserInfo(), Guest: guest}, nil
}

func (s *ProfileServiceImpl) ListHotels(ctx context.Context, limit, offset int) ([]domain.Hotel, error) {
	return s.hotels.List(ctx, limit, offset)
}

func (s *ProfileServiceImpl) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	hotel, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("%w: hotel not found", domain.ErrNotFound)
	}
	return hotel, nil
}
