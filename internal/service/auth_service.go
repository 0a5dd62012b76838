package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/repo/postgres"
	"github.com/staylink/staylink-backend/internal/utils"
	"github.com/staylink/staylink-backend/pkg/auth"
	"github.com/staylink/staylink-backend/pkg/events"
	"github.com/staylink/staylink-backend/pkg/logger"
)

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type RegisterHotelResponse struct {
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expires_in"`
	User      *domain.UserInfo `json:"user"`
	Hotel     *domain.Hotel    `json:"hotel"`
}

type RegisterBusinessResponse struct {
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expires_in"`
	User      *domain.UserInfo `json:"user"`
	Business  *domain.Business `json:"business"`
}

type RegisterGuestResponse struct {
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expires_in"`
	User      *domain.UserInfo `json:"user"`
	Guest     *domain.Guest    `json:"guest"`
	Stay      *domain.Stay     `json:"stay"`
}

type AuthService interface {
	RegisterHotel(ctx context.Context, req *domain.RegisterHotelRequest) (*RegisterHotelResponse, error)
	RegisterBusiness(ctx context.Context, req *domain.RegisterBusinessRequest) (*RegisterBusinessResponse, error)
	RegisterGuest(ctx context.Context, req *domain.RegisterGuestRequest) (*RegisterGuestResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
}

type AuthServiceImpl struct {
	users      postgres.UsersRepo
	hotels     postgres.HotelsRepo
	businesses postgres.BusinessesRepo
	guests     postgres.GuestsRepo
	codes      postgres.AccessCodesRepo
	stays      postgres.StaysRepo
	tx         TxRunner
	bus        events.Publisher

	jwtSecret    string
	sessionTTL   time.Duration
	termsVersion string
}

func NewAuthService(
	users postgres.UsersRepo,
	hotels postgres.HotelsRepo,
	businesses postgres.BusinessesRepo,
	guests postgres.GuestsRepo,
	codes postgres.AccessCodesRepo,
	stays postgres.StaysRepo,
	tx TxRunner,
	bus events.Publisher,
	jwtSecret string,
	sessionTTL time.Duration,
	termsVersion string,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:        users,
		hotels:       hotels,
		businesses:   businesses,
		guests:       guests,
		codes:        codes,
		stays:        stays,
		tx:           tx,
		bus:          bus,
		jwtSecret:    jwtSecret,
		sessionTTL:   sessionTTL,
		termsVersion: termsVersion,
	}
}

// RegisterHotel creates the HOTEL identity and its profile in one
// transaction. The code prefix is derived from the hotel name at creation and
// never changes afterwards, so already-issued labels stay attributable.
func (s *AuthServiceImpl) RegisterHotel(ctx context.Context, req *domain.RegisterHotelRequest) (*RegisterHotelResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	// hash outside the transaction; argon2id is deliberately slow
	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *domain.User
	var hotel *domain.Hotel
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err = s.users.Create(ctx, &domain.User{
			Name:         req.HotelName,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         domain.RoleHotel,
			AuthMode:     domain.AuthModePassword,
			Terms:        s.termsAcceptance(),
		})
		if err != nil {
			return err
		}

		hotel, err = s.hotels.Create(ctx, &domain.Hotel{
			UserID:       user.ID,
			HotelName:    req.HotelName,
			ContactPhone: req.ContactPhone,
			LocationText: req.LocationText,
			PeakDays:     req.PeakDays,
			Category:     req.Category,
			CodePrefix:   utils.MakeHotelPrefix(req.HotelName),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Hotel registered",
		"user_id", user.ID, "hotel_id", hotel.ID, "code_prefix", hotel.CodePrefix)
	s.publishRegistered(ctx, user)

	token, err := auth.NewSessionToken(user.ID, user.Role, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &RegisterHotelResponse{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		User:      user.ToUserInfo(),
		Hotel:     hotel,
	}, nil
}

func (s *AuthServiceImpl) RegisterBusiness(ctx context.Context, req *domain.RegisterBusinessRequest) (*RegisterBusinessResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *domain.User
	var business *domain.Business
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err = s.users.Create(ctx, &domain.User{
			Name:         req.BusinessName,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         domain.RoleBusiness,
			AuthMode:     domain.AuthModePassword,
			Terms:        s.termsAcceptance(),
		})
		if err != nil {
			return err
		}

		business, err = s.businesses.Create(ctx, &domain.Business{
			UserID:       user.ID,
			BusinessName: req.BusinessName,
			ContactPhone: req.ContactPhone,
			Category:     req.Category,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Business registered", "user_id", user.ID, "business_id", business.ID)
	s.publishRegistered(ctx, user)

	token, err := auth.NewSessionToken(user.ID, user.Role, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &RegisterBusinessResponse{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		User:      user.ToUserInfo(),
		Business:  business,
	}, nil
}

// RegisterGuest registers a passwordless GUEST identity against a hotel-issued
// check-in code. Account, profile, stay and code binding commit or roll back
// as one unit; the partial unique index on active stays and the first-wins
// bind guard close the concurrent races.
func (s *AuthServiceImpl) RegisterGuest(ctx context.Context, req *domain.RegisterGuestRequest) (*RegisterGuestResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	code, err := verifyAccessCode(ctx, s.codes, req.HotelCode)
	if err != nil {
		return nil, err
	}
	if code.GuestUserID != nil {
		return nil, fmt.Errorf("%w: code already in use", domain.ErrConflict)
	}
	if code.IntendedEmail != "" && code.IntendedEmail != req.Email {
		// display/audit field only; mismatch is worth a log line, not a reject
		logger.InfoContext(ctx, "Guest registering with code intended for another address",
			"code_label", code.CodeLabel)
	}

	var user *domain.User
	var guest *domain.Guest
	var stay *domain.Stay
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err = s.users.Create(ctx, &domain.User{
			Name:     req.FullName,
			Email:    req.Email,
			Role:     domain.RoleGuest,
			AuthMode: domain.AuthModeHotelCode,
			Terms:    s.termsAcceptance(),
		})
		if err != nil {
			return err
		}

		guest, err = s.guests.Create(ctx, &domain.Guest{
			UserID:        user.ID,
			FullName:      req.FullName,
			LastHotelCode: code.CodeLabel,
		})
		if err != nil {
			return err
		}

		stay, err = s.stays.Create(ctx, user.ID, code.HotelID, &code.ID)
		if err != nil {
			return err
		}

		bound, err := s.codes.Bind(ctx, code.ID, user.ID, stay.ID)
		if err != nil {
			return err
		}
		if !bound {
			return fmt.Errorf("%w: code already in use", domain.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Guest registered via check-in code",
		"user_id", user.ID, "hotel_id", code.HotelID, "stay_id", stay.ID, "code_label", code.CodeLabel)

	s.publishRegistered(ctx, user)
	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.StayCheckedIn, events.StayCheckedInEvent{
			StayID:      stay.ID,
			GuestUserID: user.ID,
			HotelID:     code.HotelID,
			CheckInAt:   stay.CheckInAt,
		}); err != nil {
			logger.ErrorContext(ctx, "Failed to publish stay checked-in event", "error", err)
		}
	}

	token, err := auth.NewSessionToken(user.ID, user.Role, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &RegisterGuestResponse{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		User:      user.ToUserInfo(),
		Guest:     guest,
		Stay:      stay,
	}, nil
}

// Login authenticates either variant of credential. Every failure after
// request validation returns the same invalid-credentials error; the real
// cause is only logged.
func (s *AuthServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	cred, err := req.Resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}

	var user *domain.User
	switch c := cred.(type) {
	case domain.PasswordCredential:
		user, err = s.loginWithPassword(ctx, c)
	case domain.CodeCredential:
		user, err = s.loginWithCode(ctx, c)
	default:
		return nil, fmt.Errorf("%w: unsupported credential", domain.ErrBadRequest)
	}
	if err != nil {
		return nil, err
	}

	token, err := auth.NewSessionToken(user.ID, user.Role, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	logger.InfoContext(ctx, "Login succeeded", "user_id", user.ID, "role", user.Role)
	return &domain.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		User:      user.ToUserInfo(),
	}, nil
}

func (s *AuthServiceImpl) loginWithPassword(ctx context.Context, c domain.PasswordCredential) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, c.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		logger.InfoContext(ctx, "Login failed: unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if user.AuthMode != domain.AuthModePassword {
		logger.InfoContext(ctx, "Login failed: password presented for code-only account", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	match, err := argon2id.ComparePasswordAndHash(c.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !match {
		logger.InfoContext(ctx, "Login failed: wrong password", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthServiceImpl) loginWithCode(ctx context.Context, c domain.CodeCredential) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, c.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		logger.InfoContext(ctx, "Login failed: unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if user.AuthMode != domain.AuthModeHotelCode {
		logger.InfoContext(ctx, "Login failed: code presented for password account", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	code, err := verifyAccessCode(ctx, s.codes, c.CodeLabel)
	if err != nil {
		return nil, err
	}
	if code.GuestUserID == nil || *code.GuestUserID != user.ID {
		logger.InfoContext(ctx, "Login failed: code not bound to this guest", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	// the code only authenticates while its stay is still open
	stay, err := s.stays.FindActiveByGuest(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active stay: %w", err)
	}
	if stay == nil || stay.AccessCodeID == nil || *stay.AccessCodeID != code.ID {
		logger.InfoContext(ctx, "Login failed: no active stay for this code", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.guests.SetLastHotelCode(ctx, user.ID, code.CodeLabel); err != nil {
		logger.ErrorContext(ctx, "Failed to record last hotel code", "error", err, "user_id", user.ID)
	}
	return user, nil
}

func (s *AuthServiceImpl) termsAcceptance() domain.TermsAcceptance {
	return domain.TermsAcceptance{
		Accepted:   true,
		AcceptedAt: time.Now(),
		Version:    s.termsVersion,
	}
}

func (s *AuthServiceImpl) publishRegistered(ctx context.Context, user *domain.User) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.AccountRegistered, events.AccountRegisteredEvent{
		UserID:       user.ID,
		Role:         user.Role,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish account registered event", "error", err)
	}
}
