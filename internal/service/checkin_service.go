package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/mailer"
	"github.com/staylink/staylink-backend/internal/repo/postgres"
	"github.com/staylink/staylink-backend/internal/utils"
	"github.com/staylink/staylink-backend/pkg/events"
	"github.com/staylink/staylink-backend/pkg/logger"
)

type RevokeCodeRequest struct {
	CodeLabel string `json:"code_label"`
}

// CheckinService issues, verifies and revokes hotel check-in codes.
type CheckinService interface {
	Issue(ctx context.Context, hotelUserID int64, req *domain.IssueCodeRequest) (*domain.IssuedCode, error)
	Verify(ctx context.Context, label string) (*domain.AccessCode, error)
	Revoke(ctx context.Context, hotelUserID int64, req *RevokeCodeRequest) error
}

type CheckinServiceImpl struct {
	hotels  postgres.HotelsRepo
	codes   postgres.AccessCodesRepo
	bus     events.Publisher
	mail    mailer.Service
	codeTTL time.Duration
}

func NewCheckinService(
	hotels postgres.HotelsRepo,
	codes postgres.AccessCodesRepo,
	bus events.Publisher,
	mail mailer.Service,
	codeTTL time.Duration,
) *CheckinServiceImpl {
	return &CheckinServiceImpl{
		hotels:  hotels,
		codes:   codes,
		bus:     bus,
		mail:    mail,
		codeTTL: codeTTL,
	}
}

// Issue allocates the next sequence number for the hotel and mints a code
// label from it. The counter update is a single atomic statement, so two
// concurrent issuances always receive distinct labels. A crash between the
// counter bump and the insert burns a number, which is acceptable: labels
// must be unique, not gapless.
func (s *CheckinServiceImpl) Issue(ctx context.Context, hotelUserID int64, req *domain.IssueCodeRequest) (*domain.IssuedCode, error) {
	req.Normalize()
	if req.IntendedEmail != "" && !domain.IsValidEmail(req.IntendedEmail) {
		return nil, fmt.Errorf("%w: invalid intended email", domain.ErrBadRequest)
	}

	hotel, err := s.hotels.FindByUserID(ctx, hotelUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel profile: %w", err)
	}
	if hotel == nil {
		return nil, fmt.Errorf("%w: hotel profile not found", domain.ErrNotFound)
	}
	if !hotel.IsActive {
		return nil, fmt.Errorf("%w: hotel is deactivated", domain.ErrForbidden)
	}

	seq, err := s.hotels.NextCheckInSeq(ctx, hotel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate check-in sequence: %w", err)
	}

	label := utils.FormatCodeLabel(hotel.CodePrefix, seq)

	hash, err := bcrypt.GenerateFromPassword([]byte(label), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash code: %w", err)
	}

	expiresAt := time.Now().Add(s.codeTTL)
	created, err := s.codes.Create(ctx, &domain.AccessCode{
		HotelID:       hotel.ID,
		CodeLabel:     label,
		CodeHash:      string(hash),
		Seq:           seq,
		IntendedEmail: req.IntendedEmail,
		ExpiresAt:     &expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store access code: %w", err)
	}

	logger.InfoContext(ctx, "Check-in code issued",
		"hotel_id", hotel.ID, "code_label", created.CodeLabel, "seq", seq)

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.CheckinCodeIssued, events.CheckinCodeIssuedEvent{
			AccessCodeID: created.ID,
			HotelID:      hotel.ID,
			CodeLabel:    created.CodeLabel,
			ExpiresAt:    expiresAt,
			IssuedAt:     created.IssuedAt,
		}); err != nil {
			logger.ErrorContext(ctx, "Failed to publish code issued event", "error", err)
		}
	}

	if req.IntendedEmail != "" && s.mail != nil {
		if err := s.mail.SendCheckinCode(req.IntendedEmail, hotel.HotelName, created.CodeLabel, expiresAt); err != nil {
			// the code is already issued; a mail failure must not fail the request
			logger.ErrorContext(ctx, "Failed to send check-in code email",
				"error", err, "code_label", created.CodeLabel)
		}
	}

	return &domain.IssuedCode{Code: created.CodeLabel, ExpiresAt: expiresAt}, nil
}

// Verify resolves a presented label to its active access code. Every failure
// mode collapses to ErrInvalidCredentials so callers cannot probe which codes
// exist; the distinct cause is only logged.
func (s *CheckinServiceImpl) Verify(ctx context.Context, label string) (*domain.AccessCode, error) {
	return verifyAccessCode(ctx, s.codes, label)
}

func verifyAccessCode(ctx context.Context, codes postgres.AccessCodesRepo, label string) (*domain.AccessCode, error) {
	normalized := domain.NormalizeCodeLabel(label)
	if normalized == "" {
		return nil, domain.ErrInvalidCredentials
	}

	code, err := codes.FindActiveByLabel(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up access code: %w", err)
	}
	if code == nil {
		logger.InfoContext(ctx, "Code verification failed: no active code", "code_label", normalized)
		return nil, domain.ErrInvalidCredentials
	}
	if code.IsExpired(time.Now()) {
		logger.InfoContext(ctx, "Code verification failed: expired",
			"code_label", normalized, "expires_at", code.ExpiresAt)
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(code.CodeHash), []byte(normalized)); err != nil {
		logger.WarnContext(ctx, "Code verification failed: hash mismatch", "code_label", normalized)
		return nil, domain.ErrInvalidCredentials
	}
	return code, nil
}

// Revoke closes a code issued by the caller's hotel. Revoking an
// already-revoked code succeeds without effect.
func (s *CheckinServiceImpl) Revoke(ctx context.Context, hotelUserID int64, req *RevokeCodeRequest) error {
	label := domain.NormalizeCodeLabel(req.CodeLabel)
	if label == "" {
		return fmt.Errorf("%w: code label is required", domain.ErrBadRequest)
	}

	hotel, err := s.hotels.FindByUserID(ctx, hotelUserID)
	if err != nil {
		return fmt.Errorf("failed to load hotel profile: %w", err)
	}
	if hotel == nil {
		return fmt.Errorf("%w: hotel profile not found", domain.ErrNotFound)
	}

	code, err := s.codes.FindActiveByLabel(ctx, label)
	if err != nil {
		return fmt.Errorf("failed to look up access code: %w", err)
	}
	if code == nil {
		// absent or already revoked; either way there is nothing left to do
		return nil
	}
	if code.HotelID != hotel.ID {
		return fmt.Errorf("%w: code belongs to another hotel", domain.ErrForbidden)
	}

	now := time.Now()
	if err := s.codes.Revoke(ctx, code.ID, now); err != nil {
		return fmt.Errorf("failed to revoke access code: %w", err)
	}

	logger.InfoContext(ctx, "Check-in code revoked", "hotel_id", hotel.ID, "code_label", code.CodeLabel)

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.CheckinCodeRevoked, events.CheckinCodeRevokedEvent{
			AccessCodeID: code.ID,
			HotelID:      code.HotelID,
			CodeLabel:    code.CodeLabel,
			RevokedAt:    now,
		}); err != nil {
			logger.ErrorContext(ctx, "Failed to publish code revoked event", "error", err)
		}
	}
	return nil
}
