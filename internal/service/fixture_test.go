package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/service"
)

type fixture struct {
	users      *mockUsersRepo
	hotels     *mockHotelsRepo
	businesses *mockBusinessesRepo
	guests     *mockGuestsRepo
	codes      *mockCodesRepo
	stays      *mockStaysRepo
	bus        *mockBus
	mail       *mockMailer

	auth    service.AuthService
	checkin service.CheckinService
	stay    service.StayService
	profile service.ProfileService
}

func newFixture() *fixture {
	f := &fixture{
		users:      newMockUsersRepo(),
		hotels:     newMockHotelsRepo(),
		businesses: newMockBusinessesRepo(),
		guests:     newMockGuestsRepo(),
		bus:        &mockBus{},
		mail:       &mockMailer{},
	}
	f.codes = newMockCodesRepo()
	f.stays = newMockStaysRepo(f.hotels)

	tx := mockTx{}
	f.auth = service.NewAuthService(
		f.users, f.hotels, f.businesses, f.guests, f.codes, f.stays,
		tx, f.bus, "test-secret", time.Hour, "1.0",
	)
	f.checkin = service.NewCheckinService(f.hotels, f.codes, f.bus, f.mail, 7*24*time.Hour)
	f.stay = service.NewStayService(f.stays, f.hotels, f.codes, tx, f.bus)
	f.profile = service.NewProfileService(f.users, f.hotels, f.businesses, f.guests, tx)
	return f
}

func (f *fixture) registerHotel(t *testing.T, name, email string) *service.RegisterHotelResponse {
	t.Helper()
	resp, err := f.auth.RegisterHotel(context.Background(), &domain.RegisterHotelRequest{
		HotelName:       name,
		Email:           email,
		ContactPhone:    "+2348000000000",
		LocationText:    "Victoria Island, Lagos",
		Category:        "Luxury & Lifestyle",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AcceptedTerms:   true,
	})
	if err != nil {
		t.Fatalf("RegisterHotel(%q) error = %v", name, err)
	}
	return resp
}

func (f *fixture) issueCode(t *testing.T, hotelUserID int64) *domain.IssuedCode {
	t.Helper()
	issued, err := f.checkin.Issue(context.Background(), hotelUserID, &domain.IssueCodeRequest{})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return issued
}

func (f *fixture) registerGuest(t *testing.T, fullName, email, code string) *service.RegisterGuestResponse {
	t.Helper()
	resp, err := f.auth.RegisterGuest(context.Background(), &domain.RegisterGuestRequest{
		FullName:      fullName,
		Email:         email,
		HotelCode:     code,
		AcceptedTerms: true,
	})
	if err != nil {
		t.Fatalf("RegisterGuest(%q) error = %v", email, err)
	}
	return resp
}

// expireCode rewinds a stored code's expiry so expiry paths can be exercised.
func (f *fixture) expireCode(label string) {
	f.codes.mu.Lock()
	defer f.codes.mu.Unlock()
	if id, ok := f.codes.byLabel[label]; ok {
		past := time.Now().Add(-time.Minute)
		f.codes.byID[id].ExpiresAt = &past
	}
}
