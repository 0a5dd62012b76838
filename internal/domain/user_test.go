package domain_test

import (
	"testing"

	"github.com/staylink/staylink-backend/internal/domain"
)

func TestLoginRequestResolve(t *testing.T) {
	t.Run("password credential", func(t *testing.T) {
		req := &domain.LoginRequest{Email: " Guest@Example.COM ", Password: "secret123"}
		cred, err := req.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		pc, ok := cred.(domain.PasswordCredential)
		if !ok {
			t.Fatalf("Resolve() = %T, want PasswordCredential", cred)
		}
		if pc.Email != "guest@example.com" {
			t.Errorf("email not normalized: %q", pc.Email)
		}
	})

	t.Run("code credential", func(t *testing.T) {
		req := &domain.LoginRequest{Email: "guest@example.com", HotelCode: " ehl-001 "}
		cred, err := req.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		cc, ok := cred.(domain.CodeCredential)
		if !ok {
			t.Fatalf("Resolve() = %T, want CodeCredential", cred)
		}
		if cc.CodeLabel != "EHL-001" {
			t.Errorf("code not normalized: %q", cc.CodeLabel)
		}
	})

	t.Run("password wins when both present", func(t *testing.T) {
		req := &domain.LoginRequest{Email: "guest@example.com", Password: "secret123", HotelCode: "EHL-001"}
		cred, err := req.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if _, ok := cred.(domain.PasswordCredential); !ok {
			t.Errorf("Resolve() = %T, want PasswordCredential", cred)
		}
	})

	t.Run("whitespace-only password counts as absent", func(t *testing.T) {
		req := &domain.LoginRequest{Email: "guest@example.com", Password: "   ", HotelCode: "EHL-001"}
		cred, err := req.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if _, ok := cred.(domain.CodeCredential); !ok {
			t.Errorf("Resolve() = %T, want CodeCredential", cred)
		}
	})

	t.Run("neither credential", func(t *testing.T) {
		req := &domain.LoginRequest{Email: "guest@example.com"}
		if _, err := req.Resolve(); err == nil {
			t.Error("Resolve() expected error for missing credential")
		}
	})

	t.Run("missing email", func(t *testing.T) {
		req := &domain.LoginRequest{Password: "secret123"}
		if _, err := req.Resolve(); err == nil {
			t.Error("Resolve() expected error for missing email")
		}
	})
}

func TestRegisterHotelRequestValidate(t *testing.T) {
	valid := func() *domain.RegisterHotelRequest {
		return &domain.RegisterHotelRequest{
			HotelName:       "Eko Hotel Lagos",
			Email:           "front@ekohotel.ng",
			ContactPhone:    "+2348000000000",
			LocationText:    "Victoria Island, Lagos",
			Category:        "Luxury & Lifestyle",
			Password:        "secret123",
			ConfirmPassword: "secret123",
			AcceptedTerms:   true,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	t.Run("short password", func(t *testing.T) {
		req := valid()
		req.Password, req.ConfirmPassword = "short", "short"
		if err := req.Validate(); err == nil {
			t.Error("expected short password to be rejected")
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := valid()
		req.ConfirmPassword = "different123"
		if err := req.Validate(); err == nil {
			t.Error("expected mismatched passwords to be rejected")
		}
	})

	t.Run("terms not accepted", func(t *testing.T) {
		req := valid()
		req.AcceptedTerms = false
		if err := req.Validate(); err == nil {
			t.Error("expected unaccepted terms to be rejected")
		}
	})

	t.Run("bad category", func(t *testing.T) {
		req := valid()
		req.Category = "Motel"
		if err := req.Validate(); err == nil {
			t.Error("expected unknown category to be rejected")
		}
	})

	t.Run("bad peak day", func(t *testing.T) {
		req := valid()
		req.PeakDays = []string{"Friday", "Someday"}
		if err := req.Validate(); err == nil {
			t.Error("expected unknown peak day to be rejected")
		}
	})
}
