package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// User roles form a closed set; a role never changes after registration.
const (
	RoleHotel    = "HOTEL"
	RoleBusiness = "BUSINESS"
	RoleGuest    = "GUEST"
)

var validRoles = map[string]bool{
	RoleHotel:    true,
	RoleBusiness: true,
	RoleGuest:    true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

// Auth modes. PASSWORD accounts carry a credential hash; HOTEL_CODE accounts
// authenticate with a hotel-issued check-in code and never store one.
const (
	AuthModePassword  = "PASSWORD"
	AuthModeHotelCode = "HOTEL_CODE"
)

type TermsAcceptance struct {
	Accepted   bool      `json:"accepted"`
	AcceptedAt time.Time `json:"accepted_at"`
	Version    string    `json:"version"`
}

type User struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	AuthMode     string          `json:"auth_mode"`
	Terms        TermsAcceptance `json:"terms"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type UserInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// ---------- Registration requests ----------

type RegisterHotelRequest struct {
	HotelName       string   `json:"hotel_name"`
	Email           string   `json:"email"`
	ContactPhone    string   `json:"contact_phone"`
	LocationText    string   `json:"location_text"`
	PeakDays        []string `json:"peak_days,omitempty"`
	Category        string   `json:"category"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	AcceptedTerms   bool     `json:"accepted_terms"`
}

type RegisterBusinessRequest struct {
	BusinessName    string `json:"business_name"`
	Email           string `json:"email"`
	ContactPhone    string `json:"contact_phone"`
	Category        string `json:"category"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	AcceptedTerms   bool   `json:"accepted_terms"`
}

type RegisterGuestRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	HotelCode     string `json:"hotel_code"`
	AcceptedTerms bool   `json:"accepted_terms"`
}

func (r *RegisterHotelRequest) Normalize() {
	r.HotelName = strings.TrimSpace(r.HotelName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
	r.LocationText = strings.TrimSpace(r.LocationText)
}

func (r *RegisterHotelRequest) Validate() error {
	if r.HotelName == "" || r.Email == "" || r.ContactPhone == "" || r.LocationText == "" || r.Category == "" {
		return fmt.Errorf("all required fields must be filled")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if !IsValidHotelCategory(r.Category) {
		return fmt.Errorf("invalid hotel category")
	}
	for _, d := range r.PeakDays {
		if !IsValidPeakDay(d) {
			return fmt.Errorf("invalid peak day: %s", d)
		}
	}
	if err := validatePassword(r.Password, r.ConfirmPassword); err != nil {
		return err
	}
	if !r.AcceptedTerms {
		return fmt.Errorf("you must accept the terms and privacy policy")
	}
	return nil
}

func (r *RegisterBusinessRequest) Normalize() {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
}

func (r *RegisterBusinessRequest) Validate() error {
	if r.BusinessName == "" || r.Email == "" || r.ContactPhone == "" || r.Category == "" {
		return fmt.Errorf("all required fields must be filled")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if !IsValidBusinessCategory(r.Category) {
		return fmt.Errorf("invalid business category")
	}
	if err := validatePassword(r.Password, r.ConfirmPassword); err != nil {
		return err
	}
	if !r.AcceptedTerms {
		return fmt.Errorf("you must accept the terms and privacy policy")
	}
	return nil
}

func (r *RegisterGuestRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.HotelCode = NormalizeCodeLabel(r.HotelCode)
}

func (r *RegisterGuestRequest) Validate() error {
	if r.FullName == "" {
		return fmt.Errorf("full name is required")
	}
	if len(r.FullName) < 2 {
		return fmt.Errorf("full name must be at least 2 characters")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.HotelCode == "" {
		return fmt.Errorf("hotel code is required")
	}
	if !r.AcceptedTerms {
		return fmt.Errorf("you must accept the terms and privacy policy")
	}
	return nil
}

func validatePassword(password, confirm string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password too short: must be at least 8 characters")
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// ---------- Login ----------

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	HotelCode string `json:"hotel_code,omitempty"`
}

// Credential is the resolved login variant. The password-vs-code dispatch
// happens once at the boundary, not deep inside the service.
type Credential interface {
	credential()
}

type PasswordCredential struct {
	Email    string
	Password string
}

type CodeCredential struct {
	Email     string
	CodeLabel string
}

func (PasswordCredential) credential() {}
func (CodeCredential) credential()     {}

// Resolve normalizes the request and picks exactly one credential variant.
// A whitespace-only password counts as absent.
func (r *LoginRequest) Resolve() (Credential, error) {
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !isValidEmail(email) {
		return nil, fmt.Errorf("invalid email format")
	}

	password := strings.TrimSpace(r.Password)
	code := NormalizeCodeLabel(r.HotelCode)

	switch {
	case password != "":
		return PasswordCredential{Email: email, Password: password}, nil
	case code != "":
		return CodeCredential{Email: email, CodeLabel: code}, nil
	default:
		return nil, fmt.Errorf("credential required")
	}
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	User      *UserInfo `json:"user"`
}

// ---------- Helpers ----------

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidEmail reports whether the address passes the boundary format check.
func IsValidEmail(email string) bool {
	return isValidEmail(email)
}
