package domain

import (
	"strings"
	"time"
)

// Access code statuses. The only legal transition is active -> revoked.
const (
	CodeActive  = "active"
	CodeRevoked = "revoked"
)

// AccessCode is a single-use hotel-scoped credential. The raw label is
// returned exactly once at issuance; only its hash is stored.
type AccessCode struct {
	ID            int64      `json:"id"`
	HotelID       int64      `json:"hotel_id"`
	CodeLabel     string     `json:"code_label"` // e.g. "EHL-094"
	CodeHash      string     `json:"-"`
	Seq           int64      `json:"-"`
	Status        string     `json:"status"`
	GuestUserID   *int64     `json:"guest_user_id,omitempty"`
	StayID        *int64     `json:"stay_id,omitempty"`
	IntendedEmail string     `json:"intended_email,omitempty"`
	IssuedAt      time.Time  `json:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

func (c *AccessCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

func (c *AccessCode) IsActive() bool {
	return c.Status == CodeActive
}

// BoundTo reports whether the code is already bound to a different guest.
// An unbound code is free to bind to anyone.
func (c *AccessCode) BoundTo(guestUserID int64) bool {
	return c.GuestUserID != nil && *c.GuestUserID != guestUserID
}

// NormalizeCodeLabel canonicalizes a presented label for lookup.
func NormalizeCodeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

type IssueCodeRequest struct {
	IntendedEmail string `json:"intended_email,omitempty"`
}

func (r *IssueCodeRequest) Normalize() {
	r.IntendedEmail = strings.ToLower(strings.TrimSpace(r.IntendedEmail))
}

type IssuedCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
