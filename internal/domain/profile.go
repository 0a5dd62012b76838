package domain

import (
	"fmt"
	"strings"
	"time"
)

// Hotel categories mirror the onboarding form.
var hotelCategories = map[string]bool{
	"Luxury & Lifestyle":      true,
	"Business & Conference":   true,
	"Boutique & Art":          true,
	"Extended Stay & Suites":  true,
	"Resort & Leisure":        true,
	"Others":                  true,
}

var businessCategories = map[string]bool{
	"Restaurant / Cafe":       true,
	"Tours & Experiences":     true,
	"Shopping & Artisan":      true,
	"Wellness & Beauty":       true,
	"Transport & Convenience": true,
	"Others":                  true,
}

var peakDays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

func IsValidHotelCategory(c string) bool    { return hotelCategories[c] }
func IsValidBusinessCategory(c string) bool { return businessCategories[c] }
func IsValidPeakDay(d string) bool          { return peakDays[d] }

// Hotel is the role profile of a HOTEL identity. CodePrefix and CheckInSeq
// are owned by the check-in code subsystem and never user-updatable.
type Hotel struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	HotelName    string    `json:"hotel_name"`
	ContactPhone string    `json:"contact_phone"`
	LocationText string    `json:"location_text"`
	PeakDays     []string  `json:"peak_days"`
	Category     string    `json:"category"`
	CodePrefix   string    `json:"code_prefix"`
	CheckInSeq   int64     `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Business struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	BusinessName string    `json:"business_name"`
	ContactPhone string    `json:"contact_phone"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Guest is the role profile of a GUEST identity. LastHotelCode is recorded
// for display and audit only; it grants nothing.
type Guest struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FullName      string    `json:"full_name"`
	LastHotelCode string    `json:"last_hotel_code,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ---------- Profile update requests ----------

type UpdateHotelRequest struct {
	HotelName    *string  `json:"hotel_name,omitempty"`
	ContactPhone *string  `json:"contact_phone,omitempty"`
	LocationText *string  `json:"location_text,omitempty"`
	PeakDays     []string `json:"peak_days,omitempty"`
	Category     *string  `json:"category,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

func (r *UpdateHotelRequest) Validate() error {
	if r.HotelName == nil && r.ContactPhone == nil && r.LocationText == nil &&
		r.PeakDays == nil && r.Category == nil && r.IsActive == nil {
		return fmt.Errorf("provide at least one field to update")
	}
	if r.HotelName != nil && len(strings.TrimSpace(*r.HotelName)) < 2 {
		return fmt.Errorf("hotel name must be at least 2 characters")
	}
	if r.Category != nil && !IsValidHotelCategory(*r.Category) {
		return fmt.Errorf("invalid hotel category")
	}
	for _, d := range r.PeakDays {
		if !IsValidPeakDay(d) {
			return fmt.Errorf("invalid peak day: %s", d)
		}
	}
	return nil
}

type UpdateBusinessRequest struct {
	BusinessName *string `json:"business_name,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	Category     *string `json:"category,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateBusinessRequest) Validate() error {
	if r.BusinessName == nil && r.ContactPhone == nil && r.Category == nil && r.IsActive == nil {
		return fmt.Errorf("provide at least one field to update")
	}
	if r.BusinessName != nil && len(strings.TrimSpace(*r.BusinessName)) < 2 {
		return fmt.Errorf("business name must be at least 2 characters")
	}
	if r.Category != nil && !IsValidBusinessCategory(*r.Category) {
		return fmt.Errorf("invalid business category")
	}
	return nil
}

type UpdateGuestRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (r *UpdateGuestRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &e
	}
}

func (r *UpdateGuestRequest) Validate() error {
	if r.Name == nil && r.Email == nil {
		return fmt.Errorf("provide name or email to update")
	}
	if r.Name != nil && len(*r.Name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if r.Email != nil && !isValidEmail(*r.Email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
