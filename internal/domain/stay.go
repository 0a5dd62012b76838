package domain

import "time"

// Stay statuses. active is the only non-terminal state.
const (
	StayActive     = "active"
	StayCheckedOut = "checked_out"
	StayCancelled  = "cancelled"
)

// Who initiated a checkout.
const (
	CheckoutByGuest = "guest"
	CheckoutByHotel = "hotel"
)

type Stay struct {
	ID           int64      `json:"id"`
	GuestUserID  int64      `json:"guest_user_id"`
	HotelID      int64      `json:"hotel_id"`
	AccessCodeID *int64     `json:"access_code_id,omitempty"`
	Status       string     `json:"status"`
	CheckInAt    time.Time  `json:"check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StayWithHotel joins the hotel display fields for the guest-facing view.
type StayWithHotel struct {
	Stay
	HotelName    string `json:"hotel_name"`
	LocationText string `json:"location_text"`
	Category     string `json:"category"`
}

type CheckInRequest struct {
	HotelID int64 `json:"hotel_id"`
}

type CheckoutGuestRequest struct {
	StayID int64 `json:"stay_id"`
}
