package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/pkg/events"
)

func TestCheckOutRevokesBoundCode(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	stay, err := f.stay.CheckOut(context.Background(), guest.User.ID)
	if err != nil {
		t.Fatalf("CheckOut() error = %v", err)
	}
	if stay.Status != domain.StayCheckedOut {
		t.Errorf("stay status = %q, want checked_out", stay.Status)
	}
	if stay.CheckOutAt == nil {
		t.Error("check_out_at should be set")
	}

	if code, _ := f.codes.FindActiveByLabel(context.Background(), issued.Code); code != nil {
		t.Error("bound code should be revoked at checkout")
	}
	if !f.bus.has(events.StayCheckedOut) {
		t.Error("expected a stay checked-out event")
	}
}

func TestCheckOutWithoutActiveStay(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	if _, err := f.stay.CheckOut(context.Background(), guest.User.ID); err != nil {
		t.Fatalf("first CheckOut() error = %v", err)
	}

	_, err := f.stay.CheckOut(context.Background(), guest.User.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second CheckOut() error = %v, want invalid state", err)
	}
}

func TestWalkInCheckIn(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	other := f.registerHotel(t, "Grand Palace", "front@grandpalace.ng")

	// close the registration stay, then walk in at the other hotel
	if _, err := f.stay.CheckOut(context.Background(), guest.User.ID); err != nil {
		t.Fatalf("CheckOut() error = %v", err)
	}

	stay, err := f.stay.CheckIn(context.Background(), guest.User.ID, &domain.CheckInRequest{
		HotelID: other.Hotel.ID,
	})
	if err != nil {
		t.Fatalf("CheckIn() error = %v", err)
	}
	if stay.HotelID != other.Hotel.ID {
		t.Errorf("stay hotel = %d, want %d", stay.HotelID, other.Hotel.ID)
	}
	if stay.AccessCodeID != nil {
		t.Error("walk-in stay should have no access code")
	}
}

func TestOneActiveStayPerGuest(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	other := f.registerHotel(t, "Grand Palace", "front@grandpalace.ng")

	_, err := f.stay.CheckIn(context.Background(), guest.User.ID, &domain.CheckInRequest{
		HotelID: other.Hotel.ID,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second active stay error = %v, want conflict", err)
	}
}

func TestCheckInUnknownHotel(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)
	f.stay.CheckOut(context.Background(), guest.User.ID)

	_, err := f.stay.CheckIn(context.Background(), guest.User.ID, &domain.CheckInRequest{HotelID: 999})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("CheckIn(unknown hotel) error = %v, want not found", err)
	}
}

func TestCheckOutGuestByHotel(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	stay, err := f.stay.CheckOutGuest(context.Background(), hotel.User.ID, &domain.CheckoutGuestRequest{
		StayID: guest.Stay.ID,
	})
	if err != nil {
		t.Fatalf("CheckOutGuest() error = %v", err)
	}
	if stay.Status != domain.StayCheckedOut {
		t.Errorf("stay status = %q, want checked_out", stay.Status)
	}

	// the bound code dies with the stay regardless of who checked out
	if code, _ := f.codes.FindActiveByLabel(context.Background(), issued.Code); code != nil {
		t.Error("bound code should be revoked when the hotel checks the guest out")
	}
}

func TestCheckOutGuestForeignStay(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	other := f.registerHotel(t, "Grand Palace", "front@grandpalace.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	_, err := f.stay.CheckOutGuest(context.Background(), other.User.ID, &domain.CheckoutGuestRequest{
		StayID: guest.Stay.ID,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign checkout error = %v, want forbidden", err)
	}
}

func TestCheckOutGuestAlreadyClosed(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	req := &domain.CheckoutGuestRequest{StayID: guest.Stay.ID}
	if _, err := f.stay.CheckOutGuest(context.Background(), hotel.User.ID, req); err != nil {
		t.Fatalf("CheckOutGuest() error = %v", err)
	}

	_, err := f.stay.CheckOutGuest(context.Background(), hotel.User.ID, req)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("closed stay checkout error = %v, want invalid state", err)
	}
}

func TestCurrentStay(t *testing.T) {
	f := newFixture()
	hotel := f.registerHotel(t, "Eko Hotel Lagos", "front@ekohotel.ng")
	issued := f.issueCode(t, hotel.User.ID)
	guest := f.registerGuest(t, "Ada Obi", "ada@example.com", issued.Code)

	current, err := f.stay.Current(context.Background(), guest.User.ID)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if current == nil {
		t.Fatal("expected an active stay")
	}
	if current.HotelName != "Eko Hotel Lagos" {
		t.Errorf("hotel name = %q", current.HotelName)
	}

	f.stay.CheckOut(context.Background(), guest.User.ID)

	current, err = f.stay.Current(context.Background(), guest.User.ID)
	if err != nil {
		t.Fatalf("Current() after checkout error = %v", err)
	}
	if current != nil {
		t.Errorf("expected no current stay, got %+v", current)
	}
}
