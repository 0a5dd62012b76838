package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/http/response"
)

// CheckIn opens a stay at a hotel for the authenticated guest (walk-in, no
// access code).
func (h *Handlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	stay, err := h.stayService.CheckIn(r.Context(), currentUserID(r), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{"stay": stay})
}

func (h *Handlers) CheckOut(w http.ResponseWriter, r *http.Request) {
	stay, err := h.stayService.CheckOut(r.Context(), currentUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"stay": stay})
}

// CheckOutGuest lets a hotel close a stay at its own property.
func (h *Handlers) CheckOutGuest(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	stay, err := h.stayService.CheckOutGuest(r.Context(), currentUserID(r), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"stay": stay})
}

// CurrentStay returns the guest's active stay, or a null stay when the guest
// is not checked in anywhere.
func (h *Handlers) CurrentStay(w http.ResponseWriter, r *http.Request) {
	stay, err := h.stayService.Current(r.Context(), currentUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"stay": stay})
}
