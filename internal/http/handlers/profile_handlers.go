package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/http/response"
)

func (h *Handlers) HotelMe(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.HotelMe(r.Context(), currentUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

func (h *Handlers) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	var patch domain.UpdateHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	hotel, err := h.profileService.UpdateHotel(r.Context(), currentUserID(r), &patch)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"hotel": hotel})
}

func (h *Handlers) BusinessMe(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.BusinessMe(r.Context(), currentUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

func (h *Handlers) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	var patch domain.UpdateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	business, err := h.profileService.UpdateBusiness(r.Context(), currentUserID(r), &patch)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"business": business})
}

func (h *Handlers) GuestMe(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GuestMe(r.Context(), currentUserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

func (h *Handlers) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	var patch domain.UpdateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	profile, err := h.profileService.UpdateGuest(r.Context(), currentUserID(r), &patch)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

// ListHotels serves the hotel directory for authenticated callers.
func (h *Handlers) ListHotels(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	hotels, err := h.profileService.ListHotels(r.Context(), limit, offset)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if hotels == nil {
		hotels = []domain.Hotel{}
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"hotels": hotels})
}

func (h *Handlers) GetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hotel ID", "INVALID_INPUT")
		return
	}

	hotel, err := h.profileService.GetHotel(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"hotel": hotel})
}
