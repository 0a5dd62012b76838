package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/http/response"
)

// RegisterHotel creates a hotel account and returns a session token.
func (h *Handlers) RegisterHotel(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	resp, err := h.authService.RegisterHotel(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

func (h *Handlers) RegisterBusiness(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	resp, err := h.authService.RegisterBusiness(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// RegisterGuest creates a passwordless guest account from a hotel check-in
// code and opens the stay in the same request.
func (h *Handlers) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	resp, err := h.authService.RegisterGuest(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// Login accepts either email+password or email+hotel code.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
