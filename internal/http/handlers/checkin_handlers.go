package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/staylink/staylink-backend/internal/domain"
	"github.com/staylink/staylink-backend/internal/http/response"
	"github.com/staylink/staylink-backend/internal/service"
)

// IssueCode mints the next check-in code for the caller's hotel. The raw
// label appears in this response and nowhere else afterwards.
func (h *Handlers) IssueCode(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	issued, err := h.checkinService.Issue(r.Context(), currentUserID(r), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, issued)
}

func (h *Handlers) RevokeCode(w http.ResponseWriter, r *http.Request) {
	var req service.RevokeCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	if err := h.checkinService.Revoke(r.Context(), currentUserID(r), &req); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
