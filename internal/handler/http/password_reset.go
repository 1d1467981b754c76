package http

import (
	"net/http"

	"github.com/MKhiriev/go-storefront/internal/app"
	"github.com/MKhiriev/go-storefront/internal/utils"
	"github.com/MKhiriev/go-storefront/models"
)

func (h *Handler) requestReset(w http.ResponseWriter, r *http.Request) {
	var req models.RequestResetRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.PasswordResetService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.Message{Message: app.MsgResetRequested}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.PasswordResetService.ResetPassword(r.Context(), req.ResetToken, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, r, user)
}
