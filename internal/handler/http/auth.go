package http

import (
	"net/http"

	"github.com/MKhiriev/go-storefront/internal/app"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/utils"
	"github.com/MKhiriev/go-storefront/models"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SignUpRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, r, user)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SignInRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Int64("id", user.UserID).Msg("user successfully signed in")

	h.startSession(w, r, user)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	// EndSession never fails
	_ = h.services.AuthService.EndSession(r.Context(), sessionTokenFromRequest(r))

	h.clearSessionCookie(w)
	utils.WriteJSON(w, models.Message{Message: app.MsgSignedOut}, http.StatusOK)
}

// me returns the session user or JSON null for anonymous requests.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, nil, http.StatusOK)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

// startSession issues a token for user, sets the session cookie and replies
// with the user.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, token.SignedString)
	utils.WriteJSON(w, user, http.StatusOK)
}
