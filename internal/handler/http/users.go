package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-storefront/internal/utils"
	"github.com/MKhiriev/go-storefront/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := utils.GetUserFromContext(ctx)

	users, err := h.services.PermissionService.ListUsers(ctx, &actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) updatePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := utils.GetUserFromContext(ctx)

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || targetID <= 0 {
		writeError(w, r, ErrInvalidUserID)
		return
	}

	var req models.UpdatePermissionsRequest
	if err = h.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.PermissionService.UpdatePermissions(ctx, &actor, targetID, req.Permissions)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
