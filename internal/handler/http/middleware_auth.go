package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/service"
	"github.com/MKhiriev/go-storefront/internal/utils"
)

// withSession resolves the session sent with the request, if any.
//
// A valid token and its user are stored in the request context under
// [utils.TokenCtxKey] and [utils.UserCtxKey]. Requests with a missing,
// invalid, or revoked token continue anonymously; endpoints that need a user
// are wrapped in [Handler.auth].
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := sessionTokenFromRequest(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		log := logger.FromRequest(r)

		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("ignoring invalid session token")
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.services.AuthService.CurrentUser(ctx, token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				writeError(w, r, err)
				return
			}
			log.Debug().Int64("user_id", token.UserID).Msg("session user no longer exists")
			next.ServeHTTP(w, r)
			return
		}

		ctx = utils.WithToken(ctx, token)
		ctx = utils.WithUser(ctx, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// auth rejects requests without a resolved session with 401 Unauthorized.
// It must run after withSession.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserFromContext(r.Context()); !ok {
			writeError(w, r, service.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r)
	})
}
