// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-storefront/internal/utils"
)

// sessionCookieName is the cookie carrying the session token.
const sessionCookieName = "token"

// defaultCookieMaxAge is one year in seconds.
const defaultCookieMaxAge = 365 * 24 * 60 * 60

type cookieSettings struct {
	maxAge int
	secure bool
}

// setSessionCookie stores signedToken in the HTTP-only session cookie and
// mirrors it in the Authorization response header for non-browser clients.
func (h *Handler) setSessionCookie(w http.ResponseWriter, signedToken string) {
	maxAge := h.cookie.maxAge
	if maxAge <= 0 {
		maxAge = defaultCookieMaxAge
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signedToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Authorization", "Bearer "+signedToken)
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionTokenFromRequest returns the raw session token sent with r. The
// cookie takes precedence over the Authorization header. An empty string
// means the request carries no session.
func sessionTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if header := r.Header.Get("Authorization"); header != "" {
		if token, err := utils.ParseBearerToken(header); err == nil {
			return token
		}
	}

	return ""
}
