package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(h.withSession)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/signup", h.signUp)
		r.Post("/api/user/signin", h.signIn)
		r.Post("/api/user/signout", h.signOut)
		r.Post("/api/user/reset/request", h.requestReset)
		r.Post("/api/user/reset", h.resetPassword)
		r.Get("/api/user/me", h.me)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/users", h.listUsers)
		r.Put("/api/users/{userID}/permissions", h.updatePermissions)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
