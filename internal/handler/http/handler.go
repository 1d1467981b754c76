package http

import (
	"time"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/service"
	"github.com/MKhiriev/go-storefront/internal/validators"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator

	cookie         cookieSettings
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, app config.App, server config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		validator: validators.NewRequestValidator(),
		cookie: cookieSettings{
			maxAge: int(app.TokenDuration / time.Second),
			secure: app.SecureCookie,
		},
		requestTimeout: server.RequestTimeout,
		logger:         logger,
	}
}
