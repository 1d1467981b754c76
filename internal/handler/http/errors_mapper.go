package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/service"
	"github.com/MKhiriev/go-storefront/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrUnauthenticated:         http.StatusUnauthorized,
	service.ErrInvalidCredential:       http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrForbidden:               http.StatusForbidden,
	service.ErrNotFound:                http.StatusNotFound,
	service.ErrPasswordMismatch:        http.StatusBadRequest,
	service.ErrInvalidOrExpiredToken:   http.StatusBadRequest,
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrDuplicateEmail:          http.StatusConflict,

	validators.ErrInvalidRequest: http.StatusBadRequest,
	ErrInvalidJSON:               http.StatusBadRequest,
	ErrInvalidUserID:             http.StatusBadRequest,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and replies with its mapped status. Internal errors are
// replaced by the generic status text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
		message = http.StatusText(status)
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	http.Error(w, message, status)
}
