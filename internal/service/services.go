package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/mailer"
	"github.com/MKhiriev/go-storefront/internal/store"
	"github.com/MKhiriev/go-storefront/internal/utils"
)

// Services groups every service used by the transport layer.
type Services struct {
	AuthService          AuthService
	PasswordResetService PasswordResetService
	PermissionService    PermissionService
}

// NewServices wires the services to storages and m.
func NewServices(storages *store.Storages, m mailer.Mailer, cfg config.App, logger *logger.Logger) *Services {
	return &Services{
		AuthService:          NewAuthService(storages.UserRepository, storages.SessionStore, cfg, logger),
		PasswordResetService: NewPasswordResetService(storages.UserRepository, storages.SessionStore, m, cfg, logger),
		PermissionService:    NewPermissionService(storages.UserRepository, logger),
	}
}

// normalizeEmail trims and lowercases an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword hashes password for storage. bcrypt only accepts up to 72
// bytes, so longer passwords are invalid input rather than a server fault.
func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidDataProvided)
	case err != nil:
		return "", fmt.Errorf("password hashing failed: %w", err)
	}

	return hash, nil
}

// mapStoreError translates repository sentinels to the service taxonomy.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return ErrNotFound
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return ErrDuplicateEmail
	default:
		return err
	}
}
