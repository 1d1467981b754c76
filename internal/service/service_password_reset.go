package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/mailer"
	"github.com/MKhiriev/go-storefront/internal/store"
	"github.com/MKhiriev/go-storefront/internal/utils"
	"github.com/MKhiriev/go-storefront/models"
)

type passwordResetService struct {
	userRepository store.UserRepository
	sessions       store.SessionStore
	mailer         mailer.Mailer

	frontendURL        string
	resetTokenDuration time.Duration
	// tokenDuration bounds how long a session cut-off has to be kept.
	tokenDuration time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewPasswordResetService constructs the reset token flow. Emails are handed
// to m; their delivery does not affect the result of a reset request.
func NewPasswordResetService(userRepository store.UserRepository, sessions store.SessionStore, m mailer.Mailer, cfg config.App, logger *logger.Logger) PasswordResetService {
	return &passwordResetService{
		userRepository:     userRepository,
		sessions:           sessions,
		mailer:             m,
		frontendURL:        cfg.FrontendURL,
		resetTokenDuration: cfg.ResetTokenDuration,
		tokenDuration:      cfg.TokenDuration,
		now:                time.Now,
		logger:             logger,
	}
}

// RequestPasswordReset stores a fresh random reset token on the user,
// replacing any previous one, and emails the reset link.
//
// Returns ErrNotFound for an unknown email. Mail failures are logged only.
func (p *passwordResetService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := p.userRepository.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		log.Err(err).Msg("reset requested for unknown user")
		return mapStoreError(err)
	}

	resetToken, err := utils.GenerateResetToken()
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("reset token generation failed")
		return fmt.Errorf("reset token generation failed: %w", err)
	}

	expiry := p.now().Add(p.resetTokenDuration)
	if _, err = p.userRepository.SetResetToken(ctx, user.UserID, resetToken, expiry); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to store reset token")
		return mapStoreError(err)
	}

	resetEmail := mailer.NewResetPasswordEmail(user.Email, p.frontendURL, resetToken, p.resetTokenDuration)
	if err = p.mailer.Send(ctx, resetEmail); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to send reset email")
	}

	return nil
}

// ResetPassword replaces the password of the user holding resetToken and
// consumes the token.
//
// Returns:
//   - ErrPasswordMismatch if password and confirmPassword differ.
//   - ErrInvalidOrExpiredToken if no user holds the token or it expired.
//
// Sessions issued before the reset stop validating.
func (p *passwordResetService) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) (models.User, error) {
	log := logger.FromContext(ctx)

	if password != confirmPassword {
		return models.User{}, ErrPasswordMismatch
	}

	if password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	if resetToken == "" {
		return models.User{}, ErrInvalidOrExpiredToken
	}

	now := p.now()

	user, err := p.userRepository.FindUserByResetToken(ctx, resetToken)
	if err != nil {
		if mapStoreError(err) == ErrNotFound {
			return models.User{}, ErrInvalidOrExpiredToken
		}
		log.Err(err).Msg("reset token lookup failed")
		return models.User{}, err
	}

	if !user.HasActiveResetToken(now) {
		log.Info().Int64("user_id", user.UserID).Msg("expired reset token presented")
		return models.User{}, ErrInvalidOrExpiredToken
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	// a concurrent reset may have consumed the token since the lookup
	updatedUser, err := p.userRepository.ResetPassword(ctx, user.UserID, resetToken, passwordHash, now)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Info().Int64("user_id", user.UserID).Msg("reset token consumed concurrently")
			return models.User{}, ErrInvalidOrExpiredToken
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to update password")
		return models.User{}, mapStoreError(err)
	}

	// iat has second precision
	cutoff := now.Truncate(time.Second)
	if err = p.sessions.RevokeUserSessionsBefore(ctx, user.UserID, cutoff, p.tokenDuration); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to revoke sessions after password reset")
	}

	return updatedUser, nil
}
