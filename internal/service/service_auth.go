package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/store"
	"github.com/MKhiriev/go-storefront/internal/utils"
	"github.com/MKhiriev/go-storefront/models"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and JWT session
// lifecycle using a UserRepository for persistence, bcrypt for password
// hashing, and a SessionStore for revocation.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// sessions records revoked tokens and per-user cut-offs.
	sessions store.SessionStore

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repository
// and session store and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, sessions store.SessionStore, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		sessions:       sessions,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		now:            time.Now,
		logger:         logger,
	}
}

// Register creates a new account with the default {USER} permission set.
//
// The email is lowercased before it is stored, and the password is kept only
// as a bcrypt hash.
//
// Returns the persisted user or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - ErrDuplicateEmail if the email is taken.
func (a *authService) Register(ctx context.Context, email, password, name string) (models.User, error) {
	log := logger.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		log.Error().Str("email", email).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		log.Err(err).Str("email", email).Msg("password hashing failed")
		return models.User{}, err
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Permissions:  models.NewPermissionSet(models.PermissionUser),
	})
	if err != nil {
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.User{}, mapStoreError(err)
	}

	return registeredUser, nil
}

// Authenticate looks the user up by lowercase email and compares password
// with the stored hash.
//
// Returns the user or:
//   - ErrNotFound if no account has this email.
//   - ErrInvalidCredential if the password does not match.
func (a *authService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" {
		return models.User{}, ErrNotFound
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, mapStoreError(err)
	}

	if !utils.CheckPassword(foundUser.PasswordHash, password) {
		log.Warn().Int64("id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrInvalidCredential
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.now(), a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Besides the signature, issuer, and expiry, the token must not be revoked:
// its id must be absent from the denylist and it must be issued after the
// owner's last password reset. Every failure, including an unreachable
// session store, is normalised to ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, a.now())
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	revoked, err := a.sessions.IsTokenRevoked(ctx, token.ID)
	if err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("token revocation check failed")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	if revoked {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	cutoff, err := a.sessions.UserSessionsRevokedBefore(ctx, token.UserID)
	if err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("session cut-off check failed")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	if !cutoff.IsZero() && token.IssuedAt != nil && token.IssuedAt.Before(cutoff) {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// EndSession denylists a valid token until it expires. Invalid or empty
// tokens and store failures are ignored: signing out always succeeds.
func (a *authService) EndSession(ctx context.Context, tokenString string) error {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil
	}

	token, err := a.ParseToken(ctx, tokenString)
	if err != nil {
		return nil
	}

	ttl := time.Duration(0)
	if token.ExpiresAt != nil {
		ttl = token.ExpiresAt.Sub(a.now())
	}

	if err = a.sessions.RevokeToken(ctx, token.ID, ttl); err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("failed to revoke session token")
	}

	return nil
}

// CurrentUser loads the owner of token. A token whose user no longer exists
// yields ErrUnauthenticated.
func (a *authService) CurrentUser(ctx context.Context, token models.Token) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", token.UserID).Msg("failed to load session user")
		return models.User{}, err
	}

	return user, nil
}
