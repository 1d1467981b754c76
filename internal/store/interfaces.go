// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-storefront/models"
)

// UserRepository persists storefront user accounts.
type UserRepository interface {
	// CreateUser inserts user and returns the stored record with its assigned
	// UserID and CreatedAt. Returns [ErrEmailAlreadyExists] on a unique
	// conflict.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByEmail returns the user with the given (already lowercased)
	// email or [ErrNoUserWasFound].
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByID returns the user with the given id or [ErrNoUserWasFound].
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	// FindUserByResetToken returns the user holding resetToken or
	// [ErrNoUserWasFound]. Expiry is not checked here.
	FindUserByResetToken(ctx context.Context, resetToken string) (models.User, error)
	// SetResetToken stores resetToken and its expiry on the user, replacing
	// any previous token.
	SetResetToken(ctx context.Context, userID int64, resetToken string, expiry time.Time) (models.User, error)
	// ResetPassword stores a new password hash and clears the reset token
	// fields, but only while the user still holds resetToken and it has not
	// expired at now. Otherwise it returns [ErrNoUserWasFound].
	ResetPassword(ctx context.Context, userID int64, resetToken, passwordHash string, now time.Time) (models.User, error)
	// UpdatePermissions replaces the user's permission set.
	UpdatePermissions(ctx context.Context, userID int64, permissions models.PermissionSet) (models.User, error)
	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// SessionStore records revoked session tokens.
type SessionStore interface {
	// RevokeToken denylists the token id jti for ttl.
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	// IsTokenRevoked reports whether jti was revoked.
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUserSessionsBefore invalidates every token of userID issued
	// before at. The marker is kept for ttl.
	RevokeUserSessionsBefore(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error
	// UserSessionsRevokedBefore returns the cut-off set by
	// RevokeUserSessionsBefore, or the zero time if none is set.
	UserSessionsRevokedBefore(ctx context.Context, userID int64) (time.Time, error)
}

// ErrorClassificator inspects driver errors.
type ErrorClassificator interface {
	// Classify reports whether the failed operation may be retried.
	Classify(err error) ErrorClassification
	// Code returns the PostgreSQL SQLSTATE equivalent of err, or "" when
	// err is not a recognised driver error.
	Code(err error) string
}
