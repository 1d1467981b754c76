// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a client for the storefront identity API.
//
// The primary abstraction is [StorefrontAPI]; [NewHTTPAdapter] implements it
// over HTTP/JSON with resty. Error values defined in errors.go are mapped from
// HTTP status codes by mapHTTPError so that callers can use [errors.Is]
// (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-storefront/models"
)

// StorefrontAPI is the client side of the identity API. Calls that start a
// session store the issued token; later calls send it as a bearer token.
type StorefrontAPI interface {
	// SetToken stores the session token sent with subsequent requests.
	SetToken(token string)

	// Token returns the stored session token, or "" if there is none.
	Token() string

	SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.User, error)

	// SignOut ends the server-side session and forgets the stored token.
	SignOut(ctx context.Context) (models.Message, error)

	RequestReset(ctx context.Context, email string) (models.Message, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.User, error)

	// Me returns the session user, or nil when the session is missing or
	// no longer valid.
	Me(ctx context.Context) (*models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	UpdatePermissions(ctx context.Context, userID int64, permissions models.PermissionSet) (models.User, error)
}
