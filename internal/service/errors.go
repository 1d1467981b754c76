package service

import "errors"

// Error taxonomy of the identity and session service. Handlers map these to
// HTTP statuses; messages are shown to users as-is.
var (
	ErrUnauthenticated       = errors.New("you must be logged in to do that")
	ErrForbidden             = errors.New("you do not have sufficient permissions")
	ErrNotFound              = errors.New("no such user found")
	ErrInvalidCredential     = errors.New("invalid password")
	ErrPasswordMismatch      = errors.New("your passwords don't match")
	ErrInvalidOrExpiredToken = errors.New("this token is either invalid or expired")
	ErrDuplicateEmail        = errors.New("a user with this email already exists")

	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
)
