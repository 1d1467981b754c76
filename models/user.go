package models

import "time"

// User represents a storefront account used for authentication and
// authorization.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the unique identifier of the user.
	UserID int64 `json:"id"`

	// Email is the unique login of the user. It is always stored lowercase.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// Permissions is the set of capabilities granted to the user.
	Permissions PermissionSet `json:"permissions"`

	// ResetToken holds the currently active password reset token, if any.
	ResetToken *string `json:"-"`

	// ResetTokenExpiry is the instant after which ResetToken is rejected.
	ResetTokenExpiry *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// HasActiveResetToken reports whether the user holds a reset token that is
// still valid at instant now.
func (u User) HasActiveResetToken(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && now.Before(*u.ResetTokenExpiry)
}
