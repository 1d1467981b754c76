package models

// SignUpRequest carries the fields needed to create an account.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInRequest carries user credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RequestResetRequest starts the password reset flow for an email.
type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow. Its fields carry
// no validation tags: the service reports a mismatch before empty values.
type ResetPasswordRequest struct {
	ResetToken      string `json:"resetToken"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdatePermissionsRequest replaces the permission set of a user.
type UpdatePermissionsRequest struct {
	Permissions PermissionSet `json:"permissions"`
}

// Message is the generic acknowledgement returned by operations that have no
// other payload (sign out, reset request).
type Message struct {
	Message string `json:"message"`
}
