package service

import (
	"context"

	"github.com/MKhiriev/go-storefront/models"
)

// AuthService registers users, checks credentials, and manages session
// tokens.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	// EndSession revokes tokenString when it is valid. It always succeeds.
	EndSession(ctx context.Context, tokenString string) error
	// CurrentUser loads the owner of a parsed session token.
	CurrentUser(ctx context.Context, token models.Token) (models.User, error)
}

// PasswordResetService implements the emailed reset token flow.
type PasswordResetService interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) (models.User, error)
}

// PermissionService authorizes users and manages their permission sets.
type PermissionService interface {
	// Authorize fails with ErrUnauthenticated for a nil user and with
	// ErrForbidden unless the user holds at least one of required.
	Authorize(user *models.User, required models.PermissionSet) error
	UpdatePermissions(ctx context.Context, actor *models.User, targetID int64, permissions models.PermissionSet) (models.User, error)
	ListUsers(ctx context.Context, actor *models.User) ([]models.User, error)
}
