package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/store"
	"github.com/MKhiriev/go-storefront/models"
)

// PermissionManagers may change permissions and list users.
var PermissionManagers = models.NewPermissionSet(models.PermissionAdmin, models.PermissionPermissionUpdate)

type permissionService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(userRepository store.UserRepository, logger *logger.Logger) PermissionService {
	return &permissionService{
		userRepository: userRepository,
		logger:         logger,
	}
}

func (p *permissionService) Authorize(user *models.User, required models.PermissionSet) error {
	if user == nil {
		return ErrUnauthenticated
	}

	if !user.Permissions.Intersects(required) {
		return fmt.Errorf("%w: need one of %s, you have %s", ErrForbidden, required, user.Permissions)
	}

	return nil
}

// UpdatePermissions replaces the target's permission set; it does not merge.
func (p *permissionService) UpdatePermissions(ctx context.Context, actor *models.User, targetID int64, permissions models.PermissionSet) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := p.Authorize(actor, PermissionManagers); err != nil {
		return models.User{}, err
	}

	updated, err := p.userRepository.UpdatePermissions(ctx, targetID, permissions)
	if err != nil {
		log.Err(err).Int64("target_id", targetID).Msg("failed to update permissions")
		return models.User{}, mapStoreError(err)
	}

	log.Info().
		Int64("actor_id", actor.UserID).
		Int64("target_id", targetID).
		Str("permissions", permissions.String()).
		Msg("permissions updated")

	return updated, nil
}

func (p *permissionService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := p.Authorize(actor, PermissionManagers); err != nil {
		return nil, err
	}

	users, err := p.userRepository.ListUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("failed to list users")
		return nil, err
	}

	return users, nil
}
