package services

import (
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// requirePermission fails with ErrForbidden unless actor holds perm
func requirePermission(actor *entities.User, perm entities.Permission) error {
	if !permissions.HasPermission(actor, perm) {
		return entities.ErrForbidden
	}
	return nil
}

// authorize checks perm and then the owner rule. A record the actor may not
// reach is reported as missing so its existence is not disclosed.
func authorize(actor *entities.User, perm entities.Permission, ownerID string, resource permissions.Resource) error {
	if err := requirePermission(actor, perm); err != nil {
		return err
	}
	if !permissions.CanAccess(actor, ownerID, resource) {
		return entities.ErrNotFound
	}
	return nil
}

func pick[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

var (
	_ ports.AuthService     = (*AuthService)(nil)
	_ ports.UserService     = (*UserService)(nil)
	_ ports.TaskService     = (*TaskService)(nil)
	_ ports.CategoryService = (*CategoryService)(nil)
	_ ports.ProjectService  = (*ProjectService)(nil)
	_ ports.PageService     = (*PageService)(nil)
)
