// Package permissions answers "may this user do this" from a static role table
// and the per-user capability flags stored on each account.
package permissions

import (
	"fmt"
	"strings"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
)

// Action is a CRUD verb checked by CanPerform
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Resource names a family of records
type Resource string

const (
	ResourceUsers      Resource = "users"
	ResourceTasks      Resource = "tasks"
	ResourceCategories Resource = "categories"
	ResourceProjects   Resource = "projects"
	ResourcePages      Resource = "pages"
)

// RoleInfo describes one role: its rank and the capabilities seeded at creation
type RoleInfo struct {
	Role        entities.Role
	Level       int
	Description string
	Defaults    entities.Permissions
}

var roles = map[entities.Role]RoleInfo{
	entities.RoleAdmin: {
		Role:        entities.RoleAdmin,
		Level:       100,
		Description: "Full access to every record and user",
		Defaults: entities.Permissions{
			CanAdd: true, CanView: true, CanEdit: true, CanDelete: true, CanReset: true,
			CanManageUsers: true, CanManageTasks: true, CanManageCategories: true,
			CanManageProjects: true, CanManagePages: true, CanAssignTasks: true,
			CanViewAnalytics: true,
		},
	},
	entities.RoleModerator: {
		Role:        entities.RoleModerator,
		Level:       75,
		Description: "Manages shared content and assigns tasks",
		Defaults: entities.Permissions{
			CanAdd: true, CanView: true, CanEdit: true, CanDelete: true,
			CanManageTasks: true, CanManageCategories: true, CanManagePages: true,
			CanAssignTasks: true, CanViewAnalytics: true,
		},
	},
	entities.RoleEditor: {
		Role:        entities.RoleEditor,
		Level:       50,
		Description: "Creates and edits records",
		Defaults: entities.Permissions{
			CanAdd: true, CanView: true, CanEdit: true,
		},
	},
	entities.RoleUser: {
		Role:        entities.RoleUser,
		Level:       25,
		Description: "Manages their own records",
		Defaults: entities.Permissions{
			CanAdd: true, CanView: true, CanEdit: true, CanDelete: true,
		},
	},
	entities.RoleViewer: {
		Role:        entities.RoleViewer,
		Level:       10,
		Description: "Read-only access",
		Defaults: entities.Permissions{
			CanView: true,
		},
	},
}

// Lookup returns the table entry for role. Roles outside the enum get level 0
// and no capabilities.
func Lookup(role entities.Role) RoleInfo {
	if info, ok := roles[role]; ok {
		return info
	}
	return RoleInfo{Role: role}
}

// Roles returns the table ordered from highest to lowest level
func Roles() []RoleInfo {
	return []RoleInfo{
		roles[entities.RoleAdmin],
		roles[entities.RoleModerator],
		roles[entities.RoleEditor],
		roles[entities.RoleUser],
		roles[entities.RoleViewer],
	}
}

// Level returns the rank of role
func Level(role entities.Role) int {
	return Lookup(role).Level
}

// DefaultPermissions returns the capabilities seeded for role
func DefaultPermissions(role entities.Role) entities.Permissions {
	return Lookup(role).Defaults
}

// Resolve merges explicit overrides over the role defaults; overrides win.
func Resolve(role entities.Role, overrides entities.PermissionOverrides) (entities.Permissions, error) {
	return DefaultPermissions(role).Apply(overrides)
}

// HasPermission is true only when the user's flag for perm is set
func HasPermission(user *entities.User, perm entities.Permission) bool {
	if user == nil {
		return false
	}
	return user.Permissions.Has(perm)
}

// HasAnyPermission is true when at least one of perms is granted
func HasAnyPermission(user *entities.User, perms ...entities.Permission) bool {
	for _, p := range perms {
		if HasPermission(user, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is true when every one of perms is granted
func HasAllPermissions(user *entities.User, perms ...entities.Permission) bool {
	for _, p := range perms {
		if !HasPermission(user, p) {
			return false
		}
	}
	return true
}

// PermissionFor maps a verb on a resource to the flag that authorises it
func PermissionFor(action Action, resource Resource) (entities.Permission, error) {
	switch action {
	case ActionCreate:
		return entities.PermCanAdd, nil
	case ActionRead:
		return entities.PermCanView, nil
	case ActionUpdate:
		return entities.PermCanEdit, nil
	case ActionDelete:
		return entities.PermCanDelete, nil
	case ActionManage:
		perm := entities.Permission("canManage" + capitalize(string(resource)))
		if !perm.IsKnown() {
			return "", fmt.Errorf("%w: %s", entities.ErrUnknownPermission, perm)
		}
		return perm, nil
	default:
		return "", fmt.Errorf("%w: action %q", entities.ErrUnknownPermission, action)
	}
}

// CanPerform reports whether user may perform action on resource
func CanPerform(user *entities.User, action Action, resource Resource) bool {
	perm, err := PermissionFor(action, resource)
	if err != nil {
		return false
	}
	return HasPermission(user, perm)
}

// CanAssignRole allows handing out roles up to the assigner's own level
func CanAssignRole(assigner *entities.User, role entities.Role) bool {
	if assigner == nil || !role.IsKnown() {
		return false
	}
	return Level(assigner.Role) >= Level(role)
}

// CanModifyUser requires the modifier to outrank the target. Users of equal
// level, two admins included, cannot modify each other.
func CanModifyUser(modifier, target *entities.User) bool {
	if modifier == nil || target == nil {
		return false
	}
	return Level(modifier.Role) > Level(target.Role)
}

// CanAccess applies the owner rule: owners act on their own records, anyone
// else needs the manage capability for the resource.
func CanAccess(user *entities.User, ownerID string, resource Resource) bool {
	if user == nil {
		return false
	}
	if user.ID == ownerID {
		return true
	}
	return CanPerform(user, ActionManage, resource)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
