package entities

import "fmt"

// Permission names one capability flag on a user
type Permission string

const (
	PermCanAdd              Permission = "canAdd"
	PermCanView             Permission = "canView"
	PermCanEdit             Permission = "canEdit"
	PermCanDelete           Permission = "canDelete"
	PermCanReset            Permission = "canReset"
	PermCanManageUsers      Permission = "canManageUsers"
	PermCanManageTasks      Permission = "canManageTasks"
	PermCanManageCategories Permission = "canManageCategories"
	PermCanManageProjects   Permission = "canManageProjects"
	PermCanManagePages      Permission = "canManagePages"
	PermCanAssignTasks      Permission = "canAssignTasks"
	PermCanViewAnalytics    Permission = "canViewAnalytics"
)

// AllPermissions lists every known capability in a stable order
var AllPermissions = []Permission{
	PermCanAdd,
	PermCanView,
	PermCanEdit,
	PermCanDelete,
	PermCanReset,
	PermCanManageUsers,
	PermCanManageTasks,
	PermCanManageCategories,
	PermCanManageProjects,
	PermCanManagePages,
	PermCanAssignTasks,
	PermCanViewAnalytics,
}

// Permissions is the fixed capability set stored on a user. The zero value
// grants nothing.
type Permissions struct {
	CanAdd              bool `json:"canAdd" bson:"canAdd"`
	CanView             bool `json:"canView" bson:"canView"`
	CanEdit             bool `json:"canEdit" bson:"canEdit"`
	CanDelete           bool `json:"canDelete" bson:"canDelete"`
	CanReset            bool `json:"canReset" bson:"canReset"`
	CanManageUsers      bool `json:"canManageUsers" bson:"canManageUsers"`
	CanManageTasks      bool `json:"canManageTasks" bson:"canManageTasks"`
	CanManageCategories bool `json:"canManageCategories" bson:"canManageCategories"`
	CanManageProjects   bool `json:"canManageProjects" bson:"canManageProjects"`
	CanManagePages      bool `json:"canManagePages" bson:"canManagePages"`
	CanAssignTasks      bool `json:"canAssignTasks" bson:"canAssignTasks"`
	CanViewAnalytics    bool `json:"canViewAnalytics" bson:"canViewAnalytics"`
}

// PermissionOverrides holds explicit per-user grants or denials
type PermissionOverrides map[Permission]bool

func (p *Permissions) flag(perm Permission) *bool {
	switch perm {
	case PermCanAdd:
		return &p.CanAdd
	case PermCanView:
		return &p.CanView
	case PermCanEdit:
		return &p.CanEdit
	case PermCanDelete:
		return &p.CanDelete
	case PermCanReset:
		return &p.CanReset
	case PermCanManageUsers:
		return &p.CanManageUsers
	case PermCanManageTasks:
		return &p.CanManageTasks
	case PermCanManageCategories:
		return &p.CanManageCategories
	case PermCanManageProjects:
		return &p.CanManageProjects
	case PermCanManagePages:
		return &p.CanManagePages
	case PermCanAssignTasks:
		return &p.CanAssignTasks
	case PermCanViewAnalytics:
		return &p.CanViewAnalytics
	default:
		return nil
	}
}

// Has reports whether perm is granted. Unknown names are denied.
func (p Permissions) Has(perm Permission) bool {
	f := p.flag(perm)
	return f != nil && *f
}

// Set grants or revokes perm
func (p *Permissions) Set(perm Permission, value bool) error {
	f := p.flag(perm)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPermission, perm)
	}
	*f = value
	return nil
}

// Apply merges overrides on top of p. Unknown keys are rejected and leave p
// unchanged.
func (p Permissions) Apply(overrides PermissionOverrides) (Permissions, error) {
	out := p
	for perm, value := range overrides {
		if err := out.Set(perm, value); err != nil {
			return p, err
		}
	}
	return out, nil
}

// IsKnown reports whether perm names a capability
func (perm Permission) IsKnown() bool {
	var p Permissions
	return p.flag(perm) != nil
}
