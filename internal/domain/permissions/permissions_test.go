package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
)

func userWithRole(role entities.Role) *entities.User {
	return &entities.User{ID: string(role) + "-1", Role: role, Permissions: DefaultPermissions(role)}
}

func TestHasPermissionDefaultDeny(t *testing.T) {
	u := &entities.User{Role: entities.RoleAdmin}
	assert.False(t, HasPermission(u, entities.PermCanAdd))
	assert.False(t, HasPermission(u, entities.PermCanReset))
	assert.False(t, HasPermission(nil, entities.PermCanView))
}

func TestRoleSeededPermissions(t *testing.T) {
	assert.True(t, DefaultPermissions(entities.RoleAdmin).CanReset)
	assert.False(t, DefaultPermissions(entities.RoleUser).CanReset)
	assert.True(t, DefaultPermissions(entities.RoleUser).CanAdd)
	assert.Equal(t, entities.Permissions{}, DefaultPermissions("guest"))
}

func TestResolveOverridesWin(t *testing.T) {
	perms, err := Resolve(entities.RoleUser, entities.PermissionOverrides{
		entities.PermCanReset:  true,
		entities.PermCanDelete: false,
	})
	require.NoError(t, err)
	assert.True(t, perms.CanReset)
	assert.False(t, perms.CanDelete)
	assert.True(t, perms.CanAdd)
}

func TestHasAnyAndAll(t *testing.T) {
	editor := userWithRole(entities.RoleEditor)

	assert.True(t, HasAnyPermission(editor, entities.PermCanDelete, entities.PermCanEdit))
	assert.False(t, HasAnyPermission(editor, entities.PermCanDelete, entities.PermCanReset))
	assert.False(t, HasAnyPermission(editor))

	assert.True(t, HasAllPermissions(editor, entities.PermCanAdd, entities.PermCanEdit))
	assert.False(t, HasAllPermissions(editor, entities.PermCanAdd, entities.PermCanDelete))
	assert.True(t, HasAllPermissions(editor))
}

func TestCanPerform(t *testing.T) {
	viewer := userWithRole(entities.RoleViewer)
	admin := userWithRole(entities.RoleAdmin)

	tests := []struct {
		name     string
		user     *entities.User
		action   Action
		resource Resource
		want     bool
	}{
		{"viewer reads", viewer, ActionRead, ResourceTasks, true},
		{"viewer cannot create", viewer, ActionCreate, ResourceTasks, false},
		{"viewer cannot manage users", viewer, ActionManage, ResourceUsers, false},
		{"admin manages users", admin, ActionManage, ResourceUsers, true},
		{"admin manages categories", admin, ActionManage, ResourceCategories, true},
		{"unknown action denied", admin, Action("archive"), ResourceTasks, false},
		{"unknown resource denied", admin, ActionManage, Resource("widgets"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.user, tt.action, tt.resource))
		})
	}
}

func TestPermissionForManage(t *testing.T) {
	perm, err := PermissionFor(ActionManage, ResourceProjects)
	require.NoError(t, err)
	assert.Equal(t, entities.PermCanManageProjects, perm)
}

func TestRoleHierarchy(t *testing.T) {
	admin := userWithRole(entities.RoleAdmin)
	otherAdmin := userWithRole(entities.RoleAdmin)
	moderator := userWithRole(entities.RoleModerator)
	user := userWithRole(entities.RoleUser)

	assert.True(t, CanAssignRole(admin, entities.RoleAdmin))
	assert.True(t, CanAssignRole(moderator, entities.RoleModerator))
	assert.False(t, CanAssignRole(moderator, entities.RoleAdmin))
	assert.False(t, CanAssignRole(admin, "superuser"))

	assert.True(t, CanModifyUser(admin, moderator))
	assert.True(t, CanModifyUser(moderator, user))
	assert.False(t, CanModifyUser(admin, otherAdmin))
	assert.False(t, CanModifyUser(user, moderator))
}

func TestCanAccessOwnerRule(t *testing.T) {
	user := userWithRole(entities.RoleUser)
	admin := userWithRole(entities.RoleAdmin)

	assert.True(t, CanAccess(user, user.ID, ResourceTasks))
	assert.False(t, CanAccess(user, "someone-else", ResourceTasks))
	assert.True(t, CanAccess(admin, "someone-else", ResourceTasks))
}

func TestRolesOrderedByLevel(t *testing.T) {
	table := Roles()
	require.Len(t, table, 5)
	for i := 1; i < len(table); i++ {
		assert.Greater(t, table[i-1].Level, table[i].Level)
	}
}
