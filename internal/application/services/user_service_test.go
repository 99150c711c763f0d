package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin", entities.RoleAdmin)
	moderator := f.account(t, "mod", entities.RoleModerator)

	user, err := f.users.CreateUser(ctx, admin, ports.CreateUserRequest{
		Name:        "Editor",
		Email:       "editor@example.com",
		Password:    "password123",
		Role:        entities.RoleEditor,
		Permissions: entities.PermissionOverrides{entities.PermCanDelete: true},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.RoleEditor, user.Role)
	assert.True(t, user.Permissions.CanEdit)
	assert.True(t, user.Permissions.CanDelete)
	assert.False(t, user.Permissions.CanReset)

	_, err = f.users.CreateUser(ctx, moderator, ports.CreateUserRequest{
		Name: "Boss", Email: "boss@example.com", Password: "password123", Role: entities.RoleAdmin,
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	_, err = f.users.CreateUser(ctx, moderator, ports.CreateUserRequest{
		Name: "Peer", Email: "peer@example.com", Password: "password123", Role: entities.RoleModerator,
	})
	assert.NoError(t, err)

	_, err = f.users.CreateUser(ctx, admin, ports.CreateUserRequest{
		Name: "Root", Email: "root@example.com", Password: "password123", Role: "superuser",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidRole)

	_, err = f.users.CreateUser(ctx, admin, ports.CreateUserRequest{
		Name: "Odd", Email: "odd@example.com", Password: "password123", Role: entities.RoleUser,
		Permissions: entities.PermissionOverrides{"canFly": true},
	})
	assert.ErrorIs(t, err, entities.ErrUnknownPermission)

	_, err = f.users.CreateUser(ctx, admin, ports.CreateUserRequest{
		Name: "Dup", Email: "EDITOR@example.com", Password: "password123", Role: entities.RoleUser,
	})
	assert.ErrorIs(t, err, entities.ErrDuplicateEmail)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin", entities.RoleAdmin)
	otherAdmin := f.account(t, "admin2", entities.RoleAdmin)
	user := f.account(t, "user", entities.RoleUser)
	f.account(t, "taken", entities.RoleUser)

	t.Run("role change reseeds permissions", func(t *testing.T) {
		editor := entities.RoleEditor
		updated, err := f.users.UpdateUser(ctx, admin, user.ID, ports.UpdateUserRequest{
			Name: strPtr("Renamed"),
			Role: &editor,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, entities.RoleEditor, updated.Role)
		assert.Equal(t, permissions.DefaultPermissions(entities.RoleEditor), updated.Permissions)
	})

	t.Run("overrides apply on top", func(t *testing.T) {
		updated, err := f.users.UpdateUser(ctx, admin, user.ID, ports.UpdateUserRequest{
			Permissions: entities.PermissionOverrides{entities.PermCanView: false},
		})
		require.NoError(t, err)
		assert.False(t, updated.Permissions.CanView)
		assert.True(t, updated.Permissions.CanEdit)
	})

	t.Run("peers cannot modify each other", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, otherAdmin, admin.ID, ports.UpdateUserRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, entities.ErrForbidden)
	})

	t.Run("email must stay unique", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, admin, user.ID, ports.UpdateUserRequest{Email: strPtr("Taken@example.com")})
		assert.ErrorIs(t, err, entities.ErrDuplicateEmail)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, admin, "missing", ports.UpdateUserRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.account(t, "self", entities.RoleViewer)

	_, err := f.users.UpdateProfile(ctx, user, ports.UpdateProfileRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     strPtr("brand-new-pass"),
	})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	updated, err := f.users.UpdateProfile(ctx, user, ports.UpdateProfileRequest{
		Bio:             strPtr("hello"),
		CurrentPassword: "password123",
		NewPassword:     strPtr("brand-new-pass"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)

	_, err = f.auth.Login(ctx, ports.LoginRequest{Email: user.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin", entities.RoleAdmin)
	moderator := f.account(t, "mod", entities.RoleModerator)
	user := f.account(t, "user", entities.RoleUser)

	assert.ErrorIs(t, f.users.ResetPassword(ctx, moderator, user.ID, "resetpass1"), entities.ErrForbidden)
	assert.ErrorIs(t, f.users.ResetPassword(ctx, admin, user.ID, "123"), entities.ErrValidation)

	require.NoError(t, f.users.ResetPassword(ctx, admin, user.ID, "resetpass1"))
	_, err := f.auth.Login(ctx, ports.LoginRequest{Email: user.Email, Password: "resetpass1"})
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin", entities.RoleAdmin)
	user := f.account(t, "user", entities.RoleUser)

	_, err := f.users.DeleteUser(ctx, admin, admin.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	_, err = f.users.DeleteUser(ctx, user, admin.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	deleted, err := f.users.DeleteUser(ctx, admin, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.users.DeleteUser(ctx, admin, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seeds := []ports.SeedUser{
		{Name: "Admin", Email: "Admin@Example.com", Password: "admin123", Role: entities.RoleAdmin},
		{Name: "Plain", Email: "plain@example.com", Password: "plain123"},
	}

	first, err := f.users.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com", "plain@example.com"}, first.Created)
	assert.Empty(t, first.Skipped)

	second, err := f.users.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 2)

	all, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	admin, err := f.repos.Users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.Permissions.CanReset)

	plain, err := f.repos.Users.FindByEmail(ctx, "plain@example.com")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleUser, plain.Role)
	assert.False(t, plain.Permissions.CanReset)
}
