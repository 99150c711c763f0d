package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/adapters/repository"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/database"
)

const testSecret = "test-secret-with-enough-entropy"

type fixture struct {
	repos      *repository.Repositories
	auth       *AuthService
	users      *UserService
	tasks      *TaskService
	categories *CategoryService
	projects   *ProjectService
	pages      *PageService
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     testSecret,
		ExpiresIn:  DefaultTokenTTL,
		Issuer:     "productivity-test",
		BcryptCost: bcrypt.MinCost,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := database.NewManager(config.DatabaseConfig{Driver: config.DriverMemory}, nil)
	repos := repository.New(repository.Options{
		Backend: repository.Backend{Driver: config.DriverMemory},
		Conn:    conn,
	})

	auth, err := NewAuthService(repos.Users, testJWTConfig(), false, nil)
	require.NoError(t, err)

	return &fixture{
		repos:      repos,
		auth:       auth,
		users:      NewUserService(repos.Users, auth, nil),
		tasks:      NewTaskService(repos.Tasks, repos.Users, nil),
		categories: NewCategoryService(repos.Categories, nil),
		projects:   NewProjectService(repos.Projects, nil),
		pages:      NewPageService(repos.Pages, repos.Users, nil),
	}
}

// account stores a user with the role's default permissions
func (f *fixture) account(t *testing.T, name string, role entities.Role) *entities.User {
	t.Helper()
	hash, err := f.auth.HashPassword("password123")
	require.NoError(t, err)

	user, err := f.repos.Users.Add(context.Background(), &entities.User{
		Name:        name,
		Email:       name + "@example.com",
		Password:    hash,
		Role:        role,
		Permissions: permissions.DefaultPermissions(role),
	})
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
