package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// UserService handles user-related operations
type UserService struct {
	users  ports.UserRepository
	auth   ports.AuthService
	logger *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users ports.UserRepository, auth ports.AuthService, log *logger.Logger) *UserService {
	if log == nil {
		log = logger.NewNop()
	}
	return &UserService{
		users:  users,
		auth:   auth,
		logger: log.WithComponent("users"),
	}
}

// CreateUser creates an account on behalf of actor. Actors may only hand out
// roles up to their own level.
func (s *UserService) CreateUser(ctx context.Context, actor *entities.User, req ports.CreateUserRequest) (*entities.User, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if !req.Role.IsKnown() {
		return nil, entities.ErrInvalidRole
	}
	if !permissions.CanAssignRole(actor, req.Role) {
		return nil, entities.ErrForbidden
	}

	perms, err := permissions.Resolve(req.Role, req.Permissions)
	if err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Add(ctx, &entities.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    hash,
		Role:        req.Role,
		Permissions: perms,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.LogUserAction(actor.ID, "create_user", map[string]interface{}{
		"target_id": user.ID,
		"role":      user.Role,
	})
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every account
func (s *UserService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser changes another account. A role change reseeds the permissions
// from the new role before any explicit overrides are applied.
func (s *UserService) UpdateUser(ctx context.Context, actor *entities.User, id string, req ports.UpdateUserRequest) (*entities.User, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !permissions.CanModifyUser(actor, target) {
		return nil, entities.ErrForbidden
	}
	if req.Role != nil {
		if !req.Role.IsKnown() {
			return nil, entities.ErrInvalidRole
		}
		if !permissions.CanAssignRole(actor, *req.Role) {
			return nil, entities.ErrForbidden
		}
	}
	if req.Email != nil {
		taken, err := s.users.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, entities.ErrDuplicateEmail
		}
	}

	user, err := s.users.Update(ctx, id, func(u *entities.User) error {
		pick(&u.Name, req.Name)
		pick(&u.Email, req.Email)
		pick(&u.Avatar, req.Avatar)
		pick(&u.Bio, req.Bio)

		perms := u.Permissions
		if req.Role != nil && *req.Role != u.Role {
			u.Role = *req.Role
			perms = permissions.DefaultPermissions(u.Role)
		}
		perms, err := perms.Apply(req.Permissions)
		if err != nil {
			return err
		}
		u.Permissions = perms
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.LogUserAction(actor.ID, "update_user", map[string]interface{}{"target_id": id})
	return user, nil
}

// UpdateProfile lets a user edit their own account. Changing the password
// requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor *entities.User, req ports.UpdateProfileRequest) (*entities.User, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}

	var hash string
	if req.NewPassword != nil {
		current, err := s.users.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if !s.auth.ComparePassword(current.Password, req.CurrentPassword) {
			return nil, entities.ErrInvalidCredentials
		}
		if hash, err = s.auth.HashPassword(*req.NewPassword); err != nil {
			return nil, err
		}
	}

	user, err := s.users.Update(ctx, actor.ID, func(u *entities.User) error {
		pick(&u.Name, req.Name)
		pick(&u.Avatar, req.Avatar)
		pick(&u.Bio, req.Bio)
		if hash != "" {
			u.Password = hash
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ResetPassword sets a new password on a lower-ranked account
func (s *UserService) ResetPassword(ctx context.Context, actor *entities.User, id, password string) error {
	if err := requirePermission(actor, entities.PermCanReset); err != nil {
		return err
	}
	if err := entities.Validate(ports.ResetPasswordRequest{Password: password}); err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !permissions.CanModifyUser(actor, target) {
		return entities.ErrForbidden
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, id, func(u *entities.User) error {
		u.Password = hash
		return nil
	}); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.LogSecurityEvent("password_reset", actor.ID, "", map[string]interface{}{"target_id": id})
	return nil
}

// DeleteUser removes a lower-ranked account. Nobody may delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor *entities.User, id string) (bool, error) {
	if actor.ID == id {
		return false, entities.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, id)
	if errors.Is(err, entities.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if !permissions.CanModifyUser(actor, target) {
		return false, entities.ErrForbidden
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.LogUserAction(actor.ID, "delete_user", map[string]interface{}{"target_id": id})
	return deleted, nil
}

// Seed creates each account whose email is not yet registered. Running it
// twice creates nothing the second time.
func (s *UserService) Seed(ctx context.Context, seeds []ports.SeedUser) (*ports.SeedReport, error) {
	report := &ports.SeedReport{Created: []string{}, Skipped: []string{}}

	for _, seed := range seeds {
		email := entities.NormalizeEmail(seed.Email)
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			s.logger.Infow("Seed user already exists, skipping", "email", email)
			report.Skipped = append(report.Skipped, email)
			continue
		} else if !errors.Is(err, entities.ErrNotFound) {
			return report, fmt.Errorf("failed to look up %s: %w", email, err)
		}

		role := seed.Role
		if role == "" {
			role = entities.RoleUser
		}
		if !role.IsKnown() {
			return report, fmt.Errorf("%s: %w", email, entities.ErrInvalidRole)
		}
		perms, err := permissions.Resolve(role, seed.Permissions)
		if err != nil {
			return report, fmt.Errorf("%s: %w", email, err)
		}
		hash, err := s.auth.HashPassword(seed.Password)
		if err != nil {
			return report, err
		}

		if _, err := s.users.Add(ctx, &entities.User{
			Name:        seed.Name,
			Email:       email,
			Password:    hash,
			Role:        role,
			Permissions: perms,
		}); err != nil {
			return report, fmt.Errorf("failed to seed %s: %w", email, err)
		}

		s.logger.Infow("Seed user created", "email", email, "role", role)
		report.Created = append(report.Created, email)
	}
	return report, nil
}
