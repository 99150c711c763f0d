package repository

import (
	"context"
	"errors"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// UserRepository stores accounts. Emails are stored normalised and are unique.
type UserRepository struct {
	collection[*entities.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(store *FallbackStore[*entities.User], now ports.Clock) *UserRepository {
	return &UserRepository{collection[*entities.User]{store: store, now: now}}
}

// Add inserts user after checking that its email is free
func (r *UserRepository) Add(ctx context.Context, user *entities.User) (*entities.User, error) {
	user = user.Clone()
	user.Email = entities.NormalizeEmail(user.Email)

	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return nil, entities.ErrDuplicateEmail
	} else if !errors.Is(err, entities.ErrNotFound) {
		return nil, err
	}

	saved, err := r.store.Insert(ctx, user)
	if errors.Is(err, entities.ErrDuplicate) {
		return nil, entities.ErrDuplicateEmail
	}
	return saved, err
}

// FindByEmail looks a user up case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.store.FindOne(ctx, "email", entities.NormalizeEmail(email))
}

// EmailTaken reports whether email belongs to a user other than exceptID
func (r *UserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	other, err := r.FindByEmail(ctx, email)
	if errors.Is(err, entities.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return other.ID != exceptID, nil
}

// Update applies mutate and keeps the email normalised. Taking another user's
// email fails with ErrDuplicateEmail.
func (r *UserRepository) Update(ctx context.Context, id string, mutate func(*entities.User) error) (*entities.User, error) {
	saved, err := r.store.Update(ctx, id, func(u *entities.User) error {
		if err := mutate(u); err != nil {
			return err
		}
		u.Email = entities.NormalizeEmail(u.Email)
		return nil
	})
	if errors.Is(err, entities.ErrDuplicate) {
		return nil, entities.ErrDuplicateEmail
	}
	return saved, err
}
