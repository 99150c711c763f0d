package ports

import (
	"context"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
)

// Document is implemented by every persisted record. T is the record's own
// pointer type so Clone can return it without a type assertion.
type Document[T any] interface {
	GetID() string
	SetID(id string)
	Owner() string
	Touch(now time.Time)
	Clone() T
	Field(name string) (string, bool)
}

// Store is the single contract shared by the remote backends, the in-memory
// backend and the fallback decorator that combines them.
//
// FindByID, FindOne and Update return entities.ErrNotFound for a missing
// record; Delete reports a missing record as false. Neither is a failure of
// the backend. The mutate callback passed to Update may run under the
// store's lock and must not call back into the store.
type Store[T Document[T]] interface {
	Insert(ctx context.Context, doc T) (T, error)
	FindByID(ctx context.Context, id string) (T, error)
	FindByOwner(ctx context.Context, ownerID string) ([]T, error)
	FindOne(ctx context.Context, field, value string) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, mutate func(T) error) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Connectivity reports whether the remote store is usable
type Connectivity interface {
	Connected() bool
}

// Clock returns the current time; swapped out in tests
type Clock func() time.Time

// UserRepository stores accounts; emails are unique and stored lower-case
type UserRepository interface {
	Add(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	FindAll(ctx context.Context) ([]*entities.User, error)
	Update(ctx context.Context, id string, mutate func(*entities.User) error) (*entities.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TaskRepository stores tasks
type TaskRepository interface {
	Add(ctx context.Context, task *entities.Task) (*entities.Task, error)
	FindByID(ctx context.Context, id string) (*entities.Task, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entities.Task, error)
	FindAll(ctx context.Context) ([]*entities.Task, error)
	Update(ctx context.Context, id string, mutate func(*entities.Task) error) (*entities.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context, ownerID string) (*entities.TaskStats, error)
}

// CategoryRepository stores categories
type CategoryRepository interface {
	Add(ctx context.Context, category *entities.Category) (*entities.Category, error)
	FindByID(ctx context.Context, id string) (*entities.Category, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entities.Category, error)
	Update(ctx context.Context, id string, mutate func(*entities.Category) error) (*entities.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ProjectRepository stores projects
type ProjectRepository interface {
	Add(ctx context.Context, project *entities.Project) (*entities.Project, error)
	FindByID(ctx context.Context, id string) (*entities.Project, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entities.Project, error)
	Update(ctx context.Context, id string, mutate func(*entities.Project) error) (*entities.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PageRepository stores pages
type PageRepository interface {
	Add(ctx context.Context, page *entities.Page) (*entities.Page, error)
	FindByID(ctx context.Context, id string) (*entities.Page, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entities.Page, error)
	FindSharedWith(ctx context.Context, userID string) ([]*entities.Page, error)
	Update(ctx context.Context, id string, mutate func(*entities.Page) error) (*entities.Page, error)
	Delete(ctx context.Context, id string) (bool, error)
}
