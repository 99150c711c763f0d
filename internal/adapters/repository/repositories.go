package repository

import (
	"context"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// Backend describes the remote half of every collection
type Backend struct {
	Driver  string
	Mongo   MongoProvider
	SQL     SQLProvider
	Timeout time.Duration
}

// Options wires the data-access layer
type Options struct {
	Backend  Backend
	Conn     ports.Connectivity
	Cache    *ReadCache
	Logger   *logger.Logger
	Observer Observer
	Now      ports.Clock
}

// Repositories groups the typed data-access objects handed to services
type Repositories struct {
	Users      *UserRepository
	Tasks      *TaskRepository
	Categories *CategoryRepository
	Projects   *ProjectRepository
	Pages      *PageRepository
	Cache      *ReadCache
}

// New builds one fallback store per collection
func New(opts Options) *Repositories {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Cache == nil {
		opts.Cache = NewReadCache(DefaultCacheTTL, opts.Now, opts.Observer)
	}

	return &Repositories{
		Users:      NewUserRepository(build[*entities.User](opts, entities.CollectionUsers, "_id", "", "email"), opts.Now),
		Tasks:      NewTaskRepository(build[*entities.Task](opts, entities.CollectionTasks, "user", CacheTasks), opts.Now),
		Categories: NewCategoryRepository(build[*entities.Category](opts, entities.CollectionCategories, "user", CacheCategories), opts.Now),
		Projects:   NewProjectRepository(build[*entities.Project](opts, entities.CollectionProjects, "user", ""), opts.Now),
		Pages:      NewPageRepository(build[*entities.Page](opts, entities.CollectionPages, "user", ""), opts.Now),
		Cache:      opts.Cache,
	}
}

func build[T ports.Document[T]](opts Options, collection, ownerField string, kind CacheKind, unique ...string) *FallbackStore[T] {
	memory := NewMemoryStore[T](collection,
		WithMemoryClock[T](opts.Now),
		WithReadCache[T](opts.Cache, kind),
		WithUniqueFields[T](unique...),
	)

	var remote ports.Store[T]
	switch opts.Backend.Driver {
	case config.DriverMongo:
		if opts.Backend.Mongo != nil {
			remote = NewMongoStore[T](opts.Backend.Mongo, collection, ownerField, opts.Now)
		}
	case config.DriverPostgres:
		if opts.Backend.SQL != nil {
			remote = NewPostgresStore[T](opts.Backend.SQL, collection, opts.Now, opts.Backend.Timeout)
		}
	}

	return NewFallbackStore[T](remote, memory, opts.Conn, opts.Logger.WithComponent("store"), opts.Observer)
}

// collection carries the operations every typed repository shares
type collection[T ports.Document[T]] struct {
	store *FallbackStore[T]
	now   ports.Clock
}

func (c collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	return c.store.FindByID(ctx, id)
}

func (c collection[T]) FindByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return c.store.FindByOwner(ctx, ownerID)
}

func (c collection[T]) FindAll(ctx context.Context) ([]T, error) {
	return c.store.FindAll(ctx)
}

func (c collection[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	return c.store.Update(ctx, id, mutate)
}

func (c collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	return c.store.Delete(ctx, id)
}

// Store exposes the underlying fallback store
func (c collection[T]) Store() *FallbackStore[T] {
	return c.store
}

var (
	_ ports.UserRepository     = (*UserRepository)(nil)
	_ ports.TaskRepository     = (*TaskRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
	_ ports.ProjectRepository  = (*ProjectRepository)(nil)
	_ ports.PageRepository     = (*PageRepository)(nil)
)
