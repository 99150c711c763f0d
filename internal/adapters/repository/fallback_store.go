package repository

import (
	"context"
	"errors"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// FallbackStore routes each operation to the remote store while it is
// connected and to the in-memory store otherwise. A remote failure is logged
// and the same operation is answered from memory, so callers never see
// backend errors. Not-found and validation outcomes are answers, not
// failures, and are returned as they are.
type FallbackStore[T ports.Document[T]] struct {
	collection string
	remote     ports.Store[T]
	memory     *MemoryStore[T]
	conn       ports.Connectivity
	logger     *logger.Logger
	observer   Observer
}

// NewFallbackStore combines remote and memory. remote may be nil, in which
// case every call is served from memory.
func NewFallbackStore[T ports.Document[T]](remote ports.Store[T], memory *MemoryStore[T], conn ports.Connectivity, log *logger.Logger, observer Observer) *FallbackStore[T] {
	if log == nil {
		log = logger.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &FallbackStore[T]{
		collection: memory.Collection(),
		remote:     remote,
		memory:     memory,
		conn:       conn,
		logger:     log,
		observer:   observer,
	}
}

// Memory exposes the in-memory half
func (f *FallbackStore[T]) Memory() *MemoryStore[T] {
	return f.memory
}

func (f *FallbackStore[T]) useRemote() bool {
	return f.remote != nil && f.conn != nil && f.conn.Connected()
}

// shouldFallBack separates backend failures from answers the caller needs to
// see. A cancelled request is not retried either.
func shouldFallBack(err error) bool {
	switch {
	case errors.Is(err, entities.ErrNotFound),
		errors.Is(err, entities.ErrValidation),
		errors.Is(err, entities.ErrDuplicate),
		errors.Is(err, entities.ErrDuplicateEmail),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func run[T ports.Document[T], R any](f *FallbackStore[T], op string, remote, local func() (R, error)) (R, error) {
	if f.useRemote() {
		result, err := remote()
		if err == nil || !shouldFallBack(err) {
			return result, err
		}
		f.logger.LogStoreFallback(f.collection, op, err)
		f.observer.StoreFallback(f.collection, op)
	}
	return local()
}

func (f *FallbackStore[T]) invalidate(owners ...string) {
	for _, owner := range owners {
		if f.memory.cache != nil {
			f.memory.cache.InvalidateOwner(owner)
		}
	}
}

func (f *FallbackStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	saved, err := run(f, "insert",
		func() (T, error) { return f.remote.Insert(ctx, doc) },
		func() (T, error) { return f.memory.Insert(ctx, doc) },
	)
	if err == nil {
		f.invalidate(saved.Owner())
	}
	return saved, err
}

func (f *FallbackStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	return run(f, "findById",
		func() (T, error) { return f.remote.FindByID(ctx, id) },
		func() (T, error) { return f.memory.FindByID(ctx, id) },
	)
}

func (f *FallbackStore[T]) FindByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return run(f, "findByOwner",
		func() ([]T, error) { return f.remote.FindByOwner(ctx, ownerID) },
		func() ([]T, error) { return f.memory.FindByOwner(ctx, ownerID) },
	)
}

func (f *FallbackStore[T]) FindOne(ctx context.Context, field, value string) (T, error) {
	return run(f, "findOne",
		func() (T, error) { return f.remote.FindOne(ctx, field, value) },
		func() (T, error) { return f.memory.FindOne(ctx, field, value) },
	)
}

func (f *FallbackStore[T]) FindAll(ctx context.Context) ([]T, error) {
	return run(f, "findAll",
		func() ([]T, error) { return f.remote.FindAll(ctx) },
		func() ([]T, error) { return f.memory.FindAll(ctx) },
	)
}

func (f *FallbackStore[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var previousOwner string
	track := func(doc T) error {
		previousOwner = doc.Owner()
		return mutate(doc)
	}
	saved, err := run(f, "update",
		func() (T, error) { return f.remote.Update(ctx, id, track) },
		func() (T, error) { return f.memory.Update(ctx, id, track) },
	)
	if err == nil {
		f.invalidate(previousOwner, saved.Owner())
	}
	return saved, err
}

func (f *FallbackStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	var owner string
	if doc, err := f.FindByID(ctx, id); err == nil {
		owner = doc.Owner()
	}
	deleted, err := run(f, "delete",
		func() (bool, error) { return f.remote.Delete(ctx, id) },
		func() (bool, error) { return f.memory.Delete(ctx, id) },
	)
	if err == nil && deleted {
		f.invalidate(owner)
	}
	return deleted, err
}

// Aggregate computes a per-owner summary. The remote path recomputes on every
// call; the memory path keeps the result in the read cache under kind.
func Aggregate[T ports.Document[T], R any](ctx context.Context, f *FallbackStore[T], kind CacheKind, ownerID string, compute func([]T) R) (R, error) {
	return run(f, "aggregate",
		func() (R, error) {
			var zero R
			docs, err := f.remote.FindByOwner(ctx, ownerID)
			if err != nil {
				return zero, err
			}
			return compute(docs), nil
		},
		func() (R, error) {
			load := func() (R, error) {
				docs, err := f.memory.FindByOwner(ctx, ownerID)
				if err != nil {
					var zero R
					return zero, err
				}
				return compute(docs), nil
			}
			if f.memory.cache == nil {
				return load()
			}
			return Cached(f.memory.cache, kind, ownerID, load)
		},
	)
}
