package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// requiredChecker is implemented by records that carry a minimal shape check
// for backends without a schema
type requiredChecker interface {
	CheckRequired() error
}

// MemoryStore keeps one collection in process memory. It backs the suite when
// no remote store is reachable and is lost on restart.
//
// Records are copied on the way in and out, except FindByOwner results served
// from the read cache, which are shared until the owner's next write. Callers
// must treat those as read-only.
type MemoryStore[T ports.Document[T]] struct {
	mu         sync.RWMutex
	collection string
	docs       []T
	cache      *ReadCache
	kind       CacheKind
	now        ports.Clock
	lastID     int64
	unique     []string
}

// MemoryOption customises a MemoryStore
type MemoryOption[T ports.Document[T]] func(*MemoryStore[T])

// WithReadCache serves FindByOwner through cache under kind and invalidates
// the owner on every write. An empty kind only invalidates.
func WithReadCache[T ports.Document[T]](cache *ReadCache, kind CacheKind) MemoryOption[T] {
	return func(s *MemoryStore[T]) {
		s.cache = cache
		s.kind = kind
	}
}

// WithMemoryClock replaces time.Now
func WithMemoryClock[T ports.Document[T]](now ports.Clock) MemoryOption[T] {
	return func(s *MemoryStore[T]) {
		s.now = now
	}
}

// WithUniqueFields rejects writes that would repeat a value of any of fields.
// The check runs under the write lock, so concurrent inserts cannot race it.
func WithUniqueFields[T ports.Document[T]](fields ...string) MemoryOption[T] {
	return func(s *MemoryStore[T]) {
		s.unique = append(s.unique, fields...)
	}
}

// NewMemoryStore creates an empty in-memory collection
func NewMemoryStore[T ports.Document[T]](collection string, opts ...MemoryOption[T]) *MemoryStore[T] {
	s := &MemoryStore[T]{
		collection: collection,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection returns the collection name
func (s *MemoryStore[T]) Collection() string {
	return s.collection
}

// nextID returns a millisecond timestamp, bumped so ids never repeat
func (s *MemoryStore[T]) nextID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *MemoryStore[T]) indexOf(id string) int {
	for i, d := range s.docs {
		if d.GetID() == id {
			return i
		}
	}
	return -1
}

// conflicts reports whether doc repeats a unique value held by another
// record. skip is the index of doc itself on update, -1 on insert. Callers
// hold s.mu.
func (s *MemoryStore[T]) conflicts(doc T, skip int) bool {
	for _, field := range s.unique {
		value, ok := doc.Field(field)
		if !ok || value == "" {
			continue
		}
		for i, d := range s.docs {
			if i == skip {
				continue
			}
			if v, ok := d.Field(field); ok && v == value {
				return true
			}
		}
	}
	return false
}

func (s *MemoryStore[T]) invalidate(owners ...string) {
	if s.cache == nil {
		return
	}
	for _, owner := range owners {
		s.cache.InvalidateOwner(owner)
	}
}

func checkRequired(doc interface{}) error {
	if rc, ok := doc.(requiredChecker); ok {
		return rc.CheckRequired()
	}
	return nil
}

func (s *MemoryStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	stored := doc.Clone()
	if err := checkRequired(stored); err != nil {
		return zero, err
	}

	s.mu.Lock()
	if stored.GetID() == "" {
		stored.SetID(s.nextID())
	} else if s.indexOf(stored.GetID()) >= 0 {
		s.mu.Unlock()
		return zero, entities.ErrDuplicate
	}
	if s.conflicts(stored, -1) {
		s.mu.Unlock()
		return zero, entities.ErrDuplicate
	}
	stored.Touch(s.now())
	s.docs = append(s.docs, stored)
	s.mu.Unlock()

	s.invalidate(stored.Owner())
	return stored.Clone(), nil
}

func (s *MemoryStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, entities.ErrNotFound
	}
	return s.docs[i].Clone(), nil
}

// FindByOwner returns the owner's records newest first
func (s *MemoryStore[T]) FindByOwner(ctx context.Context, ownerID string) ([]T, error) {
	load := func() ([]T, error) {
		return s.filter(func(d T) bool { return d.Owner() == ownerID }), nil
	}
	if s.cache == nil || s.kind == "" {
		return load()
	}
	return Cached(s.cache, s.kind, ownerID, load)
}

func (s *MemoryStore[T]) FindOne(ctx context.Context, field, value string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	for _, d := range s.docs {
		if v, ok := d.Field(field); ok && v == value {
			return d.Clone(), nil
		}
	}
	return zero, entities.ErrNotFound
}

// FindAll returns every record newest first
func (s *MemoryStore[T]) FindAll(ctx context.Context) ([]T, error) {
	return s.filter(func(T) bool { return true }), nil
}

func (s *MemoryStore[T]) filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for i := len(s.docs) - 1; i >= 0; i-- {
		if keep(s.docs[i]) {
			out = append(out, s.docs[i].Clone())
		}
	}
	return out
}

func (s *MemoryStore[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var zero T

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return zero, entities.ErrNotFound
	}
	previousOwner := s.docs[i].Owner()
	next := s.docs[i].Clone()
	if err := mutate(next); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	next.SetID(id)
	if err := checkRequired(next); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	if s.conflicts(next, i) {
		s.mu.Unlock()
		return zero, entities.ErrDuplicate
	}
	next.Touch(s.now())
	s.docs[i] = next
	s.mu.Unlock()

	s.invalidate(previousOwner, next.Owner())
	return next.Clone(), nil
}

func (s *MemoryStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	owner := s.docs[i].Owner()
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	s.mu.Unlock()

	s.invalidate(owner)
	return true, nil
}

// Len returns the number of stored records
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
