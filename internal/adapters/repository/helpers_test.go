package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeConn struct {
	connected atomic.Bool
}

func connected(v bool) *fakeConn {
	c := &fakeConn{}
	c.connected.Store(v)
	return c
}

func (c *fakeConn) Connected() bool { return c.connected.Load() }

type countingObserver struct {
	mu        sync.Mutex
	fallbacks map[string]int
	hits      int
	misses    int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{fallbacks: make(map[string]int)}
}

func (o *countingObserver) StoreFallback(collection, op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks[collection+"."+op]++
}

func (o *countingObserver) CacheLookup(kind string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

// brokenStore fails every call with err
type brokenStore[T ports.Document[T]] struct {
	err   error
	calls atomic.Int32
}

func (s *brokenStore[T]) fail() error {
	s.calls.Add(1)
	return s.err
}

func (s *brokenStore[T]) Insert(context.Context, T) (T, error) {
	var zero T
	return zero, s.fail()
}

func (s *brokenStore[T]) FindByID(context.Context, string) (T, error) {
	var zero T
	return zero, s.fail()
}

func (s *brokenStore[T]) FindByOwner(context.Context, string) ([]T, error) {
	return nil, s.fail()
}

func (s *brokenStore[T]) FindOne(context.Context, string, string) (T, error) {
	var zero T
	return zero, s.fail()
}

func (s *brokenStore[T]) FindAll(context.Context) ([]T, error) {
	return nil, s.fail()
}

func (s *brokenStore[T]) Update(context.Context, string, func(T) error) (T, error) {
	var zero T
	return zero, s.fail()
}

func (s *brokenStore[T]) Delete(context.Context, string) (bool, error) {
	return false, s.fail()
}

func newTask(owner, title string) *entities.Task {
	return &entities.Task{
		Title:    title,
		User:     owner,
		Status:   entities.TaskStatusPending,
		Priority: entities.PriorityMedium,
	}
}

func newUser(name, email string) *entities.User {
	return &entities.User{
		Name:     name,
		Email:    email,
		Password: "$2a$12$hash",
		Role:     entities.RoleUser,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
