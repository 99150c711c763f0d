package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"golang.org/x/sync/singleflight"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
)

// Operating modes reported to health checks
const (
	ModeRemote   = "remote"
	ModeFallback = "fallback"
)

const defaultMongoDatabase = "productivity"

// ErrNoRemote is returned by HealthCheck when no remote store is in use
var ErrNoRemote = errors.New("no remote store connected")

// Manager owns the connection to the remote document store. Until Connect
// succeeds, and for the whole life of a process whose attempt failed, every
// repository serves from memory.
type Manager struct {
	cfg       config.DatabaseConfig
	logger    *logger.Logger
	group     singleflight.Group
	connected atomic.Bool
	dial      func(ctx context.Context) error
	onChange  func(connected bool)

	mu      sync.RWMutex
	client  *mongo.Client
	mongoDB *mongo.Database
	sqlDB   *sqlx.DB
}

// Option customises a Manager
type Option func(*Manager)

// WithDialer replaces the driver dialer
func WithDialer(dial func(ctx context.Context) error) Option {
	return func(m *Manager) {
		m.dial = dial
	}
}

// WithStateHook is called whenever the connected flag changes
func WithStateHook(fn func(connected bool)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// NewManager creates a disconnected manager for cfg.Driver
func NewManager(cfg config.DatabaseConfig, log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	m := &Manager{
		cfg:      cfg,
		logger:   log.WithComponent("database"),
		onChange: func(bool) {},
	}
	switch cfg.Driver {
	case config.DriverMongo:
		m.dial = m.dialMongo
	case config.DriverPostgres:
		m.dial = m.dialPostgres
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Driver returns the configured driver name
func (m *Manager) Driver() string {
	return m.cfg.Driver
}

// Connected reports whether the remote store is in use
func (m *Manager) Connected() bool {
	return m.connected.Load()
}

// Mode returns ModeRemote or ModeFallback
func (m *Manager) Mode() string {
	if m.Connected() {
		return ModeRemote
	}
	return ModeFallback
}

// Connect establishes the remote connection once. Concurrent callers share a
// single attempt. A failed attempt is logged and leaves the process in
// fallback mode; it is never reported as an error because the in-memory
// backend keeps the suite working.
func (m *Manager) Connect(ctx context.Context) error {
	if m.Connected() {
		return nil
	}
	if m.dial == nil {
		m.logger.Infow("No remote store configured, serving from memory", "driver", m.cfg.Driver)
		return nil
	}

	_, _, _ = m.group.Do("connect", func() (interface{}, error) {
		if m.Connected() {
			return nil, nil
		}

		start := time.Now()
		if err := m.dial(ctx); err != nil {
			m.logger.Warnw("Remote store unavailable, using in-memory fallback",
				"driver", m.cfg.Driver,
				"elapsed", time.Since(start),
				"error", err.Error(),
			)
			return nil, err
		}

		m.connected.Store(true)
		m.onChange(true)
		m.logger.Infow("Connected to remote store",
			"driver", m.cfg.Driver,
			"elapsed", time.Since(start),
		)
		return nil, nil
	})

	return nil
}

func (m *Manager) dialMongo(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(m.cfg.MongoURI).
		SetServerSelectionTimeout(m.cfg.ServerSelectionTimeout).
		SetSocketTimeout(m.cfg.SocketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.cfg.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(mongoDatabaseName(m.cfg))
	if err := ensureIndexes(ctx, db); err != nil {
		m.logger.Warnw("Failed to ensure indexes", "error", err.Error())
	}

	m.mu.Lock()
	m.client = client
	m.mongoDB = db
	m.mu.Unlock()
	return nil
}

func mongoDatabaseName(cfg config.DatabaseConfig) string {
	if cfg.MongoDatabase != "" {
		return cfg.MongoDatabase
	}
	if cs, err := connstring.ParseAndValidate(cfg.MongoURI); err == nil && cs.Database != "" {
		return cs.Database
	}
	return defaultMongoDatabase
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(entities.CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	owned := []string{
		entities.CollectionTasks,
		entities.CollectionCategories,
		entities.CollectionProjects,
		entities.CollectionPages,
	}
	for _, name := range owned {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("%s owner index: %w", name, err)
		}
	}
	return nil
}

func (m *Manager) dialPostgres(ctx context.Context) error {
	db, err := sqlx.Open("postgres", m.cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(m.cfg.MaxOpenConns)
	db.SetMaxIdleConns(m.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, m.cfg.ServerSelectionTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := MigrateUp(db.DB); err != nil {
		_ = db.Close()
		return err
	}

	m.mu.Lock()
	m.sqlDB = db
	m.mu.Unlock()
	return nil
}

// Database returns the mongo handle, nil unless connected with the mongo driver
func (m *Manager) Database() *mongo.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mongoDB
}

// SQL returns the PostgreSQL handle, nil unless connected with the postgres driver
func (m *Manager) SQL() *sqlx.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sqlDB
}

// HealthCheck pings the remote store
func (m *Manager) HealthCheck(ctx context.Context) error {
	if !m.Connected() {
		return ErrNoRemote
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	m.mu.RLock()
	client, sqlDB := m.client, m.sqlDB
	m.mu.RUnlock()

	switch {
	case client != nil:
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	case sqlDB != nil:
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}
	return nil
}

// Stats returns connection details for the detailed health endpoint
func (m *Manager) Stats() map[string]interface{} {
	info := map[string]interface{}{
		"driver": m.cfg.Driver,
		"mode":   m.Mode(),
	}

	if db := m.SQL(); db != nil {
		stats := db.Stats()
		info["open_connections"] = stats.OpenConnections
		info["in_use"] = stats.InUse
		info["idle"] = stats.Idle
		info["wait_count"] = stats.WaitCount
	}
	if db := m.Database(); db != nil {
		info["database"] = db.Name()
	}
	return info
}

// Close releases the remote connection and returns to fallback mode
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client, sqlDB := m.client, m.sqlDB
	m.client, m.mongoDB, m.sqlDB = nil, nil, nil
	m.mu.Unlock()

	if m.connected.Swap(false) {
		m.onChange(false)
	}

	var err error
	if client != nil {
		err = client.Disconnect(ctx)
	}
	if sqlDB != nil {
		err = errors.Join(err, sqlDB.Close())
	}
	return err
}
