package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
)

func mongoConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:                 config.DriverMongo,
		MongoURI:               "mongodb://localhost:27017/productivity",
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          45 * time.Second,
	}
}

func TestConnectSharesInFlightAttempt(t *testing.T) {
	var dials atomic.Int32
	release := make(chan struct{})

	m := NewManager(mongoConfig(), nil, WithDialer(func(ctx context.Context) error {
		dials.Add(1)
		<-release
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Connect(context.Background()))
		}()
	}

	require.Eventually(t, func() bool { return dials.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), dials.Load())
	assert.True(t, m.Connected())
	assert.Equal(t, ModeRemote, m.Mode())

	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, int32(1), dials.Load())
}

func TestConnectFailureStaysInFallback(t *testing.T) {
	var states []bool
	m := NewManager(mongoConfig(), nil,
		WithDialer(func(ctx context.Context) error {
			return errors.New("connection refused")
		}),
		WithStateHook(func(connected bool) { states = append(states, connected) }),
	)

	assert.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.Connected())
	assert.Equal(t, ModeFallback, m.Mode())
	assert.Empty(t, states)
	assert.ErrorIs(t, m.HealthCheck(context.Background()), ErrNoRemote)
}

func TestConnectRetriesAfterFailure(t *testing.T) {
	fail := true
	m := NewManager(mongoConfig(), nil, WithDialer(func(ctx context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	}))

	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.Connected())

	fail = false
	require.NoError(t, m.Connect(context.Background()))
	assert.True(t, m.Connected())
}

func TestMemoryDriverNeverDials(t *testing.T) {
	m := NewManager(config.DatabaseConfig{Driver: config.DriverMemory}, nil)

	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.Connected())
	assert.Nil(t, m.Database())
	assert.Nil(t, m.SQL())
	assert.Equal(t, "fallback", m.Stats()["mode"])
}

func TestCloseReturnsToFallback(t *testing.T) {
	var states []bool
	m := NewManager(mongoConfig(), nil,
		WithDialer(func(ctx context.Context) error { return nil }),
		WithStateHook(func(connected bool) { states = append(states, connected) }),
	)

	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.Close(context.Background()))
	assert.False(t, m.Connected())
	assert.Equal(t, []bool{true, false}, states)
}

func TestMongoDatabaseName(t *testing.T) {
	assert.Equal(t, "productivity", mongoDatabaseName(mongoConfig()))
	assert.Equal(t, "override", mongoDatabaseName(config.DatabaseConfig{MongoURI: "mongodb://h/x", MongoDatabase: "override"}))
	assert.Equal(t, defaultMongoDatabase, mongoDatabaseName(config.DatabaseConfig{MongoURI: "mongodb://localhost:27017"}))
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := MigrationFiles()
	require.NoError(t, err)
	assert.Contains(t, names, "000001_create_documents.up.sql")
	assert.Contains(t, names, "000001_create_documents.down.sql")
}
