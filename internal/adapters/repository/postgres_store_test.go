package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
)

type staticSQL struct {
	db *sqlx.DB
}

func (s staticSQL) SQL() *sqlx.DB { return s.db }

func newPostgresTasks(t *testing.T, clock *fakeClock) (*PostgresStore[*entities.Task], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewPostgresStore[*entities.Task](staticSQL{sqlx.NewDb(db, "postgres")}, entities.CollectionTasks, clock.Now, time.Second)
	return store, mock
}

func storedTaskBody(t *testing.T, task *entities.Task) []byte {
	t.Helper()
	body, err := encodeBody(task)
	require.NoError(t, err)
	return body
}

func TestPostgresInsert(t *testing.T) {
	clock := newFakeClock()
	store, mock := newPostgresTasks(t, clock)

	mock.ExpectExec(`INSERT INTO documents \(collection, id, owner_id, body, created_at, updated_at\)`).
		WithArgs("tasks", sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), clock.Now(), clock.Now()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := store.Insert(context.Background(), newTask("u1", "write docs"))
	require.NoError(t, err)

	_, err = uuid.Parse(saved.ID)
	assert.NoError(t, err)
	assert.Equal(t, clock.Now(), saved.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertValidatesBeforeWriting(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	_, err := store.Insert(context.Background(), newTask("u1", ""))
	assert.ErrorIs(t, err, entities.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertDuplicate(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	mock.ExpectExec(`INSERT INTO documents`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := store.Insert(context.Background(), newTask("u1", "dup"))
	assert.ErrorIs(t, err, entities.ErrDuplicate)
}

func TestPostgresFindByID(t *testing.T) {
	clock := newFakeClock()
	store, mock := newPostgresTasks(t, clock)

	due := clock.Now().Add(-time.Hour)
	stored := newTask("u1", "stored")
	stored.ID = "t1"
	stored.DueDate = &due
	stored.Tags = []string{"go"}
	stored.Touch(clock.Now())

	mock.ExpectQuery(`SELECT body FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("tasks", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(storedTaskBody(t, stored)))

	found, err := store.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", found.ID)
	assert.Equal(t, "stored", found.Title)
	assert.Equal(t, []string{"go"}, found.Tags)
	require.NotNil(t, found.DueDate)
	assert.True(t, found.DueDate.Equal(due))
	assert.True(t, found.IsOverdue(clock.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDMissing(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	mock.ExpectQuery(`SELECT body FROM documents`).
		WithArgs("tasks", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err := store.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestPostgresFindOneByField(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	stored := newTask("u1", "by title")
	stored.ID = "t9"

	mock.ExpectQuery(`SELECT body FROM documents WHERE collection = \$1 AND body->>\$2 = \$3 LIMIT 1`).
		WithArgs("tasks", "title", "by title").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(storedTaskBody(t, stored)))

	found, err := store.FindOne(context.Background(), "title", "by title")
	require.NoError(t, err)
	assert.Equal(t, "t9", found.ID)
}

func TestPostgresFindByOwner(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	newer := newTask("u1", "newer")
	newer.ID = "t2"
	older := newTask("u1", "older")
	older.ID = "t1"

	mock.ExpectQuery(`SELECT body FROM documents\s+WHERE collection = \$1 AND owner_id = \$2\s+ORDER BY created_at DESC`).
		WithArgs("tasks", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow(storedTaskBody(t, newer)).
			AddRow(storedTaskBody(t, older)))

	tasks, err := store.FindByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "newer", tasks[0].Title)
	assert.Equal(t, "older", tasks[1].Title)
}

func TestPostgresUpdate(t *testing.T) {
	clock := newFakeClock()
	store, mock := newPostgresTasks(t, clock)

	stored := newTask("u1", "before")
	stored.ID = "t1"
	stored.Touch(clock.Now())
	clock.Advance(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT body FROM documents WHERE collection = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs("tasks", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(storedTaskBody(t, stored)))
	mock.ExpectExec(`UPDATE documents SET owner_id = \$3, body = \$4, updated_at = \$5`).
		WithArgs("tasks", "t1", "u1", sqlmock.AnyArg(), clock.Now()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := store.Update(context.Background(), "t1", func(task *entities.Task) error {
		task.ApplyStatus(entities.TaskStatusCompleted, clock.Now())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRollsBackInvalidRecord(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	stored := newTask("u1", "before")
	stored.ID = "t1"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT body FROM documents`).
		WithArgs("tasks", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(storedTaskBody(t, stored)))
	mock.ExpectRollback()

	_, err := store.Update(context.Background(), "t1", func(task *entities.Task) error {
		task.Priority = "whenever"
		return nil
	})
	assert.ErrorIs(t, err, entities.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	store, mock := newPostgresTasks(t, newFakeClock())

	mock.ExpectExec(`DELETE FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("tasks", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs("tasks", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := store.Delete(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostgresNotConnected(t *testing.T) {
	store := NewPostgresStore[*entities.Task](staticSQL{}, entities.CollectionTasks, nil, 0)

	_, err := store.FindAll(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}
