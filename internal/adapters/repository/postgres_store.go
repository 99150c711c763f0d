package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// SQLProvider hands out the live PostgreSQL handle; nil until connected
type SQLProvider interface {
	SQL() *sqlx.DB
}

// DefaultOperationTimeout caps a single PostgreSQL statement
const DefaultOperationTimeout = 45 * time.Second

const uniqueViolation = "23505"

// PostgresStore persists one collection as rows of the shared documents
// table. The body column holds the record in extended JSON so the bson
// field names are the persisted shape on every remote backend.
type PostgresStore[T ports.Document[T]] struct {
	db         SQLProvider
	collection string
	now        ports.Clock
	timeout    time.Duration
}

// NewPostgresStore creates a store over collection
func NewPostgresStore[T ports.Document[T]](db SQLProvider, collection string, now ports.Clock, timeout time.Duration) *PostgresStore[T] {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &PostgresStore[T]{db: db, collection: collection, now: now, timeout: timeout}
}

func (s *PostgresStore[T]) conn(ctx context.Context) (*sqlx.DB, context.Context, context.CancelFunc, error) {
	db := s.db.SQL()
	if db == nil {
		return nil, ctx, func() {}, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return db, ctx, cancel, nil
}

func encodeBody(doc interface{}) ([]byte, error) {
	return bson.MarshalExtJSON(doc, false, false)
}

func decodeBody[T any](body []byte) (T, error) {
	doc := newDocument[T]()
	if err := bson.UnmarshalExtJSON(body, false, doc); err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

func postgresError(op string, err error) error {
	var pqErr *pq.Error
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return entities.ErrNotFound
	case errors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		return fmt.Errorf("%w: %s", entities.ErrDuplicate, pqErr.Message)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *PostgresStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	db, ctx, cancel, err := s.conn(ctx)
	defer cancel()
	if err != nil {
		return zero, err
	}

	stored := doc.Clone()
	if stored.GetID() == "" {
		stored.SetID(uuid.New().String())
	}
	now := s.now()
	stored.Touch(now)
	if err := entities.Validate(stored); err != nil {
		return zero, err
	}

	body, err := encodeBody(stored)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", s.collection, err)
	}

	query := `
		INSERT INTO documents (collection, id, owner_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := db.ExecContext(ctx, query, s.collection, stored.GetID(), stored.Owner(), body, now, now); err != nil {
		return zero, postgresError("insert "+s.collection, err)
	}
	return stored, nil
}

func (s *PostgresStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	query := `SELECT body FROM documents WHERE collection = $1 AND id = $2`
	return s.getOne(ctx, query, s.collection, id)
}

// FindOne matches a top-level field of the stored body
func (s *PostgresStore[T]) FindOne(ctx context.Context, field, value string) (T, error) {
	query := `SELECT body FROM documents WHERE collection = $1 AND body->>$2 = $3 LIMIT 1`
	return s.getOne(ctx, query, s.collection, field, value)
}

func (s *PostgresStore[T]) getOne(ctx context.Context, query string, args ...interface{}) (T, error) {
	var zero T
	db, ctx, cancel, err := s.conn(ctx)
	defer cancel()
	if err != nil {
		return zero, err
	}

	var body []byte
	if err := db.GetContext(ctx, &body, query, args...); err != nil {
		return zero, postgresError("find "+s.collection, err)
	}

	doc, err := decodeBody[T](body)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", s.collection, err)
	}
	return doc, nil
}

func (s *PostgresStore[T]) FindByOwner(ctx context.Context, ownerID string) ([]T, error) {
	query := `
		SELECT body FROM documents
		WHERE collection = $1 AND owner_id = $2
		ORDER BY created_at DESC`
	return s.list(ctx, query, s.collection, ownerID)
}

func (s *PostgresStore[T]) FindAll(ctx context.Context) ([]T, error) {
	query := `SELECT body FROM documents WHERE collection = $1 ORDER BY created_at DESC`
	return s.list(ctx, query, s.collection)
}

func (s *PostgresStore[T]) list(ctx context.Context, query string, args ...interface{}) ([]T, error) {
	db, ctx, cancel, err := s.conn(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}

	var bodies [][]byte
	if err := db.SelectContext(ctx, &bodies, query, args...); err != nil {
		return nil, postgresError("list "+s.collection, err)
	}

	docs := make([]T, 0, len(bodies))
	for _, body := range bodies {
		doc, err := decodeBody[T](body)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Update reads the row under a lock, applies mutate and writes it back in one
// transaction
func (s *PostgresStore[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var zero T
	db, ctx, cancel, err := s.conn(ctx)
	defer cancel()
	if err != nil {
		return zero, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, postgresError("begin update "+s.collection, err)
	}
	defer tx.Rollback()

	var body []byte
	query := `SELECT body FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`
	if err := tx.GetContext(ctx, &body, query, s.collection, id); err != nil {
		return zero, postgresError("find "+s.collection, err)
	}

	doc, err := decodeBody[T](body)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", s.collection, err)
	}
	if err := mutate(doc); err != nil {
		return zero, err
	}
	doc.SetID(id)
	now := s.now()
	doc.Touch(now)
	if err := entities.Validate(doc); err != nil {
		return zero, err
	}

	if body, err = encodeBody(doc); err != nil {
		return zero, fmt.Errorf("encode %s: %w", s.collection, err)
	}

	update := `
		UPDATE documents SET owner_id = $3, body = $4, updated_at = $5
		WHERE collection = $1 AND id = $2`
	if _, err := tx.ExecContext(ctx, update, s.collection, id, doc.Owner(), body, now); err != nil {
		return zero, postgresError("update "+s.collection, err)
	}

	if err := tx.Commit(); err != nil {
		return zero, postgresError("commit update "+s.collection, err)
	}
	return doc, nil
}

func (s *PostgresStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	db, ctx, cancel, err := s.conn(ctx)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, s.collection, id)
	if err != nil {
		return false, postgresError("delete "+s.collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, postgresError("delete "+s.collection, err)
	}
	return n > 0, nil
}
