package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// MongoProvider hands out the live database handle; it is nil until the
// connection manager has connected.
type MongoProvider interface {
	Database() *mongo.Database
}

// ErrNotConnected is returned by remote stores used before a connection exists
var ErrNotConnected = errors.New("remote store not connected")

// MongoStore persists one collection in MongoDB
type MongoStore[T ports.Document[T]] struct {
	db         MongoProvider
	collection string
	ownerField string
	now        ports.Clock
}

// NewMongoStore creates a store over collection. ownerField is the document
// field matched by FindByOwner.
func NewMongoStore[T ports.Document[T]](db MongoProvider, collection, ownerField string, now ports.Clock) *MongoStore[T] {
	if now == nil {
		now = time.Now
	}
	return &MongoStore[T]{db: db, collection: collection, ownerField: ownerField, now: now}
}

func (s *MongoStore[T]) coll() (*mongo.Collection, error) {
	db := s.db.Database()
	if db == nil {
		return nil, ErrNotConnected
	}
	return db.Collection(s.collection), nil
}

// newDocument allocates the value a T points at
func newDocument[T any]() T {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)
}

func mongoError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return entities.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", entities.ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (s *MongoStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	coll, err := s.coll()
	if err != nil {
		return zero, err
	}

	stored := doc.Clone()
	if stored.GetID() == "" {
		stored.SetID(primitive.NewObjectID().Hex())
	}
	stored.Touch(s.now())
	if err := entities.Validate(stored); err != nil {
		return zero, err
	}

	if _, err := coll.InsertOne(ctx, stored); err != nil {
		return zero, mongoError("insert "+s.collection, err)
	}
	return stored, nil
}

func (s *MongoStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore[T]) FindOne(ctx context.Context, field, value string) (T, error) {
	return s.findOne(ctx, bson.M{field: value})
}

func (s *MongoStore[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	var zero T
	coll, err := s.coll()
	if err != nil {
		return zero, err
	}

	doc := newDocument[T]()
	if err := coll.FindOne(ctx, filter).Decode(doc); err != nil {
		return zero, mongoError("find "+s.collection, err)
	}
	return doc, nil
}

func (s *MongoStore[T]) FindByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return s.find(ctx, bson.M{s.ownerField: ownerID})
}

func (s *MongoStore[T]) FindAll(ctx context.Context) ([]T, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoStore[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	coll, err := s.coll()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, mongoError("list "+s.collection, err)
	}

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError("decode "+s.collection, err)
	}
	return docs, nil
}

func (s *MongoStore[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var zero T
	coll, err := s.coll()
	if err != nil {
		return zero, err
	}

	doc, err := s.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := mutate(doc); err != nil {
		return zero, err
	}
	doc.SetID(id)
	doc.Touch(s.now())
	if err := entities.Validate(doc); err != nil {
		return zero, err
	}

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return zero, mongoError("update "+s.collection, err)
	}
	if res.MatchedCount == 0 {
		return zero, entities.ErrNotFound
	}
	return doc, nil
}

func (s *MongoStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	coll, err := s.coll()
	if err != nil {
		return false, err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, mongoError("delete "+s.collection, err)
	}
	return res.DeletedCount > 0, nil
}
