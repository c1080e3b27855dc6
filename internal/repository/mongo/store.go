// Package mongo is a Store backed by MongoDB. Each collection maps to one
// MongoDB collection; the document id is stored as _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"docum/internal/domain"
	"docum/internal/domain/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store implements repositories.Store on MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	prefix string
	logger *slog.Logger

	mu      sync.Mutex
	ready   map[string]bool
	uniques map[string][][]string
}

// Connect opens a client for uri and pings it.
func Connect(ctx context.Context, uri, database, prefix string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("mongo store connected", "database", database, "prefix", prefix)
	return &Store{
		client:  client,
		db:      client.Database(database),
		prefix:  prefix,
		logger:  logger,
		ready:   make(map[string]bool),
		uniques: make(map[string][][]string),
	}, nil
}

// Close implements repositories.Store
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// item is a stored MongoDB document.
type item struct {
	raw bson.Raw
}

// ItemID implements repositories.StoredItem
func (i item) ItemID() string {
	id, _ := i.raw.Lookup("_id").StringValueOK()
	return id
}

// Decode implements repositories.StoredItem
func (i item) Decode(dest any) error {
	if err := bson.Unmarshal(i.raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", i.ItemID(), err)
	}
	return nil
}

func (s *Store) collection(coll string) (*mongo.Collection, string, error) {
	if err := repositories.ValidateCollection(coll); err != nil {
		return nil, "", err
	}
	name := s.prefix + coll
	return s.db.Collection(name), name, nil
}

// ensureIndexes creates declared unique indexes once per collection
// lifetime. Dropping a collection drops its indexes, so Drop resets this.
func (s *Store) ensureIndexes(ctx context.Context, c *mongo.Collection, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready[name] {
		return nil
	}
	for _, fields := range s.uniques[name] {
		if err := createIndex(ctx, c, name, fields); err != nil {
			return err
		}
	}
	s.ready[name] = true
	return nil
}

func createIndex(ctx context.Context, c *mongo.Collection, name string, fields []string) error {
	_, err := c.Indexes().CreateOne(ctx, indexModel(name, fields))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("unique index on %s %v: existing documents violate it: %w", name, fields, domain.ErrConflict)
		}
		return fmt.Errorf("create unique index on %s %v: %w", name, fields, err)
	}
	return nil
}

func indexModel(collection string, fields []string) mongo.IndexModel {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(true).SetName(collection + "_uq_" + strings.Join(fields, "_")),
	}
}

// toDocument encodes item and pins its _id to id.
func toDocument(id string, value any) (bson.D, error) {
	data, err := bson.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}

	for _, e := range doc {
		if e.Key != "_id" {
			continue
		}
		if existing, ok := e.Value.(string); !ok || existing != id {
			return nil, fmt.Errorf("document _id %v does not match id %q", e.Value, id)
		}
		return doc, nil
	}
	return append(bson.D{{Key: "_id", Value: id}}, doc...), nil
}

// Insert implements repositories.Store
func (s *Store) Insert(ctx context.Context, coll, id string, value any) error {
	c, name, err := s.collection(coll)
	if err != nil {
		return err
	}
	doc, err := toDocument(id, value)
	if err != nil {
		return err
	}
	if err := s.ensureIndexes(ctx, c, name); err != nil {
		return err
	}

	if _, err := c.InsertOne(ctx, doc); err != nil {
		return mapError(name, id, err)
	}
	return nil
}

// Save implements repositories.Store
func (s *Store) Save(ctx context.Context, coll, id string, value any) error {
	c, name, err := s.collection(coll)
	if err != nil {
		return err
	}
	doc, err := toDocument(id, value)
	if err != nil {
		return err
	}
	if err := s.ensureIndexes(ctx, c, name); err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return mapError(name, id, err)
	}
	return nil
}

// Find implements repositories.Store
func (s *Store) Find(ctx context.Context, coll string, filter repositories.Filter, limit int) ([]repositories.StoredItem, error) {
	c, name, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	query, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := c.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", name, err)
	}
	defer cur.Close(ctx)

	var out []repositories.StoredItem
	for cur.Next(ctx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current)
		out = append(out, item{raw: raw})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return out, nil
}

// FindByID implements repositories.Store
func (s *Store) FindByID(ctx context.Context, coll, id string) (repositories.StoredItem, error) {
	c, name, err := s.collection(coll)
	if err != nil {
		return nil, err
	}

	raw, err := c.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		return nil, mapError(name, id, err)
	}
	return item{raw: raw}, nil
}

// Drop implements repositories.Store
func (s *Store) Drop(ctx context.Context, coll string) (bool, error) {
	c, name, err := s.collection(coll)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	if err := c.Drop(ctx); err != nil {
		return false, fmt.Errorf("drop %s: %w", name, err)
	}
	delete(s.ready, name)
	return len(names) > 0, nil
}

// EnsureUnique implements repositories.Store
func (s *Store) EnsureUnique(ctx context.Context, coll string, fields []string) error {
	c, name, err := s.collection(coll)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := repositories.ValidateField(f); err != nil {
			return err
		}
	}

	s.mu.Lock()
	key := strings.Join(fields, ",")
	known := false
	for _, existing := range s.uniques[name] {
		if strings.Join(existing, ",") == key {
			known = true
			break
		}
	}
	if !known {
		s.uniques[name] = append(s.uniques[name], append([]string(nil), fields...))
	}
	s.mu.Unlock()

	if err := createIndex(ctx, c, name, fields); err != nil {
		return err
	}
	s.logger.Debug("unique index ensured", "collection", name, "fields", fields)
	return nil
}

// compileFilter builds {$or: [{f1: v1, f2: v2}, ...]}. An empty filter
// matches every document.
func compileFilter(filter repositories.Filter) (bson.M, error) {
	if filter.IsEmpty() {
		return bson.M{}, nil
	}

	ors := make(bson.A, 0, len(filter))
	for _, clause := range filter {
		and := bson.D{}
		for _, c := range clause {
			if err := repositories.ValidateField(c.Field); err != nil {
				return nil, err
			}
			and = append(and, bson.E{Key: c.Field, Value: c.Value})
		}
		ors = append(ors, and)
	}
	return bson.M{"$or": ors}, nil
}

func mapError(name, id string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %v: %w", name, id, err, domain.ErrConflict)
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s %s: %w", name, id, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s %s: %w", name, id, err)
	}
}
