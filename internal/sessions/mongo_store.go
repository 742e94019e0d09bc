package sessions

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedValue is the document shape of one session entry.
type storedValue struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// MongoStore implements Store using a Mongo collection, one document per key.
type MongoStore struct {
	col    *mongo.Collection
	prefix string
}

func NewMongoStore(col *mongo.Collection, prefix string) *MongoStore {
	return &MongoStore{col: col, prefix: prefix}
}

func (m *MongoStore) id(key string) string {
	return m.prefix + key
}

func (m *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc storedValue
	if err := m.col.FindOne(ctx, bson.M{"_id": m.id(key)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("mongo get %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (m *MongoStore) Set(ctx context.Context, key, value string) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": m.id(key)}, bson.M{"$set": bson.M{"value": value}}, opts)
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, m.id(k))
	}
	if _, err := m.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}
