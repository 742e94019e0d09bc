package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type storedCart struct {
	ID        string    `bson:"_id"`
	Lines     []Line    `bson:"lines"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRepository stores the cart as a single document in a collection.
type MongoRepository struct {
	col *mongo.Collection
	id  string
}

func NewMongoRepository(col *mongo.Collection, prefix string) *MongoRepository {
	return &MongoRepository{col: col, id: prefix + "cart"}
}

func (r *MongoRepository) Load(ctx context.Context) ([]Line, error) {
	var doc storedCart
	if err := r.col.FindOne(ctx, bson.M{"_id": r.id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo load cart: %w", err)
	}
	return doc.Lines, nil
}

func (r *MongoRepository) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	set := bson.M{"$set": bson.M{"lines": lines, "updatedAt": time.Now().UTC()}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": r.id}, set, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo save cart: %w", err)
	}
	return nil
}
