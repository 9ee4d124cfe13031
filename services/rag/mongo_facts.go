package rag

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"concierge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFactStore implements FactStore over a facts collection holding
// FAQ entries and structured hotel facts.
type MongoFactStore struct {
	coll  *mongo.Collection
	limit int
}

// factDoc is the stored shape of one fact.
type factDoc struct {
	ID     string  `bson:"id"`
	Source string  `bson:"source"` // "fact" or "faq"
	Text   string  `bson:"text"`
	Weight float64 `bson:"weight"`
}

func NewMongoFactStore(client *mongo.Client, database string, limit int) *MongoFactStore {
	coll := client.Database(database).Collection("facts")
	store := &MongoFactStore{coll: coll, limit: limit}
	if err := store.ensureIndexes(); err != nil {
		fmt.Printf("failed to create facts indexes: %v\n", err)
	}
	return store
}

func (s *MongoFactStore) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "source", Value: 1}}},
	}
	_, err := s.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Search runs a case-insensitive substring match of the query against the
// fact text. The stored weight becomes the hit's relevance score.
func (s *MongoFactStore) Search(ctx context.Context, text string) ([]models.RetrievalHit, error) {
	filter := bson.M{"text": bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}}
	opts := options.Find().SetLimit(int64(s.limit)).SetSort(bson.D{{Key: "weight", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("facts search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []factDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("facts decode failed: %w", err)
	}

	hits := make([]models.RetrievalHit, 0, len(docs))
	for _, d := range docs {
		source := d.Source
		if source == "" {
			source = models.SourceFact
		}
		hits = append(hits, models.RetrievalHit{
			ID:     d.ID,
			Source: source,
			Score:  d.Weight,
			Text:   d.Text,
		})
	}
	return hits, nil
}
