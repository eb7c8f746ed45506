package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orionhq/gtm-insights/internal/models"
)

// Mongo stores insights in a single collection with Date as the natural
// key. Saves use a replace-upsert so a rerun on the same business day never
// creates a second document.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// EnsureIndexes creates the unique date index. Call once at startup.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Mongo) Save(ctx context.Context, ins models.Insight) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"date": ins.Date}, ins, opts)
	return err
}

func (s *Mongo) Latest(ctx context.Context) (models.Insight, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	var ins models.Insight
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&ins)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Insight{}, ErrNotFound
	}
	return ins, err
}

func (s *Mongo) ByDate(ctx context.Context, date string) (models.Insight, error) {
	var ins models.Insight
	err := s.coll.FindOne(ctx, bson.M{"date": date}).Decode(&ins)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Insight{}, ErrNotFound
	}
	return ins, err
}

func (s *Mongo) History(ctx context.Context, limit int) ([]models.InsightSummary, error) {
	limit = clampLimit(limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{
			"date":                    1,
			"generatedAt":             1,
			"status":                  1,
			"output.executiveSummary": 1,
		})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	summaries := []models.InsightSummary{}
	for cur.Next(ctx) {
		var full models.Insight
		if err := cur.Decode(&full); err != nil {
			return nil, err
		}
		summaries = append(summaries, models.InsightSummary{
			Date:             full.Date,
			GeneratedAt:      full.GeneratedAt,
			Status:           full.Status,
			ExecutiveSummary: full.Output.ExecutiveSummary,
		})
	}
	return summaries, cur.Err()
}
