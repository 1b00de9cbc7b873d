package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"envizi_webhook/internal/config"
	"envizi_webhook/internal/domain"
)

// ExecutionRepo stores webhook run summaries for the history view.
type ExecutionRepo struct {
	collection *mongo.Collection
}

func NewExecutionRepo(db *config.MongoDatabase) *ExecutionRepo {
	return &ExecutionRepo{
		collection: db.Database.Collection("executions"),
	}
}

// Record inserts one execution summary.
func (r *ExecutionRepo) Record(ctx context.Context, result *domain.ExecutionResult) error {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.collection.InsertOne(writeCtx, result)
	return err
}

// History returns the most recent runs for a webhook, newest first.
func (r *ExecutionRepo) History(ctx context.Context, webhookID string, limit int) ([]domain.ExecutionResult, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"webhook_id": webhookID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []domain.ExecutionResult{}
	for cursor.Next(ctx) {
		var result domain.ExecutionResult
		if err := cursor.Decode(&result); err != nil {
			continue
		}
		results = append(results, result)
	}
	return results, cursor.Err()
}
