package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"envizi_webhook/internal/config"
	"envizi_webhook/internal/domain"
	"envizi_webhook/pkg/logger"
)

// ErrWebhookNotFound is returned when no active webhook has the given id.
var ErrWebhookNotFound = errors.New("webhook not found")

// WebhookRepo persists webhook configurations in MongoDB. Deletes are
// soft (active flag) and every change is recorded in a history
// collection.
type WebhookRepo struct {
	collection *mongo.Collection
	historyCol *mongo.Collection
}

// changeRecord is one row of the webhook change history.
type changeRecord struct {
	WebhookID string                `bson:"webhook_id"`
	Action    string                `bson:"action"`
	Old       *domain.WebhookConfig `bson:"old,omitempty"`
	New       *domain.WebhookConfig `bson:"new,omitempty"`
	ChangedAt time.Time             `bson:"changed_at"`
}

// NewWebhookRepo creates the repository and its indexes.
func NewWebhookRepo(db *config.MongoDatabase) (*WebhookRepo, error) {
	r := &WebhookRepo{
		collection: db.Database.Collection("webhooks"),
		historyCol: db.Database.Collection("webhook_history"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create webhook indexes: %w", err)
	}

	return r, nil
}

// Create inserts a new webhook configuration.
func (r *WebhookRepo) Create(ctx context.Context, cfg *domain.WebhookConfig) error {
	cfg.Active = true
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = cfg.CreatedAt

	if _, err := r.collection.InsertOne(ctx, cfg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("webhook exists: %s", cfg.ID)
		}
		return err
	}

	r.recordHistory(ctx, cfg.ID, "CREATE", nil, cfg)
	return nil
}

// Get returns one active webhook by id.
func (r *WebhookRepo) Get(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	var cfg domain.WebhookConfig
	err := r.collection.FindOne(ctx, bson.M{"id": id, "active": true}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrWebhookNotFound, id)
		}
		return nil, err
	}
	return &cfg, nil
}

// List returns all active webhooks, newest first.
func (r *WebhookRepo) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	webhooks := []domain.WebhookConfig{}
	for cursor.Next(ctx) {
		var cfg domain.WebhookConfig
		if err := cursor.Decode(&cfg); err != nil {
			logger.Warnf("Skipping undecodable webhook document: %v", err)
			continue
		}
		webhooks = append(webhooks, cfg)
	}
	return webhooks, cursor.Err()
}

// ListScheduled returns active webhooks with the scheduler enabled.
func (r *WebhookRepo) ListScheduled(ctx context.Context) ([]domain.WebhookConfig, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true, "scheduler.enabled": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	webhooks := []domain.WebhookConfig{}
	for cursor.Next(ctx) {
		var cfg domain.WebhookConfig
		if err := cursor.Decode(&cfg); err != nil {
			continue
		}
		webhooks = append(webhooks, cfg)
	}
	return webhooks, cursor.Err()
}

// Update replaces an existing webhook configuration.
func (r *WebhookRepo) Update(ctx context.Context, id string, cfg *domain.WebhookConfig) error {
	old, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	cfg.ID = id
	cfg.Active = true
	cfg.CreatedAt = old.CreatedAt
	cfg.UpdatedAt = time.Now()

	_, err = r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": cfg})
	if err != nil {
		return err
	}

	r.recordHistory(ctx, id, "UPDATE", old, cfg)
	return nil
}

// UpdateSchedulerRun stamps the last/next run times after an execution.
func (r *WebhookRepo) UpdateSchedulerRun(ctx context.Context, id string, lastRun, nextRun time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"scheduler.last_run": lastRun,
		"scheduler.next_run": nextRun,
		"updated_at":         time.Now(),
	}})
	return err
}

// Delete deactivates a webhook.
func (r *WebhookRepo) Delete(ctx context.Context, id string) error {
	old, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}

	r.recordHistory(ctx, id, "DELETE", old, nil)
	return nil
}

func (r *WebhookRepo) recordHistory(ctx context.Context, id, action string, old, new *domain.WebhookConfig) {
	_, err := r.historyCol.InsertOne(ctx, changeRecord{
		WebhookID: id,
		Action:    action,
		Old:       old,
		New:       new,
		ChangedAt: time.Now(),
	})
	if err != nil {
		logger.Warnf("Failed to record webhook history for %s: %v", id, err)
	}
}
