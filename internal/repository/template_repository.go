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
)

// TemplateRepo persists Envizi templates in MongoDB. It satisfies
// template.Store.
type TemplateRepo struct {
	collection *mongo.Collection
}

func NewTemplateRepo(db *config.MongoDatabase) (*TemplateRepo, error) {
	r := &TemplateRepo{
		collection: db.Database.Collection("templates"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("failed to create template index: %w", err)
	}

	return r, nil
}

// Get returns the named template, or nil when absent.
func (r *TemplateRepo) Get(ctx context.Context, name string) (*domain.Template, error) {
	var tmpl domain.Template
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&tmpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

// List returns all stored templates in name order.
func (r *TemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := []domain.Template{}
	for cursor.Next(ctx) {
		var tmpl domain.Template
		if err := cursor.Decode(&tmpl); err != nil {
			continue
		}
		templates = append(templates, tmpl)
	}
	return templates, cursor.Err()
}

// Save upserts a template by name.
func (r *TemplateRepo) Save(ctx context.Context, tmpl *domain.Template) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"name": tmpl.Name}, tmpl, opts)
	return err
}
