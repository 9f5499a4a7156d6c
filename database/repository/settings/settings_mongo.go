package settingsRepo

import (
	"context"
	"errors"
	"fmt"

	"studyspace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSettingsRepo reads provider settings from the settings collection.
type MongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo creates a SettingsProvider backed by MongoDB.
func NewMongoSettingsRepo(coll *mongo.Collection) SettingsProvider {
	return &MongoSettingsRepo{coll: coll}
}

// Get is queried on every verification so rotated secrets apply immediately.
func (r *MongoSettingsRepo) Get(ctx context.Context, category, provider string) (*models.ProviderSettings, error) {
	var s models.ProviderSettings
	err := r.coll.FindOne(ctx, bson.M{"category": category, "provider": provider}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s/%s settings: %w", category, provider, err)
	}
	return &s, nil
}
