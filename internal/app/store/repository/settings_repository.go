package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elpro/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type settingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) SettingsRepository {
	return &settingsRepository{collection: db.Collection("settings")}
}

func (r *settingsRepository) Create(ctx context.Context, settings *entity.Settings) error {
	settings.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		settings.ID = oid
	}
	return nil
}

func (r *settingsRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Settings, error) {
	var settings entity.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// GetLatest возвращает последнюю созданную запись: она авторитетна
func (r *settingsRepository) GetLatest(ctx context.Context) (*entity.Settings, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var settings entity.Settings
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get latest settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	update := bson.M{"$set": bson.M{"exchange_rate": settings.ExchangeRate}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": settings.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSettingsNotFound
	}
	return nil
}
