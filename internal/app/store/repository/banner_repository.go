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

type bannerRepository struct {
	collection *mongo.Collection
}

func NewBannerRepository(db *mongo.Database) BannerRepository {
	return &bannerRepository{collection: db.Collection("banners")}
}

func (r *bannerRepository) Create(ctx context.Context, banner *entity.Banner) error {
	banner.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, banner)
	if err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		banner.ID = oid
	}
	return nil
}

func (r *bannerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Banner, error) {
	var banner entity.Banner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&banner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}
	return &banner, nil
}

// GetByPlacement возвращает баннеры места показа, новые первыми
func (r *bannerRepository) GetByPlacement(ctx context.Context, placement entity.BannerPlacement) ([]entity.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"placement": placement}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find banners: %w", err)
	}
	defer cursor.Close(ctx)

	var banners []entity.Banner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, fmt.Errorf("failed to decode banners: %w", err)
	}
	return banners, nil
}

func (r *bannerRepository) GetAll(ctx context.Context) ([]entity.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find banners: %w", err)
	}
	defer cursor.Close(ctx)

	var banners []entity.Banner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, fmt.Errorf("failed to decode banners: %w", err)
	}
	return banners, nil
}

func (r *bannerRepository) Update(ctx context.Context, banner *entity.Banner) error {
	update := bson.M{"$set": bson.M{
		"name":  banner.Name,
		"image": banner.Image,
		"url":   banner.URL,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": banner.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrBannerNotFound
	}
	return nil
}

func (r *bannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrBannerNotFound
	}
	return nil
}
