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

type sectionRepository struct {
	collection *mongo.Collection
}

func NewSectionRepository(db *mongo.Database) SectionRepository {
	return &sectionRepository{collection: db.Collection("products_sections")}
}

func (r *sectionRepository) Create(ctx context.Context, section *entity.ProductsSection) error {
	section.CreatedAt = time.Now()
	if section.Products == nil {
		section.Products = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		section.ID = oid
	}
	return nil
}

func (r *sectionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.ProductsSection, error) {
	var section entity.ProductsSection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &section, nil
}

// GetAllSorted возвращает подборки в порядке показа на главной
func (r *sectionRepository) GetAllSorted(ctx context.Context) ([]entity.ProductsSection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sections: %w", err)
	}
	defer cursor.Close(ctx)

	var sections []entity.ProductsSection
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}

func (r *sectionRepository) Update(ctx context.Context, section *entity.ProductsSection) error {
	update := bson.M{"$set": bson.M{
		"name":     section.Name,
		"products": section.Products,
		"position": section.Position,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": section.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// PullProductFromAll вычищает удаленный товар из всех подборок
func (r *sectionRepository) PullProductFromAll(ctx context.Context, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"products": productID},
		bson.M{"$pull": bson.M{"products": productID}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull product from sections: %w", err)
	}
	return nil
}

func (r *sectionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrSectionNotFound
	}
	return nil
}
