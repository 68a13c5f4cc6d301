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

type subcategoryRepository struct {
	collection *mongo.Collection
}

// NewSubcategoryRepository создает репозиторий подкатегорий
func NewSubcategoryRepository(db *mongo.Database) SubcategoryRepository {
	collection := db.Collection("subcategories")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	urlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetName("url_uniq_idx").SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, urlIndex); err != nil {
		fmt.Printf("Warning: failed to create index on url: %v\n", err)
	}

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("category_idx"),
	}
	if _, err := collection.Indexes().CreateOne(ctx, categoryIndex); err != nil {
		fmt.Printf("Warning: failed to create index on category: %v\n", err)
	}

	return &subcategoryRepository{collection: collection}
}

func (r *subcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	subcategory.CreatedAt = time.Now()
	if subcategory.Products == nil {
		subcategory.Products = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, subcategory)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		subcategory.ID = oid
	}
	return nil
}

func (r *subcategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Subcategory, error) {
	var subcategory entity.Subcategory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&subcategory)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}
	return &subcategory, nil
}

func (r *subcategoryRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Subcategory, error) {
	if len(ids) == 0 {
		return []entity.Subcategory{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find subcategories: %w", err)
	}
	defer cursor.Close(ctx)

	var subcategories []entity.Subcategory
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, fmt.Errorf("failed to decode subcategories: %w", err)
	}
	return subcategories, nil
}

func (r *subcategoryRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Subcategory, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subcategories: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find subcategories: %w", err)
	}
	defer cursor.Close(ctx)

	var subcategories []entity.Subcategory
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, 0, fmt.Errorf("failed to decode subcategories: %w", err)
	}
	return subcategories, total, nil
}

func (r *subcategoryRepository) GetAll(ctx context.Context) ([]entity.Subcategory, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find subcategories: %w", err)
	}
	defer cursor.Close(ctx)

	var subcategories []entity.Subcategory
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, fmt.Errorf("failed to decode subcategories: %w", err)
	}
	return subcategories, nil
}

// GetByCategoryIDs получает подкатегории указанных категорий
// Использует category_idx
func (r *subcategoryRepository) GetByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Subcategory, error) {
	if len(categoryIDs) == 0 {
		return []entity.Subcategory{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"category": bson.M{"$in": categoryIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find subcategories by category: %w", err)
	}
	defer cursor.Close(ctx)

	var subcategories []entity.Subcategory
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, fmt.Errorf("failed to decode subcategories: %w", err)
	}
	return subcategories, nil
}

func (r *subcategoryRepository) ExistsByURL(ctx context.Context, url string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"url": url}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count subcategories by url: %w", err)
	}
	return count > 0, nil
}

// Update сохраняет скалярные поля подкатегории
func (r *subcategoryRepository) Update(ctx context.Context, subcategory *entity.Subcategory) error {
	update := bson.M{"$set": bson.M{
		"name": subcategory.Name,
		"url":  subcategory.URL,
		"icon": subcategory.Icon,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": subcategory.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to update subcategory: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

// SetCategory переносит подкатегорию к другому владельцу
func (r *subcategoryRepository) SetCategory(ctx context.Context, id, categoryID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"category": categoryID}},
	)
	if err != nil {
		return fmt.Errorf("failed to set subcategory owner: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

func (r *subcategoryRepository) AddProductToMany(ctx context.Context, subcategoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	if len(subcategoryIDs) == 0 {
		return nil
	}

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": subcategoryIDs}},
		bson.M{"$addToSet": bson.M{"products": productID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add product to subcategories: %w", err)
	}
	return nil
}

func (r *subcategoryRepository) PullProductFromMany(ctx context.Context, subcategoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	if len(subcategoryIDs) == 0 {
		return nil
	}

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": subcategoryIDs}},
		bson.M{"$pull": bson.M{"products": productID}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull product from subcategories: %w", err)
	}
	return nil
}

func (r *subcategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}
