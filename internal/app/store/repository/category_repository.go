package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "elpro"

type categoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository создает репозиторий категорий
// Создает уникальный индекс по url и индекс по parent для выборки детей
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	collection := db.Collection("categories")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	urlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetName("url_uniq_idx").SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, urlIndex); err != nil {
		fmt.Printf("Warning: failed to create index on url: %v\n", err)
	}

	parentIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "parent", Value: 1}},
		Options: options.Index().SetName("parent_idx"),
	}
	if _, err := collection.Indexes().CreateOne(ctx, parentIndex); err != nil {
		fmt.Printf("Warning: failed to create index on parent: %v\n", err)
	}

	return &categoryRepository{collection: collection}
}

// Create создает новую категорию
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, "categories")
	defer timer.ObserveDuration()

	category.CreatedAt = time.Now()
	if category.Children == nil {
		category.Children = []primitive.ObjectID{}
	}
	if category.Subcategories == nil {
		category.Subcategories = []primitive.ObjectID{}
	}
	if category.Products == nil {
		category.Products = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create category: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}

	return nil
}

// GetByID получает категорию по ID
func (r *categoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Category, error) {
	var category entity.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// GetByURL получает категорию по slug
func (r *categoryRepository) GetByURL(ctx context.Context, url string) (*entity.Category, error) {
	var category entity.Category
	err := r.collection.FindOne(ctx, bson.M{"url": url}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by url: %w", err)
	}
	return &category, nil
}

// GetByIDs получает категории по списку ID (для bulk-проверок ссылок)
func (r *categoryRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Category, error) {
	if len(ids) == 0 {
		return []entity.Category{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// GetPage получает страницу категорий и общее количество
func (r *categoryRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Category, int64, error) {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "categories")
	defer timer.ObserveDuration()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, total, nil
}

// GetAll получает все категории (навигация и сверка ссылок)
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// ExistsByURL проверяет занятость slug, исключая exclude (для update)
func (r *categoryRepository) ExistsByURL(ctx context.Context, url string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"url": url}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count categories by url: %w", err)
	}
	return count > 0, nil
}

// Update сохраняет скалярные поля категории
// Списки ссылок меняются только атомарными AddX/PullX операциями
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpUpdate, "categories")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{
		"name":     category.Name,
		"url":      category.URL,
		"icon":     category.Icon,
		"position": category.Position,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": category.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		metrics.RecordMongoError(serviceName, metrics.MongoOpUpdate)
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SetParent устанавливает или снимает (parent == nil) родителя
func (r *categoryRepository) SetParent(ctx context.Context, id primitive.ObjectID, parent *primitive.ObjectID) error {
	var update bson.M
	if parent == nil {
		update = bson.M{"$unset": bson.M{"parent": ""}}
	} else {
		update = bson.M{"$set": bson.M{"parent": *parent}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set category parent: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	return r.addToSet(ctx, parentID, "children", childID)
}

func (r *categoryRepository) PullChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	return r.pull(ctx, parentID, "children", childID)
}

func (r *categoryRepository) AddSubcategory(ctx context.Context, categoryID, subcategoryID primitive.ObjectID) error {
	return r.addToSet(ctx, categoryID, "subcategories", subcategoryID)
}

func (r *categoryRepository) PullSubcategory(ctx context.Context, categoryID, subcategoryID primitive.ObjectID) error {
	return r.pull(ctx, categoryID, "subcategories", subcategoryID)
}

// AddProductToMany добавляет товар в products всех указанных категорий
// $addToSet не создает дубликатов при повторном вызове
func (r *categoryRepository) AddProductToMany(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpUpdateMany, "categories")
	defer timer.ObserveDuration()

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": categoryIDs}},
		bson.M{"$addToSet": bson.M{"products": productID}},
	)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpUpdateMany)
		return fmt.Errorf("failed to add product to categories: %w", err)
	}
	return nil
}

// PullProductFromMany убирает товар из products указанных категорий
func (r *categoryRepository) PullProductFromMany(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": categoryIDs}},
		bson.M{"$pull": bson.M{"products": productID}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull product from categories: %w", err)
	}
	return nil
}

// Delete удаляет документ категории
func (r *categoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpDelete, "categories")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpDelete)
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) addToSet(ctx context.Context, id primitive.ObjectID, field string, value primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{field: value}},
	)
	if err != nil {
		return fmt.Errorf("failed to add to %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) pull(ctx context.Context, id primitive.ObjectID, field string, value primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{field: value}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull from %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
