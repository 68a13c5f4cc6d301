package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository создает репозиторий товаров
// Индексы по categories и stock ускоряют выборки витрины
func NewProductRepository(db *mongo.Database) ProductRepository {
	collection := db.Collection("products")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	categoriesIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "categories", Value: 1}},
		Options: options.Index().SetName("categories_idx"),
	}
	if _, err := collection.Indexes().CreateOne(ctx, categoriesIndex); err != nil {
		fmt.Printf("Warning: failed to create index on categories: %v\n", err)
	}

	stockIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "stock", Value: 1}},
		Options: options.Index().SetName("stock_idx"),
	}
	if _, err := collection.Indexes().CreateOne(ctx, stockIndex); err != nil {
		fmt.Printf("Warning: failed to create index on stock: %v\n", err)
	}

	return &productRepository{collection: collection}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, "products")
	defer timer.ObserveDuration()

	product.CreatedAt = time.Now()
	if product.RelatedProducts == nil {
		product.RelatedProducts = []primitive.ObjectID{}
	}
	if product.Subcategories == nil {
		product.Subcategories = []primitive.ObjectID{}
	}
	if product.Specifications == nil {
		product.Specifications = []entity.Spec{}
	}

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	var product entity.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Product, int64, error) {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "products")
	defer timer.ObserveDuration()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetInStockByCategoryIDs получает товары в наличии из любой из категорий
func (r *productRepository) GetInStockByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Product, error) {
	if len(categoryIDs) == 0 {
		return []entity.Product{}, nil
	}

	filter := bson.M{
		"categories": bson.M{"$in": categoryIDs},
		"stock":      bson.M{"$gt": 0},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by categories: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetInStockByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}

	filter := bson.M{
		"_id":   bson.M{"$in": ids},
		"stock": bson.M{"$gt": 0},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find products in stock: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetNewestInStock(ctx context.Context, limit int) ([]entity.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"stock": bson.M{"$gt": 0}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find newest products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// searchFilter строит фильтр поиска по названию на всех трех языках
// Запрос экранируется: спецсимволы ищутся буквально, а не как шаблон
func searchFilter(query string) bson.M {
	quoted := regexp.QuoteMeta(query)
	return bson.M{"$or": bson.A{
		bson.M{"name.ru": bson.M{"$regex": quoted, "$options": "i"}},
		bson.M{"name.tm": bson.M{"$regex": quoted, "$options": "i"}},
		bson.M{"name.en": bson.M{"$regex": quoted, "$options": "i"}},
	}}
}

// Search ищет по названию, без учета регистра
func (r *productRepository) Search(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	filter := searchFilter(query)

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// FindFullyContainedInCategories ищет товары, у которых не осталось бы
// ни одной категории после удаления переданного набора
func (r *productRepository) FindFullyContainedInCategories(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Product, error) {
	if len(categoryIDs) == 0 {
		return []entity.Product{}, nil
	}

	// Ни один элемент categories не лежит вне набора
	filter := bson.M{
		"categories": bson.M{
			"$elemMatch": bson.M{"$in": categoryIDs},
			"$not":       bson.M{"$elemMatch": bson.M{"$nin": categoryIDs}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find contained products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Update сохраняет поля товара, включая новые наборы ссылок
// Обратные стороны ссылок синхронизирует service layer
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpUpdate, "products")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{
		"name":              product.Name,
		"price":             product.Price,
		"stock":             product.Stock,
		"short_description": product.ShortDescription,
		"full_description":  product.FullDescription,
		"images":            product.Images,
		"specifications":    product.Specifications,
		"related_products":  product.RelatedProducts,
		"categories":        product.Categories,
		"subcategories":     product.Subcategories,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpUpdate)
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// PullCategoryFromAll убирает категорию из categories у всех товаров
func (r *productRepository) PullCategoryFromAll(ctx context.Context, categoryID primitive.ObjectID) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpUpdateMany, "products")
	defer timer.ObserveDuration()

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"categories": categoryID},
		bson.M{"$pull": bson.M{"categories": categoryID}},
	)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpUpdateMany)
		return fmt.Errorf("failed to pull category from products: %w", err)
	}
	return nil
}

// PullSubcategoryFromAll убирает подкатегорию у всех товаров
func (r *productRepository) PullSubcategoryFromAll(ctx context.Context, subcategoryID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"subcategories": subcategoryID},
		bson.M{"$pull": bson.M{"subcategories": subcategoryID}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull subcategory from products: %w", err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpDelete, "products")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpDelete)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
