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

type orderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository создает репозиторий заказов
// Индекс по status для выборок админки
func NewOrderRepository(db *mongo.Database) OrderRepository {
	collection := db.Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	statusIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("status_idx"),
	}
	if _, err := collection.Indexes().CreateOne(ctx, statusIndex); err != nil {
		fmt.Printf("Warning: failed to create index on status: %v\n", err)
	}

	return &orderRepository{collection: collection}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, "orders")
	defer timer.ObserveDuration()

	order.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error) {
	var order entity.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetPage возвращает заказы, новые первыми
func (r *orderRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Order, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []entity.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
