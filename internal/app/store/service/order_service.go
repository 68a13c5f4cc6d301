package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/util"
	"elpro/pkg/logger"
	"elpro/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderService оформляет и ведет заказы
// Позиции заказа снимаются с текущего каталога в момент оформления:
// имя и цена фиксируются в заказе и дальше живут независимо от каталога
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	settings      *SettingsService
	kafkaProducer util.MessagePublisher
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	settings *SettingsService,
	kafkaProducer util.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		settings:      settings,
		kafkaProducer: kafkaProducer,
	}
}

// CreateOrder создает заказ в статусе pending
// Цены и имена позиций берутся из каталога, а не из запроса:
// итоговая сумма пересчитывается по актуальному курсу на сервере
func (s *OrderService) CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	productIDs, err := parseObjectIDs(ids)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get order products: %w", err)
	}
	byID := make(map[primitive.ObjectID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var missing []string
	for _, id := range productIDs {
		if byID[id] == nil {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRefsError{Kind: "products", IDs: missing}
	}

	rate, err := s.settings.ExchangeRate(ctx)
	if err != nil {
		return nil, err
	}

	var total float64
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		id, _ := primitive.ObjectIDFromHex(in.ProductID)
		product := byID[id]
		unitPrice := ConvertPrice(product.Price, rate)
		items = append(items, entity.OrderItem{
			ProductID: product.ID.Hex(),
			Name:      product.Name.Ru,
			Quantity:  in.Quantity,
			UnitPrice: unitPrice,
		})
		total += unitPrice * float64(in.Quantity)
	}

	order := &entity.Order{
		Location:   req.Location,
		IsPickup:   req.IsPickup,
		Address:    req.Address,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Comment:    req.Comment,
		Items:      items,
		TotalPrice: math.Round(total*100) / 100,
		Status:     entity.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotalAmount.Add(order.TotalPrice)

	s.publishOrderCreated(ctx, order)
	return order, nil
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetOrders возвращает страницу заказов, новые первыми
func (s *OrderService) GetOrders(ctx context.Context, page, limit int) ([]entity.Order, int64, error) {
	orders, total, err := s.orderRepo.GetPage(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, total, nil
}

// UpdateOrderStatus переводит заказ в новый статус
// Терминальные статусы не меняются, переходы только по допустимой схеме
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, req *entity.UpdateOrderStatusRequest) (*entity.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	next := entity.OrderStatus(req.Status)
	if next == order.Status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, oid, next); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = next
	return order, nil
}

// publishOrderCreated отправляет событие ORDER_CREATED в Kafka
// Сбой не прерывает оформление: заказ уже в базе
func (s *OrderService) publishOrderCreated(ctx context.Context, order *entity.Order) {
	if s.kafkaProducer == nil {
		return
	}

	event := entity.OrderEvent{
		EventType:  "ORDER_CREATED",
		OrderID:    order.ID.Hex(),
		Location:   order.Location,
		Phone:      order.Phone,
		Email:      order.Email,
		TotalPrice: order.TotalPrice,
		ItemsCount: len(order.Items),
		Timestamp:  time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal order event")
		return
	}
	if err := s.kafkaProducer.PublishMessage(ctx, event.OrderID, payload); err != nil {
		logger.Error().Err(err).
			Str("order_id", event.OrderID).
			Msg("failed to publish order created event")
	}
}
