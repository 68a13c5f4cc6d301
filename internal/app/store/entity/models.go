package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category представляет категорию каталога
// Дерево категорий: Parent/Children должны всегда согласовываться,
// Subcategories и Products — обратные стороны ссылок из Subcategory.Category
// и Product.Categories
type Category struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name          Localized            `json:"name" bson:"name"`
	URL           string               `json:"url" bson:"url"`
	Icon          string               `json:"icon,omitempty" bson:"icon,omitempty"`
	Parent        *primitive.ObjectID  `json:"parent,omitempty" bson:"parent,omitempty"`
	Children      []primitive.ObjectID `json:"children" bson:"children"`
	Subcategories []primitive.ObjectID `json:"subcategories" bson:"subcategories"`
	Products      []primitive.ObjectID `json:"products" bson:"products"`
	Position      int                  `json:"position" bson:"position"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
}

// Subcategory принадлежит ровно одной категории
type Subcategory struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      Localized            `json:"name" bson:"name"`
	URL       string               `json:"url" bson:"url"`
	Icon      string               `json:"icon,omitempty" bson:"icon,omitempty"`
	Category  primitive.ObjectID   `json:"category" bson:"category"`
	Products  []primitive.ObjectID `json:"products" bson:"products"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// Spec одна характеристика товара (тип/значение)
type Spec struct {
	Type  Localized `json:"type" bson:"type"`
	Value Localized `json:"value" bson:"value"`
}

// Product представляет товар каталога
// Инварианты: 1-4 изображения, не более 4 связанных товаров,
// минимум одна категория
type Product struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name             Localized            `json:"name" bson:"name"`
	Price            float64              `json:"price" bson:"price"`
	Stock            int                  `json:"stock" bson:"stock"`
	ShortDescription Localized            `json:"short_description" bson:"short_description"`
	FullDescription  Localized            `json:"full_description" bson:"full_description"`
	Images           []string             `json:"images" bson:"images"`
	Specifications   []Spec               `json:"specifications" bson:"specifications"`
	RelatedProducts  []primitive.ObjectID `json:"related_products" bson:"related_products"`
	Categories       []primitive.ObjectID `json:"categories" bson:"categories"`
	Subcategories    []primitive.ObjectID `json:"subcategories" bson:"subcategories"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
}

// MaxProductImages и другие лимиты каталога
const (
	MaxProductImages  = 4
	MaxRelatedProduct = 4
	MaxSectionProduct = 8
)

// ProductsSection подборка товаров для главной страницы (до 8 позиций)
// Ссылки на удаленные товары допустимы и отфильтровываются при чтении
type ProductsSection struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      Localized            `json:"name" bson:"name"`
	Products  []primitive.ObjectID `json:"products" bson:"products"`
	Position  int                  `json:"position" bson:"position"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// BannerPlacement место показа баннера
type BannerPlacement string

const (
	BannerMain   BannerPlacement = "main"
	BannerPromo  BannerPlacement = "promo"
	BannerFooter BannerPlacement = "footer"
)

// Banner рекламный баннер витрины
type Banner struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Image     string             `json:"image" bson:"image"`
	URL       string             `json:"url,omitempty" bson:"url,omitempty"`
	Placement BannerPlacement    `json:"placement" bson:"placement"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Settings запись с курсом валют; актуальна последняя созданная
type Settings struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ExchangeRate float64            `json:"exchange_rate" bson:"exchange_rate"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// OrderStatus представляет статусы заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Ожидает обработки
	OrderStatusProcessing OrderStatus = "processing" // В обработке
	OrderStatusCompleted  OrderStatus = "completed"  // Выполнен
	OrderStatusCancelled  OrderStatus = "cancelled"  // Отменен
)

// CanTransitionTo проверяет допустимость смены статуса
// Терминальные статусы (completed, cancelled) не меняются
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing || next == OrderStatusCancelled
	case OrderStatusProcessing:
		return next == OrderStatusCompleted || next == OrderStatusCancelled
	default:
		return false
	}
}

// OrderItem снимок позиции заказа на момент оформления
// Намеренно денормализован: правки каталога не меняют историю заказов
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

// Order заказ покупателя
type Order struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Location   string             `json:"location" bson:"location"`
	IsPickup   bool               `json:"is_pickup" bson:"is_pickup"`
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Phone      string             `json:"phone" bson:"phone"`
	Email      string             `json:"email,omitempty" bson:"email,omitempty"`
	Comment    string             `json:"comment,omitempty" bson:"comment,omitempty"`
	Items      []OrderItem        `json:"items" bson:"items"`
	TotalPrice float64            `json:"total_price" bson:"total_price"`
	Status     OrderStatus        `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// UserRole роль пользователя админки
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
)

// User пользователь админки; пароль хранится только как bcrypt-хэш
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Role         UserRole           `json:"role" bson:"role"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// CategoryNode узел навигационного дерева
// Children всегда не-nil: лист сериализуется с пустым массивом
type CategoryNode struct {
	ID       primitive.ObjectID `json:"id"`
	Name     Localized          `json:"name"`
	URL      string             `json:"url"`
	Icon     string             `json:"icon,omitempty"`
	Position int                `json:"position"`
	Children []*CategoryNode    `json:"children"`
}

// OrderEvent событие о заказе для Kafka (топик order_events)
type OrderEvent struct {
	EventType  string    `json:"event_type"` // ORDER_CREATED
	OrderID    string    `json:"order_id"`
	Location   string    `json:"location"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	TotalPrice float64   `json:"total_price"`
	ItemsCount int       `json:"items_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// CatalogEvent событие каталога для Kafka (топик catalog_events)
// Используется для аудита разрушающих операций
type CatalogEvent struct {
	EventType string    `json:"event_type"` // CATEGORY_DELETED, PRODUCT_DELETED
	EntityID  string    `json:"entity_id"`
	Deleted   []string  `json:"deleted,omitempty"` // id удаленного поддерева
	Timestamp time.Time `json:"timestamp"`
}
