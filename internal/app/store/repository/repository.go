package repository

import (
	"context"
	"errors"

	"elpro/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrSectionNotFound     = errors.New("products section not found")
	ErrBannerNotFound      = errors.New("banner not found")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateKey        = errors.New("duplicate key")
)

// CategoryRepository доступ к коллекции categories
// Все операции со списками ссылок выражены через $addToSet/$pull:
// read-modify-write списка из двух конкурентных запросов теряет обновления
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Category, error)
	GetByURL(ctx context.Context, url string) (*entity.Category, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Category, error)
	GetPage(ctx context.Context, page, limit int) ([]entity.Category, int64, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	ExistsByURL(ctx context.Context, url string, exclude primitive.ObjectID) (bool, error)
	Update(ctx context.Context, category *entity.Category) error
	SetParent(ctx context.Context, id primitive.ObjectID, parent *primitive.ObjectID) error
	AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	PullChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	AddSubcategory(ctx context.Context, categoryID, subcategoryID primitive.ObjectID) error
	PullSubcategory(ctx context.Context, categoryID, subcategoryID primitive.ObjectID) error
	AddProductToMany(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error
	PullProductFromMany(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SubcategoryRepository доступ к коллекции subcategories
type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *entity.Subcategory) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Subcategory, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Subcategory, error)
	GetPage(ctx context.Context, page, limit int) ([]entity.Subcategory, int64, error)
	GetAll(ctx context.Context) ([]entity.Subcategory, error)
	GetByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Subcategory, error)
	ExistsByURL(ctx context.Context, url string, exclude primitive.ObjectID) (bool, error)
	Update(ctx context.Context, subcategory *entity.Subcategory) error
	SetCategory(ctx context.Context, id, categoryID primitive.ObjectID) error
	AddProductToMany(ctx context.Context, subcategoryIDs []primitive.ObjectID, productID primitive.ObjectID) error
	PullProductFromMany(ctx context.Context, subcategoryIDs []primitive.ObjectID, productID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductRepository доступ к коллекции products
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Product, error)
	GetPage(ctx context.Context, page, limit int) ([]entity.Product, int64, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	GetInStockByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Product, error)
	GetInStockByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Product, error)
	GetNewestInStock(ctx context.Context, limit int) ([]entity.Product, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Product, error)
	// FindFullyContainedInCategories возвращает товары, все категории которых
	// входят в переданный набор (кандидаты на осиротение при удалении поддерева)
	FindFullyContainedInCategories(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	PullCategoryFromAll(ctx context.Context, categoryID primitive.ObjectID) error
	PullSubcategoryFromAll(ctx context.Context, subcategoryID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SectionRepository доступ к коллекции products_sections
type SectionRepository interface {
	Create(ctx context.Context, section *entity.ProductsSection) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.ProductsSection, error)
	GetAllSorted(ctx context.Context) ([]entity.ProductsSection, error)
	Update(ctx context.Context, section *entity.ProductsSection) error
	PullProductFromAll(ctx context.Context, productID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BannerRepository доступ к коллекции banners
type BannerRepository interface {
	Create(ctx context.Context, banner *entity.Banner) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Banner, error)
	GetByPlacement(ctx context.Context, placement entity.BannerPlacement) ([]entity.Banner, error)
	GetAll(ctx context.Context) ([]entity.Banner, error)
	Update(ctx context.Context, banner *entity.Banner) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SettingsRepository доступ к коллекции settings
type SettingsRepository interface {
	Create(ctx context.Context, settings *entity.Settings) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Settings, error)
	GetLatest(ctx context.Context) (*entity.Settings, error)
	Update(ctx context.Context, settings *entity.Settings) error
}

// OrderRepository доступ к коллекции orders
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error)
	GetPage(ctx context.Context, page, limit int) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus) error
}

// UserRepository доступ к коллекции users
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
