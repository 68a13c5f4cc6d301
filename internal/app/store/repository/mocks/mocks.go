package mocks

import (
	"context"
	"time"

	"elpro/internal/app/store/entity"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByURL(ctx context.Context, url string) (*entity.Category, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Category, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByURL(ctx context.Context, url string, exclude primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, url, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) SetParent(ctx context.Context, id primitive.ObjectID, parent *primitive.ObjectID) error {
	args := m.Called(ctx, id, parent)
	return args.Error(0)
}

func (m *MockCategoryRepository) AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	args := m.Called(ctx, parentID, childID)
	return args.Error(0)
}

func (m *MockCategoryRepository) PullChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	args := m.Called(ctx, parentID, childID)
	return args.Error(0)
}

func (m *MockCategoryRepository) AddSubcategory(ctx context.Context, categoryID, subcategoryID primitive.ObjectID) error {
	args := m.Called(ctx, categoryID, subcategoryID)
	return args.Error(0)
}

func (m *MockCategoryRepository) PullSubcategory(ctx context.Context, categoryID, subcategoryID primitive.ObjectID) error {
	args := m.Called(ctx, categoryID, subcategoryID)
	return args.Error(0)
}

func (m *MockCategoryRepository) AddProductToMany(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	args := m.Called(ctx, categoryIDs, productID)
	return args.Error(0)
}

func (m *MockCategoryRepository) PullProductFromMany(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	args := m.Called(ctx, categoryIDs, productID)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubcategoryRepository мок для SubcategoryRepository
type MockSubcategoryRepository struct {
	mock.Mock
}

func (m *MockSubcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	args := m.Called(ctx, subcategory)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Subcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Subcategory, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Subcategory, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Subcategory), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubcategoryRepository) GetAll(ctx context.Context) ([]entity.Subcategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) GetByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Subcategory, error) {
	args := m.Called(ctx, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) ExistsByURL(ctx context.Context, url string, exclude primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, url, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubcategoryRepository) Update(ctx context.Context, subcategory *entity.Subcategory) error {
	args := m.Called(ctx, subcategory)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) SetCategory(ctx context.Context, id, categoryID primitive.ObjectID) error {
	args := m.Called(ctx, id, categoryID)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) AddProductToMany(ctx context.Context, subcategoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	args := m.Called(ctx, subcategoryIDs, productID)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) PullProductFromMany(ctx context.Context, subcategoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	args := m.Called(ctx, subcategoryIDs, productID)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository мок для ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Product, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetInStockByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Product, error) {
	args := m.Called(ctx, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetInStockByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetNewestInStock(ctx context.Context, limit int) ([]entity.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) FindFullyContainedInCategories(ctx context.Context, categoryIDs []primitive.ObjectID) ([]entity.Product, error) {
	args := m.Called(ctx, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) PullCategoryFromAll(ctx context.Context, categoryID primitive.ObjectID) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func (m *MockProductRepository) PullSubcategoryFromAll(ctx context.Context, subcategoryID primitive.ObjectID) error {
	args := m.Called(ctx, subcategoryID)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSectionRepository мок для SectionRepository
type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) Create(ctx context.Context, section *entity.ProductsSection) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.ProductsSection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductsSection), args.Error(1)
}

func (m *MockSectionRepository) GetAllSorted(ctx context.Context) ([]entity.ProductsSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductsSection), args.Error(1)
}

func (m *MockSectionRepository) Update(ctx context.Context, section *entity.ProductsSection) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) PullProductFromAll(ctx context.Context, productID primitive.ObjectID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockSectionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBannerRepository мок для BannerRepository
type MockBannerRepository struct {
	mock.Mock
}

func (m *MockBannerRepository) Create(ctx context.Context, banner *entity.Banner) error {
	args := m.Called(ctx, banner)
	return args.Error(0)
}

func (m *MockBannerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Banner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Banner), args.Error(1)
}

func (m *MockBannerRepository) GetByPlacement(ctx context.Context, placement entity.BannerPlacement) ([]entity.Banner, error) {
	args := m.Called(ctx, placement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Banner), args.Error(1)
}

func (m *MockBannerRepository) GetAll(ctx context.Context) ([]entity.Banner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Banner), args.Error(1)
}

func (m *MockBannerRepository) Update(ctx context.Context, banner *entity.Banner) error {
	args := m.Called(ctx, banner)
	return args.Error(0)
}

func (m *MockBannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsRepository мок для SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Create(ctx context.Context, settings *entity.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Settings, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsRepository) GetLatest(ctx context.Context) (*entity.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockOrderRepository мок для OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPage(ctx context.Context, page, limit int) ([]entity.Order, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessagePublisher мок для отправки событий в Kafka
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockNavCache мок для кеша навигационного дерева
type MockNavCache struct {
	mock.Mock
}

func (m *MockNavCache) SetNavTree(ctx context.Context, tree []*entity.CategoryNode, ttl time.Duration) error {
	args := m.Called(ctx, tree, ttl)
	return args.Error(0)
}

func (m *MockNavCache) GetNavTree(ctx context.Context) ([]*entity.CategoryNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CategoryNode), args.Error(1)
}

func (m *MockNavCache) DeleteNavTree(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNavCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockImageStore мок хранилища изображений
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Store(data []byte, collection string, isIcon bool) (string, error) {
	args := m.Called(data, collection, isIcon)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
