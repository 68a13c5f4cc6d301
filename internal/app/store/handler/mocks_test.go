package handler

import (
	"context"

	"elpro/internal/app/store/entity"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest, icon []byte) (*entity.Category, error) {
	args := m.Called(ctx, req, icon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategories(ctx context.Context, page, limit int) ([]entity.Category, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id string, req *entity.UpdateCategoryRequest, icon []byte) (*entity.Category, error) {
	args := m.Called(ctx, id, req, icon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest, icon []byte) (*entity.Subcategory, error) {
	args := m.Called(ctx, req, icon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subcategory), args.Error(1)
}

func (m *MockCatalogService) GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subcategory), args.Error(1)
}

func (m *MockCatalogService) GetSubcategories(ctx context.Context, page, limit int) ([]entity.Subcategory, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Subcategory), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) UpdateSubcategory(ctx context.Context, id string, req *entity.UpdateSubcategoryRequest, icon []byte) (*entity.Subcategory, error) {
	args := m.Called(ctx, id, req, icon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subcategory), args.Error(1)
}

func (m *MockCatalogService) DeleteSubcategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) SelectedSubcategories(ctx context.Context, hexIDs []string) ([]entity.SubcategoryOption, []string, error) {
	args := m.Called(ctx, hexIDs)
	var options []entity.SubcategoryOption
	if args.Get(0) != nil {
		options = args.Get(0).([]entity.SubcategoryOption)
	}
	var missing []string
	if args.Get(1) != nil {
		missing = args.Get(1).([]string)
	}
	return options, missing, args.Error(2)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context, page, limit int) ([]entity.Order, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, id string, req *entity.UpdateOrderStatusRequest) (*entity.Order, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

type MockStorefrontService struct {
	mock.Mock
}

func (m *MockStorefrontService) Navigation(ctx context.Context) ([]*entity.CategoryNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CategoryNode), args.Error(1)
}

func (m *MockStorefrontService) Home(ctx context.Context) (*entity.HomePageResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HomePageResponse), args.Error(1)
}

func (m *MockStorefrontService) CategoryProducts(ctx context.Context, url string) (*entity.CategoryProductsResponse, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CategoryProductsResponse), args.Error(1)
}

func (m *MockStorefrontService) ProductPage(ctx context.Context, id string) (*entity.ProductPageResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductPageResponse), args.Error(1)
}
