package service

import (
	"context"

	"elpro/internal/app/store/entity"
)

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest, icon []byte) (*entity.Category, error)
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	GetCategories(ctx context.Context, page, limit int) ([]entity.Category, int64, error)
	UpdateCategory(ctx context.Context, id string, req *entity.UpdateCategoryRequest, icon []byte) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest, icon []byte) (*entity.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error)
	GetSubcategories(ctx context.Context, page, limit int) ([]entity.Subcategory, int64, error)
	UpdateSubcategory(ctx context.Context, id string, req *entity.UpdateSubcategoryRequest, icon []byte) (*entity.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error
	SelectedSubcategories(ctx context.Context, hexIDs []string) ([]entity.SubcategoryOption, []string, error)
}

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest, images [][]byte) (*entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	GetProducts(ctx context.Context, page, limit int) ([]entity.Product, int64, error)
	UpdateProduct(ctx context.Context, id string, req *entity.UpdateProductRequest, newImages [][]byte, removeImages []string) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string, limit int) ([]entity.SearchResult, error)
}

type SectionServiceInterface interface {
	CreateSection(ctx context.Context, req *entity.CreateSectionRequest) (*entity.ProductsSection, error)
	GetSection(ctx context.Context, id string) (*entity.ProductsSection, error)
	GetSections(ctx context.Context) ([]entity.ProductsSection, error)
	UpdateSection(ctx context.Context, id string, req *entity.UpdateSectionRequest) (*entity.ProductsSection, error)
	DeleteSection(ctx context.Context, id string) error
}

type BannerServiceInterface interface {
	CreateBanner(ctx context.Context, req *entity.CreateBannerRequest, image []byte) (*entity.Banner, error)
	GetBanner(ctx context.Context, id string) (*entity.Banner, error)
	GetBanners(ctx context.Context) ([]entity.Banner, error)
	UpdateBanner(ctx context.Context, id string, req *entity.UpdateBannerRequest, image []byte) (*entity.Banner, error)
	DeleteBanner(ctx context.Context, id string) error
}

type SettingsServiceInterface interface {
	CreateSettings(ctx context.Context, req *entity.CreateSettingsRequest) (*entity.Settings, error)
	GetSettings(ctx context.Context) (*entity.Settings, error)
	UpdateSettings(ctx context.Context, req *entity.UpdateSettingsRequest) (*entity.Settings, error)
}

type StorefrontServiceInterface interface {
	Navigation(ctx context.Context) ([]*entity.CategoryNode, error)
	Home(ctx context.Context) (*entity.HomePageResponse, error)
	CategoryProducts(ctx context.Context, url string) (*entity.CategoryProductsResponse, error)
	ProductPage(ctx context.Context, id string) (*entity.ProductPageResponse, error)
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	GetOrders(ctx context.Context, page, limit int) ([]entity.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, req *entity.UpdateOrderStatusRequest) (*entity.Order, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	CreateUser(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error)
	GetUsers(ctx context.Context) ([]entity.User, error)
	UpdateUser(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}
