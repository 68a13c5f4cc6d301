package service

import (
	"context"
	"testing"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type storefrontMocks struct {
	categoryRepo *mocks.MockCategoryRepository
	productRepo  *mocks.MockProductRepository
	sectionRepo  *mocks.MockSectionRepository
	bannerRepo   *mocks.MockBannerRepository
	settingsRepo *mocks.MockSettingsRepository
	navCache     *mocks.MockNavCache
}

func newStorefrontService(rate float64, withCache bool) (*StorefrontService, *storefrontMocks) {
	m := &storefrontMocks{
		categoryRepo: new(mocks.MockCategoryRepository),
		productRepo:  new(mocks.MockProductRepository),
		sectionRepo:  new(mocks.MockSectionRepository),
		bannerRepo:   new(mocks.MockBannerRepository),
		settingsRepo: new(mocks.MockSettingsRepository),
		navCache:     new(mocks.MockNavCache),
	}
	m.settingsRepo.On("GetLatest", mock.Anything).Return(&entity.Settings{ExchangeRate: rate}, nil)

	var svc *StorefrontService
	if withCache {
		svc = NewStorefrontService(m.categoryRepo, m.productRepo, m.sectionRepo, m.bannerRepo, NewSettingsService(m.settingsRepo), m.navCache)
	} else {
		svc = NewStorefrontService(m.categoryRepo, m.productRepo, m.sectionRepo, m.bannerRepo, NewSettingsService(m.settingsRepo), nil)
	}
	return svc, m
}

func TestNavigation_CacheHitSkipsMongo(t *testing.T) {
	svc, m := newStorefrontService(1, true)
	ctx := context.Background()
	cached := []*entity.CategoryNode{{ID: primitive.NewObjectID(), Children: []*entity.CategoryNode{}}}

	m.navCache.On("GetNavTree", ctx).Return(cached, nil)

	tree, err := svc.Navigation(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, tree)
	m.categoryRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestNavigation_CacheMissBuildsAndStores(t *testing.T) {
	svc, m := newStorefrontService(1, true)
	ctx := context.Background()
	root := entity.Category{ID: primitive.NewObjectID(), Name: entity.Localized{Ru: "Техника"}, Position: 1}

	m.navCache.On("GetNavTree", ctx).Return(nil, nil)
	m.categoryRepo.On("GetAll", ctx).Return([]entity.Category{root}, nil)
	m.navCache.On("SetNavTree", ctx, mock.Anything, time.Hour).Return(nil)

	tree, err := svc.Navigation(ctx)

	assert.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Equal(t, root.ID, tree[0].ID)
	m.navCache.AssertCalled(t, "SetNavTree", ctx, mock.Anything, time.Hour)
}

func TestHome_EmptySectionFallsBackToNewest(t *testing.T) {
	svc, m := newStorefrontService(1, false)
	ctx := context.Background()
	section := entity.ProductsSection{
		ID:       primitive.NewObjectID(),
		Name:     entity.Localized{Ru: "Хиты"},
		Products: []primitive.ObjectID{primitive.NewObjectID()},
		Position: 1,
	}
	fallback := []entity.Product{{ID: primitive.NewObjectID(), Price: 100, Stock: 2}}

	m.bannerRepo.On("GetAll", ctx).Return([]entity.Banner{}, nil)
	m.sectionRepo.On("GetAllSorted", ctx).Return([]entity.ProductsSection{section}, nil)
	m.productRepo.On("GetInStockByIDs", ctx, section.Products).Return([]entity.Product{}, nil)
	m.productRepo.On("GetNewestInStock", ctx, entity.MaxSectionProduct).Return(fallback, nil)

	resp, err := svc.Home(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp.ProductsSection, 1)
	assert.Len(t, resp.ProductsSection[0].Products, 1)
	assert.Equal(t, fallback[0].ID, resp.ProductsSection[0].Products[0].ID)
}

func TestHome_BannersGroupedByPlacement(t *testing.T) {
	svc, m := newStorefrontService(1, false)
	ctx := context.Background()
	banners := []entity.Banner{
		{ID: primitive.NewObjectID(), Placement: entity.BannerMain},
		{ID: primitive.NewObjectID(), Placement: entity.BannerPromo},
		{ID: primitive.NewObjectID(), Placement: entity.BannerFooter},
		{ID: primitive.NewObjectID(), Placement: entity.BannerMain},
	}

	m.bannerRepo.On("GetAll", ctx).Return(banners, nil)
	m.sectionRepo.On("GetAllSorted", ctx).Return([]entity.ProductsSection{}, nil)

	resp, err := svc.Home(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp.MainBanner, 2)
	assert.Len(t, resp.PromoBanner, 1)
	assert.Len(t, resp.FooterBanner, 1)
}

func TestCategoryProducts_IncludesDescendants(t *testing.T) {
	svc, m := newStorefrontService(19.5, false)
	ctx := context.Background()
	root := entity.Category{ID: primitive.NewObjectID(), Name: entity.Localized{Ru: "Техника"}, URL: "tech"}
	child := entity.Category{ID: primitive.NewObjectID(), Parent: &root.ID}
	root.Children = []primitive.ObjectID{child.ID}
	product := entity.Product{ID: primitive.NewObjectID(), Price: 100, Categories: []primitive.ObjectID{child.ID}}

	m.categoryRepo.On("GetByURL", ctx, "tech").Return(&root, nil)
	m.categoryRepo.On("GetAll", ctx).Return([]entity.Category{root, child}, nil)
	m.productRepo.On("GetInStockByCategoryIDs", ctx, mock.MatchedBy(func(ids []primitive.ObjectID) bool {
		return len(ids) == 2 && containsID(ids, root.ID) && containsID(ids, child.ID)
	})).Return([]entity.Product{product}, nil)

	resp, err := svc.CategoryProducts(ctx, "tech")

	assert.NoError(t, err)
	assert.Equal(t, root.URL, resp.Category.URL)
	assert.Len(t, resp.Products, 1)
	// Цена пересчитана по курсу
	assert.Equal(t, 1950.0, resp.Products[0].Price)
}

func TestProductPage_RelatedTruncated(t *testing.T) {
	svc, m := newStorefrontService(1, false)
	ctx := context.Background()
	relatedIDs := []primitive.ObjectID{
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
		primitive.NewObjectID(), primitive.NewObjectID(),
	}
	product := entity.Product{ID: primitive.NewObjectID(), Price: 10, RelatedProducts: relatedIDs}
	related := make([]entity.Product, len(relatedIDs))
	for i, id := range relatedIDs {
		related[i] = entity.Product{ID: id, Price: 5}
	}

	m.productRepo.On("GetByID", ctx, product.ID).Return(&product, nil)
	m.productRepo.On("GetInStockByIDs", ctx, relatedIDs).Return(related, nil)

	resp, err := svc.ProductPage(ctx, product.ID.Hex())

	assert.NoError(t, err)
	assert.Len(t, resp.Related, entity.MaxRelatedProduct)
}

func TestProductPage_DanglingRelatedTolerated(t *testing.T) {
	svc, m := newStorefrontService(1, false)
	ctx := context.Background()
	deadID := primitive.NewObjectID()
	product := entity.Product{ID: primitive.NewObjectID(), Price: 10, RelatedProducts: []primitive.ObjectID{deadID}}

	m.productRepo.On("GetByID", ctx, product.ID).Return(&product, nil)
	m.productRepo.On("GetInStockByIDs", ctx, []primitive.ObjectID{deadID}).Return([]entity.Product{}, nil)

	resp, err := svc.ProductPage(ctx, product.ID.Hex())

	assert.NoError(t, err)
	assert.Empty(t, resp.Related)
}
