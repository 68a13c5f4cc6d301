package service

import (
	"context"
	"errors"
	"fmt"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/util"
	"elpro/pkg/logger"
)

// StorefrontService собирает публичные страницы витрины
// Цены на витрине отдаются уже пересчитанными по актуальному курсу
type StorefrontService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	sectionRepo  repository.SectionRepository
	bannerRepo   repository.BannerRepository
	settings     *SettingsService
	navCache     util.NavCache
}

func NewStorefrontService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	sectionRepo repository.SectionRepository,
	bannerRepo repository.BannerRepository,
	settings *SettingsService,
	navCache util.NavCache,
) *StorefrontService {
	return &StorefrontService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		sectionRepo:  sectionRepo,
		bannerRepo:   bannerRepo,
		settings:     settings,
		navCache:     navCache,
	}
}

// Navigation возвращает дерево категорий для меню
// Дерево кешируется в Redis; кеш сбрасывается при правках категорий
func (s *StorefrontService) Navigation(ctx context.Context) ([]*entity.CategoryNode, error) {
	if s.navCache != nil {
		cached, err := s.navCache.GetNavTree(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read nav cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	all, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	tree := buildNavTree(all)

	if s.navCache != nil {
		if err := s.navCache.SetNavTree(ctx, tree, navCacheTTL); err != nil {
			logger.Warn().Err(err).Msg("failed to write nav cache")
		}
	}

	return tree, nil
}

// Home собирает главную страницу: баннеры по местам показа и подборки
// Подборка без живых товаров подменяется новинками в наличии
func (s *StorefrontService) Home(ctx context.Context) (*entity.HomePageResponse, error) {
	rate, err := s.settings.ExchangeRate(ctx)
	if err != nil {
		return nil, err
	}

	resp := &entity.HomePageResponse{
		MainBanner:      []entity.Banner{},
		PromoBanner:     []entity.Banner{},
		FooterBanner:    []entity.Banner{},
		ProductsSection: []entity.HomePageSection{},
	}

	banners, err := s.bannerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get banners: %w", err)
	}
	for _, b := range banners {
		switch b.Placement {
		case entity.BannerMain:
			resp.MainBanner = append(resp.MainBanner, b)
		case entity.BannerPromo:
			resp.PromoBanner = append(resp.PromoBanner, b)
		case entity.BannerFooter:
			resp.FooterBanner = append(resp.FooterBanner, b)
		}
	}

	sections, err := s.sectionRepo.GetAllSorted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	for _, section := range sections {
		// Висячие и снятые с продажи позиции отфильтровываются здесь
		products, err := s.productRepo.GetInStockByIDs(ctx, section.Products)
		if err != nil {
			return nil, fmt.Errorf("failed to get section products: %w", err)
		}
		if len(products) == 0 {
			products, err = s.productRepo.GetNewestInStock(ctx, entity.MaxSectionProduct)
			if err != nil {
				return nil, fmt.Errorf("failed to get newest products: %w", err)
			}
		}

		resp.ProductsSection = append(resp.ProductsSection, entity.HomePageSection{
			ID:       section.ID.Hex(),
			Name:     section.Name,
			Position: section.Position,
			Products: convertPrices(products, rate),
		})
	}

	return resp, nil
}

// CategoryProducts возвращает товары в наличии из категории и всех ее потомков
func (s *StorefrontService) CategoryProducts(ctx context.Context, url string) (*entity.CategoryProductsResponse, error) {
	category, err := s.categoryRepo.GetByURL(ctx, url)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	all, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	subtree := subtreeIDs(category.ID, all)

	products, err := s.productRepo.GetInStockByCategoryIDs(ctx, subtree)
	if err != nil {
		return nil, fmt.Errorf("failed to get category products: %w", err)
	}

	rate, err := s.settings.ExchangeRate(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.CategoryProductsResponse{
		Category: entity.CategorySummary{
			ID:   category.ID.Hex(),
			Name: category.Name,
			URL:  category.URL,
		},
		Products: convertPrices(products, rate),
	}, nil
}

// ProductPage возвращает карточку товара со связанными товарами в наличии
func (s *StorefrontService) ProductPage(ctx context.Context, id string) (*entity.ProductPageResponse, error) {
	oid, err := parseObjectIDs([]string{id})
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, oid[0])
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	related := []entity.Product{}
	if len(product.RelatedProducts) > 0 {
		related, err = s.productRepo.GetInStockByIDs(ctx, product.RelatedProducts)
		if err != nil {
			return nil, fmt.Errorf("failed to get related products: %w", err)
		}
		if len(related) > entity.MaxRelatedProduct {
			related = related[:entity.MaxRelatedProduct]
		}
	}

	rate, err := s.settings.ExchangeRate(ctx)
	if err != nil {
		return nil, err
	}

	converted := convertPrices([]entity.Product{*product}, rate)
	return &entity.ProductPageResponse{
		Product: converted[0],
		Related: convertPrices(related, rate),
	}, nil
}

func convertPrices(products []entity.Product, rate float64) []entity.Product {
	result := make([]entity.Product, len(products))
	for i, p := range products {
		p.Price = ConvertPrice(p.Price, rate)
		result[i] = p
	}
	return result
}
