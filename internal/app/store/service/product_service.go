package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/util"
	"elpro/pkg/logger"
	"elpro/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductService управляет товарами и их перекрестными ссылками
// Товар держит прямые ссылки на категории/подкатегории, те - обратные
// списки products; обе стороны обновляются здесь явными шагами
type ProductService struct {
	productRepo     repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	sectionRepo     repository.SectionRepository
	imageStore      util.ImageStore
	kafkaProducer   util.MessagePublisher
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	sectionRepo repository.SectionRepository,
	imageStore util.ImageStore,
	kafkaProducer util.MessagePublisher,
) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		sectionRepo:     sectionRepo,
		imageStore:      imageStore,
		kafkaProducer:   kafkaProducer,
	}
}

// CreateProduct создает товар
// Требования: 1-4 изображения, минимум одна существующая категория,
// не более 4 связанных товаров. Ссылки на несуществующие документы
// отклоняются со списком отсутствующих id
func (s *ProductService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest, images [][]byte) (*entity.Product, error) {
	if len(images) == 0 {
		return nil, ErrImageRequired
	}
	if len(images) > entity.MaxProductImages {
		return nil, ErrTooManyImages
	}

	categoryIDs, err := s.resolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}
	subcategoryIDs, err := s.resolveSubcategories(ctx, req.Subcategories)
	if err != nil {
		return nil, err
	}
	relatedIDs, err := s.resolveRelated(ctx, req.RelatedProducts, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:             req.Name.Localized(),
		Price:            *req.Price,
		Stock:            req.Stock,
		ShortDescription: req.ShortDescription.Localized(),
		FullDescription:  req.FullDescription.Localized(),
		Images:           []string{},
		Specifications:   specsFromInput(req.Specifications),
		RelatedProducts:  relatedIDs,
		Categories:       categoryIDs,
		Subcategories:    subcategoryIDs,
	}

	for _, img := range images {
		path, err := s.imageStore.Store(img, "products", false)
		if err != nil {
			// Откатываем уже сохраненные файлы
			for _, stored := range product.Images {
				s.removeImage(stored)
			}
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		product.Images = append(product.Images, path)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		for _, stored := range product.Images {
			s.removeImage(stored)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Обратные ссылки в категориях и подкатегориях
	if err := s.categoryRepo.AddProductToMany(ctx, categoryIDs, product.ID); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("create_product", "add_product_categories").Inc()
		return nil, fmt.Errorf("failed to link product to categories: %w", err)
	}
	metrics.CatalogCascadeUpdates.WithLabelValues("add_product_categories").Inc()

	if len(subcategoryIDs) > 0 {
		if err := s.subcategoryRepo.AddProductToMany(ctx, subcategoryIDs, product.ID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("create_product", "add_product_subcategories").Inc()
			return nil, fmt.Errorf("failed to link product to subcategories: %w", err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("add_product_subcategories").Inc()
	}

	return product, nil
}

// GetProduct возвращает товар по id
func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	product, err := s.productRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetProducts возвращает страницу товаров для админки
func (s *ProductService) GetProducts(ctx context.Context, page, limit int) ([]entity.Product, int64, error) {
	products, total, err := s.productRepo.GetPage(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, total, nil
}

// UpdateProduct обновляет товар
// newImages добавляются, removeImages снимаются; итог обязан остаться
// в пределах 1-4. При смене категорий обратные списки обновляются
// симметричным диффом: pull из ушедших, addToSet в пришедшие
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *entity.UpdateProductRequest, newImages [][]byte, removeImages []string) (*entity.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	product, err := s.productRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if req.Name != nil {
		product.Name = req.Name.Localized()
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ShortDescription != nil {
		product.ShortDescription = req.ShortDescription.Localized()
	}
	if req.FullDescription != nil {
		product.FullDescription = req.FullDescription.Localized()
	}
	if req.Specifications != nil {
		product.Specifications = specsFromInput(req.Specifications)
	}
	if req.RelatedProducts != nil {
		relatedIDs, err := s.resolveRelated(ctx, req.RelatedProducts, oid)
		if err != nil {
			return nil, err
		}
		product.RelatedProducts = relatedIDs
	}

	// Проверяем итоговое число изображений до каких-либо изменений
	removeSet := make(map[string]bool, len(removeImages))
	for _, path := range removeImages {
		removeSet[path] = true
	}
	kept := make([]string, 0, len(product.Images))
	for _, path := range product.Images {
		if !removeSet[path] {
			kept = append(kept, path)
		}
	}
	finalCount := len(kept) + len(newImages)
	if finalCount == 0 {
		return nil, ErrImageRequired
	}
	if finalCount > entity.MaxProductImages {
		return nil, ErrTooManyImages
	}

	if req.Categories != nil {
		newCategoryIDs, err := s.resolveCategories(ctx, req.Categories)
		if err != nil {
			return nil, err
		}
		removed, added := diffIDs(product.Categories, newCategoryIDs)
		if len(removed) > 0 {
			if err := s.categoryRepo.PullProductFromMany(ctx, removed, oid); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("update_product", "pull_product_categories").Inc()
				return nil, fmt.Errorf("failed to unlink product from categories: %w", err)
			}
		}
		if len(added) > 0 {
			if err := s.categoryRepo.AddProductToMany(ctx, added, oid); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("update_product", "add_product_categories").Inc()
				return nil, fmt.Errorf("failed to link product to categories: %w", err)
			}
		}
		if len(removed) > 0 || len(added) > 0 {
			metrics.CatalogCascadeUpdates.WithLabelValues("move_product_categories").Inc()
		}
		product.Categories = newCategoryIDs
	}

	if req.Subcategories != nil {
		newSubcategoryIDs, err := s.resolveSubcategories(ctx, req.Subcategories)
		if err != nil {
			return nil, err
		}
		removed, added := diffIDs(product.Subcategories, newSubcategoryIDs)
		if len(removed) > 0 {
			if err := s.subcategoryRepo.PullProductFromMany(ctx, removed, oid); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("update_product", "pull_product_subcategories").Inc()
				return nil, fmt.Errorf("failed to unlink product from subcategories: %w", err)
			}
		}
		if len(added) > 0 {
			if err := s.subcategoryRepo.AddProductToMany(ctx, added, oid); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("update_product", "add_product_subcategories").Inc()
				return nil, fmt.Errorf("failed to link product to subcategories: %w", err)
			}
		}
		if len(removed) > 0 || len(added) > 0 {
			metrics.CatalogCascadeUpdates.WithLabelValues("move_product_subcategories").Inc()
		}
		product.Subcategories = newSubcategoryIDs
	}

	for _, img := range newImages {
		path, err := s.imageStore.Store(img, "products", false)
		if err != nil {
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		kept = append(kept, path)
	}
	product.Images = kept

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// Файлы убираем только после успешной записи
	for _, path := range removeImages {
		if removeSet[path] {
			s.removeImage(path)
		}
	}

	return product, nil
}

// DeleteProduct удаляет товар и снимает все ссылки на него:
// из категорий, подкатегорий и подборок главной страницы.
// Висячие related_products других товаров отфильтровываются при чтении
// и вычищаются реконсайлером
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	product, err := s.productRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if len(product.Categories) > 0 {
		if err := s.categoryRepo.PullProductFromMany(ctx, product.Categories, oid); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_product", "pull_product_categories").Inc()
			return fmt.Errorf("failed to unlink product from categories: %w", err)
		}
	}
	if len(product.Subcategories) > 0 {
		if err := s.subcategoryRepo.PullProductFromMany(ctx, product.Subcategories, oid); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_product", "pull_product_subcategories").Inc()
			return fmt.Errorf("failed to unlink product from subcategories: %w", err)
		}
	}
	if err := s.sectionRepo.PullProductFromAll(ctx, oid); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("delete_product", "pull_product_sections").Inc()
		return fmt.Errorf("failed to unlink product from sections: %w", err)
	}

	if err := s.productRepo.Delete(ctx, oid); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("delete_product", "delete").Inc()
		return fmt.Errorf("failed to delete product: %w", err)
	}
	metrics.CatalogCascadeUpdates.WithLabelValues("delete_product").Inc()

	for _, path := range product.Images {
		s.removeImage(path)
	}

	s.publishCatalogDeleted(ctx, oid.Hex())
	return nil
}

// SearchProducts ищет товары по подстроке имени на любом из языков
func (s *ProductService) SearchProducts(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	if query == "" {
		return []entity.SearchResult{}, nil
	}

	products, err := s.productRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	results := make([]entity.SearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, entity.SearchResult{ID: p.ID.Hex(), Name: p.Name.Ru})
	}
	return results, nil
}

// resolveCategories проверяет существование всех категорий из запроса
func (s *ProductService) resolveCategories(ctx context.Context, hexIDs []string) ([]primitive.ObjectID, error) {
	ids, err := parseObjectIDs(hexIDs)
	if err != nil {
		return nil, err
	}
	found, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	foundSet := make(map[primitive.ObjectID]bool, len(found))
	for _, c := range found {
		foundSet[c.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !foundSet[id] {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRefsError{Kind: "categories", IDs: missing}
	}
	return ids, nil
}

func (s *ProductService) resolveSubcategories(ctx context.Context, hexIDs []string) ([]primitive.ObjectID, error) {
	if len(hexIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids, err := parseObjectIDs(hexIDs)
	if err != nil {
		return nil, err
	}
	found, err := s.subcategoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	foundSet := make(map[primitive.ObjectID]bool, len(found))
	for _, sub := range found {
		foundSet[sub.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !foundSet[id] {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRefsError{Kind: "subcategories", IDs: missing}
	}
	return ids, nil
}

// resolveRelated проверяет связанные товары; self исключается из списка
func (s *ProductService) resolveRelated(ctx context.Context, hexIDs []string, self primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(hexIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids, err := parseObjectIDs(hexIDs)
	if err != nil {
		return nil, err
	}

	filtered := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != self {
			filtered = append(filtered, id)
		}
	}

	found, err := s.productRepo.GetByIDs(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}

	foundSet := make(map[primitive.ObjectID]bool, len(found))
	for _, p := range found {
		foundSet[p.ID] = true
	}
	var missing []string
	for _, id := range filtered {
		if !foundSet[id] {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRefsError{Kind: "products", IDs: missing}
	}
	return filtered, nil
}

func specsFromInput(inputs []entity.SpecInput) []entity.Spec {
	specs := make([]entity.Spec, 0, len(inputs))
	for _, in := range inputs {
		specs = append(specs, entity.Spec{Type: in.Type.Localized(), Value: in.Value.Localized()})
	}
	return specs
}

func (s *ProductService) removeImage(path string) {
	if path == "" || s.imageStore == nil {
		return
	}
	if err := s.imageStore.Remove(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to remove image file")
	}
}

func (s *ProductService) publishCatalogDeleted(ctx context.Context, productID string) {
	if s.kafkaProducer == nil {
		return
	}
	event := entity.CatalogEvent{
		EventType: "PRODUCT_DELETED",
		EntityID:  productID,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.kafkaProducer.PublishMessage(ctx, productID, payload); err != nil {
		// Событие не критично, товар уже удален
		logger.Error().Err(err).
			Str("event_type", event.EventType).
			Str("entity_id", productID).
			Msg("failed to publish catalog event")
	}
}
