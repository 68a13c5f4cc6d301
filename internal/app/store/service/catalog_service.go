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

const navCacheTTL = time.Hour

// CatalogService поддерживает дерево категорий и подкатегории
// Все перекрестные ссылки (parent/children, category/subcategories,
// products-обратные списки) обновляются явными шагами прямо здесь:
// порядок шагов виден в коде, сбой на промежуточном шаге логируется
// с меткой шага и добивается реконсайлером
type CatalogService struct {
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	productRepo     repository.ProductRepository
	navCache        util.NavCache
	imageStore      util.ImageStore
	kafkaProducer   util.MessagePublisher
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	productRepo repository.ProductRepository,
	navCache util.NavCache,
	imageStore util.ImageStore,
	kafkaProducer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
		navCache:        navCache,
		imageStore:      imageStore,
		kafkaProducer:   kafkaProducer,
	}
}

// CreateCategory создает категорию и подвешивает ее к родителю
// icon может быть nil - категория без иконки допустима
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest, icon []byte) (*entity.Category, error) {
	taken, err := s.categoryRepo.ExistsByURL(ctx, req.URL, primitive.NilObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category url: %w", err)
	}
	if taken {
		return nil, ErrURLTaken
	}

	var parentID *primitive.ObjectID
	if req.Parent != "" {
		id, err := primitive.ObjectIDFromHex(req.Parent)
		if err != nil {
			return nil, ErrInvalidID
		}
		if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get parent category: %w", err)
		}
		parentID = &id
	}

	category := &entity.Category{
		Name:          req.Name.Localized(),
		URL:           req.URL,
		Parent:        parentID,
		Children:      []primitive.ObjectID{},
		Subcategories: []primitive.ObjectID{},
		Products:      []primitive.ObjectID{},
		Position:      *req.Position,
	}

	if icon != nil {
		path, err := s.imageStore.Store(icon, "categories", true)
		if err != nil {
			return nil, fmt.Errorf("failed to store category icon: %w", err)
		}
		category.Icon = path
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrURLTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	// Обратная ссылка в children родителя
	if parentID != nil {
		if err := s.categoryRepo.AddChild(ctx, *parentID, category.ID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("create_category", "add_child").Inc()
			return nil, fmt.Errorf("failed to link category to parent: %w", err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("add_child").Inc()
	}

	s.invalidateNavCache(ctx)
	return category, nil
}

// GetCategory возвращает категорию по id
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	category, err := s.categoryRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetCategories возвращает страницу категорий для админки
func (s *CatalogService) GetCategories(ctx context.Context, page, limit int) ([]entity.Category, int64, error) {
	categories, total, err := s.categoryRepo.GetPage(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, total, nil
}

// UpdateCategory обновляет поля категории и, при смене родителя,
// переподвешивает узел с защитой от цикла
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, req *entity.UpdateCategoryRequest, icon []byte) (*entity.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	category, err := s.categoryRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.URL != "" && req.URL != category.URL {
		taken, err := s.categoryRepo.ExistsByURL(ctx, req.URL, oid)
		if err != nil {
			return nil, fmt.Errorf("failed to check category url: %w", err)
		}
		if taken {
			return nil, ErrURLTaken
		}
		category.URL = req.URL
	}
	if req.Name != nil {
		category.Name = req.Name.Localized()
	}
	if req.Position != nil {
		category.Position = *req.Position
	}

	if icon != nil {
		path, err := s.imageStore.Store(icon, "categories", true)
		if err != nil {
			return nil, fmt.Errorf("failed to store category icon: %w", err)
		}
		s.removeImage(category.Icon)
		category.Icon = path
	}

	if req.Parent != nil {
		if err := s.reparentCategory(ctx, category, *req.Parent); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrURLTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateNavCache(ctx)
	return category, nil
}

// reparentCategory переносит категорию под нового родителя (или в корень при "")
// Отклоняет попытку сделать категорию потомком самой себя
func (s *CatalogService) reparentCategory(ctx context.Context, category *entity.Category, newParentHex string) error {
	var newParent *primitive.ObjectID
	if newParentHex != "" {
		id, err := primitive.ObjectIDFromHex(newParentHex)
		if err != nil {
			return ErrInvalidID
		}
		if id == category.ID {
			return ErrInvalidParent
		}
		newParent = &id
	}

	// Ничего не меняется
	if newParent == nil && category.Parent == nil {
		return nil
	}
	if newParent != nil && category.Parent != nil && *newParent == *category.Parent {
		return nil
	}

	if newParent != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *newParent); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get new parent: %w", err)
		}

		all, err := s.categoryRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		if isDescendant(category.ID, *newParent, all) {
			return ErrInvalidParent
		}
	}

	if category.Parent != nil {
		if err := s.categoryRepo.PullChild(ctx, *category.Parent, category.ID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("reparent_category", "pull_child").Inc()
			return fmt.Errorf("failed to detach from old parent: %w", err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("pull_child").Inc()
	}
	// Указатель на родителя пишется между pull и add: при падении посередине
	// узел остается отвязанным, а не привязанным к двум родителям сразу
	if err := s.categoryRepo.SetParent(ctx, category.ID, newParent); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("reparent_category", "set_parent").Inc()
		return fmt.Errorf("failed to set category parent: %w", err)
	}
	metrics.CatalogCascadeUpdates.WithLabelValues("set_parent").Inc()
	if newParent != nil {
		if err := s.categoryRepo.AddChild(ctx, *newParent, category.ID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("reparent_category", "add_child").Inc()
			return fmt.Errorf("failed to attach to new parent: %w", err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("add_child").Inc()
	}

	category.Parent = newParent
	return nil
}

// DeleteCategory удаляет категорию вместе со всем поддеревом
// Подкатегории поддерева удаляются, товары отвязываются.
// Если хоть один товар остался бы без категорий - операция отклоняется
// целиком со списком таких товаров
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	category, err := s.categoryRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}

	all, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	subtree := subtreeIDs(oid, all)

	// Проверка на осиротевшие товары до любых изменений
	orphans, err := s.productRepo.FindFullyContainedInCategories(ctx, subtree)
	if err != nil {
		return fmt.Errorf("failed to check orphaned products: %w", err)
	}
	if len(orphans) > 0 {
		ids := make([]string, 0, len(orphans))
		for _, p := range orphans {
			ids = append(ids, p.ID.Hex())
		}
		return &OrphanedProductsError{ProductIDs: ids}
	}

	// Подкатегории всего поддерева удаляются вместе с категориями
	subcategories, err := s.subcategoryRepo.GetByCategoryIDs(ctx, subtree)
	if err != nil {
		return fmt.Errorf("failed to load subcategories: %w", err)
	}
	for _, sub := range subcategories {
		if err := s.productRepo.PullSubcategoryFromAll(ctx, sub.ID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_category", "pull_subcategory_refs").Inc()
			return fmt.Errorf("failed to unlink subcategory %s from products: %w", sub.ID.Hex(), err)
		}
		if err := s.subcategoryRepo.Delete(ctx, sub.ID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_category", "delete_subcategory").Inc()
			return fmt.Errorf("failed to delete subcategory %s: %w", sub.ID.Hex(), err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("delete_subcategory").Inc()
		s.removeImage(sub.Icon)
	}

	// Снимаем ссылки на категории поддерева у товаров
	for _, catID := range subtree {
		if err := s.productRepo.PullCategoryFromAll(ctx, catID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_category", "pull_category_refs").Inc()
			return fmt.Errorf("failed to unlink category %s from products: %w", catID.Hex(), err)
		}
	}

	// Отвязываем корень поддерева от родителя
	if category.Parent != nil {
		if err := s.categoryRepo.PullChild(ctx, *category.Parent, oid); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_category", "pull_child").Inc()
			return fmt.Errorf("failed to detach from parent: %w", err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("pull_child").Inc()
	}

	byID := make(map[primitive.ObjectID]*entity.Category, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	deleted := make([]string, 0, len(subtree))
	for _, catID := range subtree {
		if err := s.categoryRepo.Delete(ctx, catID); err != nil {
			metrics.CatalogCascadeFailures.WithLabelValues("delete_category", "delete").Inc()
			return fmt.Errorf("failed to delete category %s: %w", catID.Hex(), err)
		}
		metrics.CatalogCascadeUpdates.WithLabelValues("delete_category").Inc()
		deleted = append(deleted, catID.Hex())
		if cat, ok := byID[catID]; ok {
			s.removeImage(cat.Icon)
		}
	}

	s.publishCatalogEvent(ctx, entity.CatalogEvent{
		EventType: "CATEGORY_DELETED",
		EntityID:  oid.Hex(),
		Deleted:   deleted,
		Timestamp: time.Now(),
	})

	s.invalidateNavCache(ctx)
	return nil
}

// CreateSubcategory создает подкатегорию и регистрирует ее в категории
func (s *CatalogService) CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest, icon []byte) (*entity.Subcategory, error) {
	categoryID, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		return nil, ErrInvalidID
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	taken, err := s.subcategoryRepo.ExistsByURL(ctx, req.URL, primitive.NilObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subcategory url: %w", err)
	}
	if taken {
		return nil, ErrURLTaken
	}

	subcategory := &entity.Subcategory{
		Name:     req.Name.Localized(),
		URL:      req.URL,
		Category: categoryID,
		Products: []primitive.ObjectID{},
	}

	if icon != nil {
		path, err := s.imageStore.Store(icon, "subcategories", true)
		if err != nil {
			return nil, fmt.Errorf("failed to store subcategory icon: %w", err)
		}
		subcategory.Icon = path
	}

	if err := s.subcategoryRepo.Create(ctx, subcategory); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrURLTaken
		}
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	if err := s.categoryRepo.AddSubcategory(ctx, categoryID, subcategory.ID); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("create_subcategory", "add_subcategory").Inc()
		return nil, fmt.Errorf("failed to link subcategory to category: %w", err)
	}
	metrics.CatalogCascadeUpdates.WithLabelValues("add_subcategory").Inc()

	return subcategory, nil
}

// GetSubcategory возвращает подкатегорию по id
func (s *CatalogService) GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	subcategory, err := s.subcategoryRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrSubcategoryNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}
	return subcategory, nil
}

// GetSubcategories возвращает страницу подкатегорий для админки
func (s *CatalogService) GetSubcategories(ctx context.Context, page, limit int) ([]entity.Subcategory, int64, error) {
	subcategories, total, err := s.subcategoryRepo.GetPage(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get subcategories: %w", err)
	}
	return subcategories, total, nil
}

// UpdateSubcategory обновляет подкатегорию, при смене категории
// переносит обратную ссылку между категориями
func (s *CatalogService) UpdateSubcategory(ctx context.Context, id string, req *entity.UpdateSubcategoryRequest, icon []byte) (*entity.Subcategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	subcategory, err := s.subcategoryRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrSubcategoryNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	if req.URL != "" && req.URL != subcategory.URL {
		taken, err := s.subcategoryRepo.ExistsByURL(ctx, req.URL, oid)
		if err != nil {
			return nil, fmt.Errorf("failed to check subcategory url: %w", err)
		}
		if taken {
			return nil, ErrURLTaken
		}
		subcategory.URL = req.URL
	}
	if req.Name != nil {
		subcategory.Name = req.Name.Localized()
	}

	if icon != nil {
		path, err := s.imageStore.Store(icon, "subcategories", true)
		if err != nil {
			return nil, fmt.Errorf("failed to store subcategory icon: %w", err)
		}
		s.removeImage(subcategory.Icon)
		subcategory.Icon = path
	}

	if req.Category != "" {
		newCategoryID, err := primitive.ObjectIDFromHex(req.Category)
		if err != nil {
			return nil, ErrInvalidID
		}
		if newCategoryID != subcategory.Category {
			if _, err := s.categoryRepo.GetByID(ctx, newCategoryID); err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, fmt.Errorf("failed to get category: %w", err)
			}

			if err := s.categoryRepo.PullSubcategory(ctx, subcategory.Category, oid); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("move_subcategory", "pull_subcategory").Inc()
				return nil, fmt.Errorf("failed to unlink from old category: %w", err)
			}
			if err := s.subcategoryRepo.SetCategory(ctx, oid, newCategoryID); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("move_subcategory", "set_category").Inc()
				return nil, fmt.Errorf("failed to set subcategory owner: %w", err)
			}
			if err := s.categoryRepo.AddSubcategory(ctx, newCategoryID, oid); err != nil {
				metrics.CatalogCascadeFailures.WithLabelValues("move_subcategory", "add_subcategory").Inc()
				return nil, fmt.Errorf("failed to link to new category: %w", err)
			}
			metrics.CatalogCascadeUpdates.WithLabelValues("move_subcategory").Inc()
			subcategory.Category = newCategoryID
		}
	}

	if err := s.subcategoryRepo.Update(ctx, subcategory); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrURLTaken
		}
		return nil, fmt.Errorf("failed to update subcategory: %w", err)
	}

	return subcategory, nil
}

// DeleteSubcategory удаляет подкатегорию и снимает все ссылки на нее
// Товары остаются: принадлежность подкатегории не обязательна
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	subcategory, err := s.subcategoryRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrSubcategoryNotFound) {
			return ErrSubcategoryNotFound
		}
		return fmt.Errorf("failed to get subcategory: %w", err)
	}

	if err := s.productRepo.PullSubcategoryFromAll(ctx, oid); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("delete_subcategory", "pull_subcategory_refs").Inc()
		return fmt.Errorf("failed to unlink subcategory from products: %w", err)
	}
	if err := s.categoryRepo.PullSubcategory(ctx, subcategory.Category, oid); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("delete_subcategory", "pull_subcategory").Inc()
		return fmt.Errorf("failed to unlink subcategory from category: %w", err)
	}
	if err := s.subcategoryRepo.Delete(ctx, oid); err != nil {
		metrics.CatalogCascadeFailures.WithLabelValues("delete_subcategory", "delete").Inc()
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	metrics.CatalogCascadeUpdates.WithLabelValues("delete_subcategory").Inc()

	s.removeImage(subcategory.Icon)
	return nil
}

// SelectedSubcategories возвращает подкатегории по списку id
// Отсутствующие id не считаются ошибкой и возвращаются отдельным списком
func (s *CatalogService) SelectedSubcategories(ctx context.Context, hexIDs []string) ([]entity.SubcategoryOption, []string, error) {
	ids, err := parseObjectIDs(hexIDs)
	if err != nil {
		return nil, nil, err
	}

	found, err := s.subcategoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	foundSet := make(map[primitive.ObjectID]bool, len(found))
	options := make([]entity.SubcategoryOption, 0, len(found))
	for _, sub := range found {
		foundSet[sub.ID] = true
		options = append(options, entity.SubcategoryOption{ID: sub.ID.Hex(), Name: sub.Name.Ru})
	}

	var missing []string
	for _, id := range ids {
		if !foundSet[id] {
			missing = append(missing, id.Hex())
		}
	}

	return options, missing, nil
}

func (s *CatalogService) invalidateNavCache(ctx context.Context) {
	if s.navCache == nil {
		return
	}
	if err := s.navCache.DeleteNavTree(ctx); err != nil {
		// Кеш истечет сам по TTL
		logger.Warn().Err(err).Msg("failed to invalidate nav cache")
	}
}

func (s *CatalogService) removeImage(path string) {
	if path == "" || s.imageStore == nil {
		return
	}
	if err := s.imageStore.Remove(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to remove image file")
	}
}

func (s *CatalogService) publishCatalogEvent(ctx context.Context, event entity.CatalogEvent) {
	if s.kafkaProducer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal catalog event")
		return
	}
	if err := s.kafkaProducer.PublishMessage(ctx, event.EntityID, payload); err != nil {
		// Событие не критично, сущность уже изменена
		logger.Error().Err(err).
			Str("event_type", event.EventType).
			Str("entity_id", event.EntityID).
			Msg("failed to publish catalog event")
	}
}
