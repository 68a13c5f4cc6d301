package service

import (
	"context"
	"fmt"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/pkg/logger"
	"elpro/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reconciler сверяет перекрестные ссылки каталога и чинит расхождения
// Каскады выполняются без транзакций, поэтому сбой между шагами может
// оставить полусвязанное состояние. Прогон идемпотентен: повторный
// запуск на согласованных данных ничего не меняет
type Reconciler struct {
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	productRepo     repository.ProductRepository
	sectionRepo     repository.SectionRepository
}

func NewReconciler(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	productRepo repository.ProductRepository,
	sectionRepo repository.SectionRepository,
) *Reconciler {
	return &Reconciler{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
		sectionRepo:     sectionRepo,
	}
}

// Run выполняет один прогон сверки
// Возвращает число исправленных документов
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	repaired, err := r.run(ctx)
	if err != nil {
		metrics.ReconcilerRuns.WithLabelValues("failed").Inc()
		return repaired, err
	}
	metrics.ReconcilerRuns.WithLabelValues("success").Inc()
	return repaired, nil
}

func (r *Reconciler) run(ctx context.Context) (int, error) {
	categories, err := r.categoryRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load categories: %w", err)
	}
	subcategories, err := r.subcategoryRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load subcategories: %w", err)
	}
	products, err := r.productRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load products: %w", err)
	}
	sections, err := r.sectionRepo.GetAllSorted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load sections: %w", err)
	}

	catByID := make(map[primitive.ObjectID]*entity.Category, len(categories))
	for i := range categories {
		catByID[categories[i].ID] = &categories[i]
	}
	subByID := make(map[primitive.ObjectID]*entity.Subcategory, len(subcategories))
	for i := range subcategories {
		subByID[subcategories[i].ID] = &subcategories[i]
	}
	prodByID := make(map[primitive.ObjectID]*entity.Product, len(products))
	for i := range products {
		prodByID[products[i].ID] = &products[i]
	}

	repaired := 0

	// Категории: parent/children, subcategories, products
	for i := range categories {
		cat := &categories[i]
		changed := false

		if cat.Parent != nil {
			parent, ok := catByID[*cat.Parent]
			if !ok {
				cat.Parent = nil
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_parent").Inc()
			} else if !containsID(parent.Children, cat.ID) {
				parent.Children = append(parent.Children, cat.ID)
				if err := r.categoryRepo.AddChild(ctx, parent.ID, cat.ID); err != nil {
					return repaired, fmt.Errorf("failed to restore child link: %w", err)
				}
				repaired++
				metrics.ReconcilerRepairs.WithLabelValues("missing_child_backref").Inc()
			}
		}

		children := cat.Children[:0]
		for _, childID := range cat.Children {
			child, ok := catByID[childID]
			if !ok || child.Parent == nil || *child.Parent != cat.ID {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_child").Inc()
				continue
			}
			children = append(children, childID)
		}
		cat.Children = children

		subs := cat.Subcategories[:0]
		for _, subID := range cat.Subcategories {
			sub, ok := subByID[subID]
			if !ok || sub.Category != cat.ID {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_subcategory_ref").Inc()
				continue
			}
			subs = append(subs, subID)
		}
		cat.Subcategories = subs

		prods := cat.Products[:0]
		for _, prodID := range cat.Products {
			prod, ok := prodByID[prodID]
			if !ok || !containsID(prod.Categories, cat.ID) {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_product_ref").Inc()
				continue
			}
			prods = append(prods, prodID)
		}
		cat.Products = prods

		if changed {
			if err := r.categoryRepo.Update(ctx, cat); err != nil {
				return repaired, fmt.Errorf("failed to repair category %s: %w", cat.ID.Hex(), err)
			}
			repaired++
		}
	}

	// Подкатегории: обратная ссылка в категории + список товаров
	for i := range subcategories {
		sub := &subcategories[i]
		changed := false

		if cat, ok := catByID[sub.Category]; ok && !containsID(cat.Subcategories, sub.ID) {
			if err := r.categoryRepo.AddSubcategory(ctx, cat.ID, sub.ID); err != nil {
				return repaired, fmt.Errorf("failed to restore subcategory link: %w", err)
			}
			repaired++
			metrics.ReconcilerRepairs.WithLabelValues("missing_subcategory_backref").Inc()
		}

		prods := sub.Products[:0]
		for _, prodID := range sub.Products {
			prod, ok := prodByID[prodID]
			if !ok || !containsID(prod.Subcategories, sub.ID) {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_product_ref").Inc()
				continue
			}
			prods = append(prods, prodID)
		}
		sub.Products = prods

		if changed {
			if err := r.subcategoryRepo.Update(ctx, sub); err != nil {
				return repaired, fmt.Errorf("failed to repair subcategory %s: %w", sub.ID.Hex(), err)
			}
			repaired++
		}
	}

	// Товары: прямые ссылки на категории/подкатегории и related
	for i := range products {
		prod := &products[i]
		changed := false

		cats := prod.Categories[:0]
		for _, catID := range prod.Categories {
			cat, ok := catByID[catID]
			if !ok {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_category_ref").Inc()
				continue
			}
			if !containsID(cat.Products, prod.ID) {
				if err := r.categoryRepo.AddProductToMany(ctx, []primitive.ObjectID{catID}, prod.ID); err != nil {
					return repaired, fmt.Errorf("failed to restore product link: %w", err)
				}
				cat.Products = append(cat.Products, prod.ID)
				repaired++
				metrics.ReconcilerRepairs.WithLabelValues("missing_product_backref").Inc()
			}
			cats = append(cats, catID)
		}
		prod.Categories = cats
		if len(prod.Categories) == 0 {
			// Инвариант "минимум одна категория" руками тут не восстановить
			logger.Warn().Str("product_id", prod.ID.Hex()).Msg("product left without categories")
		}

		subs := prod.Subcategories[:0]
		for _, subID := range prod.Subcategories {
			sub, ok := subByID[subID]
			if !ok {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_subcategory_ref").Inc()
				continue
			}
			if !containsID(sub.Products, prod.ID) {
				if err := r.subcategoryRepo.AddProductToMany(ctx, []primitive.ObjectID{subID}, prod.ID); err != nil {
					return repaired, fmt.Errorf("failed to restore product link: %w", err)
				}
				sub.Products = append(sub.Products, prod.ID)
				repaired++
				metrics.ReconcilerRepairs.WithLabelValues("missing_product_backref").Inc()
			}
			subs = append(subs, subID)
		}
		prod.Subcategories = subs

		related := prod.RelatedProducts[:0]
		for _, relID := range prod.RelatedProducts {
			if _, ok := prodByID[relID]; !ok || relID == prod.ID {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_related_ref").Inc()
				continue
			}
			related = append(related, relID)
		}
		prod.RelatedProducts = related

		if changed {
			if err := r.productRepo.Update(ctx, prod); err != nil {
				return repaired, fmt.Errorf("failed to repair product %s: %w", prod.ID.Hex(), err)
			}
			repaired++
		}
	}

	// Подборки: висячие позиции
	for i := range sections {
		section := &sections[i]
		changed := false

		prods := section.Products[:0]
		for _, prodID := range section.Products {
			if _, ok := prodByID[prodID]; !ok {
				changed = true
				metrics.ReconcilerRepairs.WithLabelValues("dangling_section_ref").Inc()
				continue
			}
			prods = append(prods, prodID)
		}
		section.Products = prods

		if changed {
			if err := r.sectionRepo.Update(ctx, section); err != nil {
				return repaired, fmt.Errorf("failed to repair section %s: %w", section.ID.Hex(), err)
			}
			repaired++
		}
	}

	return repaired, nil
}
