package service

import (
	"context"
	"testing"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reconcilerMocks struct {
	categoryRepo    *mocks.MockCategoryRepository
	subcategoryRepo *mocks.MockSubcategoryRepository
	productRepo     *mocks.MockProductRepository
	sectionRepo     *mocks.MockSectionRepository
}

func newReconciler() (*Reconciler, *reconcilerMocks) {
	m := &reconcilerMocks{
		categoryRepo:    new(mocks.MockCategoryRepository),
		subcategoryRepo: new(mocks.MockSubcategoryRepository),
		productRepo:     new(mocks.MockProductRepository),
		sectionRepo:     new(mocks.MockSectionRepository),
	}
	return NewReconciler(m.categoryRepo, m.subcategoryRepo, m.productRepo, m.sectionRepo), m
}

func (m *reconcilerMocks) load(categories []entity.Category, subcategories []entity.Subcategory, products []entity.Product, sections []entity.ProductsSection) {
	m.categoryRepo.On("GetAll", mock.Anything).Return(categories, nil)
	m.subcategoryRepo.On("GetAll", mock.Anything).Return(subcategories, nil)
	m.productRepo.On("GetAll", mock.Anything).Return(products, nil)
	m.sectionRepo.On("GetAllSorted", mock.Anything).Return(sections, nil)
}

func TestReconciler_ConsistentDataUntouched(t *testing.T) {
	rec, m := newReconciler()

	root := entity.Category{ID: primitive.NewObjectID()}
	child := entity.Category{ID: primitive.NewObjectID(), Parent: &root.ID}
	root.Children = []primitive.ObjectID{child.ID}
	sub := entity.Subcategory{ID: primitive.NewObjectID(), Category: child.ID}
	child.Subcategories = []primitive.ObjectID{sub.ID}
	product := entity.Product{
		ID:            primitive.NewObjectID(),
		Categories:    []primitive.ObjectID{child.ID},
		Subcategories: []primitive.ObjectID{sub.ID},
	}
	child.Products = []primitive.ObjectID{product.ID}
	sub.Products = []primitive.ObjectID{product.ID}
	section := entity.ProductsSection{ID: primitive.NewObjectID(), Products: []primitive.ObjectID{product.ID}}

	m.load([]entity.Category{root, child}, []entity.Subcategory{sub}, []entity.Product{product}, []entity.ProductsSection{section})

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, repaired)
	m.categoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.subcategoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.sectionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReconciler_DanglingParentCleared(t *testing.T) {
	rec, m := newReconciler()
	deadID := primitive.NewObjectID()
	category := entity.Category{ID: primitive.NewObjectID(), Parent: &deadID}

	m.load([]entity.Category{category}, nil, nil, nil)
	m.categoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.ID == category.ID && c.Parent == nil
	})).Return(nil)

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
}

func TestReconciler_DanglingChildRemoved(t *testing.T) {
	rec, m := newReconciler()
	deadID := primitive.NewObjectID()
	category := entity.Category{ID: primitive.NewObjectID(), Children: []primitive.ObjectID{deadID}}

	m.load([]entity.Category{category}, nil, nil, nil)
	m.categoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.ID == category.ID && len(c.Children) == 0
	})).Return(nil)

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
}

func TestReconciler_MissingChildBackrefRestored(t *testing.T) {
	rec, m := newReconciler()
	root := entity.Category{ID: primitive.NewObjectID()}
	// Ребенок знает родителя, но родитель его потерял
	child := entity.Category{ID: primitive.NewObjectID(), Parent: &root.ID}

	m.load([]entity.Category{root, child}, nil, nil, nil)
	m.categoryRepo.On("AddChild", mock.Anything, root.ID, child.ID).Return(nil)

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
	m.categoryRepo.AssertCalled(t, "AddChild", mock.Anything, root.ID, child.ID)
}

func TestReconciler_MissingProductBackrefRestored(t *testing.T) {
	rec, m := newReconciler()
	category := entity.Category{ID: primitive.NewObjectID()}
	product := entity.Product{ID: primitive.NewObjectID(), Categories: []primitive.ObjectID{category.ID}}

	m.load([]entity.Category{category}, nil, []entity.Product{product}, nil)
	m.categoryRepo.On("AddProductToMany", mock.Anything, []primitive.ObjectID{category.ID}, product.ID).Return(nil)

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
}

func TestReconciler_SelfRelatedRemoved(t *testing.T) {
	rec, m := newReconciler()
	category := entity.Category{ID: primitive.NewObjectID()}
	product := entity.Product{ID: primitive.NewObjectID(), Categories: []primitive.ObjectID{category.ID}}
	product.RelatedProducts = []primitive.ObjectID{product.ID}
	category.Products = []primitive.ObjectID{product.ID}

	m.load([]entity.Category{category}, nil, []entity.Product{product}, nil)
	m.productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.ID == product.ID && len(p.RelatedProducts) == 0
	})).Return(nil)

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
}

func TestReconciler_DanglingSectionRefRemoved(t *testing.T) {
	rec, m := newReconciler()
	deadID := primitive.NewObjectID()
	section := entity.ProductsSection{ID: primitive.NewObjectID(), Products: []primitive.ObjectID{deadID}}

	m.load(nil, nil, nil, []entity.ProductsSection{section})
	m.sectionRepo.On("Update", mock.Anything, mock.MatchedBy(func(s *entity.ProductsSection) bool {
		return s.ID == section.ID && len(s.Products) == 0
	})).Return(nil)

	repaired, err := rec.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)
}
