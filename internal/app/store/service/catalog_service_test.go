package service

import (
	"context"
	"errors"
	"testing"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func newCatalogService() (*CatalogService, *mocks.MockCategoryRepository, *mocks.MockSubcategoryRepository, *mocks.MockProductRepository, *mocks.MockNavCache) {
	categoryRepo := new(mocks.MockCategoryRepository)
	subcategoryRepo := new(mocks.MockSubcategoryRepository)
	productRepo := new(mocks.MockProductRepository)
	navCache := new(mocks.MockNavCache)
	svc := NewCatalogService(categoryRepo, subcategoryRepo, productRepo, navCache, nil, nil)
	return svc, categoryRepo, subcategoryRepo, productRepo, navCache
}

func TestCreateCategory_Root(t *testing.T) {
	svc, categoryRepo, _, _, navCache := newCatalogService()
	ctx := context.Background()

	categoryRepo.On("ExistsByURL", ctx, "phones", primitive.NilObjectID).Return(false, nil)
	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Category).ID = primitive.NewObjectID()
	})
	navCache.On("DeleteNavTree", ctx).Return(nil)

	req := &entity.CreateCategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Телефоны"},
		URL:      "phones",
		Position: intPtr(1),
	}
	category, err := svc.CreateCategory(ctx, req, nil)

	assert.NoError(t, err)
	assert.NotNil(t, category)
	assert.Nil(t, category.Parent)
	assert.Equal(t, "Телефоны", category.Name.Ru)
	// Пустые языки подставляются из ru
	assert.Equal(t, "Телефоны", category.Name.Tm)
	categoryRepo.AssertNotCalled(t, "AddChild", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCategory_WithParentLinksChild(t *testing.T) {
	svc, categoryRepo, _, _, navCache := newCatalogService()
	ctx := context.Background()
	parentID := primitive.NewObjectID()

	categoryRepo.On("ExistsByURL", ctx, "smartphones", primitive.NilObjectID).Return(false, nil)
	categoryRepo.On("GetByID", ctx, parentID).Return(&entity.Category{ID: parentID}, nil)
	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Category).ID = primitive.NewObjectID()
	})
	categoryRepo.On("AddChild", ctx, parentID, mock.AnythingOfType("primitive.ObjectID")).Return(nil)
	navCache.On("DeleteNavTree", ctx).Return(nil)

	req := &entity.CreateCategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Смартфоны"},
		URL:      "smartphones",
		Parent:   parentID.Hex(),
		Position: intPtr(1),
	}
	category, err := svc.CreateCategory(ctx, req, nil)

	assert.NoError(t, err)
	assert.Equal(t, parentID, *category.Parent)
	categoryRepo.AssertCalled(t, "AddChild", ctx, parentID, category.ID)
}

func TestCreateCategory_AddChildFailureReturnsError(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()
	parentID := primitive.NewObjectID()

	categoryRepo.On("ExistsByURL", ctx, "smartphones", primitive.NilObjectID).Return(false, nil)
	categoryRepo.On("GetByID", ctx, parentID).Return(&entity.Category{ID: parentID}, nil)
	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Category).ID = primitive.NewObjectID()
	})
	categoryRepo.On("AddChild", ctx, parentID, mock.AnythingOfType("primitive.ObjectID")).
		Return(errors.New("write failed"))

	req := &entity.CreateCategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Смартфоны"},
		URL:      "smartphones",
		Parent:   parentID.Hex(),
		Position: intPtr(1),
	}
	category, err := svc.CreateCategory(ctx, req, nil)

	assert.Error(t, err)
	assert.Nil(t, category)
}

func TestCreateCategory_URLTaken(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()

	categoryRepo.On("ExistsByURL", ctx, "phones", primitive.NilObjectID).Return(true, nil)

	req := &entity.CreateCategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Телефоны"},
		URL:      "phones",
		Position: intPtr(1),
	}
	category, err := svc.CreateCategory(ctx, req, nil)

	assert.ErrorIs(t, err, ErrURLTaken)
	assert.Nil(t, category)
}

func TestCreateCategory_ParentNotFound(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()
	parentID := primitive.NewObjectID()

	categoryRepo.On("ExistsByURL", ctx, "phones", primitive.NilObjectID).Return(false, nil)
	categoryRepo.On("GetByID", ctx, parentID).Return(nil, repository.ErrCategoryNotFound)

	req := &entity.CreateCategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Телефоны"},
		URL:      "phones",
		Parent:   parentID.Hex(),
		Position: intPtr(1),
	}
	_, err := svc.CreateCategory(ctx, req, nil)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategory_ReparentToOwnDescendantRejected(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()

	root := entity.Category{ID: primitive.NewObjectID(), URL: "root"}
	child := entity.Category{ID: primitive.NewObjectID(), Parent: &root.ID, URL: "child"}
	root.Children = []primitive.ObjectID{child.ID}

	categoryRepo.On("GetByID", ctx, root.ID).Return(&root, nil)
	categoryRepo.On("GetByID", ctx, child.ID).Return(&child, nil)
	categoryRepo.On("GetAll", ctx).Return([]entity.Category{root, child}, nil)

	req := &entity.UpdateCategoryRequest{Parent: strPtr(child.ID.Hex())}
	_, err := svc.UpdateCategory(ctx, root.ID.Hex(), req, nil)

	assert.ErrorIs(t, err, ErrInvalidParent)
	categoryRepo.AssertNotCalled(t, "SetParent", mock.Anything, mock.Anything, mock.Anything)
	categoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateCategory_SelfParentRejected(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	categoryRepo.On("GetByID", ctx, id).Return(&entity.Category{ID: id}, nil)

	req := &entity.UpdateCategoryRequest{Parent: strPtr(id.Hex())}
	_, err := svc.UpdateCategory(ctx, id.Hex(), req, nil)

	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestUpdateCategory_DetachParent(t *testing.T) {
	svc, categoryRepo, _, _, navCache := newCatalogService()
	ctx := context.Background()
	parentID := primitive.NewObjectID()
	category := entity.Category{ID: primitive.NewObjectID(), Parent: &parentID, URL: "child"}

	categoryRepo.On("GetByID", ctx, category.ID).Return(&category, nil)
	categoryRepo.On("PullChild", ctx, parentID, category.ID).Return(nil)
	categoryRepo.On("SetParent", ctx, category.ID, (*primitive.ObjectID)(nil)).Return(nil)
	categoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	navCache.On("DeleteNavTree", ctx).Return(nil)

	req := &entity.UpdateCategoryRequest{Parent: strPtr("")}
	updated, err := svc.UpdateCategory(ctx, category.ID.Hex(), req, nil)

	assert.NoError(t, err)
	assert.Nil(t, updated.Parent)
	categoryRepo.AssertCalled(t, "PullChild", ctx, parentID, category.ID)
	// Снятие родителя должно дойти до хранилища, а не остаться в памяти
	categoryRepo.AssertCalled(t, "SetParent", ctx, category.ID, (*primitive.ObjectID)(nil))
}

func TestUpdateCategory_ReparentPersistsParentPointer(t *testing.T) {
	svc, categoryRepo, _, _, navCache := newCatalogService()
	ctx := context.Background()

	oldParent := entity.Category{ID: primitive.NewObjectID(), URL: "old"}
	newParent := entity.Category{ID: primitive.NewObjectID(), URL: "new"}
	category := entity.Category{ID: primitive.NewObjectID(), Parent: &oldParent.ID, URL: "moved"}
	oldParent.Children = []primitive.ObjectID{category.ID}

	categoryRepo.On("GetByID", ctx, category.ID).Return(&category, nil)
	categoryRepo.On("GetByID", ctx, newParent.ID).Return(&newParent, nil)
	categoryRepo.On("GetAll", ctx).Return([]entity.Category{oldParent, newParent, category}, nil)
	categoryRepo.On("PullChild", ctx, oldParent.ID, category.ID).Return(nil)
	categoryRepo.On("SetParent", ctx, category.ID, &newParent.ID).Return(nil)
	categoryRepo.On("AddChild", ctx, newParent.ID, category.ID).Return(nil)
	categoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	navCache.On("DeleteNavTree", ctx).Return(nil)

	req := &entity.UpdateCategoryRequest{Parent: strPtr(newParent.ID.Hex())}
	updated, err := svc.UpdateCategory(ctx, category.ID.Hex(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, newParent.ID, *updated.Parent)
	// Обе половины связи: и children родителей, и parent самого узла
	categoryRepo.AssertCalled(t, "PullChild", ctx, oldParent.ID, category.ID)
	categoryRepo.AssertCalled(t, "SetParent", ctx, category.ID, &newParent.ID)
	categoryRepo.AssertCalled(t, "AddChild", ctx, newParent.ID, category.ID)
}

func TestUpdateCategory_SetParentFailureAborts(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()
	parentID := primitive.NewObjectID()
	category := entity.Category{ID: primitive.NewObjectID(), Parent: &parentID, URL: "child"}

	categoryRepo.On("GetByID", ctx, category.ID).Return(&category, nil)
	categoryRepo.On("PullChild", ctx, parentID, category.ID).Return(nil)
	categoryRepo.On("SetParent", ctx, category.ID, (*primitive.ObjectID)(nil)).
		Return(errors.New("write failed"))

	req := &entity.UpdateCategoryRequest{Parent: strPtr("")}
	_, err := svc.UpdateCategory(ctx, category.ID.Hex(), req, nil)

	assert.Error(t, err)
	categoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteCategory_OrphanedProductsRejected(t *testing.T) {
	svc, categoryRepo, _, productRepo, _ := newCatalogService()
	ctx := context.Background()
	category := entity.Category{ID: primitive.NewObjectID()}
	orphan := entity.Product{ID: primitive.NewObjectID(), Categories: []primitive.ObjectID{category.ID}}

	categoryRepo.On("GetByID", ctx, category.ID).Return(&category, nil)
	categoryRepo.On("GetAll", ctx).Return([]entity.Category{category}, nil)
	productRepo.On("FindFullyContainedInCategories", ctx, []primitive.ObjectID{category.ID}).
		Return([]entity.Product{orphan}, nil)

	err := svc.DeleteCategory(ctx, category.ID.Hex())

	var orphanErr *OrphanedProductsError
	assert.ErrorAs(t, err, &orphanErr)
	assert.Equal(t, []string{orphan.ID.Hex()}, orphanErr.ProductIDs)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	productRepo.AssertNotCalled(t, "PullCategoryFromAll", mock.Anything, mock.Anything)
}

func TestDeleteCategory_CascadesSubtree(t *testing.T) {
	svc, categoryRepo, subcategoryRepo, productRepo, navCache := newCatalogService()
	ctx := context.Background()

	parentID := primitive.NewObjectID()
	root := entity.Category{ID: primitive.NewObjectID(), Parent: &parentID}
	child := entity.Category{ID: primitive.NewObjectID(), Parent: &root.ID}
	root.Children = []primitive.ObjectID{child.ID}
	sub := entity.Subcategory{ID: primitive.NewObjectID(), Category: child.ID}

	categoryRepo.On("GetByID", ctx, root.ID).Return(&root, nil)
	categoryRepo.On("GetAll", ctx).Return([]entity.Category{root, child}, nil)
	productRepo.On("FindFullyContainedInCategories", ctx, mock.Anything).Return([]entity.Product{}, nil)
	subcategoryRepo.On("GetByCategoryIDs", ctx, mock.Anything).Return([]entity.Subcategory{sub}, nil)
	productRepo.On("PullSubcategoryFromAll", ctx, sub.ID).Return(nil)
	subcategoryRepo.On("Delete", ctx, sub.ID).Return(nil)
	productRepo.On("PullCategoryFromAll", ctx, root.ID).Return(nil)
	productRepo.On("PullCategoryFromAll", ctx, child.ID).Return(nil)
	categoryRepo.On("PullChild", ctx, parentID, root.ID).Return(nil)
	categoryRepo.On("Delete", ctx, root.ID).Return(nil)
	categoryRepo.On("Delete", ctx, child.ID).Return(nil)
	navCache.On("DeleteNavTree", ctx).Return(nil)

	err := svc.DeleteCategory(ctx, root.ID.Hex())

	assert.NoError(t, err)
	categoryRepo.AssertCalled(t, "Delete", ctx, root.ID)
	categoryRepo.AssertCalled(t, "Delete", ctx, child.ID)
	subcategoryRepo.AssertCalled(t, "Delete", ctx, sub.ID)
	productRepo.AssertCalled(t, "PullSubcategoryFromAll", ctx, sub.ID)
}

func TestCreateSubcategory_CategoryNotFound(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	categoryRepo.On("GetByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	req := &entity.CreateSubcategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Чехлы"},
		URL:      "cases",
		Category: categoryID.Hex(),
	}
	_, err := svc.CreateSubcategory(ctx, req, nil)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateSubcategory_LinksToCategory(t *testing.T) {
	svc, categoryRepo, subcategoryRepo, _, _ := newCatalogService()
	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	categoryRepo.On("GetByID", ctx, categoryID).Return(&entity.Category{ID: categoryID}, nil)
	subcategoryRepo.On("ExistsByURL", ctx, "cases", primitive.NilObjectID).Return(false, nil)
	subcategoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Subcategory")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Subcategory).ID = primitive.NewObjectID()
	})
	categoryRepo.On("AddSubcategory", ctx, categoryID, mock.AnythingOfType("primitive.ObjectID")).Return(nil)

	req := &entity.CreateSubcategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Чехлы"},
		URL:      "cases",
		Category: categoryID.Hex(),
	}
	sub, err := svc.CreateSubcategory(ctx, req, nil)

	assert.NoError(t, err)
	categoryRepo.AssertCalled(t, "AddSubcategory", ctx, categoryID, sub.ID)
}

func TestCreateSubcategory_AddSubcategoryFailureReturnsError(t *testing.T) {
	svc, categoryRepo, subcategoryRepo, _, _ := newCatalogService()
	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	categoryRepo.On("GetByID", ctx, categoryID).Return(&entity.Category{ID: categoryID}, nil)
	subcategoryRepo.On("ExistsByURL", ctx, "cases", primitive.NilObjectID).Return(false, nil)
	subcategoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Subcategory")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Subcategory).ID = primitive.NewObjectID()
	})
	categoryRepo.On("AddSubcategory", ctx, categoryID, mock.AnythingOfType("primitive.ObjectID")).
		Return(errors.New("write failed"))

	req := &entity.CreateSubcategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Чехлы"},
		URL:      "cases",
		Category: categoryID.Hex(),
	}
	sub, err := svc.CreateSubcategory(ctx, req, nil)

	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestUpdateSubcategory_MoveBetweenCategories(t *testing.T) {
	svc, categoryRepo, subcategoryRepo, _, _ := newCatalogService()
	ctx := context.Background()
	oldCategoryID := primitive.NewObjectID()
	newCategoryID := primitive.NewObjectID()
	sub := entity.Subcategory{ID: primitive.NewObjectID(), Category: oldCategoryID, URL: "cases"}

	subcategoryRepo.On("GetByID", ctx, sub.ID).Return(&sub, nil)
	categoryRepo.On("GetByID", ctx, newCategoryID).Return(&entity.Category{ID: newCategoryID}, nil)
	categoryRepo.On("PullSubcategory", ctx, oldCategoryID, sub.ID).Return(nil)
	subcategoryRepo.On("SetCategory", ctx, sub.ID, newCategoryID).Return(nil)
	categoryRepo.On("AddSubcategory", ctx, newCategoryID, sub.ID).Return(nil)
	subcategoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Subcategory")).Return(nil)

	req := &entity.UpdateSubcategoryRequest{Category: newCategoryID.Hex()}
	updated, err := svc.UpdateSubcategory(ctx, sub.ID.Hex(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, newCategoryID, updated.Category)
	categoryRepo.AssertCalled(t, "PullSubcategory", ctx, oldCategoryID, sub.ID)
	// Новый владелец должен быть записан в сам документ подкатегории
	subcategoryRepo.AssertCalled(t, "SetCategory", ctx, sub.ID, newCategoryID)
	categoryRepo.AssertCalled(t, "AddSubcategory", ctx, newCategoryID, sub.ID)
}

func TestUpdateSubcategory_SetCategoryFailureAborts(t *testing.T) {
	svc, categoryRepo, subcategoryRepo, _, _ := newCatalogService()
	ctx := context.Background()
	oldCategoryID := primitive.NewObjectID()
	newCategoryID := primitive.NewObjectID()
	sub := entity.Subcategory{ID: primitive.NewObjectID(), Category: oldCategoryID, URL: "cases"}

	subcategoryRepo.On("GetByID", ctx, sub.ID).Return(&sub, nil)
	categoryRepo.On("GetByID", ctx, newCategoryID).Return(&entity.Category{ID: newCategoryID}, nil)
	categoryRepo.On("PullSubcategory", ctx, oldCategoryID, sub.ID).Return(nil)
	subcategoryRepo.On("SetCategory", ctx, sub.ID, newCategoryID).Return(errors.New("write failed"))

	req := &entity.UpdateSubcategoryRequest{Category: newCategoryID.Hex()}
	_, err := svc.UpdateSubcategory(ctx, sub.ID.Hex(), req, nil)

	assert.Error(t, err)
	categoryRepo.AssertNotCalled(t, "AddSubcategory", mock.Anything, mock.Anything, mock.Anything)
	subcategoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteSubcategory_UnlinksEverything(t *testing.T) {
	svc, categoryRepo, subcategoryRepo, productRepo, _ := newCatalogService()
	ctx := context.Background()
	categoryID := primitive.NewObjectID()
	sub := entity.Subcategory{ID: primitive.NewObjectID(), Category: categoryID}

	subcategoryRepo.On("GetByID", ctx, sub.ID).Return(&sub, nil)
	productRepo.On("PullSubcategoryFromAll", ctx, sub.ID).Return(nil)
	categoryRepo.On("PullSubcategory", ctx, categoryID, sub.ID).Return(nil)
	subcategoryRepo.On("Delete", ctx, sub.ID).Return(nil)

	err := svc.DeleteSubcategory(ctx, sub.ID.Hex())

	assert.NoError(t, err)
	productRepo.AssertCalled(t, "PullSubcategoryFromAll", ctx, sub.ID)
	categoryRepo.AssertCalled(t, "PullSubcategory", ctx, categoryID, sub.ID)
}

func TestSelectedSubcategories_ReportsMissing(t *testing.T) {
	svc, _, subcategoryRepo, _, _ := newCatalogService()
	ctx := context.Background()
	existing := entity.Subcategory{ID: primitive.NewObjectID(), Name: entity.Localized{Ru: "Чехлы"}}
	missingID := primitive.NewObjectID()

	subcategoryRepo.On("GetByIDs", ctx, mock.Anything).Return([]entity.Subcategory{existing}, nil)

	options, missing, err := svc.SelectedSubcategories(ctx, []string{existing.ID.Hex(), missingID.Hex()})

	assert.NoError(t, err)
	assert.Len(t, options, 1)
	assert.Equal(t, existing.ID.Hex(), options[0].ID)
	assert.Equal(t, []string{missingID.Hex()}, missing)
}

func TestDeleteCategory_RepoErrorPropagated(t *testing.T) {
	svc, categoryRepo, _, _, _ := newCatalogService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	categoryRepo.On("GetByID", ctx, id).Return(nil, errors.New("db down"))

	err := svc.DeleteCategory(ctx, id.Hex())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCategoryNotFound)
}
