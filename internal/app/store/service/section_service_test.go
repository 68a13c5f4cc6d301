package service

import (
	"context"
	"testing"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newSectionService() (*SectionService, *mocks.MockSectionRepository, *mocks.MockProductRepository) {
	sectionRepo := new(mocks.MockSectionRepository)
	productRepo := new(mocks.MockProductRepository)
	return NewSectionService(sectionRepo, productRepo), sectionRepo, productRepo
}

func TestCreateSection_ResolvesProducts(t *testing.T) {
	svc, sectionRepo, productRepo := newSectionService()
	ctx := context.Background()
	productID := primitive.NewObjectID()

	productRepo.On("GetByIDs", ctx, []primitive.ObjectID{productID}).
		Return([]entity.Product{{ID: productID}}, nil)
	sectionRepo.On("Create", ctx, mock.AnythingOfType("*entity.ProductsSection")).Return(nil)

	section, err := svc.CreateSection(ctx, &entity.CreateSectionRequest{
		Name:     entity.LocalizedInput{Ru: "Хиты"},
		Products: []string{productID.Hex()},
		Position: intPtr(1),
	})

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{productID}, section.Products)
}

func TestCreateSection_MissingProductRejected(t *testing.T) {
	svc, sectionRepo, productRepo := newSectionService()
	ctx := context.Background()
	missingID := primitive.NewObjectID()

	productRepo.On("GetByIDs", ctx, []primitive.ObjectID{missingID}).Return([]entity.Product{}, nil)

	_, err := svc.CreateSection(ctx, &entity.CreateSectionRequest{
		Name:     entity.LocalizedInput{Ru: "Хиты"},
		Products: []string{missingID.Hex()},
		Position: intPtr(1),
	})

	var missing *MissingRefsError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{missingID.Hex()}, missing.IDs)
	sectionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateSection_ReplacesProducts(t *testing.T) {
	svc, sectionRepo, productRepo := newSectionService()
	ctx := context.Background()
	oldID := primitive.NewObjectID()
	newID := primitive.NewObjectID()
	section := entity.ProductsSection{
		ID:       primitive.NewObjectID(),
		Name:     entity.Localized{Ru: "Хиты"},
		Products: []primitive.ObjectID{oldID},
		Position: 1,
	}

	sectionRepo.On("GetByID", ctx, section.ID).Return(&section, nil)
	productRepo.On("GetByIDs", ctx, []primitive.ObjectID{newID}).
		Return([]entity.Product{{ID: newID}}, nil)
	sectionRepo.On("Update", ctx, mock.AnythingOfType("*entity.ProductsSection")).Return(nil)

	updated, err := svc.UpdateSection(ctx, section.ID.Hex(), &entity.UpdateSectionRequest{
		Products: []string{newID.Hex()},
	})

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{newID}, updated.Products)
}

func TestDeleteSection_NotFound(t *testing.T) {
	svc, sectionRepo, _ := newSectionService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	sectionRepo.On("Delete", ctx, id).Return(repository.ErrSectionNotFound)

	err := svc.DeleteSection(ctx, id.Hex())

	assert.ErrorIs(t, err, ErrSectionNotFound)
}
