package service

import (
	"context"
	"errors"
	"fmt"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionService управляет подборками товаров главной страницы
// Подборка держит до 8 позиций; все id проверяются на существование
type SectionService struct {
	sectionRepo repository.SectionRepository
	productRepo repository.ProductRepository
}

func NewSectionService(sectionRepo repository.SectionRepository, productRepo repository.ProductRepository) *SectionService {
	return &SectionService{sectionRepo: sectionRepo, productRepo: productRepo}
}

func (s *SectionService) CreateSection(ctx context.Context, req *entity.CreateSectionRequest) (*entity.ProductsSection, error) {
	productIDs, err := s.resolveProducts(ctx, req.Products)
	if err != nil {
		return nil, err
	}
	if len(productIDs) > entity.MaxSectionProduct {
		return nil, ErrTooManySectionProducts
	}

	section := &entity.ProductsSection{
		Name:     req.Name.Localized(),
		Products: productIDs,
		Position: *req.Position,
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

func (s *SectionService) GetSection(ctx context.Context, id string) (*entity.ProductsSection, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	section, err := s.sectionRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return section, nil
}

func (s *SectionService) GetSections(ctx context.Context) ([]entity.ProductsSection, error) {
	sections, err := s.sectionRepo.GetAllSorted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	return sections, nil
}

func (s *SectionService) UpdateSection(ctx context.Context, id string, req *entity.UpdateSectionRequest) (*entity.ProductsSection, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	section, err := s.sectionRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if req.Name != nil {
		section.Name = req.Name.Localized()
	}
	if req.Position != nil {
		section.Position = *req.Position
	}
	if req.Products != nil {
		productIDs, err := s.resolveProducts(ctx, req.Products)
		if err != nil {
			return nil, err
		}
		if len(productIDs) > entity.MaxSectionProduct {
			return nil, ErrTooManySectionProducts
		}
		section.Products = productIDs
	}

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return section, nil
}

func (s *SectionService) DeleteSection(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.sectionRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return nil
}

func (s *SectionService) resolveProducts(ctx context.Context, hexIDs []string) ([]primitive.ObjectID, error) {
	if len(hexIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids, err := parseObjectIDs(hexIDs)
	if err != nil {
		return nil, err
	}

	found, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	foundSet := make(map[primitive.ObjectID]bool, len(found))
	for _, p := range found {
		foundSet[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !foundSet[id] {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRefsError{Kind: "products", IDs: missing}
	}
	return ids, nil
}
