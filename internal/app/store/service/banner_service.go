package service

import (
	"context"
	"errors"
	"fmt"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/util"
	"elpro/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BannerService управляет рекламными баннерами витрины
type BannerService struct {
	bannerRepo repository.BannerRepository
	imageStore util.ImageStore
}

func NewBannerService(bannerRepo repository.BannerRepository, imageStore util.ImageStore) *BannerService {
	return &BannerService{bannerRepo: bannerRepo, imageStore: imageStore}
}

// CreateBanner создает баннер; изображение обязательно
func (s *BannerService) CreateBanner(ctx context.Context, req *entity.CreateBannerRequest, image []byte) (*entity.Banner, error) {
	if len(image) == 0 {
		return nil, ErrNoImageProvided
	}

	path, err := s.imageStore.Store(image, "banners", false)
	if err != nil {
		return nil, fmt.Errorf("failed to store banner image: %w", err)
	}

	banner := &entity.Banner{
		Name:      req.Name,
		Image:     path,
		URL:       req.URL,
		Placement: entity.BannerPlacement(req.Placement),
	}

	if err := s.bannerRepo.Create(ctx, banner); err != nil {
		s.removeImage(path)
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return banner, nil
}

func (s *BannerService) GetBanner(ctx context.Context, id string) (*entity.Banner, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	banner, err := s.bannerRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrBannerNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}
	return banner, nil
}

func (s *BannerService) GetBanners(ctx context.Context) ([]entity.Banner, error) {
	banners, err := s.bannerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get banners: %w", err)
	}
	return banners, nil
}

// UpdateBanner обновляет баннер; новое изображение заменяет старое
func (s *BannerService) UpdateBanner(ctx context.Context, id string, req *entity.UpdateBannerRequest, image []byte) (*entity.Banner, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	banner, err := s.bannerRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrBannerNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}

	if req.Name != "" {
		banner.Name = req.Name
	}
	if req.URL != "" {
		banner.URL = req.URL
	}
	if len(image) > 0 {
		path, err := s.imageStore.Store(image, "banners", false)
		if err != nil {
			return nil, fmt.Errorf("failed to store banner image: %w", err)
		}
		s.removeImage(banner.Image)
		banner.Image = path
	}

	if err := s.bannerRepo.Update(ctx, banner); err != nil {
		return nil, fmt.Errorf("failed to update banner: %w", err)
	}
	return banner, nil
}

func (s *BannerService) DeleteBanner(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	banner, err := s.bannerRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrBannerNotFound) {
			return ErrBannerNotFound
		}
		return fmt.Errorf("failed to get banner: %w", err)
	}

	if err := s.bannerRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	s.removeImage(banner.Image)
	return nil
}

func (s *BannerService) removeImage(path string) {
	if path == "" || s.imageStore == nil {
		return
	}
	if err := s.imageStore.Remove(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to remove image file")
	}
}
