package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
)

// Курс по умолчанию, когда записей настроек еще нет
const defaultExchangeRate = 1.0

// SettingsService управляет курсом валют
// Актуальной считается последняя созданная запись
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// CreateSettings добавляет новую запись с курсом
// Старые записи остаются как история изменений
func (s *SettingsService) CreateSettings(ctx context.Context, req *entity.CreateSettingsRequest) (*entity.Settings, error) {
	settings := &entity.Settings{ExchangeRate: *req.ExchangeRate}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return settings, nil
}

// GetSettings возвращает актуальную запись настроек
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.Settings, error) {
	settings, err := s.settingsRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return &entity.Settings{ExchangeRate: defaultExchangeRate}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings меняет курс в актуальной записи
// При отсутствии записей создает первую
func (s *SettingsService) UpdateSettings(ctx context.Context, req *entity.UpdateSettingsRequest) (*entity.Settings, error) {
	settings, err := s.settingsRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return s.CreateSettings(ctx, &entity.CreateSettingsRequest{ExchangeRate: req.ExchangeRate})
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings.ExchangeRate = *req.ExchangeRate
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}

// ExchangeRate возвращает актуальный курс; при отсутствии записей 1
func (s *SettingsService) ExchangeRate(ctx context.Context) (float64, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.ExchangeRate, nil
}

// ConvertPrice пересчитывает цену по курсу с округлением до 2 знаков
func ConvertPrice(price, rate float64) float64 {
	return math.Round(price*rate*100) / 100
}
