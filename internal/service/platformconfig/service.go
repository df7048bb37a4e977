package platformconfig

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/service/pricing"
)

// ConfigResponse действующая конфигурация ценообразования платформы
type ConfigResponse struct {
	CommissionRate       int `json:"commissionRate"`
	PrepaymentPercentage int `json:"prepaymentPercentage"`
}

// UpdateConfigRequest запрос администратора на изменение ставки комиссии
type UpdateConfigRequest struct {
	CommissionRate int `json:"commissionRate"`
}

// Service сервис конфигурации платформы
// Единственная изменяемая настройка - ставка комиссии; новая ставка
// действует только на заявки, созданные после изменения
type Service struct {
	settings SettingsRepository
	rates    RateCache
	logger   Logger
}

// New создает новый экземпляр сервиса конфигурации
func New(settings SettingsRepository, rates RateCache, logger Logger) *Service {
	return &Service{
		settings: settings,
		rates:    rates,
		logger:   logger,
	}
}

// GetConfig возвращает действующую конфигурацию ценообразования
func (s *Service) GetConfig(ctx context.Context) *ConfigResponse {
	rate := s.rates.CommissionRate(ctx)

	return &ConfigResponse{
		CommissionRate:       rate,
		PrepaymentPercentage: pricing.PrepaymentPercentage(rate),
	}
}

// UpdateCommissionRate изменяет ставку комиссии платформы
// Ценовые снимки существующих заявок не пересчитываются
func (s *Service) UpdateCommissionRate(ctx context.Context, req *UpdateConfigRequest) (*ConfigResponse, error) {
	// 1. Валидация диапазона
	if req.CommissionRate < domain.MinCommissionRate || req.CommissionRate > domain.MaxCommissionRate {
		s.logger.Warn("Service.UpdateCommissionRate - rate out of range: %d", req.CommissionRate)
		return nil, ErrInvalidRate
	}

	// 2. Сохраняем новое значение
	if err := s.settings.Set(ctx, domain.SettingCommissionRate, strconv.Itoa(req.CommissionRate)); err != nil {
		s.logger.Error("Service.UpdateCommissionRate - failed to persist rate: %v", err)
		return nil, fmt.Errorf("%w: UpdateCommissionRate: %v", ErrInternal, err)
	}

	// 3. Сбрасываем кэш калькулятора, чтобы новая ставка вступила в силу
	s.rates.InvalidateCache()

	s.logger.Info("Service.UpdateCommissionRate - commission rate updated to %d%%", req.CommissionRate)

	return &ConfigResponse{
		CommissionRate:       req.CommissionRate,
		PrepaymentPercentage: pricing.PrepaymentPercentage(req.CommissionRate),
	}, nil
}
