package pricing

import (
	"context"
	"math"
	"strconv"
	"sync"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

// Чистые функции расчёта цен
//
// Комиссия платформы - наценка сверх цены исполнителя. Клиенту она
// предъявляется как предоплата, собираемая онлайн; исполнитель получает
// свою полную цену наличными после выезда.

// PrepaymentAmount размер предоплаты (комиссия платформы в рублях)
// При нулевой или отрицательной ставке предоплата не взимается
func PrepaymentAmount(performerPrice int64, commissionRate int) int64 {
	if commissionRate <= 0 || performerPrice <= 0 {
		return 0
	}
	return int64(math.Round(float64(performerPrice) * float64(commissionRate) / 100))
}

// CustomerPrice цена для клиента: цена исполнителя плюс комиссия
// Считается через PrepaymentAmount, чтобы всегда выполнялось
// CustomerPrice == performerPrice + PrepaymentAmount
func CustomerPrice(performerPrice int64, commissionRate int) int64 {
	return performerPrice + PrepaymentAmount(performerPrice, commissionRate)
}

// PerformerPayment выплата исполнителю - всегда его полная цена,
// платформа не удерживает долю с исполнителя
func PerformerPayment(performerPrice int64) int64 {
	return performerPrice
}

// PrepaymentPercentage доля предоплаты от итоговой цены в процентах
// Комиссия задана как наценка к цене исполнителя, а клиенту показывается
// как доля от итога - базы разные, поэтому ставка пересчитывается:
// round(100 * rate / (rate + 100))
func PrepaymentPercentage(commissionRate int) int {
	if commissionRate <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(commissionRate) / (float64(commissionRate) + 100)))
}

// BuildSnapshot рассчитывает ценовой снимок по цене исполнителя и ставке
func BuildSnapshot(performerPrice int64, commissionRate int) domain.PricingSnapshot {
	return domain.PricingSnapshot{
		PerformerPrice:   performerPrice,
		CustomerPrice:    CustomerPrice(performerPrice, commissionRate),
		PrepaymentAmount: PrepaymentAmount(performerPrice, commissionRate),
		CommissionRate:   commissionRate,
	}
}

// Calculator калькулятор цен с кэшированной ставкой комиссии
//
// Ставка читается из platform_settings один раз и живёт в памяти процесса
// до явной инвалидации (при обновлении ставки администратором).
// Ошибка чтения настроек не пробрасывается наружу: отображение цен не должно
// падать из-за временной недоступности конфигурации, вместо этого молча
// подставляется DefaultCommissionRate с warning в логе
type Calculator struct {
	settings SettingsRepository
	logger   Logger

	mu     sync.RWMutex
	cached *int
}

// NewCalculator создает новый калькулятор цен
func NewCalculator(settings SettingsRepository, logger Logger) *Calculator {
	return &Calculator{
		settings: settings,
		logger:   logger,
	}
}

// CommissionRate возвращает действующую ставку комиссии платформы
// Никогда не возвращает ошибку - при сбое чтения действует ставка по умолчанию
func (c *Calculator) CommissionRate(ctx context.Context) int {
	c.mu.RLock()
	if c.cached != nil {
		rate := *c.cached
		c.mu.RUnlock()
		return rate
	}
	c.mu.RUnlock()

	raw, err := c.settings.Get(ctx, domain.SettingCommissionRate)
	if err != nil {
		c.logger.Warn("pricing: failed to read commission rate, using default %d%%: %v",
			domain.DefaultCommissionRate, err)
		return domain.DefaultCommissionRate
	}

	rate, err := strconv.Atoi(raw)
	if err != nil {
		c.logger.Warn("pricing: malformed commission rate %q, using default %d%%: %v",
			raw, domain.DefaultCommissionRate, err)
		return domain.DefaultCommissionRate
	}

	c.mu.Lock()
	c.cached = &rate
	c.mu.Unlock()

	return rate
}

// InvalidateCache сбрасывает кэшированную ставку
// Вызывается при обновлении ставки администратором
func (c *Calculator) InvalidateCache() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

// Snapshot рассчитывает ценовой снимок по действующей ставке
func (c *Calculator) Snapshot(ctx context.Context, performerPrice int64) domain.PricingSnapshot {
	return BuildSnapshot(performerPrice, c.CommissionRate(ctx))
}
