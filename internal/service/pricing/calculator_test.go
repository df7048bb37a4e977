package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

type fakeSettings struct {
	value string
	err   error
	calls int
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.value, nil
}

type nopLogger struct{}

func (nopLogger) Debug(format string, v ...interface{}) {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestPrepaymentAmount(t *testing.T) {
	tests := []struct {
		name           string
		performerPrice int64
		rate           int
		want           int64
	}{
		{"standard rate", 7000, 40, 2800},
		{"rounding up", 1333, 40, 533},   // 533.2 -> 533
		{"rounding half", 1250, 30, 375}, // 375.0
		{"zero rate", 7000, 0, 0},
		{"negative rate", 7000, -10, 0},
		{"zero price", 0, 40, 0},
		{"full rate", 5000, 100, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrepaymentAmount(tt.performerPrice, tt.rate))
		})
	}
}

// Итоговая цена всегда равна цене исполнителя плюс предоплате,
// расхождений из-за независимого округления быть не может
func TestCustomerPrice_EqualsPerformerPricePlusPrepayment(t *testing.T) {
	prices := []int64{1, 99, 1333, 4999, 7000, 12345, 100000}
	rates := []int{0, 1, 15, 33, 40, 67, 100}

	for _, price := range prices {
		for _, rate := range rates {
			total := CustomerPrice(price, rate)
			prepayment := PrepaymentAmount(price, rate)
			assert.Equal(t, price+prepayment, total,
				"price=%d rate=%d", price, rate)
		}
	}
}

func TestPerformerPayment_IsFullPrice(t *testing.T) {
	assert.Equal(t, int64(7000), PerformerPayment(7000))
	assert.Equal(t, int64(0), PerformerPayment(0))
}

func TestPrepaymentPercentage(t *testing.T) {
	// Наценка 40% к цене исполнителя = 29% от итоговой цены
	assert.Equal(t, 29, PrepaymentPercentage(40))
	// Наценка 100% = половина итога
	assert.Equal(t, 50, PrepaymentPercentage(100))
	assert.Equal(t, 0, PrepaymentPercentage(0))
	assert.Equal(t, 0, PrepaymentPercentage(-5))
}

func TestBuildSnapshot(t *testing.T) {
	snapshot := BuildSnapshot(7000, 40)

	assert.Equal(t, int64(7000), snapshot.PerformerPrice)
	assert.Equal(t, int64(9800), snapshot.CustomerPrice)
	assert.Equal(t, int64(2800), snapshot.PrepaymentAmount)
	assert.Equal(t, 40, snapshot.CommissionRate)
}

func TestCalculator_CommissionRate_ReadsSettings(t *testing.T) {
	settings := &fakeSettings{value: "25"}
	calc := NewCalculator(settings, nopLogger{})

	rate := calc.CommissionRate(context.Background())

	assert.Equal(t, 25, rate)
	assert.Equal(t, 1, settings.calls)
}

func TestCalculator_CommissionRate_CachesValue(t *testing.T) {
	settings := &fakeSettings{value: "25"}
	calc := NewCalculator(settings, nopLogger{})

	calc.CommissionRate(context.Background())
	calc.CommissionRate(context.Background())
	calc.CommissionRate(context.Background())

	assert.Equal(t, 1, settings.calls, "repeated reads must hit the cache")
}

func TestCalculator_CommissionRate_FallbackOnError(t *testing.T) {
	settings := &fakeSettings{err: errors.New("connection refused")}
	calc := NewCalculator(settings, nopLogger{})

	rate := calc.CommissionRate(context.Background())

	assert.Equal(t, domain.DefaultCommissionRate, rate)
}

func TestCalculator_CommissionRate_FallbackOnMalformedValue(t *testing.T) {
	settings := &fakeSettings{value: "forty"}
	calc := NewCalculator(settings, nopLogger{})

	rate := calc.CommissionRate(context.Background())

	assert.Equal(t, domain.DefaultCommissionRate, rate)
}

// Ошибочное значение не должно попадать в кэш: после восстановления
// настроек следующий вызов читает актуальную ставку
func TestCalculator_CommissionRate_ErrorNotCached(t *testing.T) {
	settings := &fakeSettings{err: errors.New("connection refused")}
	calc := NewCalculator(settings, nopLogger{})

	rate := calc.CommissionRate(context.Background())
	require.Equal(t, domain.DefaultCommissionRate, rate)

	settings.err = nil
	settings.value = "35"

	assert.Equal(t, 35, calc.CommissionRate(context.Background()))
}

func TestCalculator_InvalidateCache(t *testing.T) {
	settings := &fakeSettings{value: "40"}
	calc := NewCalculator(settings, nopLogger{})

	require.Equal(t, 40, calc.CommissionRate(context.Background()))

	settings.value = "50"
	// До инвалидации действует старая ставка
	require.Equal(t, 40, calc.CommissionRate(context.Background()))

	calc.InvalidateCache()

	assert.Equal(t, 50, calc.CommissionRate(context.Background()))
}

func TestCalculator_Snapshot(t *testing.T) {
	settings := &fakeSettings{value: "40"}
	calc := NewCalculator(settings, nopLogger{})

	snapshot := calc.Snapshot(context.Background(), 7000)

	assert.Equal(t, int64(9800), snapshot.CustomerPrice)
	assert.Equal(t, int64(2800), snapshot.PrepaymentAmount)
	assert.Equal(t, 40, snapshot.CommissionRate)
}
