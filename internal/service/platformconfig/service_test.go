package platformconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	setKey   string
	setValue string
	setErr   error
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, error) {
	return f.setValue, nil
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setKey = key
	f.setValue = value
	return nil
}

type fakeRateCache struct {
	rate        int
	invalidated int
}

func (f *fakeRateCache) CommissionRate(ctx context.Context) int {
	return f.rate
}

func (f *fakeRateCache) InvalidateCache() {
	f.invalidated++
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestService_GetConfig(t *testing.T) {
	svc := New(&fakeSettings{}, &fakeRateCache{rate: 40}, nopLogger{})

	resp := svc.GetConfig(context.Background())

	assert.Equal(t, 40, resp.CommissionRate)
	assert.Equal(t, 29, resp.PrepaymentPercentage)
}

func TestService_UpdateCommissionRate(t *testing.T) {
	settings := &fakeSettings{}
	rates := &fakeRateCache{rate: 40}
	svc := New(settings, rates, nopLogger{})

	resp, err := svc.UpdateCommissionRate(context.Background(), &UpdateConfigRequest{CommissionRate: 50})
	require.NoError(t, err)

	assert.Equal(t, 50, resp.CommissionRate)
	assert.Equal(t, "commission_rate", settings.setKey)
	assert.Equal(t, "50", settings.setValue)
	assert.Equal(t, 1, rates.invalidated, "calculator cache must be invalidated")
}

func TestService_UpdateCommissionRate_OutOfRange(t *testing.T) {
	rates := &fakeRateCache{}
	svc := New(&fakeSettings{}, rates, nopLogger{})

	for _, rate := range []int{-1, 101, 500} {
		_, err := svc.UpdateCommissionRate(context.Background(), &UpdateConfigRequest{CommissionRate: rate})
		assert.ErrorIs(t, err, ErrInvalidRate, "rate %d", rate)
	}

	assert.Equal(t, 0, rates.invalidated)
}

// Граничные значения диапазона допустимы
func TestService_UpdateCommissionRate_Bounds(t *testing.T) {
	svc := New(&fakeSettings{}, &fakeRateCache{}, nopLogger{})

	for _, rate := range []int{0, 100} {
		_, err := svc.UpdateCommissionRate(context.Background(), &UpdateConfigRequest{CommissionRate: rate})
		assert.NoError(t, err, "rate %d", rate)
	}
}

func TestService_UpdateCommissionRate_PersistFailure(t *testing.T) {
	settings := &fakeSettings{setErr: errors.New("connection refused")}
	rates := &fakeRateCache{}
	svc := New(settings, rates, nopLogger{})

	_, err := svc.UpdateCommissionRate(context.Background(), &UpdateConfigRequest{CommissionRate: 50})

	assert.ErrorIs(t, err, ErrInternal)
	// Кэш не сбрасывается, если значение не сохранено
	assert.Equal(t, 0, rates.invalidated)
}
