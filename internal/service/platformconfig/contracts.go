package platformconfig

import "context"

// SettingsRepository интерфейс репозитория настроек платформы
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// RateCache интерфейс кэша ставки комиссии
// После обновления ставки кэш калькулятора цен сбрасывается
type RateCache interface {
	CommissionRate(ctx context.Context) int
	InvalidateCache()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
