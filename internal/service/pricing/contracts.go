package pricing

import "context"

// SettingsRepository интерфейс источника настроек платформы
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
