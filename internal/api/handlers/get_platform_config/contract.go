package get_platform_config

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/service/platformconfig"
)

type ConfigService interface {
	GetConfig(ctx context.Context) *platformconfig.ConfigResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
