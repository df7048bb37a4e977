package update_platform_config

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/service/platformconfig"
)

type ConfigService interface {
	UpdateCommissionRate(ctx context.Context, req *platformconfig.UpdateConfigRequest) (*platformconfig.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
