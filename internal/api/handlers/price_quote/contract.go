package price_quote

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

type PricingCalculator interface {
	Snapshot(ctx context.Context, performerPrice int64) domain.PricingSnapshot
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
