package notifier

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/integrations/notifyservice"
	"github.com/m0rozko/DMP-BookingService/internal/integrations/profileservice"
)

// ProfileClient интерфейс клиента ProfileService
type ProfileClient interface {
	GetCustomer(ctx context.Context, customerID int64) (*profileservice.Customer, error)
	GetPerformer(ctx context.Context, performerID int64) (*profileservice.Performer, error)
}

// NotifyClient интерфейс клиента NotifyService
type NotifyClient interface {
	Send(ctx context.Context, n *notifyservice.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
