package complete_booking

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Complete(ctx context.Context, bookingID, performerID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
