package get_booking

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
