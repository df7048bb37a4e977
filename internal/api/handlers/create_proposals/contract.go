package create_proposals

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	CreateProposals(ctx context.Context, bookingID int64, req *models.CreateProposalsRequest) (*models.ProposalListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
