package create_proposals

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// proposalInput одно предложение в HTTP запросе
type proposalInput struct {
	Date  string `json:"date"` // "2025-12-31"
	Time  string `json:"time"` // "18:00"
	Price *int64 `json:"price,omitempty"`
}

// createProposalsRequest HTTP request model
type createProposalsRequest struct {
	Proposals []proposalInput `json:"proposals"`
}

// toServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *createProposalsRequest) toServiceRequest(performerID int64) (*models.CreateProposalsRequest, error) {
	req := &models.CreateProposalsRequest{
		PerformerID: performerID,
		Proposals:   make([]models.ProposalInput, 0, len(r.Proposals)),
	}

	for _, p := range r.Proposals {
		date, err := time.Parse(domain.DateFormat, p.Date)
		if err != nil {
			return nil, err
		}

		proposedTime, err := types.NewTimeStringFromString(p.Time)
		if err != nil {
			return nil, err
		}

		req.Proposals = append(req.Proposals, models.ProposalInput{
			Date:  date,
			Time:  proposedTime,
			Price: p.Price,
		})
	}

	return req, nil
}
