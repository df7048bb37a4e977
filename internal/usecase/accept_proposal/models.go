package accept_proposal

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

// Request запрос клиента на принятие предложения
type Request struct {
	ProposalID int64
	CustomerID int64
}

// Response заявка после применения принятого предложения
type Response struct {
	BookingID  int64  `json:"bookingId"`
	ProposalID int64  `json:"proposalId"`
	EventDate  string `json:"eventDate"`
	StartTime  string `json:"startTime"`

	PerformerPrice   int64 `json:"performerPrice"`
	PriceTotal       int64 `json:"priceTotal"`
	PrepaymentAmount int64 `json:"prepaymentAmount"`
	CommissionRate   int   `json:"commissionRate"`

	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// toResponse конвертирует заявку в response
func toResponse(b *domain.Booking, proposalID int64) *Response {
	return &Response{
		BookingID:        b.ID,
		ProposalID:       proposalID,
		EventDate:        b.EventDate.Format(domain.DateFormat),
		StartTime:        b.StartTime.String(),
		PerformerPrice:   b.PerformerPrice,
		PriceTotal:       b.PriceTotal,
		PrepaymentAmount: b.PrepaymentAmount,
		CommissionRate:   b.CommissionRate,
		Status:           string(b.Status),
		UpdatedAt:        b.UpdatedAt,
	}
}
