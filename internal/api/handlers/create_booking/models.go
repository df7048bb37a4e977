package create_booking

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	createBooking "github.com/m0rozko/DMP-BookingService/internal/usecase/create_booking"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PerformerID   int64   `json:"performerId"`
	EventDate     string  `json:"eventDate"` // "2025-12-31"
	StartTime     string  `json:"startTime"` // "18:00"
	Address       string  `json:"address"`
	District      string  `json:"district,omitempty"`
	Format        string  `json:"format"`
	ChildrenCount int     `json:"childrenCount"`
	ChildrenAges  *string `json:"childrenAges,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// ID клиента приходит из контекста аутентификации, не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	eventDate, err := time.Parse(domain.DateFormat, r.EventDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		PerformerID:   r.PerformerID,
		EventDate:     eventDate,
		StartTime:     startTime,
		Address:       r.Address,
		District:      r.District,
		Format:        domain.EventFormat(r.Format),
		ChildrenCount: r.ChildrenCount,
		ChildrenAges:  r.ChildrenAges,
		Comment:       r.Comment,
	}, nil
}
