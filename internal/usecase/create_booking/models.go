package create_booking

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// Request запрос на создание заявки
// Цена исполнителя не передается: берётся из его анкеты в ProfileService,
// клиент не может назначить цену сам
type Request struct {
	CustomerID  int64
	PerformerID int64

	EventDate time.Time
	StartTime types.TimeString
	Address   string
	District  string
	Format    domain.EventFormat

	ChildrenCount int
	ChildrenAges  *string
	Comment       *string
}

// Response ответ с созданной заявкой
type Response struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customerId"`
	PerformerID int64  `json:"performerId"`
	EventDate   string `json:"eventDate"`
	StartTime   string `json:"startTime"`
	Address     string `json:"address"`
	District    string `json:"district"`
	Format      string `json:"format"`

	ChildrenCount int     `json:"childrenCount"`
	ChildrenAges  *string `json:"childrenAges,omitempty"`
	Comment       *string `json:"comment,omitempty"`

	PerformerPrice   int64 `json:"performerPrice"`
	PriceTotal       int64 `json:"priceTotal"`
	PrepaymentAmount int64 `json:"prepaymentAmount"`
	CommissionRate   int   `json:"commissionRate"`

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// toResponse конвертирует domain модель в response
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:               b.ID,
		CustomerID:       b.CustomerID,
		PerformerID:      b.PerformerID,
		EventDate:        b.EventDate.Format(domain.DateFormat),
		StartTime:        b.StartTime.String(),
		Address:          b.Address,
		District:         b.District,
		Format:           string(b.Format),
		ChildrenCount:    b.ChildrenCount,
		ChildrenAges:     b.ChildrenAges,
		Comment:          b.Comment,
		PerformerPrice:   b.PerformerPrice,
		PriceTotal:       b.PriceTotal,
		PrepaymentAmount: b.PrepaymentAmount,
		CommissionRate:   b.CommissionRate,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
