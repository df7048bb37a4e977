package models

import (
	"errors"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/service/pricing"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// AcceptBookingRequest запрос исполнителя на принятие заявки
type AcceptBookingRequest struct {
	PerformerID int64 `json:"performerId"`
}

// RejectBookingRequest запрос исполнителя на отклонение заявки
type RejectBookingRequest struct {
	PerformerID int64  `json:"performerId"`
	Reason      string `json:"reason"`
}

// CancelBookingRequest запрос на отмену заявки (клиент или исполнитель)
type CancelBookingRequest struct {
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

// MarkNoShowRequest запрос на фиксацию неявки исполнителя
type MarkNoShowRequest struct {
	ReportedBy int64 `json:"reportedBy"`
}

// ProposalInput одно встречное предложение исполнителя
type ProposalInput struct {
	Date  time.Time
	Time  types.TimeString
	Price *int64
}

// CreateProposalsRequest запрос исполнителя на создание предложений
type CreateProposalsRequest struct {
	PerformerID int64
	Proposals   []ProposalInput
}

// RejectProposalRequest запрос клиента на отклонение предложения
type RejectProposalRequest struct {
	CustomerID int64 `json:"customerId"`
}

// GetCustomerBookingsRequest запрос бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID      int64
	Status          *string
	IncludeInactive bool
}

// GetPerformerBookingsRequest запрос бронирований исполнителя
type GetPerformerBookingsRequest struct {
	PerformerID     int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCustomerBookingsRequest) ToDomainFilter() (domain.CustomerBookingsFilter, error) {
	filter := domain.CustomerBookingsFilter{
		CustomerID:      r.CustomerID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPerformerBookingsRequest) ToDomainFilter() (domain.PerformerBookingsFilter, error) {
	filter := domain.PerformerBookingsFilter{
		PerformerID:     r.PerformerID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными заявки
type BookingResponse struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customerId"`
	PerformerID int64  `json:"performerId"`
	EventDate   string `json:"eventDate"` // "2025-12-31"
	StartTime   string `json:"startTime"` // "18:00"
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

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком заявок
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ProposalResponse ответ с данными предложения
// PerformerPayment - сумма, которую получит исполнитель при принятии
// этого предложения (цена предложения либо базовая цена заявки)
type ProposalResponse struct {
	ID               int64     `json:"id"`
	BookingID        int64     `json:"bookingId"`
	ProposedDate     string    `json:"proposedDate"`
	ProposedTime     string    `json:"proposedTime"`
	ProposedPrice    *int64    `json:"proposedPrice,omitempty"`
	PerformerPayment int64     `json:"performerPayment"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ProposalListResponse ответ со списком предложений
type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		PerformerID:        b.PerformerID,
		EventDate:          b.EventDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		Address:            b.Address,
		District:           b.District,
		Format:             string(b.Format),
		ChildrenCount:      b.ChildrenCount,
		ChildrenAges:       b.ChildrenAges,
		Comment:            b.Comment,
		PerformerPrice:     b.PerformerPrice,
		PriceTotal:         b.PriceTotal,
		PrepaymentAmount:   b.PrepaymentAmount,
		CommissionRate:     b.CommissionRate,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if bookingResp := FromDomainBooking(b); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainProposal конвертирует предложение в DTO
// bookingPerformerPrice нужна для расчёта суммы выплаты исполнителю,
// когда цена в предложении не указана
func FromDomainProposal(p *domain.BookingProposal, bookingPerformerPrice int64) *ProposalResponse {
	if p == nil {
		return nil
	}

	return &ProposalResponse{
		ID:               p.ID,
		BookingID:        p.BookingID,
		ProposedDate:     p.ProposedDate.Format(domain.DateFormat),
		ProposedTime:     p.ProposedTime.String(),
		ProposedPrice:    p.ProposedPrice,
		PerformerPayment: pricing.PerformerPayment(p.EffectivePerformerPrice(bookingPerformerPrice)),
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
	}
}

// FromDomainProposalList конвертирует список предложений в DTO
func FromDomainProposalList(proposals []*domain.BookingProposal, bookingPerformerPrice int64) *ProposalListResponse {
	resp := &ProposalListResponse{
		Proposals: make([]ProposalResponse, 0, len(proposals)),
	}

	for _, p := range proposals {
		if propResp := FromDomainProposal(p, bookingPerformerPrice); propResp != nil {
			resp.Proposals = append(resp.Proposals, *propResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.IsValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
