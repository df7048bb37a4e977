package domain

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// BookingStatus статус заявки на выезд
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// PaymentStatus статус оплаты заявки
// Ось, независимая от статуса заявки
type PaymentStatus string

const (
	PaymentNotPaid        PaymentStatus = "not_paid"
	PaymentPrepaymentPaid PaymentStatus = "prepayment_paid"
	PaymentFullyPaid      PaymentStatus = "fully_paid"
	PaymentRefunded       PaymentStatus = "refunded"
)

// EventFormat формат мероприятия
type EventFormat string

const (
	FormatHome         EventFormat = "home"
	FormatKindergarten EventFormat = "kindergarten"
	FormatSchool       EventFormat = "school"
	FormatOffice       EventFormat = "office"
	FormatCorporate    EventFormat = "corporate"
	FormatOutdoor      EventFormat = "outdoor"
)

// Booking заявка клиента на выезд Деда Мороза
type Booking struct {
	ID          int64
	CustomerID  int64
	PerformerID int64

	EventDate time.Time
	StartTime types.TimeString
	Address   string
	District  string
	Format    EventFormat

	ChildrenCount int
	ChildrenAges  *string
	Comment       *string

	// Ценовой снимок, зафиксированный при создании заявки
	// Изменение комиссии платформы не влияет на уже созданные заявки
	PerformerPrice   int64
	PriceTotal       int64
	PrepaymentAmount int64
	CommissionRate   int

	Status        BookingStatus
	PaymentStatus PaymentStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeAccepted исполнитель может принять только ожидающую заявку
func (b *Booking) CanBeAccepted() bool {
	return b.Status == StatusPending
}

// CanBeRejected исполнитель может отклонить только ожидающую заявку
func (b *Booking) CanBeRejected() bool {
	return b.Status == StatusPending
}

// CanBeCancelled клиент может отменить заявку до её завершения
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCompleted завершить можно только подтверждённую заявку
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// CanBeMarkedNoShow неявку можно зафиксировать только по подтверждённой заявке
func (b *Booking) CanBeMarkedNoShow() bool {
	return b.Status == StatusConfirmed
}

// AllowsProposals исполнитель может предлагать альтернативы,
// пока заявка ожидает его решения
func (b *Booking) AllowsProposals() bool {
	return b.Status == StatusPending
}

// IsTerminal возвращает true для конечных статусов
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// IsActive возвращает true, если заявка ещё в работе
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanMarkPrepaymentPaid предоплата засчитывается только один раз
func (b *Booking) CanMarkPrepaymentPaid() bool {
	return b.PaymentStatus == PaymentNotPaid
}

// CanMarkFullyPaid полная оплата возможна только после предоплаты
func (b *Booking) CanMarkFullyPaid() bool {
	return b.PaymentStatus == PaymentPrepaymentPaid
}

// CanRefund возврат возможен из любого оплаченного состояния
func (b *Booking) CanRefund() bool {
	return b.PaymentStatus == PaymentPrepaymentPaid || b.PaymentStatus == PaymentFullyPaid
}

// CustomerBookingsFilter фильтр бронирований клиента
type CustomerBookingsFilter struct {
	CustomerID      int64
	Status          *BookingStatus
	IncludeInactive bool
}

// PerformerBookingsFilter фильтр бронирований исполнителя
type PerformerBookingsFilter struct {
	PerformerID     int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool
}
