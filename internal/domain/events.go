package domain

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// EventType тип доменного события
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingAccepted  EventType = "booking_accepted"
	EventBookingRejected  EventType = "booking_rejected"
	EventBookingCancelled EventType = "booking_cancelled"
	EventProposalsOffered EventType = "proposals_offered"
	EventProposalAccepted EventType = "proposal_accepted"
	EventPaymentConfirmed EventType = "payment_confirmed"
	EventPaymentRefunded  EventType = "payment_refunded"
	EventBookingCompleted EventType = "booking_completed"
	EventBookingNoShow    EventType = "booking_no_show"
)

// Event доменное событие жизненного цикла заявки
// Ядро публикует события после успешной записи в БД; транспорт доставки
// (SMS/push/опрос) определяют подписчики, ядро от него не зависит
type Event struct {
	Type        EventType
	BookingID   int64
	CustomerID  int64
	PerformerID int64

	EventDate time.Time
	StartTime types.TimeString

	// Причина отклонения/отмены (для booking_rejected и booking_cancelled)
	Reason string

	// Количество предложений (для proposals_offered)
	ProposalCount int

	OccurredAt time.Time
}
