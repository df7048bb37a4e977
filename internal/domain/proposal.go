package domain

import (
	"time"

	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// ProposalStatus статус встречного предложения исполнителя
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// BookingProposal встречное предложение исполнителя: альтернативные
// дата/время/цена, когда запрошенный слот ему не подходит
// Создается исполнителем, решение принимает только клиент
type BookingProposal struct {
	ID        int64
	BookingID int64

	ProposedDate time.Time
	ProposedTime types.TimeString
	// Цена исполнителя за выезд; nil - действует базовая цена заявки
	ProposedPrice *int64

	Status ProposalStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending решение по предложению ещё не принято
func (p *BookingProposal) IsPending() bool {
	return p.Status == ProposalPending
}

// EffectivePerformerPrice цена исполнителя с учётом предложения:
// если цена в предложении не указана, действует базовая цена заявки
func (p *BookingProposal) EffectivePerformerPrice(bookingPerformerPrice int64) int64 {
	if p.ProposedPrice != nil {
		return *p.ProposedPrice
	}
	return bookingPerformerPrice
}
