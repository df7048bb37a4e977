package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m0rozko/DMP-BookingService/pkg/ptr"
)

func TestBookingProposal_IsPending(t *testing.T) {
	assert.True(t, (&BookingProposal{Status: ProposalPending}).IsPending())
	assert.False(t, (&BookingProposal{Status: ProposalAccepted}).IsPending())
	assert.False(t, (&BookingProposal{Status: ProposalRejected}).IsPending())
}

func TestBookingProposal_EffectivePerformerPrice(t *testing.T) {
	withPrice := &BookingProposal{ProposedPrice: ptr.Ptr(int64(8500))}
	assert.Equal(t, int64(8500), withPrice.EffectivePerformerPrice(7000))

	// Цена не указана - действует базовая цена заявки
	withoutPrice := &BookingProposal{}
	assert.Equal(t, int64(7000), withoutPrice.EffectivePerformerPrice(7000))
}
