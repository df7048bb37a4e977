package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_StatusPredicates(t *testing.T) {
	tests := []struct {
		status       BookingStatus
		canAccept    bool
		canReject    bool
		canCancel    bool
		canComplete  bool
		canNoShow    bool
		allowsOffers bool
	}{
		{StatusPending, true, true, true, false, false, true},
		{StatusConfirmed, false, false, true, true, true, false},
		{StatusCancelled, false, false, false, false, false, false},
		{StatusCompleted, false, false, false, false, false, false},
		{StatusNoShow, false, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}

			assert.Equal(t, tt.canAccept, b.CanBeAccepted())
			assert.Equal(t, tt.canReject, b.CanBeRejected())
			assert.Equal(t, tt.canCancel, b.CanBeCancelled())
			assert.Equal(t, tt.canComplete, b.CanBeCompleted())
			assert.Equal(t, tt.canNoShow, b.CanBeMarkedNoShow())
			assert.Equal(t, tt.allowsOffers, b.AllowsProposals())
		})
	}
}

// Из конечного статуса не должно быть ни одного разрешённого перехода
func TestBooking_TerminalStatusesAreClosed(t *testing.T) {
	for _, status := range InactiveStatuses {
		b := &Booking{Status: status}

		assert.True(t, b.IsTerminal(), "status %s", status)
		assert.False(t, b.IsActive(), "status %s", status)
		assert.False(t, b.CanBeAccepted(), "status %s", status)
		assert.False(t, b.CanBeRejected(), "status %s", status)
		assert.False(t, b.CanBeCancelled(), "status %s", status)
		assert.False(t, b.CanBeCompleted(), "status %s", status)
		assert.False(t, b.CanBeMarkedNoShow(), "status %s", status)
		assert.False(t, b.AllowsProposals(), "status %s", status)
	}
}

// Платёжные переходы монотонны: назад по оси оплаты вернуться нельзя
func TestBooking_PaymentPredicates(t *testing.T) {
	tests := []struct {
		paymentStatus  PaymentStatus
		canPrepayment  bool
		canFullPayment bool
		canRefund      bool
	}{
		{PaymentNotPaid, true, false, false},
		{PaymentPrepaymentPaid, false, true, true},
		{PaymentFullyPaid, false, false, true},
		{PaymentRefunded, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.paymentStatus), func(t *testing.T) {
			b := &Booking{PaymentStatus: tt.paymentStatus}

			assert.Equal(t, tt.canPrepayment, b.CanMarkPrepaymentPaid())
			assert.Equal(t, tt.canFullPayment, b.CanMarkFullyPaid())
			assert.Equal(t, tt.canRefund, b.CanRefund())
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range ValidStatuses {
		assert.True(t, IsValidStatus(status))
	}
	assert.False(t, IsValidStatus("approved"))
	assert.False(t, IsValidStatus(""))
}

func TestIsValidEventFormat(t *testing.T) {
	for _, format := range ValidEventFormats {
		assert.True(t, IsValidEventFormat(format))
	}
	assert.False(t, IsValidEventFormat("stadium"))
	assert.False(t, IsValidEventFormat(""))
}
