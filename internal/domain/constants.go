package domain

// Default pricing values
const (
	// DefaultCommissionRate комиссия платформы по умолчанию (процент наценки)
	// Используется, когда значение из platform_settings недоступно
	DefaultCommissionRate = 40
)

// Business validation constants
const (
	MinCommissionRate = 0
	MaxCommissionRate = 100

	MinChildrenCount = 0
	MaxChildrenCount = 50

	MaxCommentLength            = 1000
	MaxCancellationReasonLength = 500
	MaxAddressLength            = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SettingCommissionRate ключ комиссии платформы в platform_settings
const SettingCommissionRate = "commission_rate"

// ValidStatuses допустимые статусы заявки
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// InactiveStatuses конечные статусы заявок
// Используется для фильтрации истории
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// ValidPaymentStatuses допустимые статусы оплаты
var ValidPaymentStatuses = []PaymentStatus{
	PaymentNotPaid,
	PaymentPrepaymentPaid,
	PaymentFullyPaid,
	PaymentRefunded,
}

// ValidEventFormats допустимые форматы мероприятия
var ValidEventFormats = []EventFormat{
	FormatHome,
	FormatKindergarten,
	FormatSchool,
	FormatOffice,
	FormatCorporate,
	FormatOutdoor,
}

// IsValidEventFormat проверяет формат мероприятия
func IsValidEventFormat(f EventFormat) bool {
	for _, valid := range ValidEventFormats {
		if f == valid {
			return true
		}
	}
	return false
}

// IsValidStatus проверяет статус заявки
func IsValidStatus(s BookingStatus) bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
