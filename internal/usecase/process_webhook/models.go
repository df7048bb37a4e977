package process_webhook

import (
	"strings"
	"time"
)

// GatewayStatus статус платежа в терминах платёжного шлюза
type GatewayStatus string

const (
	GatewayCreated  GatewayStatus = "created"
	GatewayPending  GatewayStatus = "pending"
	GatewayPaid     GatewayStatus = "paid"
	GatewayDeclined GatewayStatus = "declined"
	GatewayExpired  GatewayStatus = "expired"
	GatewayRefunded GatewayStatus = "refunded"

	// GatewayUnknown любой нераспознанный статус
	// Колбэк подтверждается без изменения заявки: шлюз может добавлять
	// новые статусы раньше, чем мы о них узнаём
	GatewayUnknown GatewayStatus = "unknown"
)

// ParseGatewayStatus нормализует статус шлюза
// Нераспознанные значения схлопываются в GatewayUnknown
func ParseGatewayStatus(raw string) GatewayStatus {
	switch GatewayStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case GatewayCreated:
		return GatewayCreated
	case GatewayPending:
		return GatewayPending
	case GatewayPaid:
		return GatewayPaid
	case GatewayDeclined:
		return GatewayDeclined
	case GatewayExpired:
		return GatewayExpired
	case GatewayRefunded:
		return GatewayRefunded
	default:
		return GatewayUnknown
	}
}

// Request колбэк платёжного шлюза
// BookingID приходит от шлюза как order_id: заявка и есть заказ на оплату
type Request struct {
	InvoiceID     string
	BookingID     int64
	GatewayStatus string

	AmountValue    int64
	AmountCurrency string
	PaidAt         *time.Time
	TransactionID  string

	// Сырое тело колбэка для журнала
	Payload []byte
}

// Response результат обработки колбэка
// Applied = false означает, что колбэк подтверждён без изменения заявки:
// повторная доставка, неизвестный или промежуточный статус
type Response struct {
	BookingID    int64  `json:"bookingId"`
	Applied      bool   `json:"applied"`
	MappedStatus string `json:"mappedStatus"`
}
