package payment_webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	processWebhook "github.com/m0rozko/DMP-BookingService/internal/usecase/process_webhook"
)

const (
	msgInvalidRequestBody = "некорректное тело колбэка"
	msgBookingNotFound    = "заявка не найдена"

	// Ограничение размера тела колбэка
	maxPayloadBytes = 64 * 1024
)

// webhookRequest колбэк платёжного шлюза
// order_id шлюза - это ID заявки: заявка и есть заказ на оплату
type webhookRequest struct {
	InvoiceID     string        `json:"invoice_id"`
	OrderID       int64         `json:"order_id"`
	Status        string        `json:"status"`
	Amount        webhookAmount `json:"amount"`
	PaidAt        *time.Time    `json:"paid_at"`
	TransactionID string        `json:"transaction_id"`
}

// webhookAmount сумма платежа в терминах шлюза
type webhookAmount struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency"`
}

// webhookAck подтверждение колбэка шлюзу
type webhookAck struct {
	Success bool `json:"success"`
}

type Handler struct {
	useCase ProcessWebhookUseCase
	logger  Logger
}

func NewHandler(useCase ProcessWebhookUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Шлюз доставляет колбэки at-least-once и повторяет доставку при любом
// ответе, кроме 2xx. Поэтому ошибки обработки различаются: временные
// возвращают 5xx (шлюз повторит), бизнес-исходы подтверждаются 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Читаем тело целиком: сырой payload уходит в журнал колбэков
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &processWebhook.Request{
		InvoiceID:      req.InvoiceID,
		BookingID:      req.OrderID,
		GatewayStatus:  req.Status,
		AmountValue:    req.Amount.Value,
		AmountCurrency: req.Amount.Currency,
		PaidAt:         req.PaidAt,
		TransactionID:  req.TransactionID,
		Payload:        body,
	})
	if err != nil {
		switch {
		case errors.Is(err, processWebhook.ErrInvalidInput):
			h.logger.Warn("POST /payments/webhook - Invalid callback: invoice=%s, error=%v", req.InvoiceID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, processWebhook.ErrBookingNotFound):
			// 404 не подтверждает колбэк, шлюз повторит доставку позже
			h.logger.Warn("POST /payments/webhook - Booking not found: invoice=%s, order_id=%d",
				req.InvoiceID, req.OrderID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		default:
			h.logger.Error("POST /payments/webhook - Failed to process callback: invoice=%s, order_id=%d, error=%v",
				req.InvoiceID, req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Callback processed: invoice=%s, order_id=%d, applied=%t",
		req.InvoiceID, req.OrderID, result.Applied)
	handlers.RespondJSON(w, http.StatusOK, webhookAck{Success: true})
}
