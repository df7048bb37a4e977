package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notification исходящее уведомление
// NotifyService сам выбирает каналы доставки (SMS/push/email) по настройкам
// получателя, этот сервис только формирует содержимое
type Notification struct {
	Type             string `json:"type"`
	BookingID        int64  `json:"booking_id"`
	RecipientID      int64  `json:"recipient_id"`
	RecipientRole    string `json:"recipient_role"` // customer | performer
	CounterpartyName string `json:"counterparty_name"`
	EventDate        string `json:"event_date"` // YYYY-MM-DD
	StartTime        string `json:"start_time"` // HH:MM
	Reason           string `json:"reason,omitempty"`
}

// Client клиент для работы с NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет уведомление
// Доставка best-effort: вызывающий не должен откатывать бизнес-операцию
// из-за ошибки отправки
func (c *Client) Send(ctx context.Context, n *Notification) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
