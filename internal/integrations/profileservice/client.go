package profileservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с ProfileService
// ProfileService хранит анкеты клиентов и исполнителей; здесь он нужен
// для проверки существования сторон заявки и получения имён для уведомлений
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

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает профиль клиента
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	url := fmt.Sprintf("%s/internal/customers/%d", c.baseURL, customerID)

	var customer Customer
	if err := c.get(ctx, url, &customer, ErrCustomerNotFound); err != nil {
		return nil, err
	}

	return &customer, nil
}

// GetPerformer получает профиль исполнителя
func (c *Client) GetPerformer(ctx context.Context, performerID int64) (*Performer, error) {
	url := fmt.Sprintf("%s/internal/performers/%d", c.baseURL, performerID)

	var performer Performer
	if err := c.get(ctx, url, &performer, ErrPerformerNotFound); err != nil {
		return nil, err
	}

	return &performer, nil
}

func (c *Client) get(ctx context.Context, url string, dst interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
