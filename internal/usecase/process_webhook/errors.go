package process_webhook

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном колбэке
	ErrInvalidInput = errors.New("invalid webhook payload")

	// ErrBookingNotFound возвращается, когда заявка колбэка не найдена
	// Шлюз получает ошибку и повторит доставку позже
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInternal возвращается при внутренних ошибках
	// Шлюз получает ошибку и повторит доставку позже
	ErrInternal = errors.New("usecase: internal error")
)
