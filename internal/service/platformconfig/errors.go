package platformconfig

import "errors"

var (
	// ErrInvalidRate возвращается при ставке комиссии вне допустимого диапазона
	ErrInvalidRate = errors.New("commission rate must be between 0 and 100")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
