package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate возвращается, когда дата выезда в прошлом
	ErrInvalidDate = errors.New("event date cannot be in the past")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrPerformerNotFound возвращается, когда исполнитель не найден
	ErrPerformerNotFound = errors.New("performer not found")

	// ErrPerformerInactive возвращается, когда анкета исполнителя скрыта
	ErrPerformerInactive = errors.New("performer is not accepting bookings")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
