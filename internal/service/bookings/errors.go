package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда заявка не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrProposalNotFound возвращается, когда предложение не найдено
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrReasonRequired возвращается при отклонении/отмене без указания причины
	ErrReasonRequired = errors.New("a non-empty reason is required")

	// ErrStatusConflict возвращается, когда заявка уже изменена другой стороной
	// Вызывающему следует перечитать состояние заявки
	ErrStatusConflict = errors.New("booking was already updated, please refresh")

	// ErrProposalsNotAllowed возвращается при создании предложений по заявке,
	// которая уже не ожидает решения исполнителя
	ErrProposalsNotAllowed = errors.New("booking no longer accepts proposals")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
