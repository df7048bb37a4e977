package accept_proposal

import "errors"

var (
	// ErrProposalNotFound возвращается, когда предложение не найдено
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrBookingNotFound возвращается, когда заявка предложения не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда решение принимает не клиент заявки
	ErrAccessDenied = errors.New("access denied")

	// ErrProposalNotPending возвращается, когда решение по предложению уже принято
	ErrProposalNotPending = errors.New("proposal was already resolved")

	// ErrBookingNotPending возвращается, когда заявка уже вышла из ожидания
	// (принята напрямую, отменена или подтверждена другим предложением)
	ErrBookingNotPending = errors.New("booking no longer awaits a decision")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
