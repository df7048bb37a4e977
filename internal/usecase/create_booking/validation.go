package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.PerformerID <= 0 {
		return fmt.Errorf("%w: performerID must be positive", ErrInvalidInput)
	}

	if req.EventDate.IsZero() {
		return fmt.Errorf("%w: eventDate is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if len([]rune(address)) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address exceeds %d characters", ErrInvalidInput, domain.MaxAddressLength)
	}

	if !domain.IsValidEventFormat(req.Format) {
		return fmt.Errorf("%w: unknown event format %q", ErrInvalidInput, req.Format)
	}

	if req.ChildrenCount < domain.MinChildrenCount || req.ChildrenCount > domain.MaxChildrenCount {
		return fmt.Errorf("%w: childrenCount must be between %d and %d",
			ErrInvalidInput, domain.MinChildrenCount, domain.MaxChildrenCount)
	}

	if req.Comment != nil && len([]rune(*req.Comment)) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidInput, domain.MaxCommentLength)
	}

	return nil
}

// validateDate проверяет, что дата выезда не в прошлом
func validateDate(eventDate, now time.Time) error {
	dateOnly := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, eventDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}
