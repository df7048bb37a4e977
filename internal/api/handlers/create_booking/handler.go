package create_booking

import (
	"errors"
	"net/http"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/api/middleware"
	createBooking "github.com/m0rozko/DMP-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты выезда, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные заявки"
	msgDateInPast         = "дата выезда не может быть в прошлом"
	msgCustomerNotFound   = "клиент не найден"
	msgPerformerNotFound  = "исполнитель не найден"
	msgPerformerInactive  = "исполнитель сейчас не принимает заявки"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in past: customer_id=%d, performer_id=%d", customerID, req.PerformerID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrPerformerNotFound):
			h.logger.Warn("POST /bookings - Performer not found: performer_id=%d", req.PerformerID)
			handlers.RespondNotFound(w, msgPerformerNotFound)

		case errors.Is(err, createBooking.ErrPerformerInactive):
			h.logger.Warn("POST /bookings - Performer inactive: performer_id=%d", req.PerformerID)
			handlers.RespondConflict(w, msgPerformerInactive)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, performer_id=%d, error=%v",
				customerID, req.PerformerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, performer_id=%d",
		result.ID, customerID, req.PerformerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
