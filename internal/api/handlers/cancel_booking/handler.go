package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/api/middleware"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заявка не найдена"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgStatusConflict     = "заявка уже изменена, обновите данные"
	msgReasonRequired     = "необходимо указать причину отмены"
	msgInvalidInput       = "некорректные данные запроса"
)

// cancelBookingRequest HTTP request model
type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req cancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), bookingID, &models.CancelBookingRequest{
		UserID: userID,
		Reason: req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrReasonRequired):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Reason required: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Status conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStatusConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
