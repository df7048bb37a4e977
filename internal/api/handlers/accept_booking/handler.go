package accept_booking

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
	msgInvalidBookingID = "некорректный ID заявки"
	msgNotFound         = "заявка не найдена"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
	msgStatusConflict   = "заявка уже изменена, обновите данные"
)

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

// Handle PATCH /api/v1/bookings/{bookingId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/accept - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	performerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/accept - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Accept(r.Context(), bookingID, &models.AcceptBookingRequest{
		PerformerID: performerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/accept - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/accept - Access denied: booking_id=%d, user_id=%d", bookingID, performerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{id}/accept - Status conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStatusConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/accept - Failed to accept booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/accept - Booking accepted successfully: booking_id=%d, performer_id=%d",
		bookingID, performerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
