package create_proposals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/api/middleware"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID    = "некорректный ID заявки"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateTime     = "некорректный формат даты или времени предложения"
	msgNotFound            = "заявка не найдена"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "доступ запрещен"
	msgProposalsNotAllowed = "заявка уже не ожидает решения, предложения недоступны"
	msgInvalidInput        = "некорректные данные предложений"
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

// Handle POST /api/v1/bookings/{bookingId}/proposals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/proposals - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	performerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/proposals - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req createProposalsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/proposals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.toServiceRequest(performerID)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/proposals - Failed to parse proposals: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.CreateProposals(r.Context(), bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/proposals - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/proposals - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/proposals - Access denied: booking_id=%d, user_id=%d", bookingID, performerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrProposalsNotAllowed):
			h.logger.Warn("POST /bookings/{id}/proposals - Proposals not allowed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgProposalsNotAllowed)

		default:
			h.logger.Error("POST /bookings/{id}/proposals - Failed to create proposals: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/proposals - Proposals created successfully: booking_id=%d, performer_id=%d, count=%d",
		bookingID, performerID, len(result.Proposals))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
