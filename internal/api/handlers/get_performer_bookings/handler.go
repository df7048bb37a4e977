package get_performer_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/api/middleware"
	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidPerformerID = "некорректный ID исполнителя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus      = "некорректный статус заявки"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
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

// Handle GET /api/v1/performers/{performerId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	performerID, err := strconv.ParseInt(vars["performerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /performers/{performerId}/bookings - Invalid performer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPerformerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /performers/{performerId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Исполнитель видит только собственный календарь
	if userID != performerID {
		h.logger.Warn("GET /performers/{performerId}/bookings - Access denied: performer_id=%d, user_id=%d",
			performerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	serviceReq := &models.GetPerformerBookingsRequest{
		PerformerID:     performerID,
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}

	if status := r.URL.Query().Get("status"); status != "" {
		serviceReq.Status = &status
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /performers/{performerId}/bookings - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		serviceReq.StartDate = &startDate
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /performers/{performerId}/bookings - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		serviceReq.EndDate = &endDate
	}

	result, err := h.service.GetPerformerBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /performers/{performerId}/bookings - Invalid status filter: performer_id=%d", performerID)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /performers/{performerId}/bookings - Failed to get bookings: performer_id=%d, error=%v",
			performerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /performers/{performerId}/bookings - Bookings retrieved successfully: performer_id=%d, count=%d",
		performerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
