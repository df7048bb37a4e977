package reject_proposal

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
	msgInvalidProposalID = "некорректный ID предложения"
	msgProposalNotFound  = "предложение не найдено"
	msgBookingNotFound   = "заявка не найдена"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
	msgStatusConflict    = "решение по предложению уже принято"
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

// Handle PATCH /api/v1/proposals/{proposalId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	proposalID, err := strconv.ParseInt(vars["proposalId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /proposals/{id}/reject - Invalid proposal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProposalID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /proposals/{id}/reject - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.RejectProposal(r.Context(), proposalID, &models.RejectProposalRequest{
		CustomerID: customerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrProposalNotFound):
			h.logger.Warn("PATCH /proposals/{id}/reject - Proposal not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgProposalNotFound)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /proposals/{id}/reject - Booking not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /proposals/{id}/reject - Access denied: proposal_id=%d, user_id=%d", proposalID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /proposals/{id}/reject - Status conflict: proposal_id=%d", proposalID)
			handlers.RespondConflict(w, msgStatusConflict)

		default:
			h.logger.Error("PATCH /proposals/{id}/reject - Failed to reject proposal: proposal_id=%d, error=%v", proposalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /proposals/{id}/reject - Proposal rejected successfully: proposal_id=%d, booking_id=%d",
		proposalID, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
