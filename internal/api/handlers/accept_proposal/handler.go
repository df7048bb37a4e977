package accept_proposal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/api/middleware"
	acceptProposal "github.com/m0rozko/DMP-BookingService/internal/usecase/accept_proposal"
)

const (
	msgInvalidProposalID = "некорректный ID предложения"
	msgProposalNotFound  = "предложение не найдено"
	msgBookingNotFound   = "заявка не найдена"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
	msgProposalResolved  = "решение по предложению уже принято"
	msgBookingNotPending = "заявка уже не ожидает решения"
)

type Handler struct {
	useCase AcceptProposalUseCase
	logger  Logger
}

func NewHandler(useCase AcceptProposalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/proposals/{proposalId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	proposalID, err := strconv.ParseInt(vars["proposalId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /proposals/{id}/accept - Invalid proposal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProposalID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /proposals/{id}/accept - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &acceptProposal.Request{
		ProposalID: proposalID,
		CustomerID: customerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, acceptProposal.ErrProposalNotFound):
			h.logger.Warn("PATCH /proposals/{id}/accept - Proposal not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgProposalNotFound)

		case errors.Is(err, acceptProposal.ErrBookingNotFound):
			h.logger.Warn("PATCH /proposals/{id}/accept - Booking not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, acceptProposal.ErrAccessDenied):
			h.logger.Warn("PATCH /proposals/{id}/accept - Access denied: proposal_id=%d, user_id=%d", proposalID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, acceptProposal.ErrProposalNotPending):
			h.logger.Warn("PATCH /proposals/{id}/accept - Proposal already resolved: proposal_id=%d", proposalID)
			handlers.RespondConflict(w, msgProposalResolved)

		case errors.Is(err, acceptProposal.ErrBookingNotPending):
			h.logger.Warn("PATCH /proposals/{id}/accept - Booking not pending: proposal_id=%d", proposalID)
			handlers.RespondConflict(w, msgBookingNotPending)

		default:
			h.logger.Error("PATCH /proposals/{id}/accept - Failed to accept proposal: proposal_id=%d, error=%v", proposalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /proposals/{id}/accept - Proposal accepted successfully: proposal_id=%d, booking_id=%d",
		proposalID, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
