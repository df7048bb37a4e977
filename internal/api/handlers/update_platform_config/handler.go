package update_platform_config

import (
	"errors"
	"net/http"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/service/platformconfig"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRate        = "ставка комиссии должна быть от 0 до 100"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req platformconfig.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateCommissionRate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, platformconfig.ErrInvalidRate) {
			h.logger.Warn("PUT /config - Invalid commission rate: %d", req.CommissionRate)
			handlers.RespondBadRequest(w, msgInvalidRate)
			return
		}
		h.logger.Error("PUT /config - Failed to update config: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /config - Config updated: commission_rate=%d", result.CommissionRate)
	handlers.RespondJSON(w, http.StatusOK, result)
}
