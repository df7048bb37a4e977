package get_platform_config

import (
	"net/http"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
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

// Handle GET /api/v1/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	config := h.service.GetConfig(r.Context())

	h.logger.Info("GET /config - Config retrieved: commission_rate=%d", config.CommissionRate)
	handlers.RespondJSON(w, http.StatusOK, config)
}
