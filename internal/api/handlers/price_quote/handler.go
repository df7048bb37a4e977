package price_quote

import (
	"net/http"
	"strconv"

	"github.com/m0rozko/DMP-BookingService/internal/api/handlers"
	"github.com/m0rozko/DMP-BookingService/internal/service/pricing"
	"github.com/m0rozko/DMP-BookingService/pkg/money"
)

const msgInvalidPrice = "некорректная цена исполнителя"

// QuoteResponse расчёт цены для отображения клиенту до создания заявки
type QuoteResponse struct {
	PerformerPrice       int64  `json:"performerPrice"`
	PriceTotal           int64  `json:"priceTotal"`
	PrepaymentAmount     int64  `json:"prepaymentAmount"`
	CommissionRate       int    `json:"commissionRate"`
	PrepaymentPercentage int    `json:"prepaymentPercentage"`
	PriceTotalText       string `json:"priceTotalText"`
	PrepaymentText       string `json:"prepaymentText"`
}

type Handler struct {
	pricing PricingCalculator
	logger  Logger
}

func NewHandler(pricing PricingCalculator, logger Logger) *Handler {
	return &Handler{
		pricing: pricing,
		logger:  logger,
	}
}

// Handle GET /api/v1/pricing/quote?performerPrice=7000
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	performerPrice, err := strconv.ParseInt(r.URL.Query().Get("performerPrice"), 10, 64)
	if err != nil || performerPrice <= 0 {
		h.logger.Warn("GET /pricing/quote - Invalid performer price: %q", r.URL.Query().Get("performerPrice"))
		handlers.RespondBadRequest(w, msgInvalidPrice)
		return
	}

	snapshot := h.pricing.Snapshot(r.Context(), performerPrice)

	response := &QuoteResponse{
		PerformerPrice:       snapshot.PerformerPrice,
		PriceTotal:           snapshot.CustomerPrice,
		PrepaymentAmount:     snapshot.PrepaymentAmount,
		CommissionRate:       snapshot.CommissionRate,
		PrepaymentPercentage: pricing.PrepaymentPercentage(snapshot.CommissionRate),
		PriceTotalText:       money.Format(snapshot.CustomerPrice),
		PrepaymentText:       money.Format(snapshot.PrepaymentAmount),
	}

	h.logger.Info("GET /pricing/quote - Quote calculated: performer_price=%d, total=%d, prepayment=%d",
		snapshot.PerformerPrice, snapshot.CustomerPrice, snapshot.PrepaymentAmount)
	handlers.RespondJSON(w, http.StatusOK, response)
}
