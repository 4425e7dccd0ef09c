package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/dto"
	"github.com/jhoicas/contabilidad/internal/application/ledger"
)

// ReportHandler tasa de cambio y reportes (protegido).
type ReportHandler struct {
	coord *ledger.Coordinator
}

// NewReportHandler construye el handler.
func NewReportHandler(coord *ledger.Coordinator) *ReportHandler {
	return &ReportHandler{coord: coord}
}

// GetRate GET /api/rate
func (h *ReportHandler) GetRate(c *fiber.Ctx) error {
	return c.JSON(dto.RateResponse{Rate: h.coord.ExchangeRate()})
}

// SetRate PUT /api/rate
func (h *ReportHandler) SetRate(c *fiber.Ctx) error {
	var in dto.SetRateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.coord.SetExchangeRate(GetOperatorID(c), in.Rate); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RateResponse{Rate: h.coord.ExchangeRate()})
}

// Profit GET /api/reports/profit
func (h *ReportHandler) Profit(c *fiber.Ctx) error {
	rep, err := h.coord.Profit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProfitResponse{
		Revenue:     rep.Revenue,
		COGS:        rep.COGS,
		GrossMargin: rep.GrossMargin,
		Rate:        rep.Rate,
		Sales:       rep.Sales,
	})
}
