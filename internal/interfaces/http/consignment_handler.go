package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/dto"
	"github.com/jhoicas/contabilidad/internal/application/ledger"
)

// ConsignmentHandler maneja la mercancía entregada a agentes (protegido).
type ConsignmentHandler struct {
	coord *ledger.Coordinator
}

// NewConsignmentHandler construye el handler.
func NewConsignmentHandler(coord *ledger.Coordinator) *ConsignmentHandler {
	return &ConsignmentHandler{coord: coord}
}

// Place POST /api/consignments
func (h *ConsignmentHandler) Place(c *fiber.Ctx) error {
	var in dto.ConsignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.PlaceConsignment(c.UserContext(), ledger.ConsignmentInput{
		OperatorID: GetOperatorID(c),
		Code:       in.Code,
		Qty:        in.Qty,
		Agent:      in.Agent,
		UnitPrice:  in.UnitPrice,
		Currency:   currency(in.Currency),
		Note:       in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ConsignmentResponse{
		Code:              res.Code,
		Agent:             res.Agent,
		OutstandingQty:    res.OutstandingQty,
		UnitPrice:         res.UnitPrice,
		Currency:          string(res.Currency),
		TermsIgnored:      res.TermsIgnored,
		GeneralStock:      res.GeneralStock,
		PendingReceivable: res.PendingReceivable,
	})
}

// AgentStock GET /api/consignments/:agent
func (h *ConsignmentHandler) AgentStock(c *fiber.Ctx) error {
	out := []dto.HoldingResponse{}
	for hold, err := range h.coord.AgentStock(c.UserContext(), c.Params("agent")) {
		if err != nil {
			return writeError(c, err)
		}
		out = append(out, dto.HoldingResponse{
			Code:           hold.Code,
			OutstandingQty: hold.OutstandingQty,
			UnitPrice:      hold.UnitPrice,
			Currency:       string(hold.Currency),
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "holdings": out})
}
