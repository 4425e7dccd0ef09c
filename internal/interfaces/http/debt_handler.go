package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/dto"
	"github.com/jhoicas/contabilidad/internal/application/ledger"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// DebtHandler maneja pagos a proveedores, cobros a agentes y consultas de deudas (protegido).
type DebtHandler struct {
	coord *ledger.Coordinator
}

// NewDebtHandler construye el handler.
func NewDebtHandler(coord *ledger.Coordinator) *DebtHandler {
	return &DebtHandler{coord: coord}
}

func paymentResponse(res ledger.PaymentResult) dto.PaymentResponse {
	return dto.PaymentResponse{
		MovementID:   res.MovementID,
		Balance:      res.Balance,
		DebtFound:    res.DebtFound,
		DebtCurrency: string(res.DebtCurrency),
		Applied:      res.Applied,
		Excess:       res.Excess,
		Pending:      res.Pending,
	}
}

// SupplierPayment POST /api/debts/supplier-payments
func (h *DebtHandler) SupplierPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.SettleSupplierDebt(c.UserContext(), ledger.SupplierPaymentInput{
		OperatorID: GetOperatorID(c),
		Supplier:   in.Actor,
		Amount:     in.Amount,
		Currency:   currency(in.Currency),
		Till:       till(in.Till),
		Memo:       in.Memo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(paymentResponse(res))
}

// AgentPayment POST /api/debts/agent-payments
func (h *DebtHandler) AgentPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.SettleAgentDebt(c.UserContext(), ledger.AgentPaymentInput{
		OperatorID: GetOperatorID(c),
		Agent:      in.Actor,
		Amount:     in.Amount,
		Currency:   currency(in.Currency),
		Till:       till(in.Till),
		Memo:       in.Memo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(paymentResponse(res))
}

// List GET /api/debts?direction=payable|receivable
func (h *DebtHandler) List(c *fiber.Ctx) error {
	dir, err := entity.ParseDebtDirection(c.Query("direction"))
	if err != nil {
		return badParam(c, err)
	}
	out := []dto.DebtResponse{}
	for d, err := range h.coord.Debts(c.UserContext(), ledger.DebtFilter{Direction: dir}) {
		if err != nil {
			return writeError(c, err)
		}
		out = append(out, dto.DebtResponse{
			Actor:     d.Actor,
			Currency:  string(d.Currency),
			Direction: string(d.Direction),
			Pending:   d.PendingAmount,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "debts": out})
}

// Totals GET /api/debts/totals
func (h *DebtHandler) Totals(c *fiber.Ctx) error {
	totals, err := h.coord.DebtTotals(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.DebtTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, dto.DebtTotalResponse{
			Direction: string(t.Direction),
			Currency:  string(t.Currency),
			Total:     t.Total,
			Actors:    t.Actors,
		})
	}
	return c.JSON(fiber.Map{"totals": out})
}
