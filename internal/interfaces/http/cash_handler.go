package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/dto"
	"github.com/jhoicas/contabilidad/internal/application/ledger"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// CashHandler maneja ingresos, gastos, traspasos y consultas de caja (protegido).
type CashHandler struct {
	coord *ledger.Coordinator
}

// NewCashHandler construye el handler.
func NewCashHandler(coord *ledger.Coordinator) *CashHandler {
	return &CashHandler{coord: coord}
}

// currency normaliza lo enviado por el cliente; la validación la hace el coordinador.
func currency(s string) entity.Currency {
	return entity.Currency(strings.ToUpper(strings.TrimSpace(s)))
}

func till(s string) entity.Till {
	return entity.Till(strings.ToUpper(strings.TrimSpace(s)))
}

// Income POST /api/cash/income
func (h *CashHandler) Income(c *fiber.Ctx) error {
	return h.register(c, h.coord.RegisterIncome)
}

// Expense POST /api/cash/expense
func (h *CashHandler) Expense(c *fiber.Ctx) error {
	return h.register(c, h.coord.RegisterExpense)
}

type cashOp func(ctx context.Context, in ledger.CashInput) (ledger.MovementResult, error)

func (h *CashHandler) register(c *fiber.Ctx, fn cashOp) error {
	var in dto.CashRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := fn(c.UserContext(), ledger.CashInput{
		OperatorID: GetOperatorID(c),
		Amount:     in.Amount,
		Currency:   currency(in.Currency),
		Till:       till(in.Till),
		Memo:       in.Memo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		MovementID: res.MovementID,
		Till:       string(res.Till),
		Currency:   string(res.Currency),
		Balance:    res.Balance,
	})
}

// Transfer POST /api/cash/transfer
func (h *CashHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.Transfer(c.UserContext(), ledger.TransferInput{
		OperatorID:  GetOperatorID(c),
		Amount:      in.Amount,
		SrcCurrency: currency(in.FromCurrency),
		SrcTill:     till(in.FromTill),
		DstCurrency: currency(in.ToCurrency),
		DstTill:     till(in.ToTill),
		Memo:        in.Memo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		DebitID:     res.DebitID,
		CreditID:    res.CreditID,
		ToAmount:    res.DstAmount,
		FromBalance: res.SrcBalance,
		ToBalance:   res.DstBalance,
	})
}

// Balance GET /api/cash/balance?till=CFG&currency=USD
func (h *CashHandler) Balance(c *fiber.Ctx) error {
	t, err := entity.ParseTill(c.Query("till"))
	if err != nil {
		return badParam(c, err)
	}
	cur, err := entity.ParseCurrency(c.Query("currency"))
	if err != nil {
		return badParam(c, err)
	}
	b, err := h.coord.Balance(c.UserContext(), t, cur)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{Till: string(t), Currency: string(cur), Balance: b})
}

// Balances GET /api/cash/balances
func (h *CashHandler) Balances(c *fiber.Ctx) error {
	list, err := h.coord.Balances(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BalanceResponse{Till: string(b.Till), Currency: string(b.Currency), Balance: b.Balance})
	}
	return c.JSON(fiber.Map{"balances": out})
}

// History GET /api/cash/history?days=7
func (h *CashHandler) History(c *fiber.Ctx) error {
	days := c.QueryInt("days", ledger.DefaultHistoryDays)
	out := []dto.CashMovementResponse{}
	for m, err := range h.coord.HistoryDays(c.UserContext(), days) {
		if err != nil {
			return writeError(c, err)
		}
		item := dto.CashMovementResponse{
			ID:         m.ID,
			CreatedAt:  m.CreatedAt,
			Kind:       string(m.Kind),
			Direction:  string(m.Direction),
			Amount:     m.Amount,
			Currency:   string(m.Currency),
			Till:       string(m.Till),
			OperatorID: m.OperatorID,
			Memo:       m.Memo,
		}
		if m.COGS.Valid {
			cogs := m.COGS.Decimal
			item.COGS = &cogs
			item.COGSCurrency = string(m.COGSCurrency)
		}
		out = append(out, item)
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}
