package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/dto"
	"github.com/jhoicas/contabilidad/internal/application/ledger"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// InventoryHandler maneja entradas de mercancía, ventas y consultas de stock (protegido).
type InventoryHandler struct {
	coord *ledger.Coordinator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(coord *ledger.Coordinator) *InventoryHandler {
	return &InventoryHandler{coord: coord}
}

// Purchase POST /api/inventory/purchases
func (h *InventoryHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.RegisterPurchase(c.UserContext(), ledger.PurchaseInput{
		OperatorID: GetOperatorID(c),
		Code:       in.Code,
		Name:       in.Name,
		Qty:        in.Qty,
		UnitCost:   in.UnitCost,
		Currency:   currency(in.Currency),
		Supplier:   in.Supplier,
		Note:       in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseResponse{
		Code:           res.Code,
		Stock:          res.NewStock,
		UnitCost:       res.NewUnitCost,
		CostCurrency:   string(res.CostCurrency),
		Supplier:       res.Supplier,
		DebtCurrency:   string(res.DebtCurrency),
		PendingPayable: res.PendingPayable,
	})
}

// Sale POST /api/inventory/sales
func (h *InventoryHandler) Sale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.coord.RegisterSale(c.UserContext(), ledger.SaleInput{
		OperatorID:  GetOperatorID(c),
		Code:        in.Code,
		Qty:         in.Qty,
		TotalAmount: in.Total,
		Currency:    currency(in.Currency),
		Till:        till(in.Till),
		AgentOrNote: in.AgentOrNote,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.SaleResponse{
		MovementID:   res.MovementID,
		Consigned:    res.Consigned,
		Agent:        res.Agent,
		Balance:      res.Balance,
		RemainingQty: res.RemainingQty,
	}
	if res.Consigned {
		out.Liquidated = &res.Liquidated
		out.LiquidatedCurrency = string(res.LiquidatedCurrency)
		out.PendingReceivable = &res.PendingReceivable
	} else {
		out.COGS = &res.COGS
		out.COGSCurrency = string(res.COGSCurrency)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func productResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Code:         p.Code,
		Name:         p.Name,
		UnitCost:     p.UnitCost,
		CostCurrency: string(p.CostCurrency),
		Stock:        p.StockQty,
		UpdatedAt:    p.UpdatedAt,
	}
}

// List GET /api/inventory/products
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.coord.Products(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, productResponse(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}

// Get GET /api/inventory/products/:code
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	p, err := h.coord.Stock(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(productResponse(p))
}

// Delete DELETE /api/inventory/products/:code
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.coord.DeleteProduct(c.UserContext(), GetOperatorID(c), c.Params("code")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "producto eliminado"})
}
