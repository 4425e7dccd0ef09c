package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidad/internal/application/ledger"
	"github.com/jhoicas/contabilidad/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator *ledger.Coordinator
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las que escriben en los
// libros requieren además rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(jwt.RoleAdmin)
	reader := RequireRole(jwt.RoleAdmin, jwt.RoleViewer)

	reports := NewReportHandler(deps.Coordinator)
	api.Get("/rate", reader, reports.GetRate)
	api.Put("/rate", writer, reports.SetRate)
	api.Get("/reports/profit", reader, reports.Profit)

	cash := api.Group("/cash")
	cashHandler := NewCashHandler(deps.Coordinator)
	cash.Post("/income", writer, cashHandler.Income)
	cash.Post("/expense", writer, cashHandler.Expense)
	cash.Post("/transfer", writer, cashHandler.Transfer)
	cash.Get("/balance", reader, cashHandler.Balance)
	cash.Get("/balances", reader, cashHandler.Balances)
	cash.Get("/history", reader, cashHandler.History)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Coordinator)
	inv.Post("/purchases", writer, inventoryHandler.Purchase)
	inv.Post("/sales", writer, inventoryHandler.Sale)
	inv.Get("/products", reader, inventoryHandler.List)
	inv.Get("/products/:code", reader, inventoryHandler.Get)
	inv.Delete("/products/:code", writer, inventoryHandler.Delete)

	consignments := api.Group("/consignments")
	consignmentHandler := NewConsignmentHandler(deps.Coordinator)
	consignments.Post("/", writer, consignmentHandler.Place)
	consignments.Get("/:agent", reader, consignmentHandler.AgentStock)

	debts := api.Group("/debts")
	debtHandler := NewDebtHandler(deps.Coordinator)
	debts.Post("/supplier-payments", writer, debtHandler.SupplierPayment)
	debts.Post("/agent-payments", writer, debtHandler.AgentPayment)
	debts.Get("/totals", reader, debtHandler.Totals)
	debts.Get("/", reader, debtHandler.List)
}
