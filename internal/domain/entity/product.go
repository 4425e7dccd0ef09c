package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un SKU del inventario general.
// UnitCost es el costo promedio ponderado expresado en CostCurrency.
type Product struct {
	Code         string // código único (normalizado a mayúsculas)
	Name         string
	UnitCost     decimal.Decimal
	CostCurrency Currency
	StockQty     decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
