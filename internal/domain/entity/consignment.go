package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsignmentPlacement mercancía entregada a un vendedor (agente) para que la venda por cuenta del negocio.
// UnitPrice y Currency quedan fijados en la primera consignación del par (código, agente).
type ConsignmentPlacement struct {
	Code           string
	Agent          string
	OutstandingQty decimal.Decimal
	UnitPrice      decimal.Decimal
	Currency       Currency
	PlacedAt       time.Time
	UpdatedAt      time.Time
}

// AgentHolding stock pendiente de un agente para un código.
type AgentHolding struct {
	Code           string
	OutstandingQty decimal.Decimal
	UnitPrice      decimal.Decimal
	Currency       Currency
}
