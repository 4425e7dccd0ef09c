package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DebtDirection sentido de una deuda.
type DebtDirection string

const (
	DebtPayable    DebtDirection = "payable"    // el negocio le debe a un proveedor
	DebtReceivable DebtDirection = "receivable" // un agente le debe al negocio
)

// Valid indica si d es un sentido conocido.
func (d DebtDirection) Valid() bool {
	return d == DebtPayable || d == DebtReceivable
}

// ParseDebtDirection acepta "payable"/"receivable" (o vacío, que significa sin filtro).
func ParseDebtDirection(s string) (DebtDirection, error) {
	d := DebtDirection(strings.ToLower(strings.TrimSpace(s)))
	if d == "" || d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("tipo de deuda no válido: %q", s)
}

// Debt saldo pendiente por (actor, moneda, sentido). Nunca es negativo.
type Debt struct {
	Actor         string
	Currency      Currency
	Direction     DebtDirection
	PendingAmount decimal.Decimal
	UpdatedAt     time.Time
}
