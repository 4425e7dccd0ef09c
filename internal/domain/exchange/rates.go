package exchange

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// Rates guarda la única tasa de cambio vigente (1 USD = rate CUP).
// Todas las conversiones usan la tasa actual en el momento de la llamada: no se conserva
// historial, así que un reporte retrospectivo (ej. ganancia) cambia si la tasa cambia.
type Rates struct {
	mu       sync.RWMutex
	usdToCUP decimal.Decimal
}

// NewRates construye el registro con una tasa inicial > 0.
func NewRates(initial decimal.Decimal) (*Rates, error) {
	if !initial.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("tasa inicial %s: %w", initial, domain.ErrInvalidInput)
	}
	return &Rates{usdToCUP: initial}, nil
}

// Set reemplaza la tasa vigente.
func (r *Rates) Set(rate decimal.Decimal) error {
	if !rate.GreaterThan(decimal.Zero) {
		return fmt.Errorf("la tasa debe ser positiva: %w", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	r.usdToCUP = rate
	r.mu.Unlock()
	return nil
}

// Rate devuelve la tasa vigente.
func (r *Rates) Rate() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usdToCUP
}

// Convert convierte amount de from a to con la tasa vigente. CUP y CUP-T son equivalentes 1:1.
func (r *Rates) Convert(amount decimal.Decimal, from, to entity.Currency) (decimal.Decimal, error) {
	return ConvertAt(amount, from, to, r.Rate())
}

// ConvertAt convierte con una tasa fija (reportes que necesitan una sola tasa de principio a fin).
func ConvertAt(amount decimal.Decimal, from, to entity.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if !from.Valid() || !to.Valid() {
		return decimal.Zero, fmt.Errorf("conversión %s->%s: %w", from, to, domain.ErrInvalidInput)
	}
	if from == to || (from.IsPeso() && to.IsPeso()) {
		return amount, nil
	}
	if !rate.GreaterThan(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("tasa %s: %w", rate, domain.ErrInvalidInput)
	}
	if from == entity.CurrencyUSD {
		return entity.RoundAmount(amount.Mul(rate)), nil
	}
	return entity.RoundAmount(amount.Div(rate)), nil
}
