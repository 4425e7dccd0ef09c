package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
)

// DefaultDebtEpsilon saldo mínimo para que una deuda se considere pendiente en las consultas.
var DefaultDebtEpsilon = decimal.New(1, -entity.AmountScale)

// DebtFilter filtro de consulta de deudas. Direction vacío = ambos sentidos;
// MinPending cero = DefaultDebtEpsilon.
type DebtFilter struct {
	Direction  entity.DebtDirection
	MinPending decimal.Decimal
}

// DecreaseOutcome resultado de reducir una deuda.
// Excess es la parte del pago que superó el saldo y se descartó (no queda como crédito a favor).
type DecreaseOutcome struct {
	Pending decimal.Decimal
	Applied decimal.Decimal
	Excess  decimal.Decimal
}

// DebtStore saldos por pagar y por cobrar por (actor, moneda, sentido), nunca negativos.
type DebtStore struct {
	repo repository.DebtRepository
	now  time.Time
}

// NewDebtStore construye el store sobre un repositorio (normalmente atado a una tx).
func NewDebtStore(repo repository.DebtRepository, now time.Time) *DebtStore {
	return &DebtStore{repo: repo, now: now}
}

func validDebtKey(actor string, amount decimal.Decimal, currency entity.Currency, direction entity.DebtDirection) bool {
	return actor != "" && amount.GreaterThan(decimal.Zero) && currency.Valid() && direction.Valid()
}

// Increase suma amount a la deuda, creándola si no existe. Devuelve el nuevo saldo.
func (s *DebtStore) Increase(ctx context.Context, actor string, amount decimal.Decimal, currency entity.Currency, direction entity.DebtDirection) (decimal.Decimal, error) {
	if !validDebtKey(actor, amount, currency, direction) {
		return decimal.Zero, fmt.Errorf("deuda %s %s %s: %w", direction, actor, currency, domain.ErrInvalidInput)
	}
	amount = entity.RoundAmount(amount)
	d, err := s.repo.GetForUpdate(ctx, actor, currency, direction)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		d = &entity.Debt{Actor: actor, Currency: currency, Direction: direction, PendingAmount: amount, UpdatedAt: s.now}
		if err := s.repo.Create(ctx, d); err != nil {
			return decimal.Zero, err
		}
		return d.PendingAmount, nil
	}
	d.PendingAmount = d.PendingAmount.Add(amount)
	d.UpdatedAt = s.now
	if err := s.repo.UpdateAmount(ctx, d); err != nil {
		return decimal.Zero, err
	}
	return d.PendingAmount, nil
}

// Decrease resta amount de la deuda con piso en cero. Falla con ErrNotFound si la deuda no existe.
func (s *DebtStore) Decrease(ctx context.Context, actor string, amount decimal.Decimal, currency entity.Currency, direction entity.DebtDirection) (DecreaseOutcome, error) {
	if !validDebtKey(actor, amount, currency, direction) {
		return DecreaseOutcome{}, fmt.Errorf("deuda %s %s %s: %w", direction, actor, currency, domain.ErrInvalidInput)
	}
	amount = entity.RoundAmount(amount)
	d, err := s.repo.GetForUpdate(ctx, actor, currency, direction)
	if err != nil {
		return DecreaseOutcome{}, err
	}
	if d == nil {
		return DecreaseOutcome{}, fmt.Errorf("deuda %s %s %s: %w", direction, actor, currency, domain.ErrNotFound)
	}
	out := DecreaseOutcome{Applied: amount, Excess: decimal.Zero}
	if amount.GreaterThan(d.PendingAmount) {
		out.Applied = d.PendingAmount
		out.Excess = amount.Sub(d.PendingAmount)
	}
	d.PendingAmount = d.PendingAmount.Sub(out.Applied)
	d.UpdatedAt = s.now
	if err := s.repo.UpdateAmount(ctx, d); err != nil {
		return DecreaseOutcome{}, err
	}
	out.Pending = d.PendingAmount
	return out, nil
}

// Get devuelve la deuda de la clave o ErrNotFound.
func (s *DebtStore) Get(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection) (*entity.Debt, error) {
	d, err := s.repo.Get(ctx, actor, currency, direction)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("deuda %s %s %s: %w", direction, actor, currency, domain.ErrNotFound)
	}
	return d, nil
}

// Query devuelve las deudas con saldo >= MinPending, filtradas por sentido.
func (s *DebtStore) Query(ctx context.Context, f DebtFilter) ([]*entity.Debt, error) {
	if f.Direction != "" && !f.Direction.Valid() {
		return nil, fmt.Errorf("sentido %q: %w", f.Direction, domain.ErrInvalidInput)
	}
	floor := f.MinPending
	if !floor.GreaterThan(decimal.Zero) {
		floor = DefaultDebtEpsilon
	}
	list, err := s.repo.List(ctx, f.Direction)
	if err != nil {
		return nil, err
	}
	var out []*entity.Debt
	for _, d := range list {
		if d.PendingAmount.GreaterThanOrEqual(floor) {
			out = append(out, d)
		}
	}
	return out, nil
}
