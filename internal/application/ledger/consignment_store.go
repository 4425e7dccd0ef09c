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

// PlacementOutcome estado de la consignación después de Place.
// TermsIgnored indica que el precio o la moneda enviados difieren de los de la primera
// consignación y fueron descartados.
type PlacementOutcome struct {
	OutstandingQty decimal.Decimal
	UnitPrice      decimal.Decimal
	Currency       entity.Currency
	TermsIgnored   bool
}

// SettleOutcome resultado de liquidar unidades consignadas vendidas.
type SettleOutcome struct {
	Liquidated     decimal.Decimal
	Currency       entity.Currency
	OutstandingQty decimal.Decimal
}

// ConsignmentStore stock consignado pendiente por (código, agente).
type ConsignmentStore struct {
	repo repository.ConsignmentRepository
	now  time.Time
}

// NewConsignmentStore construye el store sobre un repositorio (normalmente atado a una tx).
func NewConsignmentStore(repo repository.ConsignmentRepository, now time.Time) *ConsignmentStore {
	return &ConsignmentStore{repo: repo, now: now}
}

// Place crea la consignación del par o suma qty a la existente.
// Los términos (precio y moneda) de la primera consignación son los que valen.
func (s *ConsignmentStore) Place(ctx context.Context, code, agent string, qty, unitPrice decimal.Decimal, currency entity.Currency) (PlacementOutcome, error) {
	if code == "" || agent == "" || !qty.GreaterThan(decimal.Zero) || !unitPrice.GreaterThan(decimal.Zero) || !currency.Valid() {
		return PlacementOutcome{}, fmt.Errorf("consignación %s/%s: %w", code, agent, domain.ErrInvalidInput)
	}
	c, err := s.repo.GetForUpdate(ctx, code, agent)
	if err != nil {
		return PlacementOutcome{}, err
	}
	if c == nil {
		c = &entity.ConsignmentPlacement{
			Code:           code,
			Agent:          agent,
			OutstandingQty: qty,
			UnitPrice:      entity.RoundAmount(unitPrice),
			Currency:       currency,
			PlacedAt:       s.now,
			UpdatedAt:      s.now,
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return PlacementOutcome{}, err
		}
		return PlacementOutcome{OutstandingQty: c.OutstandingQty, UnitPrice: c.UnitPrice, Currency: c.Currency}, nil
	}
	ignored := !c.UnitPrice.Equal(entity.RoundAmount(unitPrice)) || c.Currency != currency
	c.OutstandingQty = c.OutstandingQty.Add(qty)
	c.UpdatedAt = s.now
	if err := s.repo.UpdateQty(ctx, c); err != nil {
		return PlacementOutcome{}, err
	}
	return PlacementOutcome{
		OutstandingQty: c.OutstandingQty,
		UnitPrice:      c.UnitPrice,
		Currency:       c.Currency,
		TermsIgnored:   ignored,
	}, nil
}

// Settle descuenta qty vendidas y devuelve qty * precio de consignación en la moneda de la consignación.
func (s *ConsignmentStore) Settle(ctx context.Context, code, agent string, qty decimal.Decimal) (SettleOutcome, error) {
	if code == "" || agent == "" || !qty.GreaterThan(decimal.Zero) {
		return SettleOutcome{}, fmt.Errorf("liquidación %s/%s: %w", code, agent, domain.ErrInvalidInput)
	}
	c, err := s.repo.GetForUpdate(ctx, code, agent)
	if err != nil {
		return SettleOutcome{}, err
	}
	if c == nil {
		return SettleOutcome{}, fmt.Errorf("consignación %s/%s: %w", code, agent, domain.ErrNotFound)
	}
	if c.OutstandingQty.LessThan(qty) {
		return SettleOutcome{}, fmt.Errorf("%s consignado a %s: disponible %s, solicitado %s: %w",
			code, agent, c.OutstandingQty, qty, domain.ErrInsufficientConsignedStock)
	}
	c.OutstandingQty = c.OutstandingQty.Sub(qty)
	c.UpdatedAt = s.now
	if err := s.repo.UpdateQty(ctx, c); err != nil {
		return SettleOutcome{}, err
	}
	return SettleOutcome{
		Liquidated:     entity.RoundAmount(qty.Mul(c.UnitPrice)),
		Currency:       c.Currency,
		OutstandingQty: c.OutstandingQty,
	}, nil
}

// Lookup devuelve la consignación del par o ErrNotFound.
func (s *ConsignmentStore) Lookup(ctx context.Context, code, agent string) (*entity.ConsignmentPlacement, error) {
	c, err := s.repo.Get(ctx, code, agent)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("consignación %s/%s: %w", code, agent, domain.ErrNotFound)
	}
	return c, nil
}

// ByAgent devuelve el stock pendiente (> 0) de un agente.
func (s *ConsignmentStore) ByAgent(ctx context.Context, agent string) ([]entity.AgentHolding, error) {
	list, err := s.repo.ListByAgent(ctx, agent)
	if err != nil {
		return nil, err
	}
	var out []entity.AgentHolding
	for _, c := range list {
		if !c.OutstandingQty.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, entity.AgentHolding{
			Code:           c.Code,
			OutstandingQty: c.OutstandingQty,
			UnitPrice:      c.UnitPrice,
			Currency:       c.Currency,
		})
	}
	return out, nil
}

// Outstanding suma el stock consignado pendiente de un código entre todos los agentes.
func (s *ConsignmentStore) Outstanding(ctx context.Context, code string) (decimal.Decimal, error) {
	list, err := s.repo.ListByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range list {
		total = total.Add(c.OutstandingQty)
	}
	return total, nil
}

// Purge elimina las consignaciones agotadas de un código (antes de borrar el producto).
func (s *ConsignmentStore) Purge(ctx context.Context, code string) error {
	return s.repo.DeleteByCode(ctx, code)
}
