package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/inventory"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
)

// PurchaseOutcome estado del producto después de una entrada.
type PurchaseOutcome struct {
	NewStock     decimal.Decimal
	NewUnitCost  decimal.Decimal
	CostCurrency entity.Currency
}

// InventoryStore stock general por SKU con costo promedio ponderado.
type InventoryStore struct {
	repo repository.ProductRepository
	now  time.Time
}

// NewInventoryStore construye el store sobre un repositorio (normalmente atado a una tx).
func NewInventoryStore(repo repository.ProductRepository, now time.Time) *InventoryStore {
	return &InventoryStore{repo: repo, now: now}
}

// Purchase registra una entrada: crea el producto si no existe o recalcula el costo promedio y suma qty.
// unitCost debe estar expresado en la moneda de costo del producto (si ya existe).
func (s *InventoryStore) Purchase(ctx context.Context, code, name string, qty, unitCost decimal.Decimal, currency entity.Currency) (PurchaseOutcome, error) {
	if code == "" || !qty.GreaterThan(decimal.Zero) || !unitCost.GreaterThan(decimal.Zero) || !currency.Valid() {
		return PurchaseOutcome{}, fmt.Errorf("entrada %s: %w", code, domain.ErrInvalidInput)
	}
	p, err := s.repo.GetForUpdate(ctx, code)
	if err != nil {
		return PurchaseOutcome{}, err
	}
	if p == nil {
		if name == "" {
			name = code
		}
		p = &entity.Product{
			Code:         code,
			Name:         name,
			UnitCost:     entity.RoundAmount(unitCost),
			CostCurrency: currency,
			StockQty:     qty,
			CreatedAt:    s.now,
			UpdatedAt:    s.now,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return PurchaseOutcome{}, err
		}
		return PurchaseOutcome{NewStock: p.StockQty, NewUnitCost: p.UnitCost, CostCurrency: p.CostCurrency}, nil
	}
	if p.CostCurrency != currency {
		return PurchaseOutcome{}, fmt.Errorf("costo de %s está en %s, no en %s: %w", code, p.CostCurrency, currency, domain.ErrConflict)
	}
	p.UnitCost = entity.RoundAmount(inventory.WeightedAverageCost(p.StockQty, p.UnitCost, qty, unitCost))
	p.StockQty = p.StockQty.Add(qty)
	p.UpdatedAt = s.now
	if err := s.repo.Update(ctx, p); err != nil {
		return PurchaseOutcome{}, err
	}
	return PurchaseOutcome{NewStock: p.StockQty, NewUnitCost: p.UnitCost, CostCurrency: p.CostCurrency}, nil
}

// CostCurrency moneda en la que se lleva el costo promedio de code, bloqueando la fila.
// found es false si el producto todavía no existe.
func (s *InventoryStore) CostCurrency(ctx context.Context, code string) (currency entity.Currency, found bool, err error) {
	p, err := s.repo.GetForUpdate(ctx, code)
	if err != nil || p == nil {
		return "", false, err
	}
	return p.CostCurrency, true, nil
}

// Reserve descuenta qty del stock general. Falla con ErrInsufficientStock sin modificar nada
// si el stock no alcanza. Devuelve el producto ya actualizado (StockQty es el nuevo stock).
func (s *InventoryStore) Reserve(ctx context.Context, code string, qty decimal.Decimal) (*entity.Product, error) {
	if code == "" || !qty.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("reserva %s: %w", code, domain.ErrInvalidInput)
	}
	p, err := s.repo.GetForUpdate(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", code, domain.ErrNotFound)
	}
	if p.StockQty.LessThan(qty) {
		return nil, fmt.Errorf("%s disponible %s, solicitado %s: %w", code, p.StockQty, qty, domain.ErrInsufficientStock)
	}
	p.StockQty = p.StockQty.Sub(qty)
	p.UpdatedAt = s.now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get devuelve el producto o ErrNotFound.
func (s *InventoryStore) Get(ctx context.Context, code string) (*entity.Product, error) {
	p, err := s.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", code, domain.ErrNotFound)
	}
	return p, nil
}

// List devuelve todos los productos ordenados por código.
func (s *InventoryStore) List(ctx context.Context) ([]*entity.Product, error) {
	return s.repo.List(ctx)
}

// Delete elimina el producto; el llamador verifica antes que no haya consignaciones pendientes.
func (s *InventoryStore) Delete(ctx context.Context, code string) error {
	p, err := s.repo.GetForUpdate(ctx, code)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", code, domain.ErrNotFound)
	}
	return s.repo.Delete(ctx, code)
}
