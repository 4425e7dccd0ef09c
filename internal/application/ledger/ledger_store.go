package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
)

// Entry datos de un asiento nuevo en el libro de caja.
// Direction es obligatorio solo para traspasos; en los demás tipos se deduce del tipo.
type Entry struct {
	Kind         entity.MovementKind
	Direction    entity.Direction
	Amount       decimal.Decimal
	Currency     entity.Currency
	Till         entity.Till
	OperatorID   string
	Memo         string
	COGS         decimal.NullDecimal
	COGSCurrency entity.Currency
}

// LedgerStore libro de movimientos de caja: solo agrega asientos y deriva saldos sumándolos.
type LedgerStore struct {
	repo repository.MovementRepository
	now  time.Time
}

// NewLedgerStore construye el store sobre un repositorio (normalmente atado a una tx).
func NewLedgerStore(repo repository.MovementRepository, now time.Time) *LedgerStore {
	return &LedgerStore{repo: repo, now: now}
}

// Append valida y agrega un asiento inmutable. Devuelve el ID generado.
func (s *LedgerStore) Append(ctx context.Context, e Entry) (string, error) {
	if !e.Kind.Valid() || !e.Currency.Valid() || !e.Till.Valid() {
		return "", fmt.Errorf("asiento %s %s/%s: %w", e.Kind, e.Till, e.Currency, domain.ErrInvalidInput)
	}
	if !e.Amount.GreaterThan(decimal.Zero) {
		return "", fmt.Errorf("monto de asiento %s: %w", e.Amount, domain.ErrInvalidInput)
	}
	implied, ok := entity.DirectionFor(e.Kind)
	switch {
	case ok && e.Direction == "":
		e.Direction = implied
	case ok && e.Direction != implied:
		return "", fmt.Errorf("sentido %s no corresponde a %s: %w", e.Direction, e.Kind, domain.ErrInvalidInput)
	case !ok && e.Direction != entity.DirectionCredit && e.Direction != entity.DirectionDebit:
		return "", fmt.Errorf("traspaso sin sentido: %w", domain.ErrInvalidInput)
	}
	m := &entity.CashMovement{
		ID:           uuid.New().String(),
		CreatedAt:    s.now,
		Kind:         e.Kind,
		Direction:    e.Direction,
		Amount:       entity.RoundAmount(e.Amount),
		Currency:     e.Currency,
		Till:         e.Till,
		OperatorID:   e.OperatorID,
		Memo:         e.Memo,
		COGS:         e.COGS,
		COGSCurrency: e.COGSCurrency,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

// Balance recalcula el saldo de una caja en una moneda sumando los montos con signo.
// Un par sin movimientos tiene saldo 0.
func (s *LedgerStore) Balance(ctx context.Context, till entity.Till, currency entity.Currency) (decimal.Decimal, error) {
	movs, err := s.repo.ListByTill(ctx, till, currency)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range movs {
		total = total.Add(m.Signed())
	}
	return total, nil
}

// History devuelve los movimientos desde since, del más reciente al más antiguo.
func (s *LedgerStore) History(ctx context.Context, since time.Time) ([]*entity.CashMovement, error) {
	return s.repo.ListSince(ctx, since)
}

// Sales devuelve todos los asientos de venta (para el reporte de ganancia).
func (s *LedgerStore) Sales(ctx context.Context) ([]*entity.CashMovement, error) {
	return s.repo.ListByKind(ctx, entity.MovementSale)
}

// requireFunds falla con ErrInsufficientFunds si el saldo no alcanza para amount.
func (s *LedgerStore) requireFunds(ctx context.Context, till entity.Till, currency entity.Currency, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.Balance(ctx, till, currency)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.LessThan(amount) {
		return balance, fmt.Errorf("caja %s disponible %s %s, solicitado %s: %w",
			till, balance.StringFixed(2), currency, amount.StringFixed(2), domain.ErrInsufficientFunds)
	}
	return balance, nil
}
