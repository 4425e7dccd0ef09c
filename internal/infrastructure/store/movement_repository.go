package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `seq, id, created_at, kind, direction, amount, currency, till, operator_id, memo, cogs, cogs_currency`

type movementRow struct {
	Seq          int64               `db:"seq"`
	ID           string              `db:"id"`
	CreatedAt    dbTime              `db:"created_at"`
	Kind         string              `db:"kind"`
	Direction    string              `db:"direction"`
	Amount       decimal.Decimal     `db:"amount"`
	Currency     string              `db:"currency"`
	Till         string              `db:"till"`
	OperatorID   string              `db:"operator_id"`
	Memo         string              `db:"memo"`
	COGS         decimal.NullDecimal `db:"cogs"`
	COGSCurrency sql.NullString      `db:"cogs_currency"`
}

func (r movementRow) entity() *entity.CashMovement {
	return &entity.CashMovement{
		ID:           r.ID,
		Seq:          r.Seq,
		CreatedAt:    r.CreatedAt.Time,
		Kind:         entity.MovementKind(r.Kind),
		Direction:    entity.Direction(r.Direction),
		Amount:       r.Amount,
		Currency:     entity.Currency(r.Currency),
		Till:         entity.Till(r.Till),
		OperatorID:   r.OperatorID,
		Memo:         r.Memo,
		COGS:         r.COGS,
		COGSCurrency: entity.Currency(r.COGSCurrency.String),
	}
}

// MovementRepo libro de caja sobre sqlx (usable con db o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia de movimientos de caja.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y asigna Seq.
func (r *MovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	query := r.q.Rebind(`
		INSERT INTO cash_movements (id, created_at, kind, direction, amount, currency, till, operator_id, memo, cogs, cogs_currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING seq`)
	cogsCurrency := sql.NullString{String: string(m.COGSCurrency), Valid: m.COGS.Valid}
	err := r.q.QueryRowxContext(ctx, query,
		m.ID, m.CreatedAt.UTC(), string(m.Kind), string(m.Direction), m.Amount, string(m.Currency),
		string(m.Till), m.OperatorID, m.Memo, m.COGS, cogsCurrency,
	).Scan(&m.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// ListByTill movimientos de una caja en una moneda, en orden de registro.
func (r *MovementRepo) ListByTill(ctx context.Context, till entity.Till, currency entity.Currency) ([]*entity.CashMovement, error) {
	query := r.q.Rebind(`SELECT ` + movementColumns + ` FROM cash_movements WHERE till = ? AND currency = ? ORDER BY seq`)
	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, string(till), string(currency)); err != nil {
		return nil, fmt.Errorf("list movements by till: %w", err)
	}
	return toMovements(rows), nil
}

// ListSince recorre del más reciente al más antiguo y se detiene en el primero anterior a since.
func (r *MovementRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.CashMovement, error) {
	rows, err := r.q.QueryxContext(ctx, `SELECT `+movementColumns+` FROM cash_movements ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list movements since: %w", err)
	}
	defer rows.Close()
	var out []*entity.CashMovement
	for rows.Next() {
		var row movementRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if row.CreatedAt.Before(since) {
			break
		}
		out = append(out, row.entity())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements since: %w", err)
	}
	return out, nil
}

// ListByKind movimientos de un tipo, en orden de registro.
func (r *MovementRepo) ListByKind(ctx context.Context, kind entity.MovementKind) ([]*entity.CashMovement, error) {
	query := r.q.Rebind(`SELECT ` + movementColumns + ` FROM cash_movements WHERE kind = ? ORDER BY seq`)
	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, string(kind)); err != nil {
		return nil, fmt.Errorf("list movements by kind: %w", err)
	}
	return toMovements(rows), nil
}

func toMovements(rows []movementRow) []*entity.CashMovement {
	out := make([]*entity.CashMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out
}
