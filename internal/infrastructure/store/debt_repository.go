package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
)

var _ repository.DebtRepository = (*DebtRepo)(nil)

const debtColumns = `actor, currency, direction, pending_amount, updated_at`

type debtRow struct {
	Actor         string          `db:"actor"`
	Currency      string          `db:"currency"`
	Direction     string          `db:"direction"`
	PendingAmount decimal.Decimal `db:"pending_amount"`
	UpdatedAt     dbTime          `db:"updated_at"`
}

func (r debtRow) entity() *entity.Debt {
	return &entity.Debt{
		Actor:         r.Actor,
		Currency:      entity.Currency(r.Currency),
		Direction:     entity.DebtDirection(r.Direction),
		PendingAmount: r.PendingAmount,
		UpdatedAt:     r.UpdatedAt.Time,
	}
}

// DebtRepo deudas por (actor, moneda, sentido) sobre sqlx.
type DebtRepo struct {
	q Querier
	d Dialect
}

// NewDebtRepository construye el adaptador de persistencia de deudas.
func NewDebtRepository(q Querier, d Dialect) *DebtRepo {
	return &DebtRepo{q: q, d: d}
}

func (r *DebtRepo) Get(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection) (*entity.Debt, error) {
	return r.get(ctx, actor, currency, direction, "")
}

func (r *DebtRepo) GetForUpdate(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection) (*entity.Debt, error) {
	return r.get(ctx, actor, currency, direction, r.d.forUpdate())
}

func (r *DebtRepo) get(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection, lock string) (*entity.Debt, error) {
	query := r.q.Rebind(`SELECT ` + debtColumns + ` FROM debts WHERE actor = ? AND currency = ? AND direction = ?` + lock)
	var row debtRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, actor, string(currency), string(direction)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get debt: %w", err)
	}
	return row.entity(), nil
}

func (r *DebtRepo) Create(ctx context.Context, d *entity.Debt) error {
	query := r.q.Rebind(`INSERT INTO debts (` + debtColumns + `) VALUES (?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query, d.Actor, string(d.Currency), string(d.Direction), d.PendingAmount, d.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("deuda %s %s %s: %w", d.Direction, d.Actor, d.Currency, domain.ErrConflict)
		}
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

func (r *DebtRepo) UpdateAmount(ctx context.Context, d *entity.Debt) error {
	query := r.q.Rebind(`UPDATE debts SET pending_amount = ?, updated_at = ? WHERE actor = ? AND currency = ? AND direction = ?`)
	res, err := r.q.ExecContext(ctx, query, d.PendingAmount, d.UpdatedAt.UTC(), d.Actor, string(d.Currency), string(d.Direction))
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return expectOne(res, fmt.Sprintf("deuda %s %s %s", d.Direction, d.Actor, d.Currency))
}

// List devuelve las deudas de un sentido (todas si direction es vacío).
func (r *DebtRepo) List(ctx context.Context, direction entity.DebtDirection) ([]*entity.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts`
	var args []any
	if direction != "" {
		query += ` WHERE direction = ?`
		args = append(args, string(direction))
	}
	query += ` ORDER BY direction, actor, currency`
	var rows []debtRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	out := make([]*entity.Debt, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}
