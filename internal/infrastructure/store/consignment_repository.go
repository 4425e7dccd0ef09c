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

var _ repository.ConsignmentRepository = (*ConsignmentRepo)(nil)

const consignmentColumns = `code, agent, outstanding_qty, unit_price, currency, placed_at, updated_at`

type consignmentRow struct {
	Code           string          `db:"code"`
	Agent          string          `db:"agent"`
	OutstandingQty decimal.Decimal `db:"outstanding_qty"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	Currency       string          `db:"currency"`
	PlacedAt       dbTime          `db:"placed_at"`
	UpdatedAt      dbTime          `db:"updated_at"`
}

func (r consignmentRow) entity() *entity.ConsignmentPlacement {
	return &entity.ConsignmentPlacement{
		Code:           r.Code,
		Agent:          r.Agent,
		OutstandingQty: r.OutstandingQty,
		UnitPrice:      r.UnitPrice,
		Currency:       entity.Currency(r.Currency),
		PlacedAt:       r.PlacedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

// ConsignmentRepo consignaciones por (código, agente) sobre sqlx.
type ConsignmentRepo struct {
	q Querier
	d Dialect
}

// NewConsignmentRepository construye el adaptador de persistencia de consignaciones.
func NewConsignmentRepository(q Querier, d Dialect) *ConsignmentRepo {
	return &ConsignmentRepo{q: q, d: d}
}

func (r *ConsignmentRepo) Get(ctx context.Context, code, agent string) (*entity.ConsignmentPlacement, error) {
	return r.get(ctx, code, agent, "")
}

func (r *ConsignmentRepo) GetForUpdate(ctx context.Context, code, agent string) (*entity.ConsignmentPlacement, error) {
	return r.get(ctx, code, agent, r.d.forUpdate())
}

func (r *ConsignmentRepo) get(ctx context.Context, code, agent, lock string) (*entity.ConsignmentPlacement, error) {
	query := r.q.Rebind(`SELECT ` + consignmentColumns + ` FROM consignments WHERE code = ? AND agent = ?` + lock)
	var row consignmentRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, code, agent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consignment: %w", err)
	}
	return row.entity(), nil
}

func (r *ConsignmentRepo) Create(ctx context.Context, c *entity.ConsignmentPlacement) error {
	query := r.q.Rebind(`
		INSERT INTO consignments (` + consignmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		c.Code, c.Agent, c.OutstandingQty, c.UnitPrice, string(c.Currency), c.PlacedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("consignación %s/%s: %w", c.Code, c.Agent, domain.ErrConflict)
		}
		return fmt.Errorf("insert consignment: %w", err)
	}
	return nil
}

// UpdateQty guarda solo la cantidad pendiente; precio y moneda no cambian después de creada.
func (r *ConsignmentRepo) UpdateQty(ctx context.Context, c *entity.ConsignmentPlacement) error {
	query := r.q.Rebind(`UPDATE consignments SET outstanding_qty = ?, updated_at = ? WHERE code = ? AND agent = ?`)
	res, err := r.q.ExecContext(ctx, query, c.OutstandingQty, c.UpdatedAt.UTC(), c.Code, c.Agent)
	if err != nil {
		return fmt.Errorf("update consignment: %w", err)
	}
	return expectOne(res, "consignación "+c.Code+"/"+c.Agent)
}

func (r *ConsignmentRepo) ListByAgent(ctx context.Context, agent string) ([]*entity.ConsignmentPlacement, error) {
	return r.list(ctx, `agent = ?`, agent)
}

func (r *ConsignmentRepo) ListByCode(ctx context.Context, code string) ([]*entity.ConsignmentPlacement, error) {
	return r.list(ctx, `code = ?`, code)
}

func (r *ConsignmentRepo) list(ctx context.Context, where string, arg string) ([]*entity.ConsignmentPlacement, error) {
	query := r.q.Rebind(`SELECT ` + consignmentColumns + ` FROM consignments WHERE ` + where + ` ORDER BY code, agent`)
	var rows []consignmentRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("list consignments: %w", err)
	}
	out := make([]*entity.ConsignmentPlacement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}

// DeleteByCode borra todas las consignaciones de un código (sin fallar si no hay ninguna).
func (r *ConsignmentRepo) DeleteByCode(ctx context.Context, code string) error {
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM consignments WHERE code = ?`), code); err != nil {
		return fmt.Errorf("delete consignments: %w", err)
	}
	return nil
}
