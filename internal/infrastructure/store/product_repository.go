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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `code, name, unit_cost, cost_currency, stock_qty, created_at, updated_at`

type productRow struct {
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	CostCurrency string          `db:"cost_currency"`
	StockQty     decimal.Decimal `db:"stock_qty"`
	CreatedAt    dbTime          `db:"created_at"`
	UpdatedAt    dbTime          `db:"updated_at"`
}

func (r productRow) entity() *entity.Product {
	return &entity.Product{
		Code:         r.Code,
		Name:         r.Name,
		UnitCost:     r.UnitCost,
		CostCurrency: entity.Currency(r.CostCurrency),
		StockQty:     r.StockQty,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

// ProductRepo implementación del puerto ProductRepository sobre sqlx (usable con db o tx).
type ProductRepo struct {
	q Querier
	d Dialect
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier, d Dialect) *ProductRepo {
	return &ProductRepo{q: q, d: d}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := r.q.Rebind(`
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		p.Code, p.Name, p.UnitCost, string(p.CostCurrency), p.StockQty, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s: %w", p.Code, domain.ErrConflict)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Get obtiene un producto por código; nil si no existe.
func (r *ProductRepo) Get(ctx context.Context, code string) (*entity.Product, error) {
	return r.get(ctx, code, "")
}

// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, code string) (*entity.Product, error) {
	return r.get(ctx, code, r.d.forUpdate())
}

func (r *ProductRepo) get(ctx context.Context, code, lock string) (*entity.Product, error) {
	query := r.q.Rebind(`SELECT ` + productColumns + ` FROM products WHERE code = ?` + lock)
	var row productRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.entity(), nil
}

// Update guarda costo, moneda de costo y stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := r.q.Rebind(`
		UPDATE products SET unit_cost = ?, cost_currency = ?, stock_qty = ?, updated_at = ?
		WHERE code = ?`)
	res, err := r.q.ExecContext(ctx, query, p.UnitCost, string(p.CostCurrency), p.StockQty, p.UpdatedAt.UTC(), p.Code)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOne(res, "producto "+p.Code)
}

// List devuelve todos los productos ordenados por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+productColumns+` FROM products ORDER BY code`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}

// Delete elimina el producto. La FK de consignaciones lo impide si aún quedan filas del código.
func (r *ProductRepo) Delete(ctx context.Context, code string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM products WHERE code = ?`), code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOne(res, "producto "+code)
}

// expectOne falla con ErrNotFound si la sentencia no afectó ninguna fila.
func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
