package repository

import (
	"context"

	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Get y GetForUpdate devuelven (nil, nil) si el código no existe.
type ProductRepository interface {
	Get(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE donde aplique).
	GetForUpdate(ctx context.Context, code string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	// Update persiste UnitCost, CostCurrency y StockQty.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, code string) error
}
