package repository

import (
	"context"

	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// DebtRepository define el puerto de persistencia de deudas por (actor, moneda, sentido).
// Get y GetForUpdate devuelven (nil, nil) si la clave no existe.
type DebtRepository interface {
	Get(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection) (*entity.Debt, error)
	GetForUpdate(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection) (*entity.Debt, error)
	Create(ctx context.Context, debt *entity.Debt) error
	UpdateAmount(ctx context.Context, debt *entity.Debt) error
	// List devuelve las deudas de un sentido; direction vacío = todas.
	List(ctx context.Context, direction entity.DebtDirection) ([]*entity.Debt, error)
}
