package repository

import (
	"context"
	"time"

	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de caja.
// Solo admite inserciones: no existen Update ni Delete (las correcciones son asientos nuevos).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	// ListByTill devuelve todos los movimientos de una caja en una moneda (para recalcular el saldo).
	ListByTill(ctx context.Context, till entity.Till, currency entity.Currency) ([]*entity.CashMovement, error)
	// ListSince devuelve los movimientos con CreatedAt >= since, del más reciente al más antiguo.
	ListSince(ctx context.Context, since time.Time) ([]*entity.CashMovement, error)
	ListByKind(ctx context.Context, kind entity.MovementKind) ([]*entity.CashMovement, error)
}
