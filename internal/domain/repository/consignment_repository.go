package repository

import (
	"context"

	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// ConsignmentRepository define el puerto de persistencia de consignaciones por (código, agente).
// Get y GetForUpdate devuelven (nil, nil) si el par no existe.
type ConsignmentRepository interface {
	Get(ctx context.Context, code, agent string) (*entity.ConsignmentPlacement, error)
	GetForUpdate(ctx context.Context, code, agent string) (*entity.ConsignmentPlacement, error)
	Create(ctx context.Context, placement *entity.ConsignmentPlacement) error
	// UpdateQty persiste OutstandingQty y UpdatedAt; precio y moneda son inmutables.
	UpdateQty(ctx context.Context, placement *entity.ConsignmentPlacement) error
	ListByAgent(ctx context.Context, agent string) ([]*entity.ConsignmentPlacement, error)
	ListByCode(ctx context.Context, code string) ([]*entity.ConsignmentPlacement, error)
	DeleteByCode(ctx context.Context, code string) error
}
