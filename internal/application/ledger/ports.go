package ledger

import (
	"context"

	"github.com/jhoicas/contabilidad/internal/domain/repository"
)

// TxFunc recibe los repositorios atados a una misma transacción.
type TxFunc func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	consignRepo repository.ConsignmentRepository,
	debtRepo repository.DebtRepository,
) error

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Run serializa todas las escrituras del proceso (un escritor a la vez) y hace Commit solo si fn
// devuelve nil; cualquier otro camino hace Rollback. View abre una transacción de solo lectura que
// puede correr en paralelo con otras lecturas, nunca con una escritura.
type TxRunner interface {
	Run(ctx context.Context, fn TxFunc) error
	View(ctx context.Context, fn TxFunc) error
}
