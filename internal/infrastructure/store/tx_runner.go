package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/contabilidad/internal/application/ledger"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción y les pasa repositorios atados a ella.
// Run toma el candado de escritura del proceso: nunca hay dos operaciones de escritura intercaladas.
type TxRunner struct {
	db      *sqlx.DB
	dialect Dialect
	mu      sync.RWMutex
}

// NewTxRunner construye el runner sobre la conexión.
func NewTxRunner(db *sqlx.DB, dialect Dialect) *TxRunner {
	return &TxRunner{db: db, dialect: dialect}
}

// Run inicia una transacción de escritura, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn ledger.TxFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx, r.txOptions(false), fn)
}

// View inicia una transacción de lectura. Puede correr en paralelo con otras lecturas.
func (r *TxRunner) View(ctx context.Context, fn ledger.TxFunc) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.run(ctx, r.txOptions(true), fn)
}

func (r *TxRunner) run(ctx context.Context, opts *sql.TxOptions, fn ledger.TxFunc) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	movRepo := NewMovementRepository(tx)
	productRepo := NewProductRepository(tx, r.dialect)
	consignRepo := NewConsignmentRepository(tx, r.dialect)
	debtRepo := NewDebtRepository(tx, r.dialect)

	if err := fn(movRepo, productRepo, consignRepo, debtRepo); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txOptions: SQLite usa las opciones por defecto (una sola conexión, transacción diferida).
func (r *TxRunner) txOptions(readOnly bool) *sql.TxOptions {
	if r.dialect != Postgres {
		return nil
	}
	if readOnly {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}
