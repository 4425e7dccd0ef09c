package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/contabilidad/internal/infrastructure/postgres"
	"github.com/jhoicas/contabilidad/internal/infrastructure/sqlite"
	"github.com/jhoicas/contabilidad/pkg/config"
)

// Open abre la base indicada por cfg.Driver y aplica el esquema. closeFn libera todo lo abierto.
func Open(ctx context.Context, cfg config.DBConfig) (db *sqlx.DB, d Dialect, closeFn func(), err error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, "", nil, err
		}
		db = postgres.OpenDB(pool)
		d = Postgres
		closeFn = func() {
			_ = db.Close()
			pool.Close()
		}
	default:
		if db, err = sqlite.Open(ctx, cfg.SQLitePath); err != nil {
			return nil, "", nil, err
		}
		d = SQLite
		closeFn = func() { _ = db.Close() }
	}
	if err := Migrate(ctx, db, d); err != nil {
		closeFn()
		return nil, "", nil, err
	}
	return db, d, closeFn, nil
}
