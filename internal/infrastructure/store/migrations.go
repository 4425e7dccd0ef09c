package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS cash_movements (
		seq           BIGSERIAL PRIMARY KEY,
		id            UUID NOT NULL UNIQUE,
		created_at    TIMESTAMPTZ NOT NULL,
		kind          VARCHAR(32) NOT NULL,
		direction     VARCHAR(8) NOT NULL CHECK (direction IN ('credit', 'debit')),
		amount        NUMERIC(20,6) NOT NULL CHECK (amount > 0),
		currency      VARCHAR(8) NOT NULL,
		till          VARCHAR(8) NOT NULL,
		operator_id   TEXT NOT NULL,
		memo          TEXT NOT NULL DEFAULT '',
		cogs          NUMERIC(20,6),
		cogs_currency VARCHAR(8)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_movements_till ON cash_movements (till, currency)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_movements_kind ON cash_movements (kind)`,
	`CREATE TABLE IF NOT EXISTS products (
		code          TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		unit_cost     NUMERIC(20,6) NOT NULL,
		cost_currency VARCHAR(8) NOT NULL,
		stock_qty     NUMERIC(20,6) NOT NULL CHECK (stock_qty >= 0),
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS consignments (
		code            TEXT NOT NULL REFERENCES products (code) ON DELETE RESTRICT,
		agent           TEXT NOT NULL,
		outstanding_qty NUMERIC(20,6) NOT NULL CHECK (outstanding_qty >= 0),
		unit_price      NUMERIC(20,6) NOT NULL,
		currency        VARCHAR(8) NOT NULL,
		placed_at       TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (code, agent)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_consignments_agent ON consignments (agent)`,
	`CREATE TABLE IF NOT EXISTS debts (
		actor          TEXT NOT NULL,
		currency       VARCHAR(8) NOT NULL,
		direction      VARCHAR(16) NOT NULL,
		pending_amount NUMERIC(20,6) NOT NULL CHECK (pending_amount >= 0),
		updated_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (actor, currency, direction)
	)`,
}

// Los montos se guardan como TEXT para que SQLite nunca los convierta a coma flotante.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS cash_movements (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		id            TEXT NOT NULL UNIQUE,
		created_at    TEXT NOT NULL,
		kind          TEXT NOT NULL,
		direction     TEXT NOT NULL CHECK (direction IN ('credit', 'debit')),
		amount        TEXT NOT NULL,
		currency      TEXT NOT NULL,
		till          TEXT NOT NULL,
		operator_id   TEXT NOT NULL,
		memo          TEXT NOT NULL DEFAULT '',
		cogs          TEXT,
		cogs_currency TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_movements_till ON cash_movements (till, currency)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_movements_kind ON cash_movements (kind)`,
	`CREATE TABLE IF NOT EXISTS products (
		code          TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		unit_cost     TEXT NOT NULL,
		cost_currency TEXT NOT NULL,
		stock_qty     TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS consignments (
		code            TEXT NOT NULL REFERENCES products (code) ON DELETE RESTRICT,
		agent           TEXT NOT NULL,
		outstanding_qty TEXT NOT NULL,
		unit_price      TEXT NOT NULL,
		currency        TEXT NOT NULL,
		placed_at       TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		PRIMARY KEY (code, agent)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_consignments_agent ON consignments (agent)`,
	`CREATE TABLE IF NOT EXISTS debts (
		actor          TEXT NOT NULL,
		currency       TEXT NOT NULL,
		direction      TEXT NOT NULL,
		pending_amount TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		PRIMARY KEY (actor, currency, direction)
	)`,
}

// Migrate crea el esquema del dialecto indicado. Es idempotente.
func Migrate(ctx context.Context, db *sqlx.DB, d Dialect) error {
	schema := sqliteSchema
	if d == Postgres {
		schema = postgresSchema
	}
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i+1, err)
		}
	}
	return nil
}
