package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Querier permite usar los repositorios con *sqlx.DB o *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
}

// Dialect motor de base de datos detrás de sqlx.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DialectOf deduce el dialecto a partir del driver registrado en sqlx.
func DialectOf(db *sqlx.DB) (Dialect, error) {
	switch db.DriverName() {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return "", fmt.Errorf("driver no soportado: %q", db.DriverName())
}

// forUpdate sufijo de bloqueo de filas. SQLite ya serializa escrituras a nivel de archivo.
func (d Dialect) forUpdate() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

// timeLayouts formatos de fecha que puede devolver SQLite (texto) además de time.Time nativo.
// El driver de SQLite guarda time.Time con su String() por defecto.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// dbTime escanea columnas de fecha de ambos dialectos a UTC.
type dbTime struct {
	time.Time
}

// Scan implementa sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("fecha: tipo no soportado %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("fecha con formato desconocido: %q", s)
}
