package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"validación envuelta", fmt.Errorf("monto: %w", ErrInvalidInput), KindValidation},
		{"fondos", fmt.Errorf("CFG/USD: %w", ErrInsufficientFunds), KindInsufficientFunds},
		{"stock", ErrInsufficientStock, KindInsufficientStock},
		{"stock consignado", fmt.Errorf("JUAN: %w", ErrInsufficientConsignedStock), KindInsufficientConsignedStock},
		{"no encontrado", fmt.Errorf("producto X: %w", ErrNotFound), KindNotFound},
		{"conflicto", ErrConflict, KindConflict},
		{"almacenamiento", fmt.Errorf("income: %w", ErrStorage), KindStorage},
		{"desconocido", errors.New("driver: connection reset"), KindStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(fmt.Errorf("x: %w", ErrInsufficientFunds)))
	assert.True(t, IsDomain(ErrConflict))
	assert.False(t, IsDomain(nil))
	assert.False(t, IsDomain(ErrStorage))
	assert.False(t, IsDomain(errors.New("sql: database is closed")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "VALIDATION", KindValidation.String())
	assert.Equal(t, "INSUFFICIENT_CONSIGNED_STOCK", KindInsufficientConsignedStock.String())
	assert.Equal(t, "INTERNAL", KindStorage.String())
	assert.Equal(t, "INTERNAL", ErrorKind(99).String())
}
