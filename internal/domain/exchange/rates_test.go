package exchange

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

func TestConvert(t *testing.T) {
	r, err := NewRates(decimal.NewFromInt(400))
	require.NoError(t, err)

	cases := []struct {
		amount   string
		from, to entity.Currency
		want     string
	}{
		{"10", entity.CurrencyUSD, entity.CurrencyUSD, "10"},
		{"10", entity.CurrencyUSD, entity.CurrencyCUP, "4000"},
		{"10", entity.CurrencyUSD, entity.CurrencyCUPT, "4000"},
		{"800", entity.CurrencyCUP, entity.CurrencyUSD, "2"},
		{"800", entity.CurrencyCUPT, entity.CurrencyUSD, "2"},
		{"123.45", entity.CurrencyCUP, entity.CurrencyCUPT, "123.45"},
		{"123.45", entity.CurrencyCUPT, entity.CurrencyCUP, "123.45"},
		{"1", entity.CurrencyCUP, entity.CurrencyUSD, "0.0025"},
	}
	for _, tc := range cases {
		got, err := r.Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%s %s->%s: obtenido %s", tc.amount, tc.from, tc.to, got)
	}
}

func TestConvertUsaTasaActual(t *testing.T) {
	r, err := NewRates(decimal.NewFromInt(100))
	require.NoError(t, err)

	before, _ := r.Convert(decimal.NewFromInt(1), entity.CurrencyUSD, entity.CurrencyCUP)
	require.NoError(t, r.Set(decimal.NewFromInt(250)))
	after, _ := r.Convert(decimal.NewFromInt(1), entity.CurrencyUSD, entity.CurrencyCUP)

	assert.Equal(t, "100", before.String())
	assert.Equal(t, "250", after.String())
}

func TestSetRechazaTasaNoPositiva(t *testing.T) {
	r, err := NewRates(decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.ErrorIs(t, r.Set(decimal.Zero), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.Set(decimal.NewFromInt(-3)), domain.ErrInvalidInput)
	assert.Equal(t, "100", r.Rate().String())

	_, err = NewRates(decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConvertMonedaInvalida(t *testing.T) {
	r, _ := NewRates(decimal.NewFromInt(100))
	_, err := r.Convert(decimal.NewFromInt(1), entity.Currency("EUR"), entity.CurrencyUSD)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRatesConcurrente(t *testing.T) {
	r, _ := NewRates(decimal.NewFromInt(100))
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			_ = r.Set(decimal.NewFromInt(n))
		}(int64(i))
		go func() {
			defer wg.Done()
			_, _ = r.Convert(decimal.NewFromInt(1), entity.CurrencyUSD, entity.CurrencyCUP)
		}()
	}
	wg.Wait()
	assert.True(t, r.Rate().GreaterThan(decimal.Zero))
}
