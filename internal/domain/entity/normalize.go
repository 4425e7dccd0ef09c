package entity

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AmountScale decimales con los que se guardan montos, cantidades y costos.
const AmountScale int32 = 6

// NormalizeCode normaliza un código de producto (espacios y mayúsculas).
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// NormalizeActor normaliza el identificador de un proveedor o agente.
func NormalizeActor(actor string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(actor))
}

// RoundAmount redondea a AmountScale decimales.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}
