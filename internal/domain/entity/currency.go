package entity

import (
	"fmt"
	"strings"
)

// Currency moneda admitida por las cajas. Solo existen tres valores fijos.
type Currency string

const (
	CurrencyUSD  Currency = "USD"
	CurrencyCUP  Currency = "CUP"
	CurrencyCUPT Currency = "CUP-T" // CUP por transferencia; equivale 1:1 a CUP
)

// Currencies en el orden usado por los reportes.
var Currencies = []Currency{CurrencyUSD, CurrencyCUP, CurrencyCUPT}

// Valid indica si c es una de las monedas admitidas.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyCUP, CurrencyCUPT:
		return true
	}
	return false
}

// IsPeso indica si la moneda pertenece a la familia CUP (CUP o CUP-T).
func (c Currency) IsPeso() bool {
	return c == CurrencyCUP || c == CurrencyCUPT
}

// ParseCurrency acepta "usd", "cup", "cup-t" sin distinguir mayúsculas.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("moneda no válida: %q", s)
	}
	return c, nil
}

// Till caja física o cuenta donde se guarda efectivo.
type Till string

const (
	TillCFG Till = "CFG"
	TillSC  Till = "SC"
	TillTRD Till = "TRD"
)

// Tills en el orden usado por los reportes.
var Tills = []Till{TillCFG, TillSC, TillTRD}

// Valid indica si t es una de las cajas admitidas.
func (t Till) Valid() bool {
	switch t {
	case TillCFG, TillSC, TillTRD:
		return true
	}
	return false
}

// ParseTill acepta "cfg", "sc", "trd" sin distinguir mayúsculas.
func ParseTill(s string) (Till, error) {
	t := Till(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("caja no válida: %q", s)
	}
	return t, nil
}
