package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de caja.
type MovementKind string

const (
	MovementIncome                MovementKind = "income"
	MovementExpense               MovementKind = "expense"
	MovementTransfer              MovementKind = "transfer"
	MovementSale                  MovementKind = "sale"
	MovementConsignmentSettlement MovementKind = "consignment_settlement"
)

// Valid indica si k es un tipo de movimiento conocido.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementIncome, MovementExpense, MovementTransfer, MovementSale, MovementConsignmentSettlement:
		return true
	}
	return false
}

// Direction sentido del movimiento respecto a la caja.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// DirectionFor devuelve el sentido implícito de un tipo. Transfer no tiene sentido implícito:
// cada traspaso genera un débito en origen y un crédito en destino.
func DirectionFor(k MovementKind) (Direction, bool) {
	switch k {
	case MovementIncome, MovementSale, MovementConsignmentSettlement:
		return DirectionCredit, true
	case MovementExpense:
		return DirectionDebit, true
	}
	return "", false
}

// CashMovement registro inmutable del libro de caja (solo se agregan filas).
// El saldo de una caja nunca se guarda: se recalcula sumando estos registros.
type CashMovement struct {
	ID           string
	Seq          int64
	CreatedAt    time.Time
	Kind         MovementKind
	Direction    Direction
	Amount       decimal.Decimal // siempre >= 0; el signo lo da Direction
	Currency     Currency
	Till         Till
	OperatorID   string
	Memo         string
	COGS         decimal.NullDecimal // solo ventas estándar
	COGSCurrency Currency
}

// Signed devuelve el monto con signo: positivo si acredita la caja, negativo si la debita.
func (m CashMovement) Signed() decimal.Decimal {
	if m.Direction == DirectionDebit {
		return m.Amount.Neg()
	}
	return m.Amount
}
