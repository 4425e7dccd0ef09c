package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
)

// CashInput entrada para RegisterIncome y RegisterExpense.
type CashInput struct {
	OperatorID string
	Amount     decimal.Decimal
	Currency   entity.Currency
	Till       entity.Till
	Memo       string
}

// PurchaseInput entrada de mercancía a crédito del proveedor.
type PurchaseInput struct {
	OperatorID string
	Code       string
	Name       string // opcional; por defecto el código
	Qty        decimal.Decimal
	UnitCost   decimal.Decimal
	Currency   entity.Currency
	Supplier   string
	Note       string
}

// SaleInput venta. AgentOrNote es el texto libre final: si su primera palabra es un agente con
// stock consignado suficiente del código, la venta se liquida contra la consignación.
type SaleInput struct {
	OperatorID  string
	Code        string
	Qty         decimal.Decimal
	TotalAmount decimal.Decimal
	Currency    entity.Currency
	Till        entity.Till
	AgentOrNote string
}

// ConsignmentInput entrega de mercancía a un agente.
type ConsignmentInput struct {
	OperatorID string
	Code       string
	Qty        decimal.Decimal
	Agent      string
	UnitPrice  decimal.Decimal
	Currency   entity.Currency
	Note       string
}

// SupplierPaymentInput pago en efectivo a un proveedor.
type SupplierPaymentInput struct {
	OperatorID string
	Supplier   string
	Amount     decimal.Decimal
	Currency   entity.Currency
	Till       entity.Till
	Memo       string
}

// AgentPaymentInput cobro en efectivo a un agente.
type AgentPaymentInput struct {
	OperatorID string
	Agent      string
	Amount     decimal.Decimal
	Currency   entity.Currency
	Till       entity.Till
	Memo       string
}

// TransferInput traspaso entre cajas y/o monedas.
type TransferInput struct {
	OperatorID  string
	Amount      decimal.Decimal
	SrcCurrency entity.Currency
	SrcTill     entity.Till
	DstCurrency entity.Currency
	DstTill     entity.Till
	Memo        string
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, domain.ErrInvalidInput)...)
}

func requireOperator(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("operador requerido")
	}
	return nil
}

// requirePositive exige que v siga siendo positivo después de redondear a AmountScale decimales,
// que es como se guarda.
func requirePositive(field string, v decimal.Decimal) error {
	if !entity.RoundAmount(v).IsPositive() {
		return invalid("%s debe ser positivo (mínimo %s)", field, minAmount)
	}
	return nil
}

var minAmount = decimal.New(1, -entity.AmountScale)

func requireCurrency(c entity.Currency) error {
	if !c.Valid() {
		return invalid("moneda no válida %q", c)
	}
	return nil
}

func requireTill(t entity.Till) error {
	if !t.Valid() {
		return invalid("caja no válida %q", t)
	}
	return nil
}

func requireName(field, v string) error {
	if v == "" {
		return invalid("%s requerido", field)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (in *CashInput) validate() error {
	return firstErr(
		requireOperator(in.OperatorID),
		requirePositive("monto", in.Amount),
		requireCurrency(in.Currency),
		requireTill(in.Till),
	)
}

func (in *PurchaseInput) normalize() error {
	in.Code = entity.NormalizeCode(in.Code)
	in.Supplier = entity.NormalizeActor(in.Supplier)
	in.Name = strings.TrimSpace(in.Name)
	return firstErr(
		requireOperator(in.OperatorID),
		requireName("código", in.Code),
		requireName("proveedor", in.Supplier),
		requirePositive("cantidad", in.Qty),
		requirePositive("costo unitario", in.UnitCost),
		requirePositive("total de la compra", in.Qty.Mul(in.UnitCost)),
		requireCurrency(in.Currency),
	)
}

func (in *SaleInput) normalize() error {
	in.Code = entity.NormalizeCode(in.Code)
	in.AgentOrNote = strings.TrimSpace(in.AgentOrNote)
	return firstErr(
		requireOperator(in.OperatorID),
		requireName("código", in.Code),
		requirePositive("unidades", in.Qty),
		requirePositive("monto total", in.TotalAmount),
		requireCurrency(in.Currency),
		requireTill(in.Till),
	)
}

// agentCandidate primera palabra de AgentOrNote, normalizada como actor.
func (in *SaleInput) agentCandidate() string {
	fields := strings.Fields(in.AgentOrNote)
	if len(fields) == 0 {
		return ""
	}
	return entity.NormalizeActor(fields[0])
}

func (in *ConsignmentInput) normalize() error {
	in.Code = entity.NormalizeCode(in.Code)
	in.Agent = entity.NormalizeActor(in.Agent)
	return firstErr(
		requireOperator(in.OperatorID),
		requireName("código", in.Code),
		requireName("agente", in.Agent),
		requirePositive("cantidad", in.Qty),
		requirePositive("precio unitario", in.UnitPrice),
		requirePositive("total consignado", in.Qty.Mul(in.UnitPrice)),
		requireCurrency(in.Currency),
	)
}

func (in *SupplierPaymentInput) normalize() error {
	in.Supplier = entity.NormalizeActor(in.Supplier)
	return firstErr(
		requireOperator(in.OperatorID),
		requireName("proveedor", in.Supplier),
		requirePositive("monto", in.Amount),
		requireCurrency(in.Currency),
		requireTill(in.Till),
	)
}

func (in *AgentPaymentInput) normalize() error {
	in.Agent = entity.NormalizeActor(in.Agent)
	return firstErr(
		requireOperator(in.OperatorID),
		requireName("agente", in.Agent),
		requirePositive("monto", in.Amount),
		requireCurrency(in.Currency),
		requireTill(in.Till),
	)
}

func (in *TransferInput) validate() error {
	if err := firstErr(
		requireOperator(in.OperatorID),
		requirePositive("monto", in.Amount),
		requireCurrency(in.SrcCurrency),
		requireTill(in.SrcTill),
		requireCurrency(in.DstCurrency),
		requireTill(in.DstTill),
	); err != nil {
		return err
	}
	if in.SrcTill == in.DstTill && in.SrcCurrency == in.DstCurrency {
		return invalid("origen y destino del traspaso son iguales (%s/%s)", in.SrcTill, in.SrcCurrency)
	}
	return nil
}
