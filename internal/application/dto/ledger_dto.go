package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetRateRequest body para PUT /api/rate.
type SetRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// RateResponse tasa vigente: 1 USD = Rate CUP.
type RateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// CashRequest body para POST /api/cash/income y /api/cash/expense.
type CashRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Till     string          `json:"till"`
	Memo     string          `json:"memo,omitempty"`
}

// TransferRequest body para POST /api/cash/transfer.
type TransferRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"from_currency"`
	FromTill     string          `json:"from_till"`
	ToCurrency   string          `json:"to_currency"`
	ToTill       string          `json:"to_till"`
	Memo         string          `json:"memo,omitempty"`
}

// PurchaseRequest body para POST /api/inventory/purchases.
type PurchaseRequest struct {
	Code     string          `json:"code"`
	Name     string          `json:"name,omitempty"`
	Qty      decimal.Decimal `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Currency string          `json:"currency"`
	Supplier string          `json:"supplier"`
	Note     string          `json:"note,omitempty"`
}

// SaleRequest body para POST /api/inventory/sales.
// AgentOrNote: si la primera palabra es un agente con stock consignado suficiente, la venta se liquida contra él.
type SaleRequest struct {
	Code        string          `json:"code"`
	Qty         decimal.Decimal `json:"qty"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Till        string          `json:"till"`
	AgentOrNote string          `json:"agent_or_note,omitempty"`
}

// ConsignmentRequest body para POST /api/consignments.
type ConsignmentRequest struct {
	Code      string          `json:"code"`
	Qty       decimal.Decimal `json:"qty"`
	Agent     string          `json:"agent"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
	Note      string          `json:"note,omitempty"`
}

// PaymentRequest body para POST /api/debts/supplier-payments y /api/debts/agent-payments.
type PaymentRequest struct {
	Actor    string          `json:"actor"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Till     string          `json:"till"`
	Memo     string          `json:"memo,omitempty"`
}

// MovementResponse resultado de un ingreso o gasto.
type MovementResponse struct {
	MovementID string          `json:"movement_id"`
	Till       string          `json:"till"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
}

// TransferResponse resultado de un traspaso.
type TransferResponse struct {
	DebitID     string          `json:"debit_id"`
	CreditID    string          `json:"credit_id"`
	ToAmount    decimal.Decimal `json:"to_amount"`
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
}

// BalanceResponse saldo de un par caja/moneda.
type BalanceResponse struct {
	Till     string          `json:"till"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// CashMovementResponse asiento del historial.
type CashMovementResponse struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	Kind         string           `json:"kind"`
	Direction    string           `json:"direction"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency"`
	Till         string           `json:"till"`
	OperatorID   string           `json:"operator_id"`
	Memo         string           `json:"memo,omitempty"`
	COGS         *decimal.Decimal `json:"cogs,omitempty"`
	COGSCurrency string           `json:"cogs_currency,omitempty"`
}

// PurchaseResponse resultado de una entrada de mercancía.
type PurchaseResponse struct {
	Code           string          `json:"code"`
	Stock          decimal.Decimal `json:"stock"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	CostCurrency   string          `json:"cost_currency"`
	Supplier       string          `json:"supplier"`
	DebtCurrency   string          `json:"debt_currency"`
	PendingPayable decimal.Decimal `json:"pending_payable"`
}

// SaleResponse resultado de una venta.
type SaleResponse struct {
	MovementID         string           `json:"movement_id"`
	Consigned          bool             `json:"consigned"`
	Agent              string           `json:"agent,omitempty"`
	Balance            decimal.Decimal  `json:"balance"`
	RemainingQty       decimal.Decimal  `json:"remaining_qty"`
	COGS               *decimal.Decimal `json:"cogs,omitempty"`
	COGSCurrency       string           `json:"cogs_currency,omitempty"`
	Liquidated         *decimal.Decimal `json:"liquidated,omitempty"`
	LiquidatedCurrency string           `json:"liquidated_currency,omitempty"`
	PendingReceivable  *decimal.Decimal `json:"pending_receivable,omitempty"`
}

// ConsignmentResponse resultado de consignar mercancía.
type ConsignmentResponse struct {
	Code              string          `json:"code"`
	Agent             string          `json:"agent"`
	OutstandingQty    decimal.Decimal `json:"outstanding_qty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Currency          string          `json:"currency"`
	TermsIgnored      bool            `json:"terms_ignored"`
	GeneralStock      decimal.Decimal `json:"general_stock"`
	PendingReceivable decimal.Decimal `json:"pending_receivable"`
}

// PaymentResponse resultado de un pago a proveedor o cobro a agente.
type PaymentResponse struct {
	MovementID   string          `json:"movement_id"`
	Balance      decimal.Decimal `json:"balance"`
	DebtFound    bool            `json:"debt_found"`
	DebtCurrency string          `json:"debt_currency"`
	Applied      decimal.Decimal `json:"applied"`
	Excess       decimal.Decimal `json:"excess"`
	Pending      decimal.Decimal `json:"pending"`
}

// ProductResponse producto con su stock general.
type ProductResponse struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	CostCurrency string          `json:"cost_currency"`
	Stock        decimal.Decimal `json:"stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HoldingResponse stock consignado pendiente de un agente.
type HoldingResponse struct {
	Code           string          `json:"code"`
	OutstandingQty decimal.Decimal `json:"outstanding_qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Currency       string          `json:"currency"`
}

// DebtResponse deuda pendiente.
type DebtResponse struct {
	Actor     string          `json:"actor"`
	Currency  string          `json:"currency"`
	Direction string          `json:"direction"`
	Pending   decimal.Decimal `json:"pending"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DebtTotalResponse total pendiente por sentido y moneda.
type DebtTotalResponse struct {
	Direction string          `json:"direction"`
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	Actors    int             `json:"actors"`
}

// ProfitResponse ganancia bruta en USD.
type ProfitResponse struct {
	Revenue     decimal.Decimal `json:"revenue_usd"`
	COGS        decimal.Decimal `json:"cogs_usd"`
	GrossMargin decimal.Decimal `json:"gross_margin_usd"`
	Rate        decimal.Decimal `json:"rate"`
	Sales       int             `json:"sales"`
}
