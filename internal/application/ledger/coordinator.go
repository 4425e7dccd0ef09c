package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/exchange"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
	"github.com/jhoicas/contabilidad/pkg/logger"
)

// Settings parámetros opcionales del coordinador.
type Settings struct {
	DebtEpsilon decimal.Decimal  // saldo mínimo listado por Debts; cero = DefaultDebtEpsilon
	Clock       func() time.Time // por defecto time.Now().UTC()
}

// Coordinator es el único camino de escritura sobre los cuatro libros (caja, inventario,
// consignaciones y deudas). Cada operación abre una transacción, valida todos los invariantes
// y solo hace Commit si todo pasa; si algo falla, nada queda aplicado.
type Coordinator struct {
	tx          TxRunner
	rates       *exchange.Rates
	log         *logger.Logger
	debtEpsilon decimal.Decimal
	clock       func() time.Time
}

// NewCoordinator construye el coordinador.
func NewCoordinator(txRunner TxRunner, rates *exchange.Rates, log *logger.Logger, settings Settings) *Coordinator {
	c := &Coordinator{
		tx:          txRunner,
		rates:       rates,
		log:         log.Named("ledger"),
		debtEpsilon: settings.DebtEpsilon,
		clock:       settings.Clock,
	}
	if !c.debtEpsilon.GreaterThan(decimal.Zero) {
		c.debtEpsilon = DefaultDebtEpsilon
	}
	if c.clock == nil {
		c.clock = func() time.Time { return time.Now().UTC() }
	}
	return c
}

// stores los cuatro libros atados a una misma transacción.
type stores struct {
	ledger       *LedgerStore
	inventory    *InventoryStore
	consignments *ConsignmentStore
	debts        *DebtStore
}

func (c *Coordinator) bind(now time.Time, fn func(s stores) error) TxFunc {
	return func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		consignRepo repository.ConsignmentRepository,
		debtRepo repository.DebtRepository,
	) error {
		return fn(stores{
			ledger:       NewLedgerStore(movRepo, now),
			inventory:    NewInventoryStore(productRepo, now),
			consignments: NewConsignmentStore(consignRepo, now),
			debts:        NewDebtStore(debtRepo, now),
		})
	}
}

// write ejecuta fn en una transacción de escritura serializada.
func (c *Coordinator) write(ctx context.Context, op string, in any, fn func(s stores) error) error {
	return c.surface(op, in, c.tx.Run(ctx, c.bind(c.clock(), fn)))
}

// read ejecuta fn en una transacción de solo lectura.
func (c *Coordinator) read(ctx context.Context, op string, fn func(s stores) error) error {
	return c.surface(op, nil, c.tx.View(ctx, c.bind(c.clock(), fn)))
}

// surface deja pasar los errores de negocio y convierte cualquier otro en ErrStorage,
// registrándolo con el contexto completo de la operación.
func (c *Coordinator) surface(op string, in any, err error) error {
	if err == nil || domain.IsDomain(err) {
		return err
	}
	ev := c.log.Error().Err(err).Str("op", op)
	if in != nil {
		ev = ev.Interface("input", in)
	}
	ev.Msg("fallo de almacenamiento, operación revertida")
	return fmt.Errorf("%s: %w", op, domain.ErrStorage)
}

// SetExchangeRate reemplaza la tasa USD->CUP compartida.
func (c *Coordinator) SetExchangeRate(operatorID string, rate decimal.Decimal) error {
	if err := requireOperator(operatorID); err != nil {
		return err
	}
	if err := c.rates.Set(rate); err != nil {
		return err
	}
	c.log.Info().Str("operator", operatorID).Str("rate", rate.String()).Msg("tasa de cambio actualizada")
	return nil
}

// ExchangeRate devuelve la tasa USD->CUP vigente.
func (c *Coordinator) ExchangeRate() decimal.Decimal {
	return c.rates.Rate()
}

// MovementResult resultado de un asiento simple de caja.
type MovementResult struct {
	MovementID string
	Till       entity.Till
	Currency   entity.Currency
	Balance    decimal.Decimal
}

// RegisterIncome agrega un ingreso a la caja.
func (c *Coordinator) RegisterIncome(ctx context.Context, in CashInput) (MovementResult, error) {
	if err := in.validate(); err != nil {
		return MovementResult{}, err
	}
	var res MovementResult
	err := c.write(ctx, "income", in, func(s stores) error {
		id, err := s.ledger.Append(ctx, Entry{
			Kind: entity.MovementIncome, Amount: in.Amount, Currency: in.Currency,
			Till: in.Till, OperatorID: in.OperatorID, Memo: in.Memo,
		})
		if err != nil {
			return err
		}
		balance, err := s.ledger.Balance(ctx, in.Till, in.Currency)
		if err != nil {
			return err
		}
		res = MovementResult{MovementID: id, Till: in.Till, Currency: in.Currency, Balance: balance}
		return nil
	})
	if err != nil {
		return MovementResult{}, err
	}
	c.log.Info().Str("op", "income").Str("operator", in.OperatorID).
		Str("amount", in.Amount.String()).Str("currency", string(in.Currency)).Str("till", string(in.Till)).
		Msg("ingreso registrado")
	return res, nil
}

// RegisterExpense agrega un gasto; falla con ErrInsufficientFunds si el saldo no alcanza.
func (c *Coordinator) RegisterExpense(ctx context.Context, in CashInput) (MovementResult, error) {
	if err := in.validate(); err != nil {
		return MovementResult{}, err
	}
	var res MovementResult
	err := c.write(ctx, "expense", in, func(s stores) error {
		if _, err := s.ledger.requireFunds(ctx, in.Till, in.Currency, in.Amount); err != nil {
			return err
		}
		id, err := s.ledger.Append(ctx, Entry{
			Kind: entity.MovementExpense, Amount: in.Amount, Currency: in.Currency,
			Till: in.Till, OperatorID: in.OperatorID, Memo: in.Memo,
		})
		if err != nil {
			return err
		}
		balance, err := s.ledger.Balance(ctx, in.Till, in.Currency)
		if err != nil {
			return err
		}
		res = MovementResult{MovementID: id, Till: in.Till, Currency: in.Currency, Balance: balance}
		return nil
	})
	if err != nil {
		return MovementResult{}, err
	}
	c.log.Info().Str("op", "expense").Str("operator", in.OperatorID).
		Str("amount", in.Amount.String()).Str("currency", string(in.Currency)).Str("till", string(in.Till)).
		Msg("gasto registrado")
	return res, nil
}

// PurchaseResult resultado de una entrada de mercancía.
type PurchaseResult struct {
	Code           string
	NewStock       decimal.Decimal
	NewUnitCost    decimal.Decimal
	CostCurrency   entity.Currency
	Supplier       string
	DebtCurrency   entity.Currency
	PendingPayable decimal.Decimal
}

// RegisterPurchase suma stock (costo promedio ponderado) y genera la deuda por pagar al proveedor.
// No mueve caja: el efectivo sale solo con SettleSupplierDebt.
func (c *Coordinator) RegisterPurchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if err := in.normalize(); err != nil {
		return PurchaseResult{}, err
	}
	var res PurchaseResult
	err := c.write(ctx, "purchase", in, func(s stores) error {
		unitCost, costCurrency := in.UnitCost, in.Currency
		current, found, err := s.inventory.CostCurrency(ctx, in.Code)
		if err != nil {
			return err
		}
		if found && current != in.Currency {
			// El costo promedio se lleva en una sola moneda: la del producto.
			if unitCost, err = c.rates.Convert(in.UnitCost, in.Currency, current); err != nil {
				return err
			}
			costCurrency = current
		}
		out, err := s.inventory.Purchase(ctx, in.Code, in.Name, in.Qty, unitCost, costCurrency)
		if err != nil {
			return err
		}
		total := entity.RoundAmount(in.Qty.Mul(in.UnitCost))
		pending, err := s.debts.Increase(ctx, in.Supplier, total, in.Currency, entity.DebtPayable)
		if err != nil {
			return err
		}
		res = PurchaseResult{
			Code:           in.Code,
			NewStock:       out.NewStock,
			NewUnitCost:    out.NewUnitCost,
			CostCurrency:   out.CostCurrency,
			Supplier:       in.Supplier,
			DebtCurrency:   in.Currency,
			PendingPayable: pending,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	c.log.Info().Str("op", "purchase").Str("operator", in.OperatorID).Str("code", in.Code).
		Str("qty", in.Qty.String()).Str("unit_cost", in.UnitCost.String()).Str("currency", string(in.Currency)).
		Str("supplier", in.Supplier).Msg("entrada de mercancía registrada")
	return res, nil
}

// SaleResult resultado de una venta estándar o consignada.
type SaleResult struct {
	MovementID string
	Consigned  bool
	Agent      string
	Balance    decimal.Decimal
	// RemainingQty stock general restante (venta estándar) o stock consignado restante del agente.
	RemainingQty decimal.Decimal
	// Solo venta estándar.
	COGS         decimal.Decimal
	COGSCurrency entity.Currency
	// Solo venta consignada.
	Liquidated         decimal.Decimal
	LiquidatedCurrency entity.Currency
	PendingReceivable  decimal.Decimal
}

// RegisterSale registra una venta. Si la primera palabra de AgentOrNote es un agente con al menos
// Qty unidades consignadas del código, descuenta la consignación y la deuda por cobrar del agente;
// si no, descuenta del stock general y reconoce el costo de venta.
func (c *Coordinator) RegisterSale(ctx context.Context, in SaleInput) (SaleResult, error) {
	if err := in.normalize(); err != nil {
		return SaleResult{}, err
	}
	var res SaleResult
	err := c.write(ctx, "sale", in, func(s stores) error {
		agent, err := c.routeSale(ctx, s, in)
		if err != nil {
			return err
		}
		if agent != "" {
			res, err = c.consignedSale(ctx, s, in, agent)
		} else {
			res, err = c.standardSale(ctx, s, in)
		}
		if err != nil {
			return err
		}
		res.Balance, err = s.ledger.Balance(ctx, in.Till, in.Currency)
		return err
	})
	if err != nil {
		return SaleResult{}, err
	}
	c.log.Info().Str("op", "sale").Str("operator", in.OperatorID).Str("code", in.Code).
		Str("qty", in.Qty.String()).Str("total", in.TotalAmount.String()).Str("currency", string(in.Currency)).
		Str("till", string(in.Till)).Bool("consigned", res.Consigned).Str("agent", res.Agent).
		Msg("venta registrada")
	return res, nil
}

// routeSale devuelve el agente si la venta debe liquidarse contra su consignación, o "".
func (c *Coordinator) routeSale(ctx context.Context, s stores, in SaleInput) (string, error) {
	candidate := in.agentCandidate()
	if candidate == "" {
		return "", nil
	}
	placement, err := s.consignments.Lookup(ctx, in.Code, candidate)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if placement.OutstandingQty.LessThan(in.Qty) {
		c.log.Debug().Str("code", in.Code).Str("agent", candidate).
			Str("outstanding", placement.OutstandingQty.String()).Str("qty", in.Qty.String()).
			Msg("consignación insuficiente, la venta sale del stock general")
		return "", nil
	}
	return candidate, nil
}

func (c *Coordinator) standardSale(ctx context.Context, s stores, in SaleInput) (SaleResult, error) {
	product, err := s.inventory.Reserve(ctx, in.Code, in.Qty)
	if err != nil {
		return SaleResult{}, err
	}
	cogs := entity.RoundAmount(in.Qty.Mul(product.UnitCost))
	note := in.AgentOrNote
	if note == "" {
		note = "venta estándar"
	}
	id, err := s.ledger.Append(ctx, Entry{
		Kind:         entity.MovementSale,
		Amount:       in.TotalAmount,
		Currency:     in.Currency,
		Till:         in.Till,
		OperatorID:   in.OperatorID,
		Memo:         fmt.Sprintf("VENTA: %s x %s | %s", in.Qty, in.Code, note),
		COGS:         decimal.NewNullDecimal(cogs),
		COGSCurrency: product.CostCurrency,
	})
	if err != nil {
		return SaleResult{}, err
	}
	return SaleResult{
		MovementID:   id,
		RemainingQty: product.StockQty,
		COGS:         cogs,
		COGSCurrency: product.CostCurrency,
	}, nil
}

func (c *Coordinator) consignedSale(ctx context.Context, s stores, in SaleInput, agent string) (SaleResult, error) {
	settled, err := s.consignments.Settle(ctx, in.Code, agent, in.Qty)
	if err != nil {
		return SaleResult{}, err
	}
	debt, err := s.debts.Decrease(ctx, agent, settled.Liquidated, settled.Currency, entity.DebtReceivable)
	if err != nil {
		return SaleResult{}, err
	}
	if debt.Excess.IsPositive() {
		c.log.Warn().Str("op", "sale").Str("agent", agent).Str("excess", debt.Excess.String()).
			Str("currency", string(settled.Currency)).Msg("liquidación supera la deuda por cobrar; el excedente se descarta")
	}
	id, err := s.ledger.Append(ctx, Entry{
		Kind:       entity.MovementSale,
		Amount:     in.TotalAmount,
		Currency:   in.Currency,
		Till:       in.Till,
		OperatorID: in.OperatorID,
		Memo: fmt.Sprintf("VENTA_CONSIGNADA: %s x %s | agente %s | liquidado %s %s | %s",
			in.Qty, in.Code, agent, settled.Liquidated.StringFixed(2), settled.Currency, in.AgentOrNote),
	})
	if err != nil {
		return SaleResult{}, err
	}
	return SaleResult{
		MovementID:         id,
		Consigned:          true,
		Agent:              agent,
		RemainingQty:       settled.OutstandingQty,
		Liquidated:         settled.Liquidated,
		LiquidatedCurrency: settled.Currency,
		PendingReceivable:  debt.Pending,
	}, nil
}

// ConsignmentResult resultado de consignar mercancía a un agente.
type ConsignmentResult struct {
	Code              string
	Agent             string
	OutstandingQty    decimal.Decimal
	UnitPrice         decimal.Decimal
	Currency          entity.Currency
	TermsIgnored      bool
	GeneralStock      decimal.Decimal
	PendingReceivable decimal.Decimal
}

// PlaceConsignment descuenta del stock general, suma a la consignación del agente y genera la
// deuda por cobrar. La deuda se calcula con los términos vigentes de la consignación: si ya
// existía con otro precio o moneda, se usan los originales y TermsIgnored queda en true.
func (c *Coordinator) PlaceConsignment(ctx context.Context, in ConsignmentInput) (ConsignmentResult, error) {
	if err := in.normalize(); err != nil {
		return ConsignmentResult{}, err
	}
	var res ConsignmentResult
	err := c.write(ctx, "consignment", in, func(s stores) error {
		product, err := s.inventory.Reserve(ctx, in.Code, in.Qty)
		if err != nil {
			return err
		}
		placed, err := s.consignments.Place(ctx, in.Code, in.Agent, in.Qty, in.UnitPrice, in.Currency)
		if err != nil {
			return err
		}
		owed := entity.RoundAmount(in.Qty.Mul(placed.UnitPrice))
		pending, err := s.debts.Increase(ctx, in.Agent, owed, placed.Currency, entity.DebtReceivable)
		if err != nil {
			return err
		}
		res = ConsignmentResult{
			Code:              in.Code,
			Agent:             in.Agent,
			OutstandingQty:    placed.OutstandingQty,
			UnitPrice:         placed.UnitPrice,
			Currency:          placed.Currency,
			TermsIgnored:      placed.TermsIgnored,
			GeneralStock:      product.StockQty,
			PendingReceivable: pending,
		}
		return nil
	})
	if err != nil {
		return ConsignmentResult{}, err
	}
	if res.TermsIgnored {
		c.log.Warn().Str("op", "consignment").Str("code", in.Code).Str("agent", in.Agent).
			Str("submitted_price", in.UnitPrice.String()).Str("submitted_currency", string(in.Currency)).
			Str("price", res.UnitPrice.String()).Str("currency", string(res.Currency)).
			Msg("consignación existente: se mantienen precio y moneda originales")
	}
	c.log.Info().Str("op", "consignment").Str("operator", in.OperatorID).Str("code", in.Code).
		Str("agent", in.Agent).Str("qty", in.Qty.String()).Msg("consignación registrada")
	return res, nil
}

// PaymentResult resultado de un pago a proveedor o cobro a agente.
type PaymentResult struct {
	MovementID string
	Balance    decimal.Decimal
	// DebtFound es false si no existía deuda para la clave: el movimiento de caja igual se registra.
	DebtFound    bool
	DebtCurrency entity.Currency
	Applied      decimal.Decimal
	Excess       decimal.Decimal
	Pending      decimal.Decimal
}

// SettleSupplierDebt paga a un proveedor: gasto en caja y reducción de la deuda por pagar en la
// misma moneda del pago. Si no hay deuda, el gasto igual se registra.
func (c *Coordinator) SettleSupplierDebt(ctx context.Context, in SupplierPaymentInput) (PaymentResult, error) {
	if err := in.normalize(); err != nil {
		return PaymentResult{}, err
	}
	var res PaymentResult
	err := c.write(ctx, "supplier_payment", in, func(s stores) error {
		if _, err := s.ledger.requireFunds(ctx, in.Till, in.Currency, in.Amount); err != nil {
			return err
		}
		memo := "PAGO a proveedor " + in.Supplier
		if in.Memo != "" {
			memo += " | " + in.Memo
		}
		id, err := s.ledger.Append(ctx, Entry{
			Kind: entity.MovementExpense, Amount: in.Amount, Currency: in.Currency,
			Till: in.Till, OperatorID: in.OperatorID, Memo: memo,
		})
		if err != nil {
			return err
		}
		res = PaymentResult{MovementID: id, DebtCurrency: in.Currency}
		if err := applyPayment(ctx, s.debts, &res, in.Supplier, in.Amount, in.Currency, entity.DebtPayable); err != nil {
			return err
		}
		res.Balance, err = s.ledger.Balance(ctx, in.Till, in.Currency)
		return err
	})
	if err != nil {
		return PaymentResult{}, err
	}
	c.logPayment("supplier_payment", in.OperatorID, in.Supplier, in.Amount, in.Currency, in.Till, res)
	return res, nil
}

// SettleAgentDebt cobra a un agente: convierte el pago a USD y reduce la deuda por cobrar en USD
// (las deudas por cobrar se llevan siempre en USD), luego ingresa el monto pagado en caja.
func (c *Coordinator) SettleAgentDebt(ctx context.Context, in AgentPaymentInput) (PaymentResult, error) {
	if err := in.normalize(); err != nil {
		return PaymentResult{}, err
	}
	var res PaymentResult
	err := c.write(ctx, "agent_payment", in, func(s stores) error {
		usd, err := c.rates.Convert(in.Amount, in.Currency, entity.CurrencyUSD)
		if err != nil {
			return err
		}
		res = PaymentResult{DebtCurrency: entity.CurrencyUSD}
		if usd.IsPositive() {
			if err := applyPayment(ctx, s.debts, &res, in.Agent, usd, entity.CurrencyUSD, entity.DebtReceivable); err != nil {
				return err
			}
		}
		memo := fmt.Sprintf("PAGO de agente %s | liquida %s USD", in.Agent, usd.StringFixed(2))
		if in.Memo != "" {
			memo += " | " + in.Memo
		}
		if res.MovementID, err = s.ledger.Append(ctx, Entry{
			Kind: entity.MovementIncome, Amount: in.Amount, Currency: in.Currency,
			Till: in.Till, OperatorID: in.OperatorID, Memo: memo,
		}); err != nil {
			return err
		}
		res.Balance, err = s.ledger.Balance(ctx, in.Till, in.Currency)
		return err
	})
	if err != nil {
		return PaymentResult{}, err
	}
	c.logPayment("agent_payment", in.OperatorID, in.Agent, in.Amount, in.Currency, in.Till, res)
	return res, nil
}

// applyPayment reduce la deuda; una deuda inexistente no es error (DebtFound=false).
func applyPayment(ctx context.Context, debts *DebtStore, res *PaymentResult, actor string, amount decimal.Decimal, currency entity.Currency, direction entity.DebtDirection) error {
	out, err := debts.Decrease(ctx, actor, amount, currency, direction)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	res.DebtFound = true
	res.Applied = out.Applied
	res.Excess = out.Excess
	res.Pending = out.Pending
	return nil
}

func (c *Coordinator) logPayment(op, operator, actor string, amount decimal.Decimal, currency entity.Currency, till entity.Till, res PaymentResult) {
	if !res.DebtFound {
		c.log.Warn().Str("op", op).Str("actor", actor).Str("debt_currency", string(res.DebtCurrency)).
			Msg("no existe deuda para el actor; solo se registró el movimiento de caja")
	} else if res.Excess.IsPositive() {
		c.log.Warn().Str("op", op).Str("actor", actor).Str("excess", res.Excess.String()).
			Str("debt_currency", string(res.DebtCurrency)).Msg("pago supera la deuda; el excedente se descarta")
	}
	c.log.Info().Str("op", op).Str("operator", operator).Str("actor", actor).
		Str("amount", amount.String()).Str("currency", string(currency)).Str("till", string(till)).
		Msg("pago registrado")
}

// TransferResult resultado de un traspaso.
type TransferResult struct {
	DebitID    string
	CreditID   string
	DstAmount  decimal.Decimal
	SrcBalance decimal.Decimal
	DstBalance decimal.Decimal
}

// Transfer mueve efectivo entre cajas y/o monedas: un débito en origen y un crédito en destino,
// ambos en la misma transacción.
func (c *Coordinator) Transfer(ctx context.Context, in TransferInput) (TransferResult, error) {
	if err := in.validate(); err != nil {
		return TransferResult{}, err
	}
	var res TransferResult
	err := c.write(ctx, "transfer", in, func(s stores) error {
		if _, err := s.ledger.requireFunds(ctx, in.SrcTill, in.SrcCurrency, in.Amount); err != nil {
			return err
		}
		dst, err := c.rates.Convert(in.Amount, in.SrcCurrency, in.DstCurrency)
		if err != nil {
			return err
		}
		if !dst.IsPositive() {
			return invalid("monto convertido %s %s no es positivo", dst, in.DstCurrency)
		}
		debitID, err := s.ledger.Append(ctx, Entry{
			Kind: entity.MovementTransfer, Direction: entity.DirectionDebit,
			Amount: in.Amount, Currency: in.SrcCurrency, Till: in.SrcTill, OperatorID: in.OperatorID,
			Memo: fmt.Sprintf("TRASPASO (egreso) a %s/%s | %s", in.DstTill, in.DstCurrency, in.Memo),
		})
		if err != nil {
			return err
		}
		creditID, err := s.ledger.Append(ctx, Entry{
			Kind: entity.MovementTransfer, Direction: entity.DirectionCredit,
			Amount: dst, Currency: in.DstCurrency, Till: in.DstTill, OperatorID: in.OperatorID,
			Memo: fmt.Sprintf("TRASPASO (ingreso) desde %s/%s | %s", in.SrcTill, in.SrcCurrency, in.Memo),
		})
		if err != nil {
			return err
		}
		res = TransferResult{DebitID: debitID, CreditID: creditID, DstAmount: dst}
		if res.SrcBalance, err = s.ledger.Balance(ctx, in.SrcTill, in.SrcCurrency); err != nil {
			return err
		}
		res.DstBalance, err = s.ledger.Balance(ctx, in.DstTill, in.DstCurrency)
		return err
	})
	if err != nil {
		return TransferResult{}, err
	}
	c.log.Info().Str("op", "transfer").Str("operator", in.OperatorID).
		Str("amount", in.Amount.String()).Str("from", string(in.SrcTill)+"/"+string(in.SrcCurrency)).
		Str("to", string(in.DstTill)+"/"+string(in.DstCurrency)).Str("dst_amount", res.DstAmount.String()).
		Msg("traspaso registrado")
	return res, nil
}

// DeleteProduct elimina un producto. Falla con ErrConflict mientras algún agente tenga unidades
// consignadas pendientes de ese código.
func (c *Coordinator) DeleteProduct(ctx context.Context, operatorID, code string) error {
	code = entity.NormalizeCode(code)
	if err := firstErr(requireOperator(operatorID), requireName("código", code)); err != nil {
		return err
	}
	err := c.write(ctx, "delete_product", code, func(s stores) error {
		outstanding, err := s.consignments.Outstanding(ctx, code)
		if err != nil {
			return err
		}
		if outstanding.IsPositive() {
			return fmt.Errorf("%s tiene %s unidades consignadas pendientes: %w", code, outstanding, domain.ErrConflict)
		}
		if _, err := s.inventory.Get(ctx, code); err != nil {
			return err
		}
		if err := s.consignments.Purge(ctx, code); err != nil {
			return err
		}
		return s.inventory.Delete(ctx, code)
	})
	if err != nil {
		return err
	}
	c.log.Info().Str("op", "delete_product").Str("operator", operatorID).Str("code", code).Msg("producto eliminado")
	return nil
}
