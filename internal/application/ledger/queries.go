package ledger

import (
	"context"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/exchange"
)

// DefaultHistoryDays ventana por defecto del historial.
const DefaultHistoryDays = 7

// lazy envuelve una carga en una secuencia perezosa. Cada recorrido vuelve a cargar, así que la
// secuencia se puede reiniciar; la carga ocurre dentro de una transacción de lectura que ya terminó
// cuando se entrega el primer elemento.
func lazy[T any](load func() ([]T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		items, err := load()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, it := range items {
			if !yield(it, nil) {
				return
			}
		}
	}
}

// Balance saldo de una caja en una moneda.
func (c *Coordinator) Balance(ctx context.Context, till entity.Till, currency entity.Currency) (decimal.Decimal, error) {
	if err := firstErr(requireTill(till), requireCurrency(currency)); err != nil {
		return decimal.Zero, err
	}
	var balance decimal.Decimal
	err := c.read(ctx, "balance", func(s stores) error {
		var err error
		balance, err = s.ledger.Balance(ctx, till, currency)
		return err
	})
	return balance, err
}

// TillBalance saldo de un par caja/moneda.
type TillBalance struct {
	Till     entity.Till
	Currency entity.Currency
	Balance  decimal.Decimal
}

// Balances saldos de los nueve pares caja/moneda, en orden fijo.
func (c *Coordinator) Balances(ctx context.Context) ([]TillBalance, error) {
	out := make([]TillBalance, 0, len(entity.Tills)*len(entity.Currencies))
	err := c.read(ctx, "balances", func(s stores) error {
		for _, till := range entity.Tills {
			for _, cur := range entity.Currencies {
				b, err := s.ledger.Balance(ctx, till, cur)
				if err != nil {
					return err
				}
				out = append(out, TillBalance{Till: till, Currency: cur, Balance: b})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stock devuelve un producto o ErrNotFound.
func (c *Coordinator) Stock(ctx context.Context, code string) (*entity.Product, error) {
	code = entity.NormalizeCode(code)
	if err := requireName("código", code); err != nil {
		return nil, err
	}
	var p *entity.Product
	err := c.read(ctx, "stock", func(s stores) error {
		var err error
		p, err = s.inventory.Get(ctx, code)
		return err
	})
	return p, err
}

// Products todos los productos ordenados por código.
func (c *Coordinator) Products(ctx context.Context) ([]*entity.Product, error) {
	var list []*entity.Product
	err := c.read(ctx, "products", func(s stores) error {
		var err error
		list, err = s.inventory.List(ctx)
		return err
	})
	return list, err
}

// Placement devuelve la consignación de un par código/agente o ErrNotFound.
func (c *Coordinator) Placement(ctx context.Context, code, agent string) (*entity.ConsignmentPlacement, error) {
	code, agent = entity.NormalizeCode(code), entity.NormalizeActor(agent)
	if err := firstErr(requireName("código", code), requireName("agente", agent)); err != nil {
		return nil, err
	}
	var p *entity.ConsignmentPlacement
	err := c.read(ctx, "placement", func(s stores) error {
		var err error
		p, err = s.consignments.Lookup(ctx, code, agent)
		return err
	})
	return p, err
}

// AgentStock stock consignado pendiente de un agente.
func (c *Coordinator) AgentStock(ctx context.Context, agent string) iter.Seq2[entity.AgentHolding, error] {
	agent = entity.NormalizeActor(agent)
	return lazy(func() ([]entity.AgentHolding, error) {
		if err := requireName("agente", agent); err != nil {
			return nil, err
		}
		var out []entity.AgentHolding
		err := c.read(ctx, "agent_stock", func(s stores) error {
			var err error
			out, err = s.consignments.ByAgent(ctx, agent)
			return err
		})
		return out, err
	})
}

// Debt devuelve la deuda de una clave o ErrNotFound.
func (c *Coordinator) Debt(ctx context.Context, actor string, currency entity.Currency, direction entity.DebtDirection) (*entity.Debt, error) {
	actor = entity.NormalizeActor(actor)
	if err := firstErr(requireName("actor", actor), requireCurrency(currency)); err != nil {
		return nil, err
	}
	if !direction.Valid() {
		return nil, invalid("sentido de deuda no válido %q", direction)
	}
	var d *entity.Debt
	err := c.read(ctx, "debt", func(s stores) error {
		var err error
		d, err = s.debts.Get(ctx, actor, currency, direction)
		return err
	})
	return d, err
}

// Debts deudas pendientes. Si f.MinPending es cero se usa el épsilon configurado.
func (c *Coordinator) Debts(ctx context.Context, f DebtFilter) iter.Seq2[*entity.Debt, error] {
	if !f.MinPending.GreaterThan(decimal.Zero) {
		f.MinPending = c.debtEpsilon
	}
	return lazy(func() ([]*entity.Debt, error) {
		var out []*entity.Debt
		err := c.read(ctx, "debts", func(s stores) error {
			var err error
			out, err = s.debts.Query(ctx, f)
			return err
		})
		return out, err
	})
}

// DebtTotal suma de deudas pendientes por sentido y moneda.
type DebtTotal struct {
	Direction entity.DebtDirection
	Currency  entity.Currency
	Total     decimal.Decimal
	Actors    int
}

// DebtTotals totales por sentido y moneda; solo incluye combinaciones con deuda pendiente.
func (c *Coordinator) DebtTotals(ctx context.Context) ([]DebtTotal, error) {
	totals := make(map[entity.DebtDirection]map[entity.Currency]*DebtTotal)
	for d, err := range c.Debts(ctx, DebtFilter{}) {
		if err != nil {
			return nil, err
		}
		byCur, ok := totals[d.Direction]
		if !ok {
			byCur = make(map[entity.Currency]*DebtTotal)
			totals[d.Direction] = byCur
		}
		t, ok := byCur[d.Currency]
		if !ok {
			t = &DebtTotal{Direction: d.Direction, Currency: d.Currency, Total: decimal.Zero}
			byCur[d.Currency] = t
		}
		t.Total = t.Total.Add(d.PendingAmount)
		t.Actors++
	}
	var out []DebtTotal
	for _, dir := range []entity.DebtDirection{entity.DebtPayable, entity.DebtReceivable} {
		for _, cur := range entity.Currencies {
			if t, ok := totals[dir][cur]; ok {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

// History movimientos desde since, del más reciente al más antiguo.
func (c *Coordinator) History(ctx context.Context, since time.Time) iter.Seq2[*entity.CashMovement, error] {
	return lazy(func() ([]*entity.CashMovement, error) {
		var out []*entity.CashMovement
		err := c.read(ctx, "history", func(s stores) error {
			var err error
			out, err = s.ledger.History(ctx, since)
			return err
		})
		return out, err
	})
}

// HistoryDays movimientos de los últimos days días (DefaultHistoryDays si days <= 0).
func (c *Coordinator) HistoryDays(ctx context.Context, days int) iter.Seq2[*entity.CashMovement, error] {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	return c.History(ctx, c.clock().AddDate(0, 0, -days))
}

// ProfitReport ganancia bruta en USD a la tasa vigente.
type ProfitReport struct {
	Revenue     decimal.Decimal
	COGS        decimal.Decimal
	GrossMargin decimal.Decimal
	Rate        decimal.Decimal
	Sales       int
}

// Profit suma los ingresos de todas las ventas y el costo de las ventas estándar, convertidos a USD
// con la tasa vigente. Las ventas consignadas aportan ingreso sin costo.
func (c *Coordinator) Profit(ctx context.Context) (ProfitReport, error) {
	var sales []*entity.CashMovement
	err := c.read(ctx, "profit", func(s stores) error {
		var err error
		sales, err = s.ledger.Sales(ctx)
		return err
	})
	if err != nil {
		return ProfitReport{}, err
	}
	rep := ProfitReport{Revenue: decimal.Zero, COGS: decimal.Zero, Rate: c.rates.Rate(), Sales: len(sales)}
	for _, m := range sales {
		rev, err := exchange.ConvertAt(m.Amount, m.Currency, entity.CurrencyUSD, rep.Rate)
		if err != nil {
			return ProfitReport{}, err
		}
		rep.Revenue = rep.Revenue.Add(rev)
		if !m.COGS.Valid {
			continue
		}
		cogs, err := exchange.ConvertAt(m.COGS.Decimal, m.COGSCurrency, entity.CurrencyUSD, rep.Rate)
		if err != nil {
			return ProfitReport{}, err
		}
		rep.COGS = rep.COGS.Add(cogs)
	}
	rep.GrossMargin = rep.Revenue.Sub(rep.COGS)
	return rep, nil
}
