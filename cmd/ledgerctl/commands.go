package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidad/internal/application/ledger"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/exchange"
	"github.com/jhoicas/contabilidad/internal/infrastructure/store"
	"github.com/jhoicas/contabilidad/pkg/config"
	"github.com/jhoicas/contabilidad/pkg/jwt"
	"github.com/jhoicas/contabilidad/pkg/logger"
)

const cliOperator = "ledgerctl"

// session coordinador abierto sobre la base configurada en el entorno.
type session struct {
	cfg   *config.Config
	coord *ledger.Coordinator
	close func()
}

func open(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn", Output: os.Stderr})
	db, dialect, closeDB, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	rates, err := exchange.NewRates(cfg.Ledger.ExchangeRate)
	if err != nil {
		closeDB()
		return nil, err
	}
	coord := ledger.NewCoordinator(store.NewTxRunner(db, dialect), rates, log, ledger.Settings{
		DebtEpsilon: cfg.Ledger.DebtEpsilon,
	})
	return &session{cfg: cfg, coord: coord, close: closeDB}, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// ──────────────────────────────────────────────────────────────────────────────
// migrate
// ──────────────────────────────────────────────────────────────────────────────

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "crea las tablas de los cuatro libros si no existen" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate

  Aplica el esquema sobre la base indicada por DB_DRIVER. Es idempotente.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	_, dialect, closeDB, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return fail(err)
	}
	defer closeDB()
	fmt.Printf("esquema aplicado (%s)\n", dialect)
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// token
// ──────────────────────────────────────────────────────────────────────────────

type tokenCmd struct {
	operator string
	role     string
	minutes  int
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "emite un token JWT para un operador" }
func (*tokenCmd) Usage() string {
	return `ledgerctl token -operator <id> [-role admin|viewer] [-minutes <n>]

  Firma un token con JWT_SECRET. admin registra operaciones; viewer solo consulta.
`
}

func (p *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.operator, "operator", "", "identificador del operador")
	f.StringVar(&p.role, "role", jwt.RoleViewer, "rol del operador (admin, viewer)")
	f.IntVar(&p.minutes, "minutes", 0, "vigencia en minutos; 0 usa JWT_EXPIRATION_MINUTES")
}

func (p *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.role != jwt.RoleAdmin && p.role != jwt.RoleViewer {
		return fail(fmt.Errorf("rol no válido: %q", p.role))
	}
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	minutes := p.minutes
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, p.operator, p.role, cfg.JWT.Issuer, minutes)
	if err != nil {
		return fail(err)
	}
	fmt.Println(tok)
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// balance
// ──────────────────────────────────────────────────────────────────────────────

type balanceCmd struct {
	all bool
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "saldo de cada caja y moneda" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance [-all]

  Muestra los saldos distintos de cero; -all incluye los nueve pares.
`
}

func (p *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.all, "all", false, "incluir saldos en cero")
}

func (p *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	list, err := s.coord.Balances(ctx)
	if err != nil {
		return fail(err)
	}
	w := table()
	fmt.Fprintln(w, "CAJA\tMONEDA\tSALDO")
	for _, b := range list {
		if !p.all && b.Balance.IsZero() {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Till, b.Currency, b.Balance)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// debts
// ──────────────────────────────────────────────────────────────────────────────

type debtsCmd struct {
	direction string
}

func (*debtsCmd) Name() string     { return "debts" }
func (*debtsCmd) Synopsis() string { return "deudas pendientes por pagar y por cobrar" }
func (*debtsCmd) Usage() string {
	return `ledgerctl debts [-direction payable|receivable]
`
}

func (p *debtsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.direction, "direction", "", "payable, receivable o vacío para ambos")
}

func (p *debtsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir, err := entity.ParseDebtDirection(p.direction)
	if err != nil {
		return fail(err)
	}
	s, err := open(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	w := table()
	fmt.Fprintln(w, "SENTIDO\tACTOR\tMONEDA\tPENDIENTE")
	for d, err := range s.coord.Debts(ctx, ledger.DebtFilter{Direction: dir}) {
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Direction, d.Actor, d.Currency, d.PendingAmount)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}

	totals, err := s.coord.DebtTotals(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Println()
	w = table()
	fmt.Fprintln(w, "SENTIDO\tMONEDA\tTOTAL\tACTORES")
	for _, t := range totals {
		if dir != "" && t.Direction != dir {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.Direction, t.Currency, t.Total, t.Actors)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// stock
// ──────────────────────────────────────────────────────────────────────────────

type stockCmd struct {
	agent string
}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "stock general o consignado a un agente" }
func (*stockCmd) Usage() string {
	return `ledgerctl stock [-agent <id>]

  Sin -agent lista el inventario general con su costo promedio.
`
}

func (p *stockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.agent, "agent", "", "agente cuyo stock consignado se lista")
}

func (p *stockCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	w := table()
	if p.agent != "" {
		fmt.Fprintln(w, "CÓDIGO\tPENDIENTE\tPRECIO\tMONEDA")
		for h, err := range s.coord.AgentStock(ctx, p.agent) {
			if err != nil {
				return fail(err)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Code, h.OutstandingQty, h.UnitPrice, h.Currency)
		}
	} else {
		products, err := s.coord.Products(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(w, "CÓDIGO\tNOMBRE\tSTOCK\tCOSTO\tMONEDA")
		for _, pr := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", pr.Code, pr.Name, pr.StockQty, pr.UnitCost, pr.CostCurrency)
		}
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// history
// ──────────────────────────────────────────────────────────────────────────────

type historyCmd struct {
	days int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "movimientos de caja recientes, del más nuevo al más viejo" }
func (*historyCmd) Usage() string {
	return `ledgerctl history [-days <n>]
`
}

func (p *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.days, "days", ledger.DefaultHistoryDays, "días hacia atrás")
}

func (p *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	w := table()
	fmt.Fprintln(w, "FECHA\tTIPO\tSENTIDO\tMONTO\tMONEDA\tCAJA\tOPERADOR\tNOTA")
	for m, err := range s.coord.HistoryDays(ctx, p.days) {
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.CreatedAt.Local().Format(time.DateTime), m.Kind, m.Direction, m.Amount, m.Currency, m.Till, m.OperatorID, m.Memo)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// profit
// ──────────────────────────────────────────────────────────────────────────────

type profitCmd struct {
	rate string
}

func (*profitCmd) Name() string     { return "profit" }
func (*profitCmd) Synopsis() string { return "ganancia bruta acumulada en USD" }
func (*profitCmd) Usage() string {
	return `ledgerctl profit [-rate <cup por usd>]

  Convierte ingresos y costos a USD con -rate o, si se omite, con EXCHANGE_RATE_USD_CUP.
`
}

func (p *profitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.rate, "rate", "", "tasa USD->CUP a usar en el reporte")
}

func (p *profitCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	if p.rate != "" {
		rate, err := decimal.NewFromString(p.rate)
		if err != nil {
			return fail(fmt.Errorf("tasa no numérica %q", p.rate))
		}
		if err := s.coord.SetExchangeRate(cliOperator, rate); err != nil {
			return fail(err)
		}
	}
	rep, err := s.coord.Profit(ctx)
	if err != nil {
		return fail(err)
	}
	w := table()
	fmt.Fprintf(w, "Ventas\t%d\n", rep.Sales)
	fmt.Fprintf(w, "Ingresos (USD)\t%s\n", rep.Revenue.StringFixed(2))
	fmt.Fprintf(w, "Costo de ventas (USD)\t%s\n", rep.COGS.StringFixed(2))
	fmt.Fprintf(w, "Ganancia bruta (USD)\t%s\n", rep.GrossMargin.StringFixed(2))
	fmt.Fprintf(w, "Tasa\t%s\n", rep.Rate)
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
