package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidad/internal/domain"
	"github.com/jhoicas/contabilidad/internal/domain/entity"
	"github.com/jhoicas/contabilidad/internal/domain/repository"
	"github.com/jhoicas/contabilidad/internal/infrastructure/sqlite"
	"github.com/jhoicas/contabilidad/internal/infrastructure/store"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(ctx, db, store.SQLite))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestMigrateIdempotente(t *testing.T) {
	db := openDB(t)
	require.NoError(t, store.Migrate(context.Background(), db, store.SQLite))

	d, err := store.DialectOf(db)
	require.NoError(t, err)
	assert.Equal(t, store.SQLite, d)
}

func TestMovementRepo_CreateYListByTill(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMovementRepository(openDB(t))

	income := &entity.CashMovement{
		ID: "m-1", CreatedAt: t0, Kind: entity.MovementIncome, Direction: entity.DirectionCredit,
		Amount: dec("100.25"), Currency: entity.CurrencyUSD, Till: entity.TillCFG, OperatorID: "op", Memo: "venta",
	}
	sale := &entity.CashMovement{
		ID: "m-2", CreatedAt: t0.Add(time.Minute), Kind: entity.MovementSale, Direction: entity.DirectionCredit,
		Amount: dec("30"), Currency: entity.CurrencyUSD, Till: entity.TillCFG, OperatorID: "op",
		COGS: decimal.NewNullDecimal(dec("12.5")), COGSCurrency: entity.CurrencyUSD,
	}
	other := &entity.CashMovement{
		ID: "m-3", CreatedAt: t0, Kind: entity.MovementIncome, Direction: entity.DirectionCredit,
		Amount: dec("5"), Currency: entity.CurrencyCUP, Till: entity.TillCFG, OperatorID: "op",
	}
	for _, m := range []*entity.CashMovement{income, sale, other} {
		require.NoError(t, repo.Create(ctx, m))
	}
	assert.Less(t, income.Seq, sale.Seq, "seq crece con cada inserción")

	list, err := repo.ListByTill(ctx, entity.TillCFG, entity.CurrencyUSD)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m-1", list[0].ID)
	assertDec(t, "100.25", list[0].Amount)
	assert.True(t, list[0].CreatedAt.Equal(t0))
	assert.False(t, list[0].COGS.Valid)
	assert.Equal(t, "venta", list[0].Memo)

	assert.True(t, list[1].COGS.Valid)
	assertDec(t, "12.5", list[1].COGS.Decimal)
	assert.Equal(t, entity.CurrencyUSD, list[1].COGSCurrency)

	sales, err := repo.ListByKind(ctx, entity.MovementSale)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "m-2", sales[0].ID)
}

func TestMovementRepo_IDDuplicadoEsConflicto(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMovementRepository(openDB(t))
	m := func() *entity.CashMovement {
		return &entity.CashMovement{
			ID: "dup", CreatedAt: t0, Kind: entity.MovementIncome, Direction: entity.DirectionCredit,
			Amount: dec("1"), Currency: entity.CurrencyUSD, Till: entity.TillSC, OperatorID: "op",
		}
	}
	require.NoError(t, repo.Create(ctx, m()))
	err := repo.Create(ctx, m())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMovementRepo_ListSinceMasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMovementRepository(openDB(t))
	for i, id := range []string{"viejo", "medio", "nuevo"} {
		require.NoError(t, repo.Create(ctx, &entity.CashMovement{
			ID: id, CreatedAt: t0.AddDate(0, 0, i*5), Kind: entity.MovementIncome, Direction: entity.DirectionCredit,
			Amount: dec("1"), Currency: entity.CurrencyUSD, Till: entity.TillTRD, OperatorID: "op",
		}))
	}

	list, err := repo.ListSince(ctx, t0.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "nuevo", list[0].ID)
	assert.Equal(t, "medio", list[1].ID)

	all, err := repo.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := store.NewProductRepository(openDB(t), store.SQLite)

	missing, err := repo.GetForUpdate(ctx, "NADA")
	require.NoError(t, err)
	assert.Nil(t, missing)

	p := &entity.Product{
		Code: "ARROZ", Name: "Arroz", UnitCost: dec("1.333333"), CostCurrency: entity.CurrencyUSD,
		StockQty: dec("10"), CreatedAt: t0, UpdatedAt: t0,
	}
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, p), domain.ErrConflict)

	p.StockQty = dec("7.5")
	p.UnitCost = dec("2")
	p.UpdatedAt = t0.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.Get(ctx, "ARROZ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assertDec(t, "7.5", got.StockQty)
	assertDec(t, "2", got.UnitCost)
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Hour)))
	assert.True(t, got.CreatedAt.Equal(t0))

	require.NoError(t, repo.Create(ctx, &entity.Product{
		Code: "ACEITE", Name: "Aceite", UnitCost: dec("3"), CostCurrency: entity.CurrencyCUP,
		StockQty: dec("1"), CreatedAt: t0, UpdatedAt: t0,
	}))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ACEITE", list[0].Code)

	require.NoError(t, repo.Delete(ctx, "ACEITE"))
	assert.ErrorIs(t, repo.Delete(ctx, "ACEITE"), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{Code: "NADA"}), domain.ErrNotFound)
}

func TestConsignmentRepo_ImpideBorrarProductoConsignado(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := store.NewProductRepository(db, store.SQLite)
	consignments := store.NewConsignmentRepository(db, store.SQLite)

	require.NoError(t, products.Create(ctx, &entity.Product{
		Code: "RON", Name: "Ron", UnitCost: dec("4"), CostCurrency: entity.CurrencyUSD,
		StockQty: dec("0"), CreatedAt: t0, UpdatedAt: t0,
	}))
	c := &entity.ConsignmentPlacement{
		Code: "RON", Agent: "PEDRO", OutstandingQty: dec("3"), UnitPrice: dec("6"),
		Currency: entity.CurrencyUSD, PlacedAt: t0, UpdatedAt: t0,
	}
	require.NoError(t, consignments.Create(ctx, c))
	assert.ErrorIs(t, consignments.Create(ctx, c), domain.ErrConflict)

	c.OutstandingQty = dec("1")
	require.NoError(t, consignments.UpdateQty(ctx, c))
	got, err := consignments.Get(ctx, "RON", "PEDRO")
	require.NoError(t, err)
	require.NotNil(t, got)
	assertDec(t, "1", got.OutstandingQty)
	assertDec(t, "6", got.UnitPrice)

	byAgent, err := consignments.ListByAgent(ctx, "PEDRO")
	require.NoError(t, err)
	assert.Len(t, byAgent, 1)

	assert.Error(t, products.Delete(ctx, "RON"), "la FK debe impedir el borrado")

	require.NoError(t, consignments.DeleteByCode(ctx, "RON"))
	require.NoError(t, products.Delete(ctx, "RON"))
}

func TestDebtRepo_ListPorSentido(t *testing.T) {
	ctx := context.Background()
	repo := store.NewDebtRepository(openDB(t), store.SQLite)

	for _, d := range []*entity.Debt{
		{Actor: "PROV", Currency: entity.CurrencyUSD, Direction: entity.DebtPayable, PendingAmount: dec("50"), UpdatedAt: t0},
		{Actor: "PROV", Currency: entity.CurrencyCUP, Direction: entity.DebtPayable, PendingAmount: dec("900"), UpdatedAt: t0},
		{Actor: "ANA", Currency: entity.CurrencyUSD, Direction: entity.DebtReceivable, PendingAmount: dec("10"), UpdatedAt: t0},
	} {
		require.NoError(t, repo.Create(ctx, d))
	}

	payables, err := repo.List(ctx, entity.DebtPayable)
	require.NoError(t, err)
	assert.Len(t, payables, 2)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	d, err := repo.GetForUpdate(ctx, "ANA", entity.CurrencyUSD, entity.DebtReceivable)
	require.NoError(t, err)
	require.NotNil(t, d)
	d.PendingAmount = dec("0")
	require.NoError(t, repo.UpdateAmount(ctx, d))

	got, err := repo.Get(ctx, "ANA", entity.CurrencyUSD, entity.DebtReceivable)
	require.NoError(t, err)
	assert.True(t, got.PendingAmount.IsZero())

	none, err := repo.Get(ctx, "ANA", entity.CurrencyCUP, entity.DebtReceivable)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTxRunner_RollbackSiFnFalla(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := store.NewTxRunner(db, store.SQLite)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ConsignmentRepository,
		debtRepo repository.DebtRepository,
	) error {
		require.NoError(t, productRepo.Create(ctx, &entity.Product{
			Code: "X", Name: "X", UnitCost: dec("1"), CostCurrency: entity.CurrencyUSD,
			StockQty: dec("1"), CreatedAt: t0, UpdatedAt: t0,
		}))
		require.NoError(t, debtRepo.Create(ctx, &entity.Debt{
			Actor: "P", Currency: entity.CurrencyUSD, Direction: entity.DebtPayable, PendingAmount: dec("1"), UpdatedAt: t0,
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := store.NewProductRepository(db, store.SQLite).Get(ctx, "X")
	require.NoError(t, err)
	assert.Nil(t, p, "el producto no debe persistir tras el rollback")
	debts, err := store.NewDebtRepository(db, store.SQLite).List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestTxRunner_CommitYView(t *testing.T) {
	ctx := context.Background()
	runner := store.NewTxRunner(openDB(t), store.SQLite)

	require.NoError(t, runner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ProductRepository,
		_ repository.ConsignmentRepository,
		_ repository.DebtRepository,
	) error {
		return movRepo.Create(ctx, &entity.CashMovement{
			ID: "c-1", CreatedAt: t0, Kind: entity.MovementIncome, Direction: entity.DirectionCredit,
			Amount: dec("9"), Currency: entity.CurrencyUSD, Till: entity.TillSC, OperatorID: "op",
		})
	}))

	var count int
	require.NoError(t, runner.View(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ProductRepository,
		_ repository.ConsignmentRepository,
		_ repository.DebtRepository,
	) error {
		list, err := movRepo.ListByTill(ctx, entity.TillSC, entity.CurrencyUSD)
		count = len(list)
		return err
	}))
	assert.Equal(t, 1, count)
}
