package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidad/internal/application/ledger"
	"github.com/jhoicas/contabilidad/internal/domain/exchange"
	"github.com/jhoicas/contabilidad/internal/infrastructure/sqlite"
	"github.com/jhoicas/contabilidad/internal/infrastructure/store"
	apphttp "github.com/jhoicas/contabilidad/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/contabilidad/pkg/jwt"
	"github.com/jhoicas/contabilidad/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: API completa sobre SQLite temporal
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t      *testing.T
	app    *fiber.App
	admin  string
	viewer string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(ctx, db, store.SQLite))

	rates, err := exchange.NewRates(decimal.NewFromInt(410))
	require.NoError(t, err)
	coord := ledger.NewCoordinator(store.NewTxRunner(db, store.SQLite), rates, logger.Nop(), ledger.Settings{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Coordinator: coord, JWTSecret: testJWTSecret})
	return &apiClient{
		t:      t,
		app:    app,
		admin:  tokenForRole(t, pkgjwt.RoleAdmin),
		viewer: tokenForRole(t, pkgjwt.RoleViewer),
	}
}

// do envía la petición y decodifica el cuerpo JSON como objeto.
func (a *apiClient) do(method, path, auth string, body any) (int, map[string]any) {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func assertAmount(t *testing.T, want string, got any) {
	t.Helper()
	s, ok := got.(string)
	require.True(t, ok, "se esperaba un monto como string, obtenido %v", got)
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(s)), "esperado %s, obtenido %s", want, s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caja
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_HealthSinToken(t *testing.T) {
	api := newAPI(t)
	status, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_IngresoYSaldo(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodPost, "/api/cash/income", api.admin,
		map[string]string{"amount": "100", "currency": "usd", "till": "cfg", "memo": "fondo"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.NotEmpty(t, body["movement_id"])
	assert.Equal(t, "CFG", body["till"])
	assert.Equal(t, "USD", body["currency"])
	assertAmount(t, "100", body["balance"])

	status, body = api.do(http.MethodGet, "/api/cash/balance?till=CFG&currency=USD", api.viewer, nil)
	require.Equal(t, http.StatusOK, status, body)
	assertAmount(t, "100", body["balance"])

	status, body = api.do(http.MethodGet, "/api/cash/balances", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["balances"], 9)

	status, body = api.do(http.MethodGet, "/api/cash/history?days=1", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
}

func TestAPI_ViewerNoPuedeRegistrar(t *testing.T) {
	api := newAPI(t)
	status, body := api.do(http.MethodPost, "/api/cash/income", api.viewer,
		map[string]string{"amount": "100", "currency": "USD", "till": "CFG"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	api := newAPI(t)
	status, _ := api.do(http.MethodGet, "/api/cash/balances", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_GastoSinFondosEsConflicto(t *testing.T) {
	api := newAPI(t)
	status, body := api.do(http.MethodPost, "/api/cash/expense", api.admin,
		map[string]string{"amount": "5", "currency": "CUP", "till": "SC"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])
}

func TestAPI_ErroresDeEntrada(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodPost, "/api/cash/income", api.admin,
		map[string]string{"amount": "10", "currency": "EUR", "till": "CFG"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = api.do(http.MethodPost, "/api/cash/income", api.admin, "{")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body["code"])

	status, body = api.do(http.MethodGet, "/api/cash/balance?till=XYZ&currency=USD", api.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_Traspaso(t *testing.T) {
	api := newAPI(t)
	status, _ := api.do(http.MethodPost, "/api/cash/income", api.admin,
		map[string]string{"amount": "10", "currency": "USD", "till": "CFG"})
	require.Equal(t, http.StatusCreated, status)

	status, body := api.do(http.MethodPost, "/api/cash/transfer", api.admin, map[string]string{
		"amount": "10", "from_currency": "USD", "from_till": "CFG", "to_currency": "CUP", "to_till": "SC",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assertAmount(t, "4100", body["to_amount"])
	assertAmount(t, "0", body["from_balance"])
	assertAmount(t, "4100", body["to_balance"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario, consignaciones y deudas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CompraYVentaEstandar(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodPost, "/api/inventory/purchases", api.admin, map[string]string{
		"code": "abc", "qty": "10", "unit_cost": "2", "currency": "USD", "supplier": "mayorista",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "ABC", body["code"])
	assertAmount(t, "10", body["stock"])
	assertAmount(t, "20", body["pending_payable"])

	status, body = api.do(http.MethodPost, "/api/inventory/sales", api.admin, map[string]string{
		"code": "ABC", "qty": "4", "total": "20", "currency": "USD", "till": "CFG", "agent_or_note": "cliente de paso",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, false, body["consigned"])
	assertAmount(t, "8", body["cogs"])
	assertAmount(t, "6", body["remaining_qty"])
	assertAmount(t, "20", body["balance"])

	status, body = api.do(http.MethodGet, "/api/inventory/products/abc", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assertAmount(t, "6", body["stock"])

	status, body = api.do(http.MethodGet, "/api/inventory/products", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, body = api.do(http.MethodGet, "/api/reports/profit", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assertAmount(t, "12", body["gross_margin_usd"])
}

func TestAPI_VentaSinStock(t *testing.T) {
	api := newAPI(t)
	status, body := api.do(http.MethodPost, "/api/inventory/sales", api.admin, map[string]string{
		"code": "NADA", "qty": "1", "total": "5", "currency": "USD", "till": "CFG",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestAPI_ConsignacionYCobroAgente(t *testing.T) {
	api := newAPI(t)
	status, _ := api.do(http.MethodPost, "/api/inventory/purchases", api.admin, map[string]string{
		"code": "ABC", "qty": "10", "unit_cost": "2", "currency": "USD", "supplier": "mayorista",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := api.do(http.MethodPost, "/api/consignments", api.admin, map[string]string{
		"code": "ABC", "qty": "2", "agent": "juan", "unit_price": "5", "currency": "USD",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "JUAN", body["agent"])
	assertAmount(t, "8", body["general_stock"])
	assertAmount(t, "10", body["pending_receivable"])
	assert.Equal(t, false, body["terms_ignored"])

	status, body = api.do(http.MethodGet, "/api/consignments/JUAN", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, body = api.do(http.MethodPost, "/api/debts/agent-payments", api.admin, map[string]string{
		"actor": "juan", "amount": "4", "currency": "USD", "till": "CFG",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["debt_found"])
	assertAmount(t, "4", body["applied"])
	assertAmount(t, "6", body["pending"])

	status, body = api.do(http.MethodDelete, "/api/inventory/products/ABC", api.admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestAPI_PagoProveedorYDeudas(t *testing.T) {
	api := newAPI(t)
	status, _ := api.do(http.MethodPost, "/api/cash/income", api.admin,
		map[string]string{"amount": "50", "currency": "USD", "till": "TRD"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = api.do(http.MethodPost, "/api/inventory/purchases", api.admin, map[string]string{
		"code": "XYZ", "qty": "5", "unit_cost": "4", "currency": "USD", "supplier": "mayorista",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := api.do(http.MethodPost, "/api/debts/supplier-payments", api.admin, map[string]string{
		"actor": "MAYORISTA", "amount": "15", "currency": "USD", "till": "TRD",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assertAmount(t, "5", body["pending"])
	assertAmount(t, "35", body["balance"])

	status, body = api.do(http.MethodGet, "/api/debts?direction=payable", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, body = api.do(http.MethodGet, "/api/debts?direction=otra", api.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(http.MethodGet, "/api/debts/totals", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["totals"], 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tasa de cambio
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_TasaDeCambio(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodGet, "/api/rate", api.viewer, nil)
	require.Equal(t, http.StatusOK, status)
	assertAmount(t, "410", body["rate"])

	status, body = api.do(http.MethodPut, "/api/rate", api.admin, map[string]string{"rate": "420"})
	require.Equal(t, http.StatusOK, status, body)
	assertAmount(t, "420", body["rate"])

	status, body = api.do(http.MethodPut, "/api/rate", api.admin, map[string]string{"rate": "0"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, _ = api.do(http.MethodPut, "/api/rate", api.viewer, map[string]string{"rate": "430"})
	assert.Equal(t, http.StatusForbidden, status)
}
