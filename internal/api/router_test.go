package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-savings/internal/api/handlers"
	"battery-savings/internal/api/models"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/logger"
	"battery-savings/internal/metrics"
	"battery-savings/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticDay []model.DataRow

func (d staticDay) LoadDay(context.Context) ([]model.DataRow, error) { return d, nil }

type brokenDay struct{}

func (brokenDay) LoadDay(context.Context) ([]model.DataRow, error) {
	return nil, errors.New("connection refused")
}

func newTestServer(t *testing.T, day data.DayLoader) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.yaml"), []byte(`
battery:
  name: Small 2 kWh
  capacity_kwh: 2
  efficiency: 0.9
  max_power_kw: 2
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("battery: [\n"), 0o644))

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPromRecorderWithRegistry(reg)
	require.NoError(t, err)

	deps := &handlers.Deps{
		Config:    config.Default(),
		Day:       day,
		Batteries: handlers.NewBatteryCatalog(dir, logger.NopLogger{}),
		Results:   handlers.NewResultStore(10),
		Recorder:  rec,
		Log:       logger.NopLogger{},
	}
	return NewRouter(deps, Options{Gatherer: reg})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const singleRow = `[{"time": "00:00", "consumption_kwh": 2, "pv_production_kwh": 0, "price_eur_per_kwh": 0.30}]`

func demoDay(t *testing.T) []model.DataRow {
	rows, err := data.SyntheticDay{Seed: 11}.LoadDay(context.Background())
	require.NoError(t, err)
	return rows
}

func TestSavingsAndLedger(t *testing.T) {
	r := newTestServer(t, staticDay(nil))

	w := do(t, r, http.MethodPost, "/api/v1/savings",
		`{"data": `+singleRow+`, "strategy": "eco", "include_ledger": true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SavingsResponse](t, w)
	assert.Equal(t, "eco", resp.Strategy)
	assert.Equal(t, 0.6, resp.BaselineCost)
	assert.Equal(t, 0.22, resp.StrategyCost)
	assert.Equal(t, 0.38, resp.Savings)
	require.Len(t, resp.Ledger, 1)
	assert.Equal(t, model.ActionSelfConsumption, resp.Ledger[0].Action)
	// 1.25 kWh delivered costs 1.25/0.9 kWh of charge.
	assert.InDelta(t, (5-1.25/0.9)/10, resp.Summary.FinalSOC, 1e-9)

	w = do(t, r, http.MethodGet, "/api/v1/savings/"+resp.ID+"/ledger", "")
	require.Equal(t, http.StatusOK, w.Code)
	ledger := decode[models.LedgerResponse](t, w)
	assert.Equal(t, resp.ID, ledger.ID)
	assert.Equal(t, resp.Ledger, ledger.Ledger)

	w = do(t, r, http.MethodGet, "/api/v1/savings/not-a-uuid/ledger", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/savings/7f1c3a36-3f7a-4a43-9f39-8c6d1f0b5a11/ledger", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavingsRejectsBadInput(t *testing.T) {
	r := newTestServer(t, staticDay(nil))

	w := do(t, r, http.MethodPost, "/api/v1/savings", `{"data": `+singleRow+`, "strategy": "bogus"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INVALID_STRATEGY", e.Error.Code)
	assert.Contains(t, e.Error.Message, "bogus")
	assert.Equal(t, "bogus", e.Error.Details["strategy"])

	w = do(t, r, http.MethodPost, "/api/v1/savings", `{"data": `+singleRow+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/savings",
		`{"data": `+singleRow+`, "strategy": "smartshift", "intervals": [{"start": "25:00", "end": "26:00", "action": "idle"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[models.ErrorResponse](t, w).Error.Code)

	w = do(t, r, http.MethodPost, "/api/v1/savings",
		`{"data": `+singleRow+`, "strategy": "eco", "battery": {"efficiency": 3}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CONFIG", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestSavingsWithBatteryPreset(t *testing.T) {
	r := newTestServer(t, staticDay(nil))

	w := do(t, r, http.MethodPost, "/api/v1/savings",
		`{"data": `+singleRow+`, "strategy": "eco", "battery_id": "small"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// 2 kW for a quarter hour caps the discharge at 0.5 kWh.
	assert.Equal(t, 0.15, decode[models.SavingsResponse](t, w).Savings)

	for _, id := range []string{"missing", "../small", ".hidden"} {
		w = do(t, r, http.MethodPost, "/api/v1/savings",
			`{"data": `+singleRow+`, "strategy": "eco", "battery_id": "`+id+`"}`)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
}

func TestCompare(t *testing.T) {
	r := newTestServer(t, staticDay(nil))
	body, err := json.Marshal(map[string]any{
		"data": demoDay(t),
		"intervals": []map[string]string{
			{"start": "02:00", "end": "05:00", "action": "charge_from_grid"},
			{"start": "17:00", "end": "20:00", "action": "discharge_to_grid"},
		},
	})
	require.NoError(t, err)

	w := do(t, r, http.MethodPost, "/api/v1/savings/compare", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.CompareResponse](t, w)
	require.Len(t, resp.Comparison, 3)
	for i, c := range resp.Comparison {
		assert.Equal(t, i+1, c.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Comparison[i-1].Savings, c.Savings)
		}
	}
	assert.Equal(t, data.SlotsPerDay, resp.Profile.Count)
}

func TestPlan(t *testing.T) {
	r := newTestServer(t, staticDay(nil))
	body, err := json.Marshal(map[string]any{"data": demoDay(t), "charge_steps": 50})
	require.NoError(t, err)

	w := do(t, r, http.MethodPost, "/api/v1/plan", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.PlanResponse](t, w)
	assert.NotEmpty(t, resp.Intervals)
	assert.Greater(t, resp.Savings, 0.0)

	w = do(t, r, http.MethodPost, "/api/v1/plan", `{"data": `+singleRow+`, "charge_steps": 100000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPost, "/api/v1/plan", `{"data": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanRejectsOversizedDay(t *testing.T) {
	r := newTestServer(t, staticDay(nil))
	rows := make([]model.DataRow, 4*data.SlotsPerDay+1)
	for i := range rows {
		rows[i] = model.DataRow{Time: model.ClockTime(i % model.MinutesPerDay), ConsumptionKWh: 0.1, PriceEURPerKWh: 0.2}
	}
	body, err := json.Marshal(map[string]any{"data": rows, "charge_steps": 10})
	require.NoError(t, err)

	w := do(t, r, http.MethodPost, "/api/v1/plan", string(body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "385 rows")
}

func TestInsights(t *testing.T) {
	day := demoDay(t)
	r := newTestServer(t, staticDay(day))

	w := do(t, r, http.MethodPost, "/api/v1/insights", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	empty := decode[models.InsightsResponse](t, w)
	assert.True(t, empty.Success)
	assert.Equal(t, "smartshift", empty.Strategy)
	assert.Equal(t, 0.0, empty.EstimatedSavings)
	assert.Equal(t, []string{}, empty.Devices)
	assert.False(t, empty.AppliedAt.IsZero())

	w = do(t, r, http.MethodPost, "/api/v1/insights", `{
		"intervals": [
			{"start": "02:00", "end": "06:00", "action": "charge_from_grid"},
			{"start": "06:00", "end": "17:00", "action": "self_consumption"},
			{"start": "17:00", "end": "21:00", "action": "discharge_to_grid"},
			{"start": "21:00", "end": "02:00", "action": "idle"}
		],
		"devices": ["ev-1", "battery-1"]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.InsightsResponse](t, w)
	assert.Len(t, resp.Intervals, 4)
	assert.Equal(t, []string{"ev-1", "battery-1"}, resp.Devices)
	assert.NotEqual(t, 0.0, resp.EstimatedSavings)
	assert.Greater(t, resp.EnergyUsed, 0.0)

	w = do(t, r, http.MethodPost, "/api/v1/insights", `{"strategy": "eco"}`)
	require.Equal(t, http.StatusOK, w.Code)
	eco := decode[models.InsightsResponse](t, w)
	assert.Greater(t, eco.EstimatedSavings, 0.0)
	assert.Greater(t, eco.CO2Avoided, 0.0)

	w = do(t, r, http.MethodPost, "/api/v1/insights", `{"strategy": "turbo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDayEndpoints(t *testing.T) {
	day := demoDay(t)
	r := newTestServer(t, staticDay(day))

	w := do(t, r, http.MethodGet, "/api/v1/load_profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	lp := decode[models.LoadProfileResponse](t, w)
	assert.Equal(t, len(day), lp.Count)
	assert.Equal(t, day, lp.Rows)

	w = do(t, r, http.MethodGet, "/api/v1/strategy_evaluation", "")
	require.Equal(t, http.StatusOK, w.Code)
	ev := decode[models.StrategyEvaluationResponse](t, w)
	assert.Equal(t, 50.0, ev.BatterySOC)
	assert.Greater(t, ev.EstimatedCost, 0.0)
	assert.Equal(t, len(day), ev.Profile.Count)

	broken := newTestServer(t, brokenDay{})
	for _, path := range []string{"/api/v1/load_profile", "/api/v1/strategy_evaluation"} {
		w = do(t, broken, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadGateway, w.Code, path)
	}
	w = do(t, broken, http.MethodPost, "/api/v1/insights", `{}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestCatalogueAndHealth(t *testing.T) {
	r := newTestServer(t, staticDay(nil))

	w := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/strategies", "")
	require.Equal(t, http.StatusOK, w.Code)
	var strategies struct {
		Strategies []models.StrategyInfo `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &strategies))
	names := make([]string, 0, len(strategies.Strategies))
	for _, s := range strategies.Strategies {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"smartshift", "eco", "peak"}, names)

	w = do(t, r, http.MethodGet, "/api/v1/batteries", "")
	require.Equal(t, http.StatusOK, w.Code)
	var batteries struct {
		Batteries []models.BatteryInfo `json:"batteries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batteries))
	require.Len(t, batteries.Batteries, 1)
	assert.Equal(t, "small", batteries.Batteries[0].ID)
	assert.Equal(t, "Small 2 kWh", batteries.Batteries[0].Name)

	w = do(t, r, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestServer(t, staticDay(nil))
	do(t, r, http.MethodPost, "/api/v1/savings", `{"data": `+singleRow+`, "strategy": "eco"}`)
	do(t, r, http.MethodPost, "/api/v1/savings", `{"data": `+singleRow+`, "strategy": "bogus"}`)

	w := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.Bytes()
	assert.True(t, bytes.Contains(body, []byte(`battery_savings_evaluations_total{strategy="eco"} 1`)), string(body))
	assert.True(t, bytes.Contains(body, []byte("battery_savings_invalid_strategy_total 1")))
}
