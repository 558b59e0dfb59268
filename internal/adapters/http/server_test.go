package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/gridplan/internal/metrics"
	"github.com/aretw0/gridplan/pkg/config"
	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/evaluation"
	"github.com/aretw0/gridplan/pkg/grid"
	"github.com/aretw0/gridplan/pkg/solver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(t *testing.T, hooks domain.SolverHooks) Snapshot {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 3, 3
	cfg.Start = domain.Cell{Row: 0, Col: 0}
	cfg.Goal = domain.Cell{Row: 2, Col: 2}
	cfg.Obstacles = []domain.Cell{{Row: 1, Col: 1}}
	cfg.Gamma = 0.9
	cfg.Transition.Model = string(grid.Deterministic)
	require.NoError(t, cfg.Validate())

	g, err := grid.New(cfg.GridOptions())
	require.NoError(t, err)
	s, err := solver.New(g, cfg.Gamma, cfg.Theta, solver.WithHooks(hooks))
	require.NoError(t, err)
	res, err := s.ValueIteration(context.Background())
	require.NoError(t, err)

	return Snapshot{Config: cfg, Grid: g, Results: []*domain.Result{res}}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	handler := NewHandler(newSnapshot(t, domain.SolverHooks{}))

	rr := get(t, handler, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	handler := NewHandler(newSnapshot(t, domain.SolverHooks{}), WithVersion("1.2.3"))

	rr := get(t, handler, "/info")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "gridplan", resp["app"])
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestGetGrid(t *testing.T) {
	handler := NewHandler(newSnapshot(t, domain.SolverHooks{}))

	rr := get(t, handler, "/grid")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp gridResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Width)
	assert.Equal(t, 8, resp.States)
	assert.Equal(t, []domain.Cell{{Row: 1, Col: 1}}, resp.Obstacles)
	assert.Equal(t, grid.Deterministic, resp.Model)
	assert.Nil(t, resp.Branches)
	assert.Equal(t, 100.0, resp.Rewards.Goal)
}

func TestResults(t *testing.T) {
	handler := NewHandler(newSnapshot(t, domain.SolverHooks{}))

	t.Run("list", func(t *testing.T) {
		rr := get(t, handler, "/results")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp []resultSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, domain.AlgorithmValueIteration, resp[0].Algorithm)
	})

	t.Run("by short name", func(t *testing.T) {
		rr := get(t, handler, "/results/vi")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Algorithm domain.Algorithm `json:"algorithm"`
			Policy    []struct {
				Row    int    `json:"row"`
				Col    int    `json:"col"`
				Action string `json:"action"`
			} `json:"policy"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, domain.AlgorithmValueIteration, resp.Algorithm)
		assert.Len(t, resp.Policy, 8)
	})

	t.Run("path", func(t *testing.T) {
		rr := get(t, handler, "/results/value_iteration/path")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp pathResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.ReachedGoal)
		assert.Equal(t, 4, resp.Moves)
		assert.Equal(t, domain.Cell{Row: 0, Col: 0}, resp.Path[0])
	})

	t.Run("not run", func(t *testing.T) {
		rr := get(t, handler, "/results/pi")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		rr := get(t, handler, "/results/dijkstra")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unknown algorithm")
	})
}

func TestGetComparison(t *testing.T) {
	snap := newSnapshot(t, domain.SolverHooks{})

	rr := get(t, NewHandler(snap), "/comparison")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	cmp, err := evaluation.Compare(snap.Grid, snap.Results, 10, snap.Config.MaxPathLength, solver.NewRand(1))
	require.NoError(t, err)
	snap.Comparison = &cmp

	rr = get(t, NewHandler(snap), "/comparison")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success_rate":100`)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	col, err := metrics.New(reg)
	require.NoError(t, err)

	handler := NewHandler(newSnapshot(t, col.Hooks()), WithGatherer(reg))

	rr := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `gridplan_sweeps_total{algorithm="value_iteration"}`), body)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	rr := get(t, NewHandler(newSnapshot(t, domain.SolverHooks{})), "/metrics")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
