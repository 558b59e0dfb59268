package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallGrid = []string{
	"width=4",
	"height=3",
	"goal=2,3",
	"obstacles=1,1",
	"transition.model=deterministic",
	"gamma=0.9",
	"simulations=50",
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(Options{Overrides: smallGrid})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, domain.Cell{Row: 2, Col: 3}, cfg.Goal)
	assert.Equal(t, []domain.Cell{{Row: 1, Col: 1}}, cfg.Obstacles)
	assert.Equal(t, "deterministic", cfg.Transition.Model)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(Options{Overrides: []string{"gamma=1.5"}})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = loadConfig(Options{Overrides: []string{"no-equals-sign"}})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = loadConfig(Options{Overrides: []string{"obstacles=0,0"}})
	assert.ErrorIs(t, err, domain.ErrStartOnObstacle)
}

func TestParseAlgorithms(t *testing.T) {
	algs, err := parseAlgorithms("both")
	require.NoError(t, err)
	assert.Equal(t, []domain.Algorithm{domain.AlgorithmValueIteration, domain.AlgorithmPolicyIteration}, algs)

	algs, err = parseAlgorithms("pi")
	require.NoError(t, err)
	assert.Equal(t, []domain.Algorithm{domain.AlgorithmPolicyIteration}, algs)

	_, err = parseAlgorithms("bfs")
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestExecute_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Options:   Options{Overrides: smallGrid, Seed: 1, LogLevel: "error", Out: &buf},
		Algorithm: "both",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Value Iteration: converged after")
	assert.Contains(t, out, "Policy Iteration: converged after")
	assert.Contains(t, out, "Path reaches the goal in 5 moves.")
	assert.Contains(t, out, "100.00")
}

func TestExecute_Quiet(t *testing.T) {
	var buf bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Options:   Options{Overrides: smallGrid, LogLevel: "error", Out: &buf},
		Algorithm: "vi",
		Quiet:     true,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "converged after")
	assert.Contains(t, out, "Value Iteration")
	assert.NotContains(t, out, "Policy Iteration")
}

func TestExecute_Errors(t *testing.T) {
	err := Execute(context.Background(), RunOptions{
		Options:   Options{Overrides: smallGrid, Out: io.Discard},
		Algorithm: "astar",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	err = Execute(context.Background(), RunOptions{
		Options: Options{Overrides: smallGrid, LogLevel: "verbose", Out: io.Discard},
	})
	assert.Error(t, err)
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Execute(ctx, RunOptions{
		Options: Options{Overrides: smallGrid, LogLevel: "error", Out: &buf},
	})
	assert.NoError(t, err, "cancellation exits cleanly")
	assert.Contains(t, buf.String(), ">>> Cancelled.")
}

func TestValidate(t *testing.T) {
	var buf bytes.Buffer
	err := Validate(Options{Overrides: smallGrid, Out: &buf}, true)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "width: 4")
	assert.Contains(t, out, "Configuration is valid: 4x3 grid, 11 states, 1 shelves, deterministic moves.")
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ServeOptions{
			Options:   Options{Overrides: smallGrid, LogLevel: "error", Out: io.Discard},
			Algorithm: "both",
		}, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/results/pi/path")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var path struct {
		ReachedGoal bool `json:"reached_goal"`
		Moves       int  `json:"moves"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&path))
	assert.True(t, path.ReachedGoal)
	assert.Equal(t, 5, path.Moves)

	metrics, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
