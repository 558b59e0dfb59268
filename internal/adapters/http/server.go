package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/gridplan/internal/logging"
	"github.com/aretw0/gridplan/pkg/config"
	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/evaluation"
	"github.com/aretw0/gridplan/pkg/grid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot is the read-only planning state served over HTTP.
type Snapshot struct {
	Config     config.Config
	Grid       *grid.Grid
	Results    []*domain.Result
	Comparison *evaluation.Comparison
}

// Server serves a Snapshot as JSON.
type Server struct {
	snapshot Snapshot
	version  string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates the HTTP handler for snap.
func NewHandler(snap Snapshot, opts ...Option) http.Handler {
	s := &Server{snapshot: snap}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/grid", s.GetGrid)
	r.Get("/comparison", s.GetComparison)
	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.ListResults)
		r.Get("/{algorithm}", s.GetResult)
		r.Get("/{algorithm}/path", s.GetPath)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "gridplan",
		"version": s.version,
	})
}

type gridResponse struct {
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	Start     domain.Cell          `json:"start"`
	Goal      domain.Cell          `json:"goal"`
	Obstacles []domain.Cell        `json:"obstacles"`
	States    int                  `json:"states"`
	Model     grid.TransitionModel `json:"model"`
	Rewards   grid.Rewards         `json:"rewards"`
	Branches  *grid.Branches       `json:"branches,omitempty"`
	Gamma     float64              `json:"gamma"`
	Theta     float64              `json:"theta"`
}

// GetGrid handles GET /grid.
func (s *Server) GetGrid(w http.ResponseWriter, r *http.Request) {
	g := s.snapshot.Grid
	resp := gridResponse{
		Width:     g.Width(),
		Height:    g.Height(),
		Start:     g.Start(),
		Goal:      g.Goal(),
		Obstacles: g.Obstacles(),
		States:    g.States().Len(),
		Model:     g.Model(),
		Rewards:   g.Rewards(),
		Gamma:     s.snapshot.Config.Gamma,
		Theta:     s.snapshot.Config.Theta,
	}
	if g.Model() == grid.Stochastic {
		b := g.Branches()
		resp.Branches = &b
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type resultSummary struct {
	Algorithm  domain.Algorithm `json:"algorithm"`
	Iterations int              `json:"iterations"`
	ElapsedMS  float64          `json:"elapsed_ms"`
}

// ListResults handles GET /results.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	out := make([]resultSummary, 0, len(s.snapshot.Results))
	for _, res := range s.snapshot.Results {
		out = append(out, resultSummary{
			Algorithm:  res.Algorithm,
			Iterations: res.Iterations,
			ElapsedMS:  float64(res.Elapsed.Microseconds()) / 1000,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetResult handles GET /results/{algorithm}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type pathResponse struct {
	Algorithm   domain.Algorithm `json:"algorithm"`
	Path        []domain.Cell    `json:"path"`
	Moves       int              `json:"moves"`
	ReachedGoal bool             `json:"reached_goal"`
}

// GetPath handles GET /results/{algorithm}/path.
func (s *Server) GetPath(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	g := s.snapshot.Grid
	path := g.TracePath(res.Policy, s.snapshot.Config.MaxPathLength)
	s.writeJSON(w, http.StatusOK, pathResponse{
		Algorithm:   res.Algorithm,
		Path:        path,
		Moves:       len(path) - 1,
		ReachedGoal: path[len(path)-1] == g.Goal(),
	})
}

// GetComparison handles GET /comparison.
func (s *Server) GetComparison(w http.ResponseWriter, r *http.Request) {
	if s.snapshot.Comparison == nil {
		s.writeError(w, http.StatusNotFound, errors.New("no comparison available"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.snapshot.Comparison)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*domain.Result, bool) {
	alg, err := domain.ParseAlgorithm(chi.URLParam(r, "algorithm"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	for _, res := range s.snapshot.Results {
		if res.Algorithm == alg {
			return res, true
		}
	}
	s.writeError(w, http.StatusNotFound, errors.New(alg.Title()+" has not been run"))
	return nil, false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
