package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/observability"
	"defi-path-finder/internal/pathfinder"
	"defi-path-finder/internal/reporting"
	"defi-path-finder/internal/snapshot"
	"defi-path-finder/internal/source"
	"defi-path-finder/internal/storage"
	"defi-path-finder/internal/stream"
)

// Server runs enumerations on a schedule and publishes their summaries.
type Server struct {
	// Configuration
	cfg      config.Config
	interval time.Duration

	// Components
	source  source.Source
	runs    storage.RunStore
	engine  *pathfinder.Engine
	hub     *stream.Hub
	metrics *observability.Metrics
	logger  logging.Logger

	// State
	mu        sync.Mutex
	started   time.Time
	running   bool
	lastRun   *storage.RunRecord
	lastError string
	runCount  int
	failCount int
}

// RunEvent is broadcast to websocket subscribers after every run.
type RunEvent struct {
	Type    string             `json:"type"` // run_completed | run_failed
	Run     *storage.RunRecord `json:"run,omitempty"`
	Summary *reporting.Summary `json:"summary,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// NewServer wires a server over an opened source and run store.
func NewServer(cfg config.Config, src source.Source, runs storage.RunStore, metrics *observability.Metrics, logger logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		interval: time.Duration(cfg.Server.IntervalSeconds) * time.Second,
		source:   src,
		runs:     runs,
		engine: pathfinder.New(pathfinder.Options{
			Workers:       cfg.Engine.Workers,
			ProgressEvery: cfg.Engine.ProgressEvery,
			Logger:        logger,
			Metrics:       metrics,
		}),
		hub:     stream.NewHub(nil, logger, metrics.StreamClients),
		metrics: metrics,
		logger:  logging.Component(logger, "server"),
		started: time.Now(),
	}
}

// Run executes the scheduler until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	// Run immediately on start
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.hub.Close()
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce loads the pools and runs one enumeration. Overlapping runs are
// skipped.
func (s *Server) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Info().Msg("run already in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	rec, summary, err := s.enumerate(ctx)

	s.mu.Lock()
	s.running = false
	s.runCount++
	if err != nil {
		s.failCount++
		s.lastError = err.Error()
	} else {
		s.lastRun = rec
		s.lastError = ""
	}
	s.mu.Unlock()

	event := RunEvent{Type: "run_completed", Run: rec, Summary: summary}
	if err != nil {
		s.logger.Error().Err(err).Msg("run failed")
		event = RunEvent{Type: "run_failed", Error: err.Error()}
	}
	if err := s.hub.Broadcast(event); err != nil && !errors.Is(err, stream.ErrClosed) {
		s.logger.Warn().Err(err).Msg("broadcast failed")
	}
}

func (s *Server) enumerate(ctx context.Context) (*storage.RunRecord, *reporting.Summary, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.RecordPools(ds.PoolsByExchange())

	include := make([]domain.TokenID, len(s.cfg.Engine.IncludeTokens))
	for i, id := range s.cfg.Engine.IncludeTokens {
		include[i] = domain.TokenID(id)
	}

	res, err := s.engine.Run(ds.Pools(), include)
	if err != nil {
		return nil, nil, err
	}

	report := reporting.NewGenerator(ds.Mapping).
		WithReserves(snapshot.NewReserveBook(ds.Records)).
		Generate(res)
	if len(s.cfg.Output.Formats) > 0 {
		if _, err := reporting.WriteAll(s.cfg.Output.Dir, s.cfg.Output.Formats, report); err != nil {
			return nil, nil, err
		}
	}

	rec := source.RecordOf(res)
	if err := s.runs.Insert(ctx, rec); err != nil {
		return nil, nil, err
	}
	return rec, &report.Summary, nil
}

// Handler returns the HTTP mux for health/metrics/status/ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Run summaries
	mux.Handle("/ws", s.hub)

	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status    string             `json:"status"`
	Uptime    string             `json:"uptime"`
	Source    string             `json:"source"`
	Running   bool               `json:"running"`
	Runs      int                `json:"runs"`
	Failures  int                `json:"failures"`
	LastError string             `json:"last_error,omitempty"`
	LastRun   *storage.RunRecord `json:"last_run,omitempty"`
	Clients   int                `json:"clients"`
}

// handleStatus returns server status as JSON. Before the first run of this
// process completes, the last run is read from the run store.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:    "running",
		Uptime:    time.Since(s.started).String(),
		Source:    s.cfg.Source.Kind,
		Running:   s.running,
		Runs:      s.runCount,
		Failures:  s.failCount,
		LastError: s.lastError,
		LastRun:   s.lastRun,
	}
	s.mu.Unlock()
	resp.Clients = s.hub.Clients()

	if resp.LastRun == nil {
		latest, err := s.runs.GetLatest(r.Context())
		switch {
		case err == nil:
			resp.LastRun = latest
		case !errors.Is(err, storage.ErrNotFound):
			s.logger.Warn().Err(err).Msg("read latest run")
		}
	}

	b, err := sonnet.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}
