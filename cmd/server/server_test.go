package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/observability"
	"defi-path-finder/internal/source"
	"defi-path-finder/internal/storage"
	"defi-path-finder/internal/storage/memory"
)

const triangle = `{
  "exchanges": ["sushiswap_v2"],
  "pools": [
    {"exchange": "sushiswap_v2",
     "token0": {"address": "0x2791bca1f2de4661ed88a30c99a7a9449aa84174", "symbol": "USDC", "decimals": 6},
     "token1": {"address": "0x7ceb23fd6bc0add59e62ac25578270cff1b9f619", "symbol": "WETH", "decimals": 18},
     "reserve0": "10", "reserve1": "20"},
    {"exchange": "sushiswap_v2",
     "token0": {"address": "0x7ceb23fd6bc0add59e62ac25578270cff1b9f619", "symbol": "WETH", "decimals": 18},
     "token1": {"address": "0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270", "symbol": "WMATIC", "decimals": 18},
     "reserve0": "30", "reserve1": "40"},
    {"exchange": "sushiswap_v2",
     "token0": {"address": "0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270", "symbol": "WMATIC", "decimals": 18},
     "token1": {"address": "0x2791bca1f2de4661ed88a30c99a7a9449aa84174", "symbol": "USDC", "decimals": 6},
     "reserve0": "50", "reserve1": "60"}
  ]
}`

type failingSource struct{}

func (failingSource) Load(context.Context) (*source.Dataset, error) {
	return nil, errors.New("source unavailable")
}

func (failingSource) Close() error { return nil }

func newTestServer(t *testing.T, src source.Source, runs storage.RunStore) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.Workers = 2
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Formats = []string{config.FormatJSON}
	cfg.Server.IntervalSeconds = 3600

	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	return NewServer(cfg, src, runs, metrics, logging.Nop())
}

func fileSource(t *testing.T) source.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pools.json")
	require.NoError(t, os.WriteFile(path, []byte(triangle), 0o644))
	src, err := source.Open(context.Background(), source.Options{Kind: config.SourceFile, Path: path})
	require.NoError(t, err)
	return src
}

func getStatus(t *testing.T, s *Server) StatusResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp StatusResponse
	require.NoError(t, sonnet.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_RunOnce(t *testing.T) {
	runs := memory.NewRunStore()
	s := newTestServer(t, fileSource(t), runs)

	s.runOnce(context.Background())

	latest, err := runs.GetLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Retained)
	assert.Equal(t, 6, latest.Paths)

	status := getStatus(t, s)
	assert.Equal(t, 1, status.Runs)
	assert.Equal(t, 0, status.Failures)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, latest.RunID, status.LastRun.RunID)

	files, err := filepath.Glob(filepath.Join(s.cfg.Output.Dir, "paths_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestServer_StatusFallsBackToRunStore(t *testing.T) {
	ctx := context.Background()
	runs := memory.NewRunStore()
	require.NoError(t, runs.Insert(ctx, &storage.RunRecord{RunID: "previous", StartedAt: 42, Paths: 12}))

	s := newTestServer(t, fileSource(t), runs)
	status := getStatus(t, s)

	assert.Equal(t, 0, status.Runs)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, "previous", status.LastRun.RunID)
	assert.Equal(t, 12, status.LastRun.Paths)
}

func TestServer_FailedRun(t *testing.T) {
	s := newTestServer(t, failingSource{}, memory.NewRunStore())

	s.runOnce(context.Background())

	status := getStatus(t, s)
	assert.Equal(t, 1, status.Runs)
	assert.Equal(t, 1, status.Failures)
	assert.Equal(t, "source unavailable", status.LastError)
	assert.Nil(t, status.LastRun)
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, failingSource{}, memory.NewRunStore())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_BroadcastsRuns(t *testing.T) {
	s := newTestServer(t, fileSource(t), memory.NewRunStore())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	s.runOnce(context.Background())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event RunEvent
	require.NoError(t, sonnet.Unmarshal(msg, &event))
	assert.Equal(t, "run_completed", event.Type)
	require.NotNil(t, event.Summary)
	assert.Equal(t, 6, event.Summary.Paths)
	assert.Equal(t, 1, event.Summary.Cycles)
}
