package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sugawarayuuta/sonnet"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/pathfinder"
	"defi-path-finder/internal/registry"
	"defi-path-finder/internal/snapshot"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func runTriangle(t *testing.T) (*pathfinder.Result, *registry.Mapping) {
	t.Helper()

	reg, err := registry.New(nil)
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}
	for _, tok := range []struct{ addr, sym string }{
		{"0x2791bca1f2de4661ed88a30c99a7a9449aa84174", "USDC"},
		{"0x7ceb23fd6bc0add59e62ac25578270cff1b9f619", "WETH"},
		{"0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270", "WMATIC"},
	} {
		if _, err := reg.Token(tok.addr, tok.sym, 18); err != nil {
			t.Fatalf("Token failed: %v", err)
		}
	}

	pools := []domain.Pool{
		{Token0: 0, Token1: 1, Exchange: 0},
		{Token0: 1, Token1: 2, Exchange: 0},
		{Token0: 2, Token1: 0, Exchange: 1},
		{Token0: 2, Token1: 3, Exchange: 1},
	}
	res, err := pathfinder.New(pathfinder.Options{Workers: 2, Logger: logging.Nop()}).Run(pools, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return res, reg.Freeze()
}

func TestGenerate(t *testing.T) {
	res, m := runTriangle(t)
	r := NewGenerator(m).WithClock(func() time.Time { return fixedNow }).Generate(res)

	if !r.GeneratedAt.Equal(fixedNow) {
		t.Errorf("GeneratedAt = %v, want %v", r.GeneratedAt, fixedNow)
	}
	if r.RunID != res.RunID {
		t.Errorf("RunID = %s, want %s", r.RunID, res.RunID)
	}
	if r.Summary.Paths != 6 || len(r.Paths) != 6 {
		t.Fatalf("expected 6 paths, got summary=%d rows=%d", r.Summary.Paths, len(r.Paths))
	}
	if r.Summary.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", r.Summary.Cycles)
	}

	first := r.Paths[0]
	if first.Route != "USDC>WETH>WMATIC>USDC" {
		t.Errorf("Route = %q", first.Route)
	}
	if first.Hops[2].Exchange != "meshswap" {
		t.Errorf("hop 2 exchange = %q, want meshswap", first.Hops[2].Exchange)
	}
	if len(first.PathID) != 64 || len(first.CycleID) != 64 {
		t.Errorf("unexpected id lengths: %d, %d", len(first.PathID), len(first.CycleID))
	}

	seen := make(map[string]bool)
	for _, p := range r.Paths {
		if seen[p.PathID] {
			t.Errorf("duplicate path_id %s", p.PathID)
		}
		seen[p.PathID] = true
		if p.CycleID != first.CycleID {
			t.Errorf("all paths share one triangle, got cycle %s", p.CycleID)
		}
	}

	if len(r.TopTriples) != 1 {
		t.Fatalf("TopTriples = %d, want 1", len(r.TopTriples))
	}
	if got := r.TopTriples[0]; got.Label != "USDC/WETH/WMATIC" || got.Edges != 6 || got.Paths != 6 {
		t.Errorf("unexpected top triple: %+v", got)
	}
}

func TestGenerate_NilMapping(t *testing.T) {
	res, _ := runTriangle(t)
	r := NewGenerator(nil).Generate(res)

	if r.Paths[0].Route != "0>1>2>0" {
		t.Errorf("Route = %q, want numeric labels", r.Paths[0].Route)
	}
	if r.Paths[0].Hops[0].Exchange != "0" {
		t.Errorf("Exchange = %q, want 0", r.Paths[0].Hops[0].Exchange)
	}
}

func TestGenerate_WithReserves(t *testing.T) {
	res, m := runTriangle(t)
	book := snapshot.NewReserveBook([]*domain.PoolRecord{
		{Token0: 0, Token1: 1, Exchange: 0, Reserve0: decimal.RequireFromString("1500.5"), Reserve1: decimal.NewFromInt(1)},
	})
	r := NewGenerator(m).WithReserves(book).Generate(res)

	// USDC>WETH on exchange 0 is the first hop of the first path
	hop := r.Paths[0].Hops[0]
	if hop.ReserveIn != "1500.5" || hop.ReserveOut != "1" {
		t.Errorf("hop reserves = (%s, %s), want (1500.5, 1)", hop.ReserveIn, hop.ReserveOut)
	}
	if r.Paths[0].Hops[1].ReserveIn != "" {
		t.Errorf("hop without a record should carry no reserves, got %q", r.Paths[0].Hops[1].ReserveIn)
	}

	// reverse direction reads the record the other way round
	for _, p := range r.Paths {
		for _, h := range p.Hops {
			if h.TokenIn == 1 && h.TokenOut == 0 && h.ReserveIn != "1" {
				t.Errorf("reverse hop ReserveIn = %q, want 1", h.ReserveIn)
			}
		}
	}
}

func TestRenderers(t *testing.T) {
	res, m := runTriangle(t)
	r := NewGenerator(m).WithClock(func() time.Time { return fixedNow }).Generate(res)

	csv := RenderCSV(r)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 7 {
		t.Fatalf("CSV lines = %d, want header + 6", len(lines))
	}
	if !strings.HasPrefix(lines[0], "path_id,cycle_id,route,") {
		t.Errorf("unexpected CSV header: %s", lines[0])
	}
	if !strings.Contains(lines[1], ",USDC>WETH>WMATIC>USDC,0,1,sushiswap_v2,1,2,sushiswap_v2,2,0,meshswap") {
		t.Errorf("unexpected CSV row: %s", lines[1])
	}

	md := RenderMarkdown(r)
	for _, want := range []string{
		"# Triangular Paths Report",
		"Generated: 2025-03-01T10:00:00Z",
		"| Paths | 6 |",
		"| Distinct cycles | 1 |",
		"| USDC/WETH/WMATIC | 0,1,2 | 6 | 6 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}

	data, err := RenderJSON(r)
	if err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	var decoded Report
	if err := sonnet.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Summary.Paths != 6 || len(decoded.Paths) != 6 || decoded.Paths[0].Route != r.Paths[0].Route {
		t.Errorf("JSON lost data: %+v", decoded.Summary)
	}
}

func TestRenderMarkdown_NoPaths(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: fixedNow})
	if !strings.Contains(md, "No triangular paths found.") {
		t.Error("expected empty-result note")
	}
}

func TestWriteAll(t *testing.T) {
	res, m := runTriangle(t)
	r := NewGenerator(m).Generate(res)
	dir := filepath.Join(t.TempDir(), "out")

	written, err := WriteAll(dir, []string{config.FormatJSON, config.FormatCSV, config.FormatMarkdown}, r)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("written = %d files, want 3", len(written))
	}
	for _, path := range written {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
	if filepath.Base(written[1]) != "paths_"+r.RunID+".csv" {
		t.Errorf("unexpected file name %s", written[1])
	}

	_, err = WriteAll(dir, []string{"xml"}, r)
	if err == nil {
		t.Error("expected error for unknown format")
	}
}
