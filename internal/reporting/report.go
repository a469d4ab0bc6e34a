package reporting

import "time"

// Report describes one enumeration run.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	RunID       string      `json:"run_id"`
	Summary     Summary     `json:"summary"`
	TopTriples  []TripleRow `json:"top_triples"`
	Paths       []PathRow   `json:"paths"`
}

// Summary contains run counters.
type Summary struct {
	Pools      int   `json:"pools"`
	Tokens     int   `json:"tokens"`
	Triples    int   `json:"triples"`
	Retained   int   `json:"retained"`
	Degenerate int   `json:"degenerate"`
	Excluded   int   `json:"excluded"`
	Edges      int   `json:"edges"`
	Paths      int   `json:"paths"`
	Cycles     int   `json:"cycles"` // distinct routes up to rotation and reversal
	Workers    int   `json:"workers"`
	DurationMs int64 `json:"duration_ms"`
}

// TripleRow represents one retained triple.
type TripleRow struct {
	Tokens [3]int `json:"tokens"`
	Label  string `json:"label"`
	Edges  int    `json:"edges"`
	Paths  int    `json:"paths"`
}

// PathRow represents one path, in emission order.
type PathRow struct {
	PathID  string    `json:"path_id"`
	CycleID string    `json:"cycle_id"`
	Route   string    `json:"route"` // e.g. USDC>WETH>WMATIC>USDC
	Hops    [3]HopRow `json:"hops"`
}

// HopRow represents one directed edge of a path.
type HopRow struct {
	TokenIn  int    `json:"token_in"`
	TokenOut int    `json:"token_out"`
	Exchange string `json:"exchange"`
	Pool     string `json:"pool,omitempty"` // pool address when known

	// Raw reserves on the in/out side, set when the generator has a
	// reserve book.
	ReserveIn  string `json:"reserve_in,omitempty"`
	ReserveOut string `json:"reserve_out,omitempty"`
}
