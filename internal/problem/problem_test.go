package problem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/varqopt/internal/driver"
	"github.com/cwbudde/varqopt/internal/store"
)

func TestBuildHamiltonian(t *testing.T) {
	ev, h, err := Build(store.RunConfig{
		Problem:     KindHamiltonian,
		Hamiltonian: "2*X1 + 4*Z1 - X0X2",
		Layers:      2,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if h == nil {
		t.Fatal("Expected a Hamiltonian")
	}
	// Hardware-efficient: one RY parameter per qubit per layer.
	if ev.Dimension() != 3*2 {
		t.Errorf("Dimension = %d, want 6", ev.Dimension())
	}
}

func TestBuildMaxCut(t *testing.T) {
	ev, h, err := Build(store.RunConfig{
		Problem: KindMaxCut,
		Edges:   "0-1,1-2,0-2",
		Layers:  3,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(h.Terms) != 3 {
		t.Errorf("Expected 3 ZZ terms, got %d", len(h.Terms))
	}
	// QAOA: one gamma and one beta per layer.
	if ev.Dimension() != 2*3 {
		t.Errorf("Dimension = %d, want 6", ev.Dimension())
	}
}

func TestBuildClassify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.in")
	data := "0.1,0.2S0.3,0.4XXX1,-1XXX0.5,0.6"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ev, h, err := Build(store.RunConfig{
		Problem:  KindClassify,
		DataPath: path,
		Layers:   2,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if h != nil {
		t.Error("Expected nil Hamiltonian for classify")
	}
	if ev.Dimension() != 2*2 {
		t.Errorf("Dimension = %d, want 4", ev.Dimension())
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []store.RunConfig{
		{Problem: "nope", Layers: 1},
		{Problem: KindHamiltonian, Hamiltonian: "garbage", Layers: 1},
		{Problem: KindMaxCut, Edges: "0-0", Layers: 1},
		{Problem: KindClassify, DataPath: "/does/not/exist", Layers: 1},
	}
	for _, cfg := range cases {
		if _, _, err := Build(cfg); err == nil {
			t.Errorf("Build(%+v) succeeded, expected error", cfg)
		}
	}
}

func TestRuleDispatch(t *testing.T) {
	_, h, err := Build(store.RunConfig{
		Problem:     KindHamiltonian,
		Hamiltonian: "Z0",
		Layers:      1,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	names := map[string]string{
		StrategyGD:           "gd",
		StrategyShift:        "shift",
		StrategyShotAdaptive: "shotadaptive",
		StrategyRotosolve:    "rotosolve",
	}
	for strategy, want := range names {
		cfg := ApplyDefaults(store.RunConfig{Strategy: strategy, Shots: 1000})
		rule, err := Rule(cfg, h)
		if err != nil {
			t.Fatalf("Rule(%s) failed: %v", strategy, err)
		}
		if rule.Name() != want {
			t.Errorf("Rule(%s).Name() = %q, want %q", strategy, rule.Name(), want)
		}
	}

	if _, err := Rule(store.RunConfig{Strategy: "nope"}, h); err == nil {
		t.Error("Expected error for unknown strategy")
	}
	if _, err := Rule(store.RunConfig{Strategy: StrategyMayfly}, h); err == nil {
		t.Error("Expected error for mayfly as update rule")
	}
	if _, err := Rule(ApplyDefaults(store.RunConfig{Strategy: StrategyShotAdaptive}), h); err == nil {
		t.Error("Expected error for shotadaptive without a shot budget")
	}
	if _, err := Rule(ApplyDefaults(store.RunConfig{Strategy: StrategyShotAdaptive, Shots: 1000}), nil); err == nil {
		t.Error("Expected error for shotadaptive without term structure")
	}
}

func TestInitialParamsReproducible(t *testing.T) {
	a := InitialParams(5, 42)
	b := InitialParams(5, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed produced different params at %d: %v vs %v", i, a[i], b[i])
		}
	}

	c := InitialParams(5, 43)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("Different seeds produced identical params")
	}
}

func TestRunRotosolveSingleQubit(t *testing.T) {
	res, err := Run(context.Background(), store.RunConfig{
		Problem:     KindHamiltonian,
		Hamiltonian: "Z0",
		Layers:      1,
		Strategy:    StrategyRotosolve,
		Iters:       20,
		Tolerance:   1e-10,
		Seed:        1,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.State != driver.StateConverged {
		t.Errorf("State = %s, want converged", res.State)
	}
	// Ground state of Z0 has cost -1.
	if best := res.BestEntry(); best.Cost > -1+1e-6 {
		t.Errorf("Best cost %v, want close to -1", best.Cost)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, store.RunConfig{
		Problem:     KindHamiltonian,
		Hamiltonian: "Z0",
		Layers:      1,
		Strategy:    StrategyRotosolve,
		Iters:       100,
	}, nil, nil)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunMayflyShape(t *testing.T) {
	var observed []driver.HistoryEntry
	res, err := Run(context.Background(), store.RunConfig{
		Problem:     KindHamiltonian,
		Hamiltonian: "Z0",
		Layers:      1,
		Strategy:    StrategyMayfly,
		Iters:       30,
		PopSize:     20,
		Seed:        3,
	}, nil, func(e driver.HistoryEntry) { observed = append(observed, e) })
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.History) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(res.History))
	}
	if len(observed) != 2 {
		t.Errorf("Observer saw %d entries, want 2", len(observed))
	}
	if res.History[1].Cost > res.History[0].Cost {
		t.Errorf("Best cost %v did not improve on initial %v", res.History[1].Cost, res.History[0].Cost)
	}
	if best := res.BestEntry(); best.Cost > -1+1e-2 {
		t.Errorf("Best cost %v, want close to -1", best.Cost)
	}
}
