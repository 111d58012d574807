package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/san-kum/rgeflow/internal/mssm"
	"github.com/san-kum/rgeflow/internal/rge"
)

func sampleResult() *rge.Result {
	s0 := make(rge.State, mssm.Dim)
	s1 := make(rge.State, mssm.Dim)
	for i := range s0 {
		s0[i] = float64(i) * 0.1
		s1[i] = float64(i)*0.1 + 0.01
	}
	return &rge.Result{
		Times:      []float64{0, 33.02},
		States:     []rge.State{s0, s1},
		Metrics:    map[string]float64{"unification_spread": 0.012},
		StepsTaken: 120,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Scenario:   "tanb10",
		Integrator: "rk45",
		Grid:       "uniform",
		Samples:    2,
		Tolerance:  1e-8,
		MZ:         91.1876,
		MGUT:       2e16,
		TanBeta:    10,
	}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "tanb10" || meta.Integrator != "rk45" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Steps != 120 {
		t.Errorf("expected 120 steps, got %d", meta.Steps)
	}
	if meta.Metrics["unification_spread"] != 0.012 {
		t.Errorf("metrics not persisted: %v", meta.Metrics)
	}

	states, times, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 samples, got %d/%d", len(states), len(times))
	}
	if len(states[0]) != mssm.Dim {
		t.Errorf("expected %d components, got %d", mssm.Dim, len(states[0]))
	}
	if math.Abs(states[1][0]-0.01) > 1e-12 {
		t.Errorf("trajectory value mismatch: %f", states[1][0])
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Scenario: "tanb10"}, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/rgeflow-test")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected empty list for missing dir, got %v", err)
	}
	if len(runs) != 0 {
		t.Error("expected no runs")
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "tanb10_1", Scenario: "tanb10", Integrator: "rk45", Grid: "uniform"}
	states := [][]float64{{0.46, 0.65, 1.22}}
	times := []float64{0}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, []string{"g1", "g2", "g3"}, states, times); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.ID != "tanb10_1" || data.Samples != 1 {
		t.Errorf("unexpected export: %+v", data)
	}
	if data.States[0][2] != 1.22 {
		t.Errorf("state mismatch: %v", data.States)
	}
}
