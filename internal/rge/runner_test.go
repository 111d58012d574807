package rge

import (
	"context"
	"errors"
	"math"
	"testing"
)

// dx/dt = x, exact solution x(t) = x0 * e^t
type expGrowth struct{}

func (expGrowth) Derive(x State, t float64) State { return State{x[0]} }
func (expGrowth) Dim() int                        { return 1 }

// dx/dt = x^2, blows up in finite time from x0 > 0
type blowup struct{}

func (blowup) Derive(x State, t float64) State { return State{x[0] * x[0]} }
func (blowup) Dim() int                        { return 1 }
func (blowup) InRange(x State) bool            { return x[0] < 100 }

type eulerStepper struct{}

func (eulerStepper) Step(sys System, x State, t, dt float64) State {
	d := sys.Derive(x, t)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*d[i]
	}
	return out
}

// adaptive stepper that always suggests a fixed next step
type fixedSuggestion struct {
	eulerStepper
	dtNext float64
}

func (f fixedSuggestion) StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error) {
	return f.Step(sys, x, t, dt), f.dtNext, nil
}

// adaptive stepper that scales the attempted step, like a real embedded pair
type scalingSuggestion struct {
	eulerStepper
	factor float64
}

func (s scalingSuggestion) StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error) {
	return s.Step(sys, x, t, dt), dt * s.factor, nil
}

type sampleCounter struct{ n int }

func (c *sampleCounter) Name() string              { return "samples" }
func (c *sampleCounter) Observe(x State, t float64) { c.n++ }
func (c *sampleCounter) Value() float64            { return float64(c.n) }
func (c *sampleCounter) Reset()                    { c.n = 0 }

func defaultTestConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialDt = 1e-4
	return cfg
}

func TestRunnerExpGrowth(t *testing.T) {
	r := New(expGrowth{}, eulerStepper{})
	grid := UniformGrid{}.Points(0, 1, 5)

	result, err := r.Run(context.Background(), State{1}, grid, defaultTestConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.States) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(result.States))
	}
	for i, tt := range grid {
		if result.Times[i] != tt {
			t.Errorf("sample %d recorded at %f, want %f", i, result.Times[i], tt)
		}
	}

	final := result.Final()[0]
	if math.Abs(final-math.E) > 1e-2 {
		t.Errorf("expected ~e at t=1, got %f", final)
	}
	if result.StepsTaken == 0 {
		t.Error("expected internal steps to be counted")
	}
}

func TestRunnerMetricsObserved(t *testing.T) {
	r := New(expGrowth{}, eulerStepper{})
	counter := &sampleCounter{}
	r.AddMetric(counter)

	grid := UniformGrid{}.Points(0, 1, 8)
	result, err := r.Run(context.Background(), State{1}, grid, defaultTestConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Metrics["samples"] != 8 {
		t.Errorf("expected metric observed at every sample, got %v", result.Metrics["samples"])
	}
}

func TestRunnerInvalidInitialState(t *testing.T) {
	r := New(expGrowth{}, eulerStepper{})
	grid := UniformGrid{}.Points(0, 1, 3)

	_, err := r.Run(context.Background(), State{1, 2}, grid, defaultTestConfig())
	if !errors.Is(err, ErrInvalidInitialState) {
		t.Errorf("expected ErrInvalidInitialState, got %v", err)
	}

	_, err = r.Run(context.Background(), State{math.NaN()}, grid, defaultTestConfig())
	if !errors.Is(err, ErrInvalidInitialState) {
		t.Errorf("expected ErrInvalidInitialState for NaN, got %v", err)
	}
}

func TestRunnerBadGrid(t *testing.T) {
	r := New(expGrowth{}, eulerStepper{})

	_, err := r.Run(context.Background(), State{1}, []float64{0, 2, 1}, defaultTestConfig())
	if !errors.Is(err, ErrBadGrid) {
		t.Errorf("expected ErrBadGrid, got %v", err)
	}

	_, err = r.Run(context.Background(), State{1}, []float64{0}, defaultTestConfig())
	if !errors.Is(err, ErrBadGrid) {
		t.Errorf("expected ErrBadGrid for single point, got %v", err)
	}
}

func TestRunnerDivergence(t *testing.T) {
	r := New(blowup{}, eulerStepper{})
	grid := UniformGrid{}.Points(0, 1, 10)

	cfg := defaultTestConfig()
	cfg.InitialDt = 1e-3

	result, err := r.Run(context.Background(), State{5}, grid, cfg)
	if !errors.Is(err, ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}

	var intErr *IntegrationError
	if !errors.As(err, &intErr) {
		t.Fatal("expected IntegrationError wrapper")
	}
	if intErr.T < 0 || intErr.T >= 1 {
		t.Errorf("last good t out of range: %f", intErr.T)
	}
	if intErr.State[0] >= 100 {
		t.Error("wrapped state should be the last in-range one")
	}

	// partial trajectory still returned for diagnosis
	if result == nil || len(result.States) == 0 {
		t.Error("expected partial result alongside divergence error")
	}
}

func TestRunnerStepCollapse(t *testing.T) {
	r := New(expGrowth{}, fixedSuggestion{dtNext: 1e-20})
	grid := UniformGrid{}.Points(0, 1, 3)

	_, err := r.Run(context.Background(), State{1}, grid, defaultTestConfig())
	if !errors.Is(err, ErrStepTooSmall) {
		t.Errorf("expected ErrStepTooSmall, got %v", err)
	}
}

func TestRunnerTinyGridInterval(t *testing.T) {
	r := New(expGrowth{}, scalingSuggestion{factor: 10})
	grid := []float64{0, 1, 1 + 1e-14, 2}

	result, err := r.Run(context.Background(), State{1}, grid, defaultTestConfig())
	if err != nil {
		t.Fatalf("boundary-clamped step misreported as failure: %v", err)
	}
	if len(result.States) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(result.States))
	}
	// the suggestion from the clamped step must not poison the next interval
	if result.Final()[0] <= 1 {
		t.Errorf("expected growth across the full grid, got %f", result.Final()[0])
	}
}

func TestRunnerContextCanceled(t *testing.T) {
	r := New(expGrowth{}, eulerStepper{})
	grid := UniformGrid{}.Points(0, 1, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, State{1}, grid, defaultTestConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerAdaptiveRespectsMaxDt(t *testing.T) {
	r := New(expGrowth{}, fixedSuggestion{dtNext: 1e6})
	grid := UniformGrid{}.Points(0, 1, 3)

	cfg := defaultTestConfig()
	cfg.MaxDt = 0.25

	result, err := r.Run(context.Background(), State{1}, grid, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0 -> 0.5 -> 1.0, with steps clamped to 0.25 after the first
	if result.StepsTaken < 4 {
		t.Errorf("expected clamped steps, got %d", result.StepsTaken)
	}
}
