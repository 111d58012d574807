package rge

import (
	"context"
	"fmt"
	"math"
)

// Runner advances a System across a sample grid and records the trajectory.
type Runner struct {
	sys       System
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(sys System, stepper Stepper) *Runner {
	return &Runner{
		sys:       sys,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run integrates from grid[0] to grid[len-1], recording the state at every
// grid point. On failure the partial result is returned alongside the error,
// with the last successfully reached sample included.
func (r *Runner) Run(ctx context.Context, x0 State, grid []float64, cfg Config) (*Result, error) {
	if err := r.validate(x0, grid, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, len(grid)),
		States:  make([]State, 0, len(grid)),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := grid[0]
	dt := cfg.InitialDt

	r.record(result, x, t)

	for i := 1; i < len(grid); i++ {
		var err error
		x, dt, err = r.advance(ctx, x, t, grid[i], dt, result, cfg)
		if err != nil {
			r.collect(result)
			return result, err
		}
		t = grid[i]
		r.record(result, x, t)
	}

	r.collect(result)
	return result, nil
}

func (r *Runner) validate(x0 State, grid []float64, cfg Config) error {
	if len(x0) != r.sys.Dim() {
		return fmt.Errorf("%w: expected %d components, got %d", ErrInvalidInitialState, r.sys.Dim(), len(x0))
	}
	if !x0.IsValid() {
		return fmt.Errorf("%w: non-finite component", ErrInvalidInitialState)
	}
	if sv, ok := r.sys.(StateValidator); ok {
		if err := sv.ValidateState(x0); err != nil {
			return err
		}
	}
	if len(grid) < 2 {
		return fmt.Errorf("%w: need at least 2 points", ErrBadGrid)
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return ErrBadGrid
		}
	}
	if cfg.InitialDt <= 0 {
		return fmt.Errorf("initial dt must be positive, got %f", cfg.InitialDt)
	}
	if cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %f", cfg.Tolerance)
	}
	return nil
}

// advance integrates from t to target with internal adaptive stepping.
// The returned dt carries the step-size estimate into the next interval.
func (r *Runner) advance(ctx context.Context, x State, t, target, dt float64, result *Result, cfg Config) (State, float64, error) {
	adaptive, isAdaptive := r.stepper.(AdaptiveStepper)

	for t < target {
		select {
		case <-ctx.Done():
			return x, dt, ctx.Err()
		default:
		}

		h := dt
		clamped := false
		if t+h > target {
			h = target - t
			clamped = true
		}

		var newX State
		if isAdaptive {
			var dtNext float64
			var err error
			newX, dtNext, err = adaptive.StepAdaptive(r.sys, x, t, h, cfg.Tolerance)
			if err != nil {
				return x, dt, &IntegrationError{T: t, Step: result.StepsTaken, State: x.Clone(), Wrapped: err}
			}
			// A suggestion derived from a boundary-clamped step reflects
			// the truncated h, not the natural step size; keep the
			// running estimate instead.
			if !clamped {
				if dtNext < cfg.MinDt {
					return x, dt, &IntegrationError{T: t, Step: result.StepsTaken, State: x.Clone(), Wrapped: ErrStepTooSmall}
				}
				dt = math.Min(dtNext, cfg.MaxDt)
			}
		} else {
			newX = r.stepper.Step(r.sys, x, t, h)
		}

		if cfg.ValidateState && !r.inRange(newX) {
			return x, dt, &IntegrationError{T: t, Step: result.StepsTaken, State: x.Clone(), Wrapped: ErrDiverged}
		}

		x = newX
		t += h
		result.StepsTaken++
	}

	return x, dt, nil
}

func (r *Runner) inRange(x State) bool {
	if !x.IsValid() {
		return false
	}
	if rc, ok := r.sys.(RangeChecker); ok {
		return rc.InRange(x)
	}
	return true
}

func (r *Runner) record(result *Result, x State, t float64) {
	for _, m := range r.metrics {
		m.Observe(x, t)
	}
	for _, o := range r.observers {
		o.OnSample(x, t)
	}
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
