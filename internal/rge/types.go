package rge

import "math"

// State is a vector of coupling values at a single scale point.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a coupled beta-function system. Derive returns dX/dt at scale
// parameter t. Implementations must be pure: no shared mutable state.
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// StateValidator rejects unphysical initial conditions before integration.
type StateValidator interface {
	ValidateState(x State) error
}

// RangeChecker reports whether a state is still in the physical range.
// Systems use this to flag Landau-pole style divergence during a run.
type RangeChecker interface {
	InRange(x State) bool
}

type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(x State, t float64)
}

type Config struct {
	Tolerance     float64
	InitialDt     float64
	MaxDt         float64
	MinDt         float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     1e-8,
		InitialDt:     1e-3,
		MaxDt:         0.5,
		MinDt:         1e-12,
		ValidateState: true,
	}
}

// Result holds the sampled trajectory of one integration. States[i] is the
// coupling vector at Times[i]; the last row is the at-target-scale value.
type Result struct {
	Times      []float64
	States     []State
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the coupling vector at the last reached sample point.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
