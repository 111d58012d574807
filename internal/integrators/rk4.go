// Package integrators provides numerical steppers for [rge.System] beta
// functions: a fixed-step RK4 and an adaptive Dormand-Prince RK45.
package integrators

import (
	"fmt"

	"github.com/san-kum/rgeflow/internal/rge"
)

type RK4 struct {
	k1, k2, k3, k4 rge.State
	scratch        rge.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(rge.State, n)
		r.k2 = make(rge.State, n)
		r.k3 = make(rge.State, n)
		r.k4 = make(rge.State, n)
		r.scratch = make(rge.State, n)
	}
}

func (r *RK4) Step(sys rge.System, x rge.State, t, dt float64) rge.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, t+dt))

	result := make(rge.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

// ByName resolves a stepper by its CLI/config name.
func ByName(name string) (rge.Stepper, error) {
	switch name {
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// AdaptiveByName resolves a stepper that supports step-size control.
func AdaptiveByName(name string) (rge.AdaptiveStepper, error) {
	s, err := ByName(name)
	if err != nil {
		return nil, err
	}
	a, ok := s.(rge.AdaptiveStepper)
	if !ok {
		return nil, fmt.Errorf("integrator %s has no adaptive step control", name)
	}
	return a, nil
}
