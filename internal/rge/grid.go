package rge

import (
	"fmt"
	"math"
)

// Grid produces the ordered scale sample points handed to the integrator.
// The integrator chooses its own internal step; the grid only controls
// where output rows are recorded.
type Grid interface {
	Name() string
	Points(t0, t1 float64, n int) []float64
}

// UniformGrid spaces samples evenly in t. Since t is already ln(mu/mu_ref),
// uniform spacing here is logarithmic in the energy scale itself.
type UniformGrid struct{}

func (UniformGrid) Name() string { return "uniform" }

func (UniformGrid) Points(t0, t1 float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	pts := make([]float64, n)
	span := t1 - t0
	for i := 0; i < n; i++ {
		pts[i] = t0 + span*float64(i)/float64(n-1)
	}
	pts[n-1] = t1
	return pts
}

// GeometricGrid spaces samples multiplicatively in (t - t0 + 1), dense near
// the reference scale and sparse near the target.
type GeometricGrid struct{}

func (GeometricGrid) Name() string { return "geometric" }

func (GeometricGrid) Points(t0, t1 float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	pts := make([]float64, n)
	span := t1 - t0
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		pts[i] = t0 + math.Pow(span+1, f) - 1
	}
	pts[n-1] = t1
	return pts
}

func GridByName(name string) (Grid, error) {
	switch name {
	case "uniform":
		return UniformGrid{}, nil
	case "geometric":
		return GeometricGrid{}, nil
	default:
		return nil, fmt.Errorf("unknown grid: %s", name)
	}
}
