package mssm

import (
	"math"

	"github.com/san-kum/rgeflow/internal/rge"
)

// Inputs holds the physical constants that seed a running scenario.
// Scales are in GeV, couplings dimensionless. Yukawa values are
// tan-beta dependent; TanBeta is carried as a label for reporting.
type Inputs struct {
	MZ   float64
	MGUT float64

	Alpha1 float64
	Alpha2 float64
	Alpha3 float64

	TanBeta float64

	Yt   float64
	Yb   float64
	Ytau float64
	Ys   float64
	Yd   float64
	Ymu  float64
	Ye   float64
}

// DefaultInputs returns measured values at MZ with tan beta = 10.
func DefaultInputs() Inputs {
	return Inputs{
		MZ:      91.1876,
		MGUT:    2e16,
		Alpha1:  0.016887,
		Alpha2:  0.03378,
		Alpha3:  0.1184,
		TanBeta: 10,
		Yt:      0.99,
		Yb:      0.016,
		Ytau:    0.01,
		Ys:      0.003,
		Yd:      0.0001,
		Ymu:     0.06,
		Ye:      0.0005,
	}
}

// GFromAlpha converts a coupling strength to a gauge coupling, g = sqrt(4 pi alpha).
func GFromAlpha(alpha float64) float64 {
	return math.Sqrt(4 * math.Pi * alpha)
}

// AlphaFromG is the exact inverse, alpha = g^2 / (4 pi).
func AlphaFromG(g float64) float64 {
	return g * g / (4 * math.Pi)
}

// InitialState builds the 10-component coupling vector at MZ.
func (in Inputs) InitialState() rge.State {
	return rge.State{
		GFromAlpha(in.Alpha1),
		GFromAlpha(in.Alpha2),
		GFromAlpha(in.Alpha3),
		in.Yt,
		in.Yb,
		in.Ytau,
		in.Ys,
		in.Yd,
		in.Ymu,
		in.Ye,
	}
}

// LogSpan returns ln(MGUT/MZ), the upper end of the integration domain.
func (in Inputs) LogSpan() float64 {
	return math.Log(in.MGUT / in.MZ)
}

// Scale returns the energy scale in GeV at log offset t.
func (in Inputs) Scale(t float64) float64 {
	return in.MZ * math.Exp(t)
}
