// Package mssm implements two-loop gauge and one-loop Yukawa renormalization
// group equations for the MSSM, with diagonal Yukawa couplings run as
// scalars and traces approximated by third-generation dominance.
package mssm

import (
	"fmt"
	"math"

	"github.com/san-kum/rgeflow/internal/rge"
)

// Component indices of the coupling vector.
const (
	G1 = iota
	G2
	G3
	Yt
	Yb
	Ytau
	Ys
	Yd
	Ymu
	Ye

	Dim = 10
)

// ComponentNames mirrors the vector ordering, for reports and CSV headers.
var ComponentNames = [Dim]string{"g1", "g2", "g3", "yt", "yb", "ytau", "ys", "yd", "ymu", "ye"}

var (
	loop1 = 1.0 / (16 * math.Pi * math.Pi)
	loop2 = loop1 * loop1

	// One-loop gauge coefficients b_i. The negative SU(3) coefficient is
	// what drives g3 down toward the unification point.
	oneLoop = [3]float64{33.0 / 5.0, 1.0, -3.0}

	// Two-loop gauge mixing matrix B_ij.
	twoLoopMix = [3][3]float64{
		{199.0 / 25.0, 27.0 / 5.0, 88.0 / 5.0},
		{9.0 / 5.0, 25.0, 24.0},
		{11.0 / 5.0, 9.0, 14.0},
	}
)

// Couplings beyond this are non-perturbative; treat as divergence.
const perturbativeCeiling = 4 * math.Pi

// Model is the MSSM beta-function system.
type Model struct {
	in Inputs
}

func New(in Inputs) *Model {
	return &Model{in: in}
}

func (m *Model) Inputs() Inputs { return m.in }

func (m *Model) Dim() int { return Dim }

// Derive computes the beta functions at the given state. The scale argument
// is unused: the system is autonomous in t = ln(mu/MZ). It is kept in the
// signature because threshold matching would need it at this call site.
func (m *Model) Derive(x rge.State, _ float64) rge.State {
	g1, g2, g3 := x[G1], x[G2], x[G3]
	yt, yb, ytau := x[Yt], x[Yb], x[Ytau]
	ys, yd, ymu, ye := x[Ys], x[Yd], x[Ymu], x[Ye]

	// Trace invariants; the vector carries no light up-type entries, so
	// TrYu2 is the top term alone.
	trYu2 := yt * yt
	trYd2 := yb*yb + ys*ys + yd*yd
	trYe2 := ytau*ytau + ymu*ymu + ye*ye

	g1sq, g2sq, g3sq := g1*g1, g2*g2, g3*g3
	gsq := [3]float64{g1sq, g2sq, g3sq}

	// Yukawa trace contribution to the two-loop gauge betas, with
	// sector-dependent weights per gauge group.
	yContrib := [3]float64{
		17.0/5.0*trYu2 + 3.0/5.0*trYd2 + 3.0/5.0*trYe2,
		3*trYu2 + 3*trYd2 + trYe2,
		2*trYu2 + 2*trYd2,
	}

	dx := make(rge.State, Dim)
	for i, g := range [3]float64{g1, g2, g3} {
		mix := 0.0
		for j := 0; j < 3; j++ {
			mix += twoLoopMix[i][j] * gsq[j]
		}
		dx[i] = g * g * g * (loop1*oneLoop[i] + loop2*mix - loop2*yContrib[i])
	}

	gaugeUp := 16.0/3.0*g3sq + 3*g2sq + 13.0/15.0*g1sq
	gaugeDown := 16.0/3.0*g3sq + 3*g2sq + 1.0/15.0*g1sq
	gaugeLepton := 3*g2sq + 9.0/5.0*g1sq

	// Third-generation betas: 3*trace plus the diagonal self terms. Under
	// third-generation dominance the yt piece collapses to the familiar
	// 6yt^2 + yb^2 form.
	dx[Yt] = loop1 * yt * (3*trYu2 + 3*yt*yt + yb*yb - gaugeUp)
	dx[Yb] = loop1 * yb * (3*trYd2 + trYe2 + 3*yb*yb + yt*yt - gaugeDown)
	dx[Ytau] = loop1 * ytau * (3*trYd2 + trYe2 + 3*ytau*ytau - gaugeLepton)

	dx[Ys] = lightYukawaBeta(ys, trYe2+3*trYd2, gaugeDown)
	dx[Yd] = lightYukawaBeta(yd, trYe2+3*trYd2, gaugeDown)
	dx[Ymu] = lightYukawaBeta(ymu, trYe2+3*trYd2, gaugeLepton)
	dx[Ye] = lightYukawaBeta(ye, trYe2+3*trYd2, gaugeLepton)

	return dx
}

// lightYukawaBeta is the shared light-generation sector formula, evaluated
// once per generation with that generation's own coupling. The y^3 self
// term is negligible for light generations and dropped.
func lightYukawaBeta(y, traceTerm, gaugeTerm float64) float64 {
	return loop1 * y * (traceTerm - gaugeTerm)
}

// ValidateState rejects malformed or unphysical initial vectors.
func (m *Model) ValidateState(x rge.State) error {
	if len(x) != Dim {
		return fmt.Errorf("%w: expected %d components, got %d", rge.ErrInvalidInitialState, Dim, len(x))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", rge.ErrInvalidInitialState, ComponentNames[i])
		}
	}
	for i := G1; i <= G3; i++ {
		if x[i] <= 0 {
			return fmt.Errorf("%w: gauge coupling %s must be positive, got %g", rge.ErrInvalidInitialState, ComponentNames[i], x[i])
		}
	}
	return nil
}

// InRange reports whether the state is still physical: finite, positive
// gauge couplings, everything below the perturbative ceiling.
func (m *Model) InRange(x rge.State) bool {
	for i := G1; i <= G3; i++ {
		if x[i] <= 0 {
			return false
		}
	}
	for _, v := range x {
		if math.Abs(v) > perturbativeCeiling {
			return false
		}
	}
	return true
}
