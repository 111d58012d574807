package mssm_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rgeflow/internal/mssm"
	"github.com/san-kum/rgeflow/internal/rge"
)

var _ = Describe("Inputs", func() {
	It("round-trips alpha -> g -> alpha to floating-point precision", func() {
		for _, alpha := range []float64{0.016887, 0.03378, 0.1184} {
			g := mssm.GFromAlpha(alpha)
			Expect(mssm.AlphaFromG(g)).To(BeNumerically("~", alpha, alpha*1e-14))
		}
	})

	It("builds a 10-component initial vector with positive gauge couplings", func() {
		x := mssm.DefaultInputs().InitialState()
		Expect(x).To(HaveLen(mssm.Dim))
		for i := mssm.G1; i <= mssm.G3; i++ {
			Expect(x[i]).To(BeNumerically(">", 0))
		}
	})

	It("spans roughly 33 log units between MZ and the GUT scale", func() {
		Expect(mssm.DefaultInputs().LogSpan()).To(BeNumerically("~", math.Log(2e16/91.1876), 1e-12))
	})
})

var _ = Describe("Model.Derive", func() {
	var model *mssm.Model
	var x0 rge.State

	BeforeEach(func() {
		model = mssm.New(mssm.DefaultInputs())
		x0 = model.Inputs().InitialState()
	})

	It("ignores the scale argument", func() {
		d0 := model.Derive(x0, 0)
		d1 := model.Derive(x0, 7.5)
		Expect(d1).To(Equal(d0))
	})

	It("does not mutate its input", func() {
		before := x0.Clone()
		model.Derive(x0, 0)
		Expect(x0).To(Equal(before))
	})

	It("is invariant under swapping couplings within a sector", func() {
		swapped := x0.Clone()
		swapped[mssm.Ys], swapped[mssm.Yd] = swapped[mssm.Yd], swapped[mssm.Ys]

		d := model.Derive(x0, 0)
		ds := model.Derive(swapped, 0)

		// trace invariants unchanged, so gauge and third-generation
		// derivatives are identical
		for i := mssm.G1; i <= mssm.Ytau; i++ {
			Expect(ds[i]).To(Equal(d[i]))
		}
	})

	It("runs light generations with the shared sector formula", func() {
		d := model.Derive(x0, 0)

		Expect(d[mssm.Ys] / x0[mssm.Ys]).To(BeNumerically("~", d[mssm.Yd]/x0[mssm.Yd], 1e-15))
		Expect(d[mssm.Ymu] / x0[mssm.Ymu]).To(BeNumerically("~", d[mssm.Ye]/x0[mssm.Ye], 1e-15))
	})

	Context("with only third-generation Yukawas", func() {
		It("collapses the betas to the closed dominance form, counting the self term once", func() {
			k := 1.0 / (16 * math.Pi * math.Pi)

			x := x0.Clone()
			for _, i := range []int{mssm.Ys, mssm.Yd, mssm.Ymu, mssm.Ye} {
				x[i] = 0
			}
			g1sq := x[mssm.G1] * x[mssm.G1]
			g2sq := x[mssm.G2] * x[mssm.G2]
			g3sq := x[mssm.G3] * x[mssm.G3]
			yt, yb, ytau := x[mssm.Yt], x[mssm.Yb], x[mssm.Ytau]

			gaugeUp := 16.0/3.0*g3sq + 3*g2sq + 13.0/15.0*g1sq
			gaugeDown := 16.0/3.0*g3sq + 3*g2sq + 1.0/15.0*g1sq
			gaugeLepton := 3*g2sq + 9.0/5.0*g1sq

			d := model.Derive(x, 0)
			expYt := k * yt * (6*yt*yt + yb*yb - gaugeUp)
			expYb := k * yb * (6*yb*yb + yt*yt + ytau*ytau - gaugeDown)
			expYtau := k * ytau * (4*ytau*ytau + 3*yb*yb - gaugeLepton)
			Expect(d[mssm.Yt]).To(BeNumerically("~", expYt, math.Abs(expYt)*1e-12))
			Expect(d[mssm.Yb]).To(BeNumerically("~", expYb, math.Abs(expYb)*1e-12))
			Expect(d[mssm.Ytau]).To(BeNumerically("~", expYtau, math.Abs(expYtau)*1e-12))
		})

		It("keeps the top Yukawa beta negative at the reference scale", func() {
			// gauge losses dominate the self interaction at yt ~ 1, so
			// yt must run down, not toward a pole
			d := model.Derive(x0, 0)
			Expect(d[mssm.Yt]).To(BeNumerically("<", 0))
		})
	})

	Context("with all Yukawa couplings at zero", func() {
		var x rge.State

		BeforeEach(func() {
			x = x0.Clone()
			for i := mssm.Yt; i < mssm.Dim; i++ {
				x[i] = 0
			}
		})

		It("leaves the Yukawa derivatives exactly zero", func() {
			d := model.Derive(x, 0)
			for i := mssm.Yt; i < mssm.Dim; i++ {
				Expect(d[i]).To(BeZero())
			}
		})

		It("reduces the gauge betas to the pure gauge two-loop form", func() {
			k := 1.0 / (16 * math.Pi * math.Pi)
			b := [3]float64{33.0 / 5.0, 1.0, -3.0}
			B := [3][3]float64{
				{199.0 / 25.0, 27.0 / 5.0, 88.0 / 5.0},
				{9.0 / 5.0, 25.0, 24.0},
				{11.0 / 5.0, 9.0, 14.0},
			}

			d := model.Derive(x, 0)
			for i := 0; i < 3; i++ {
				mix := 0.0
				for j := 0; j < 3; j++ {
					mix += B[i][j] * x[j] * x[j]
				}
				g := x[i]
				expected := g * g * g * (k*b[i] + k*k*mix)
				Expect(d[i]).To(BeNumerically("~", expected, math.Abs(expected)*1e-12))
			}
		})

		It("keeps the two-loop term subdominant at these couplings", func() {
			k := 1.0 / (16 * math.Pi * math.Pi)
			b := [3]float64{33.0 / 5.0, 1.0, -3.0}

			d := model.Derive(x, 0)
			for i := 0; i < 3; i++ {
				g := x[i]
				oneLoop := g * g * g * k * b[i]
				Expect(math.Abs(d[i]-oneLoop)).To(BeNumerically("<", math.Abs(oneLoop)*0.5))
			}
		})
	})
})

var _ = Describe("Model.ValidateState", func() {
	model := mssm.New(mssm.DefaultInputs())

	It("accepts the default initial vector", func() {
		Expect(model.ValidateState(mssm.DefaultInputs().InitialState())).To(Succeed())
	})

	It("rejects a malformed vector length", func() {
		err := model.ValidateState(rge.State{1, 2, 3})
		Expect(err).To(MatchError(rge.ErrInvalidInitialState))
	})

	It("rejects a non-positive gauge coupling", func() {
		x := mssm.DefaultInputs().InitialState()
		x[mssm.G2] = -0.1
		Expect(model.ValidateState(x)).To(MatchError(rge.ErrInvalidInitialState))
	})

	It("rejects non-finite components", func() {
		x := mssm.DefaultInputs().InitialState()
		x[mssm.Yt] = math.NaN()
		Expect(model.ValidateState(x)).To(MatchError(rge.ErrInvalidInitialState))
	})
})

var _ = Describe("Model.InRange", func() {
	model := mssm.New(mssm.DefaultInputs())

	It("accepts the initial vector", func() {
		Expect(model.InRange(mssm.DefaultInputs().InitialState())).To(BeTrue())
	})

	It("flags a collapsed gauge coupling", func() {
		x := mssm.DefaultInputs().InitialState()
		x[mssm.G3] = 0
		Expect(model.InRange(x)).To(BeFalse())
	})

	It("flags a coupling beyond the perturbative ceiling", func() {
		x := mssm.DefaultInputs().InitialState()
		x[mssm.Yt] = 20
		Expect(model.InRange(x)).To(BeFalse())
	})
})
