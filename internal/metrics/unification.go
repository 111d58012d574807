// Package metrics provides trajectory metrics observed at each sample point.
package metrics

import (
	"math"

	"github.com/san-kum/rgeflow/internal/rge"
)

// UnificationSpread tracks the closest approach of the three gauge
// couplings along the trajectory: the minimum over samples of the maximum
// pairwise |g_i - g_j|, plus the scale offset where it occurs.
type UnificationSpread struct {
	name    string
	best    float64
	bestT   float64
	samples int
}

func NewUnificationSpread() *UnificationSpread {
	return &UnificationSpread{name: "unification_spread"}
}

func (u *UnificationSpread) Name() string { return u.name }

func (u *UnificationSpread) Observe(x rge.State, t float64) {
	if len(x) < 3 {
		return
	}
	spread := 0.0
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			d := math.Abs(x[i] - x[j])
			if d > spread {
				spread = d
			}
		}
	}
	if u.samples == 0 || spread < u.best {
		u.best = spread
		u.bestT = t
	}
	u.samples++
}

func (u *UnificationSpread) Value() float64 {
	if u.samples == 0 {
		return 0
	}
	return u.best
}

// BestScale returns the log-scale offset of the closest approach.
func (u *UnificationSpread) BestScale() float64 { return u.bestT }

func (u *UnificationSpread) Reset() {
	u.best = 0
	u.bestT = 0
	u.samples = 0
}
