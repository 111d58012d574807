package metrics

import (
	"math"

	"github.com/san-kum/rgeflow/internal/rge"
)

// Perturbativity records the largest coupling magnitude seen along the
// trajectory. Values approaching 4 pi signal a breakdown of the expansion.
type Perturbativity struct {
	name    string
	maxSeen float64
	samples int
}

func NewPerturbativity() *Perturbativity {
	return &Perturbativity{name: "max_coupling"}
}

func (p *Perturbativity) Name() string { return p.name }

func (p *Perturbativity) Observe(x rge.State, t float64) {
	p.samples++
	for _, v := range x {
		if a := math.Abs(v); a > p.maxSeen {
			p.maxSeen = a
		}
	}
}

func (p *Perturbativity) Value() float64 { return p.maxSeen }

func (p *Perturbativity) Reset() {
	p.maxSeen = 0
	p.samples = 0
}
