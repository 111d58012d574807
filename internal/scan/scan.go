// Package scan runs families of integrations over a parameter grid to map
// how input uncertainties move the unification point. Each point is an
// independent integration, so points run in parallel goroutines.
package scan

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/rgeflow/internal/integrators"
	"github.com/san-kum/rgeflow/internal/metrics"
	"github.com/san-kum/rgeflow/internal/mssm"
	"github.com/san-kum/rgeflow/internal/rge"
)

// Point is one grid evaluation: the parameter overrides applied and the
// resulting unification diagnostics.
type Point struct {
	Params  map[string]float64
	Spread  float64
	ScaleT  float64
	FinalG1 float64
	Err     error
}

type GridScan struct {
	names  []string
	values [][]float64
}

func NewGridScan(names []string, values [][]float64) *GridScan {
	return &GridScan{names: names, values: values}
}

// Run evaluates every combination of parameter values against the base
// inputs and returns all points plus the one with the smallest spread.
func (g *GridScan) Run(ctx context.Context, base mssm.Inputs, samples int) ([]Point, Point, error) {
	combos := make([]map[string]float64, 0)
	g.enumerate(0, make(map[string]float64), &combos)
	if len(combos) == 0 {
		return nil, Point{}, fmt.Errorf("empty parameter grid")
	}

	points := make([]Point, len(combos))

	var wg sync.WaitGroup
	for i, combo := range combos {
		wg.Add(1)
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			points[idx] = evaluate(ctx, base, params, samples)
		}(i, combo)
	}
	wg.Wait()

	best := Point{Spread: math.Inf(1)}
	for _, p := range points {
		if p.Err == nil && p.Spread < best.Spread {
			best = p
		}
	}
	if math.IsInf(best.Spread, 1) {
		return points, Point{}, fmt.Errorf("no grid point integrated successfully")
	}

	return points, best, nil
}

func (g *GridScan) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.names) {
		combo := make(map[string]float64, len(current))
		for k, v := range current {
			combo[k] = v
		}
		*out = append(*out, combo)
		return
	}
	for _, val := range g.values[depth] {
		current[g.names[depth]] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, g.names[depth])
}

func evaluate(ctx context.Context, base mssm.Inputs, params map[string]float64, samples int) Point {
	in := base
	for name, val := range params {
		if err := apply(&in, name, val); err != nil {
			return Point{Params: params, Err: err}
		}
	}

	model := mssm.New(in)
	runner := rge.New(model, integrators.NewRK45())
	spread := metrics.NewUnificationSpread()
	runner.AddMetric(spread)

	grid := rge.UniformGrid{}.Points(0, in.LogSpan(), samples)
	result, err := runner.Run(ctx, in.InitialState(), grid, rge.DefaultConfig())
	if err != nil {
		return Point{Params: params, Err: err}
	}

	return Point{
		Params:  params,
		Spread:  spread.Value(),
		ScaleT:  spread.BestScale(),
		FinalG1: result.Final()[mssm.G1],
	}
}

func apply(in *mssm.Inputs, name string, val float64) error {
	switch name {
	case "yt":
		in.Yt = val
	case "yb":
		in.Yb = val
	case "ytau":
		in.Ytau = val
	case "alpha1":
		in.Alpha1 = val
	case "alpha2":
		in.Alpha2 = val
	case "alpha3":
		in.Alpha3 = val
	default:
		return fmt.Errorf("unknown scan parameter: %s", name)
	}
	return nil
}
