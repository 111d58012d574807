package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Integrator string             `json:"integrator"`
	Grid       string             `json:"grid"`
	Components []string           `json:"components"`
	Samples    int                `json:"samples"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, components []string, states [][]float64, times []float64) error {
	data := ExportData{
		ID:         meta.ID,
		Scenario:   meta.Scenario,
		Integrator: meta.Integrator,
		Grid:       meta.Grid,
		Components: components,
		Samples:    len(times),
		Times:      times,
		States:     states,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONStdout(meta *RunMetadata, components []string, states [][]float64, times []float64) error {
	return ExportJSON(os.Stdout, meta, components, states, times)
}
