package config

import (
	"os"

	"github.com/san-kum/rgeflow/internal/mssm"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator = "rk45"
	DefaultGrid       = "uniform"
	DefaultSamples    = 400
	DefaultTolerance  = 1e-8
)

type Config struct {
	Scenario   string       `yaml:"scenario"`
	Integrator string       `yaml:"integrator"`
	Grid       string       `yaml:"grid"`
	Samples    int          `yaml:"samples"`
	Tolerance  float64      `yaml:"tolerance"`
	MZ         float64      `yaml:"mz"`
	MGUT       float64      `yaml:"mgut"`
	Alpha1     float64      `yaml:"alpha1"`
	Alpha2     float64      `yaml:"alpha2"`
	Alpha3     float64      `yaml:"alpha3"`
	TanBeta    float64      `yaml:"tan_beta"`
	Yukawa     YukawaConfig `yaml:"yukawa"`
}

type YukawaConfig struct {
	Top      float64 `yaml:"top"`
	Bottom   float64 `yaml:"bottom"`
	Tau      float64 `yaml:"tau"`
	Strange  float64 `yaml:"strange"`
	Down     float64 `yaml:"down"`
	Muon     float64 `yaml:"muon"`
	Electron float64 `yaml:"electron"`
}

func DefaultConfig() *Config {
	in := mssm.DefaultInputs()
	return &Config{
		Scenario:   "tanb10",
		Integrator: DefaultIntegrator,
		Grid:       DefaultGrid,
		Samples:    DefaultSamples,
		Tolerance:  DefaultTolerance,
		MZ:         in.MZ,
		MGUT:       in.MGUT,
		Alpha1:     in.Alpha1,
		Alpha2:     in.Alpha2,
		Alpha3:     in.Alpha3,
		TanBeta:    in.TanBeta,
		Yukawa: YukawaConfig{
			Top:      in.Yt,
			Bottom:   in.Yb,
			Tau:      in.Ytau,
			Strange:  in.Ys,
			Down:     in.Yd,
			Muon:     in.Ymu,
			Electron: in.Ye,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Inputs maps the scenario onto the model's input structure.
func (c *Config) Inputs() mssm.Inputs {
	return mssm.Inputs{
		MZ:      c.MZ,
		MGUT:    c.MGUT,
		Alpha1:  c.Alpha1,
		Alpha2:  c.Alpha2,
		Alpha3:  c.Alpha3,
		TanBeta: c.TanBeta,
		Yt:      c.Yukawa.Top,
		Yb:      c.Yukawa.Bottom,
		Ytau:    c.Yukawa.Tau,
		Ys:      c.Yukawa.Strange,
		Yd:      c.Yukawa.Down,
		Ymu:     c.Yukawa.Muon,
		Ye:      c.Yukawa.Electron,
	}
}
