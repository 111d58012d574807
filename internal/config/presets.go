package config

func preset(tanBeta float64, yuk YukawaConfig) *Config {
	cfg := DefaultConfig()
	cfg.TanBeta = tanBeta
	cfg.Yukawa = yuk
	return cfg
}

// Presets are named scenarios. Down-type and lepton Yukawas scale roughly
// with tan beta; the tanb10 values are the measured defaults.
var Presets = map[string]*Config{
	"tanb10": DefaultConfig(),
	"tanb40": preset(40, YukawaConfig{
		Top:      0.99,
		Bottom:   0.064,
		Tau:      0.04,
		Strange:  0.012,
		Down:     0.0004,
		Muon:     0.24,
		Electron: 0.002,
	}),
	"topheavy": preset(10, YukawaConfig{
		Top:      1.05,
		Bottom:   0.016,
		Tau:      0.01,
		Strange:  0.003,
		Down:     0.0001,
		Muon:     0.06,
		Electron: 0.0005,
	}),
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.Scenario = name
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
