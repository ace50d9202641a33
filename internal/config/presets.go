package config

import "sort"

// Presets are the compiled-in calibration scenarios. "a431-highegf" is
// the full A431 high-EGF calibration; "smoke" is a short chain for
// checking the pipeline end to end.
var Presets = map[string]func() *Config{
	"a431-highegf": func() *Config {
		return DefaultConfig()
	},
	"a431-highegf-hessian": func() *Config {
		cfg := DefaultConfig()
		cfg.Scenario = ScenarioRatesHessian
		return cfg
	},
	"smoke": func() *Config {
		cfg := DefaultConfig()
		cfg.Nsteps = 200
		return cfg
	},
}

func GetPreset(name string) *Config {
	f, ok := Presets[name]
	if !ok {
		return nil
	}
	return f()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
