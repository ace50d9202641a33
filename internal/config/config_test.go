package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != ScenarioRates {
		t.Errorf("scenario = %q, want %q", cfg.Scenario, ScenarioRates)
	}
	if cfg.Nsteps != 50000 {
		t.Errorf("nsteps = %d, want 50000", cfg.Nsteps)
	}
	if len(cfg.Tspan) != 10 {
		t.Errorf("tspan points = %d, want 10", len(cfg.Tspan))
	}
	if cfg.Tspan[0] != 0 || cfg.Tspan[len(cfg.Tspan)-1] != 7200 {
		t.Errorf("tspan range = [%g, %g], want [0, 7200]", cfg.Tspan[0], cfg.Tspan[len(cfg.Tspan)-1])
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown scenario")
	}

	cfg = DefaultConfig()
	cfg.Nsteps = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero nsteps")
	}

	cfg = DefaultConfig()
	cfg.Tspan = []float64{0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short tspan")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("a431-highegf")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Nsteps != 50000 {
		t.Errorf("nsteps = %d, want 50000", cfg.Nsteps)
	}

	hess := GetPreset("a431-highegf-hessian")
	if hess == nil || hess.Scenario != ScenarioRatesHessian {
		t.Errorf("hessian preset = %+v", hess)
	}

	smoke := GetPreset("smoke")
	if smoke == nil || smoke.Nsteps != 200 {
		t.Errorf("smoke preset = %+v", smoke)
	}

	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}

	// presets hand out fresh configs
	cfg.Nsteps = 1
	if GetPreset("a431-highegf").Nsteps == 1 {
		t.Error("preset mutation leaked into the registry")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioRatesHessian
	cfg.Nsteps = 1234
	cfg.Seed = 99
	cfg.Walk.SigmaInit = 0.42
	cfg.Data.Values = "custom.csv"

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Scenario != cfg.Scenario {
		t.Errorf("scenario = %q, want %q", loaded.Scenario, cfg.Scenario)
	}
	if loaded.Nsteps != 1234 || loaded.Seed != 99 {
		t.Errorf("nsteps/seed = %d/%d", loaded.Nsteps, loaded.Seed)
	}
	if loaded.Walk.SigmaInit != 0.42 {
		t.Errorf("sigma init = %g", loaded.Walk.SigmaInit)
	}
	if loaded.Data.Values != "custom.csv" {
		t.Errorf("data path = %q", loaded.Data.Values)
	}
}

func TestMCMCOptsDerivedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.MCMCOpts()

	if opts.AnnealLength != cfg.Nsteps/10 {
		t.Errorf("anneal length = %d, want %d", opts.AnnealLength, cfg.Nsteps/10)
	}
	if opts.HessianPeriod != cfg.Nsteps/6 {
		t.Errorf("hessian period = %d, want %d", opts.HessianPeriod, cfg.Nsteps/6)
	}
	if opts.UseHessian {
		t.Error("rates scenario should not enable hessian guidance")
	}

	cfg.Scenario = ScenarioRatesHessian
	if !cfg.MCMCOpts().UseHessian {
		t.Error("rates-hessian scenario should enable hessian guidance")
	}
}

func TestFitOpts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpecies = 321
	opts := cfg.FitOpts()
	if opts.Expand.MaxSpecies != 321 {
		t.Errorf("max species = %d, want 321", opts.Expand.MaxSpecies)
	}
	if opts.Rtol != cfg.Rtol || opts.Atol != cfg.Atol {
		t.Error("tolerances not carried into fit options")
	}
	if len(opts.Tspan) != len(cfg.Tspan) {
		t.Error("tspan not carried into fit options")
	}
}
