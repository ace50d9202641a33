package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/erbbfit/internal/fit"
	"github.com/san-kum/erbbfit/internal/mcmc"
	"github.com/san-kum/erbbfit/internal/network"
)

const (
	DefaultNsteps   = 50000
	DefaultSeed     = 1
	DefaultAtol     = 1e-6
	DefaultRtol     = 1e-3
	DefaultIntSteps = 5000
	DefaultPriorVar = 6.0

	DefaultSigmaInit    = 0.1
	DefaultSigmaMin     = 0.01
	DefaultSigmaMax     = 1.0
	DefaultSigmaAdj     = 0.05
	DefaultTargetAccept = 0.3
	DefaultTInit        = 10.0
)

// Scenario names. Scenario "rates" estimates rate parameters with
// isotropic proposals; "rates-hessian" adds Hessian-guided proposals.
const (
	ScenarioRates        = "rates"
	ScenarioRatesHessian = "rates-hessian"
)

type Config struct {
	Scenario string    `yaml:"scenario"`
	Nsteps   int       `yaml:"nsteps"`
	Seed     int64     `yaml:"seed"`
	Tspan    []float64 `yaml:"tspan"`

	Atol     float64 `yaml:"atol"`
	Rtol     float64 `yaml:"rtol"`
	IntSteps int     `yaml:"intsteps"`
	PriorVar float64 `yaml:"prior_var"`

	MaxSpecies int `yaml:"max_species"`
	MaxComplex int `yaml:"max_complex"`

	Walk WalkConfig `yaml:"walk"`
	Data DataConfig `yaml:"data"`
}

type WalkConfig struct {
	SigmaInit      float64 `yaml:"sigma_init"`
	SigmaMin       float64 `yaml:"sigma_min"`
	SigmaMax       float64 `yaml:"sigma_max"`
	SigmaAdj       float64 `yaml:"sigma_adj"`
	SigAdjInterval int     `yaml:"sig_adj_interval"`
	AcceptWindow   int     `yaml:"accept_window"`
	TargetAccept   float64 `yaml:"target_accept"`
	TInit          float64 `yaml:"t_init"`
	AnnealLength   int     `yaml:"anneal_length"`   // 0 -> nsteps/10
	HessianPeriod  int     `yaml:"hessian_period"`  // 0 -> nsteps/6
}

type DataConfig struct {
	Values string `yaml:"values"`
	Sigma  string `yaml:"sigma"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: ScenarioRates,
		Nsteps:   DefaultNsteps,
		Seed:     DefaultSeed,
		Tspan:    []float64{0, 150, 300, 450, 600, 900, 1800, 2700, 3600, 7200},
		Atol:     DefaultAtol,
		Rtol:     DefaultRtol,
		IntSteps: DefaultIntSteps,
		PriorVar: DefaultPriorVar,
		Walk: WalkConfig{
			SigmaInit:    DefaultSigmaInit,
			SigmaMin:     DefaultSigmaMin,
			SigmaMax:     DefaultSigmaMax,
			SigmaAdj:     DefaultSigmaAdj,
			TargetAccept: DefaultTargetAccept,
			TInit:        DefaultTInit,
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
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Scenario {
	case ScenarioRates, ScenarioRatesHessian:
	default:
		return fmt.Errorf("config: unknown scenario %q", c.Scenario)
	}
	if c.Nsteps <= 0 {
		return fmt.Errorf("config: nsteps must be positive, got %d", c.Nsteps)
	}
	if len(c.Tspan) < 2 {
		return fmt.Errorf("config: tspan needs at least 2 time points")
	}
	return nil
}

// MCMCOpts translates the config into sampler options. The likelihood,
// prior and step callbacks are left for the caller to fill.
func (c *Config) MCMCOpts() mcmc.Opts {
	anneal := c.Walk.AnnealLength
	if anneal == 0 {
		anneal = c.Nsteps / 10
	}
	period := c.Walk.HessianPeriod
	if period == 0 {
		period = c.Nsteps / 6
	}
	return mcmc.Opts{
		Nsteps:         c.Nsteps,
		Seed:           c.Seed,
		SigmaInit:      c.Walk.SigmaInit,
		SigmaMin:       c.Walk.SigmaMin,
		SigmaMax:       c.Walk.SigmaMax,
		SigmaAdj:       c.Walk.SigmaAdj,
		SigAdjInterval: c.Walk.SigAdjInterval,
		AcceptWindow:   c.Walk.AcceptWindow,
		TargetAccept:   c.Walk.TargetAccept,
		TInit:          c.Walk.TInit,
		AnnealLength:   anneal,
		UseHessian:     c.Scenario == ScenarioRatesHessian,
		HessianPeriod:  period,
	}
}

// FitOpts translates the config into calibration options.
func (c *Config) FitOpts() fit.Opts {
	expand := network.DefaultOptions()
	if c.MaxSpecies > 0 {
		expand.MaxSpecies = c.MaxSpecies
	}
	if c.MaxComplex > 0 {
		expand.MaxComplex = c.MaxComplex
	}
	return fit.Opts{
		Tspan:    c.Tspan,
		Rtol:     c.Rtol,
		Atol:     c.Atol,
		IntSteps: c.IntSteps,
		PriorVar: c.PriorVar,
		Expand:   expand,
	}
}
