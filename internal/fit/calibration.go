package fit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/erbbfit/internal/chem"
	"github.com/san-kum/erbbfit/internal/dataio"
	"github.com/san-kum/erbbfit/internal/integrators"
	"github.com/san-kum/erbbfit/internal/mcmc"
	"github.com/san-kum/erbbfit/internal/network"
	"github.com/san-kum/erbbfit/internal/odesim"
)

var (
	// ErrUnknownObservable indicates a data column with no matching
	// model observable.
	ErrUnknownObservable = errors.New("fit: data column does not name a model observable")

	// ErrShape indicates data rows not matching the scenario tspan.
	ErrShape = errors.New("fit: data row count does not match tspan")
)

// Opts are the numeric settings of a calibration.
type Opts struct {
	Tspan    []float64
	Rtol     float64
	Atol     float64
	IntSteps int // internal adaptive step budget per sample run

	PriorVar float64 // variance of the log10 Gaussian prior

	Expand network.Options
}

// ParamFit is one row of the best-fit report.
type ParamFit struct {
	Name    string
	Nominal float64
	Fitted  float64
}

// Log10Ratio is the order-of-magnitude shift from nominal to fitted.
func (p ParamFit) Log10Ratio() float64 {
	return math.Log10(p.Fitted / p.Nominal)
}

// Calibration binds an expanded network to a dataset and exposes the
// score functions the sampler needs.
type Calibration struct {
	opts Opts
	net  *network.Network
	sys  *network.ReactionSystem
	sim  *odesim.Simulator
	data *dataio.Dataset

	names   []string  // estimated parameter names, declaration order
	nominal []float64 // nominal rate values
	indices []int     // network parameter indices
	obsCols []int     // observable index per data column

	dataNorm [][]float64
}

// NewCalibration expands the model once and prepares the estimated
// parameter subset (rate parameters only, in declaration order).
func NewCalibration(m *chem.Model, data *dataio.Dataset, opts Opts) (*Calibration, error) {
	if len(opts.Tspan) != data.Rows() {
		return nil, fmt.Errorf("%w: %d rows, %d time points", ErrShape, data.Rows(), len(opts.Tspan))
	}
	if opts.Rtol <= 0 {
		opts.Rtol = 1e-3
	}
	if opts.Atol <= 0 {
		opts.Atol = 1e-6
	}
	if opts.IntSteps <= 0 {
		opts.IntSteps = 5000
	}
	if opts.PriorVar <= 0 {
		opts.PriorVar = 6.0
	}
	if opts.Expand.MaxSpecies == 0 {
		opts.Expand = network.DefaultOptions()
	}

	net, err := network.Expand(m, opts.Expand)
	if err != nil {
		return nil, err
	}
	sys := network.NewSystem(net)

	c := &Calibration{
		opts: opts,
		net:  net,
		sys:  sys,
		sim:  odesim.New(sys, integrators.NewRK45()),
		data: data,
	}
	for _, p := range m.RuleParameters() {
		idx, ok := net.ParamIndex(p.Name)
		if !ok {
			continue // rate never used by a surviving reaction
		}
		c.names = append(c.names, p.Name)
		c.nominal = append(c.nominal, p.Value)
		c.indices = append(c.indices, idx)
	}
	for _, name := range data.Names {
		col := -1
		for i, obs := range net.Observables {
			if obs.Name == name {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownObservable, name)
		}
		c.obsCols = append(c.obsCols, col)
	}
	c.dataNorm = Normalize(data.Values)
	return c, nil
}

// ParamNames returns the estimated parameter names.
func (c *Calibration) ParamNames() []string { return c.names }

// Network returns the expanded reaction network.
func (c *Calibration) Network() *network.Network { return c.net }

// Start is the sampler starting position: log10 of the nominal rates.
func (c *Calibration) Start() mcmc.Position {
	pos := make(mcmc.Position, len(c.nominal))
	for i, v := range c.nominal {
		pos[i] = math.Log10(v)
	}
	return pos
}

// apply writes a position into the reaction system.
func (c *Calibration) apply(pos mcmc.Position) {
	for i, idx := range c.indices {
		c.sys.SetParam(idx, math.Pow(10, pos[i]))
	}
}

// Simulate integrates at pos (nil for the nominal rates) and returns
// the calibration observable matrix at the scenario time points,
// columns ordered as the dataset orders them.
func (c *Calibration) Simulate(ctx context.Context, pos mcmc.Position) ([][]float64, error) {
	if pos == nil {
		c.sys.ResetParams()
	} else {
		c.apply(pos)
	}
	cfg := odesim.DefaultConfig()
	cfg.Rtol = c.opts.Rtol
	cfg.Atol = c.opts.Atol
	cfg.MaxSteps = c.opts.IntSteps
	traj, err := c.sim.Sample(ctx, c.sys.X0(), c.opts.Tspan, cfg)
	if err != nil {
		return nil, err
	}
	series := c.sys.ObservableSeries(traj)
	out := make([][]float64, len(series))
	for i, row := range series {
		out[i] = make([]float64, len(c.obsCols))
		for j, col := range c.obsCols {
			out[i][j] = row[col]
		}
	}
	return out, nil
}

// Likelihood is the negative-log data score: the simulated observables
// are column-normalized to [0,1] and compared pointwise against the
// normalized data, weighted by the experimental standard deviations.
// Failed integrations score +Inf so the sampler rejects the move.
func (c *Calibration) Likelihood(pos mcmc.Position) float64 {
	sim, err := c.Simulate(context.Background(), pos)
	if err != nil {
		return math.Inf(1)
	}
	simNorm := Normalize(sim)
	score := 0.0
	for i := range c.dataNorm {
		for j := range c.dataNorm[i] {
			d := c.dataNorm[i][j] - simNorm[i][j]
			s := c.data.Sigma[i][j]
			score += d * d / (2 * s * s)
		}
	}
	return score
}

// Prior is a Gaussian on the log10 positions centered on the nominal
// rates.
func (c *Calibration) Prior(pos mcmc.Position) float64 {
	score := 0.0
	for i, v := range pos {
		d := v - math.Log10(c.nominal[i])
		score += d * d / (2 * c.opts.PriorVar)
	}
	return score
}

// ConsoleStep returns a step callback printing chain diagnostics every
// 20 iterations.
func ConsoleStep(w io.Writer) func(*mcmc.Chain) {
	return func(c *mcmc.Chain) {
		if c.Iter%20 != 0 {
			return
		}
		fmt.Fprintf(w, "iter=%-6d sigma=%-8.4f T=%-8.3f acc=%-6.3f lkl=%-12.4f prior=%-10.4f post=%-12.4f\n",
			c.Iter, c.Sigma, c.T, c.AcceptanceRate(),
			c.AcceptLikelihood, c.AcceptPrior, c.AcceptPosterior)
	}
}

// Result collects everything a calibration run produced.
type Result struct {
	Chain       *mcmc.Chain
	Best        mcmc.Record
	Params      []ParamFit
	Burn        int
	Posterior   []mcmc.Record
	ObsNames    []string
	Tspan       []float64
	InitialTraj [][]float64
	FittedTraj  [][]float64
	DataNorm    [][]float64
}

// Run executes the full calibration: sampler over the likelihood and
// prior, best-accept extraction, fitted-parameter table and the
// initial/fitted normalized trajectories.
func (c *Calibration) Run(ctx context.Context, opts mcmc.Opts) (*Result, error) {
	opts.Likelihood = c.Likelihood
	opts.Prior = c.Prior

	chain, err := mcmc.New(opts, c.Start())
	if err != nil {
		return nil, err
	}
	if err := chain.Run(ctx); err != nil {
		return nil, err
	}

	best := mcmc.Record{Posterior: math.Inf(1)}
	for _, r := range chain.Records {
		if r.Accept && r.Posterior < best.Posterior {
			best = r
		}
	}
	if math.IsInf(best.Posterior, 1) {
		best = mcmc.Record{Position: c.Start(), Posterior: chain.AcceptPosterior}
	}

	params := make([]ParamFit, len(c.names))
	for i, name := range c.names {
		params[i] = ParamFit{
			Name:    name,
			Nominal: c.nominal[i],
			Fitted:  math.Pow(10, best.Position[i]),
		}
	}

	initial, err := c.Simulate(ctx, nil)
	if err != nil {
		return nil, err
	}
	fitted, err := c.Simulate(ctx, best.Position)
	if err != nil {
		return nil, err
	}

	burn := opts.Nsteps / 10
	return &Result{
		Chain:       chain,
		Best:        best,
		Params:      params,
		Burn:        burn,
		Posterior:   chain.MixedAccepts(burn),
		ObsNames:    append([]string(nil), c.data.Names...),
		Tspan:       append([]float64(nil), c.opts.Tspan...),
		InitialTraj: Normalize(initial),
		FittedTraj:  Normalize(fitted),
		DataNorm:    c.dataNorm,
	}, nil
}

// Report writes the fitted-parameter table.
func (r *Result) Report(w io.Writer) {
	fmt.Fprintf(w, "%-20s %-12s %-12s %s\n", "parameter", "nominal", "fitted", "log10 ratio")
	for _, p := range r.Params {
		fmt.Fprintf(w, "%-20s %-12.4g %-12.4g %+.3f\n", p.Name, p.Nominal, p.Fitted, p.Log10Ratio())
	}
}
