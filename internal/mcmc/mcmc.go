package mcmc

import (
	"context"
	"math"
	"math/rand"
)

// Position is a point in the sampled parameter space.
type Position []float64

// Clone returns an independent copy.
func (p Position) Clone() Position {
	q := make(Position, len(p))
	copy(q, p)
	return q
}

// ScoreFn maps a position to a negative-log score; lower is better.
type ScoreFn func(Position) float64

// Opts configures a chain. Zero fields fall back to the defaults set
// by New.
type Opts struct {
	Nsteps int
	Seed   int64

	SigmaInit      float64
	SigmaMin       float64
	SigmaMax       float64
	SigmaAdj       float64 // multiplicative adjustment per interval
	SigAdjInterval int
	AcceptWindow   int // intervals of history used for the rate
	TargetAccept   float64

	TInit        float64 // starting anneal temperature
	AnnealLength int     // steps until T reaches 1

	UseHessian    bool
	HessianPeriod int
	HessianScale  float64

	Likelihood ScoreFn
	Prior      ScoreFn // optional, zero when nil
	Step       func(*Chain)
}

// Record is one chain step.
type Record struct {
	Position   Position
	Accept     bool
	Likelihood float64
	Prior      float64
	Posterior  float64
	Sigma      float64
	T          float64
}

// Chain runs the sampler and holds its full history.
type Chain struct {
	Opts Opts

	Iter     int
	Position Position
	Sigma    float64
	T        float64

	AcceptLikelihood float64
	AcceptPrior      float64
	AcceptPosterior  float64
	TestLikelihood   float64
	TestPrior        float64
	TestPosterior    float64
	LastAccept       bool

	Records []Record

	rng     *rand.Rand
	accepts int
	window  []bool
	guide   *guidance
}

// New validates opts, fills defaults and seeds the chain at start.
func New(opts Opts, start Position) (*Chain, error) {
	if opts.Likelihood == nil {
		return nil, ErrNoLikelihood
	}
	if opts.Nsteps <= 0 || len(start) == 0 {
		return nil, ErrBadOpts
	}
	if opts.SigmaInit <= 0 {
		opts.SigmaInit = 0.1
	}
	if opts.SigmaMin <= 0 {
		opts.SigmaMin = 0.01
	}
	if opts.SigmaMax <= 0 {
		opts.SigmaMax = 1.0
	}
	if opts.SigmaAdj <= 0 {
		opts.SigmaAdj = 0.05
	}
	if opts.SigAdjInterval <= 0 {
		opts.SigAdjInterval = opts.Nsteps / 100
		if opts.SigAdjInterval < 1 {
			opts.SigAdjInterval = 1
		}
	}
	if opts.AcceptWindow <= 0 {
		opts.AcceptWindow = 5
	}
	if opts.TargetAccept <= 0 {
		opts.TargetAccept = 0.3
	}
	if opts.TInit <= 0 {
		opts.TInit = 1
	}
	if opts.AnnealLength < 0 {
		opts.AnnealLength = 0
	}
	if opts.UseHessian {
		if opts.HessianPeriod <= 0 {
			opts.HessianPeriod = opts.Nsteps / 6
			if opts.HessianPeriod < 1 {
				opts.HessianPeriod = 1
			}
		}
		if opts.HessianScale <= 0 {
			opts.HessianScale = 0.085
		}
	}

	c := &Chain{
		Opts:     opts,
		Position: start.Clone(),
		Sigma:    opts.SigmaInit,
		T:        opts.TInit,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		Records:  make([]Record, 0, opts.Nsteps),
		window:   make([]bool, 0, opts.AcceptWindow*opts.SigAdjInterval),
	}
	c.AcceptLikelihood = c.score(opts.Likelihood, c.Position)
	c.AcceptPrior = c.scorePrior(c.Position)
	c.AcceptPosterior = c.AcceptLikelihood + c.AcceptPrior
	if math.IsNaN(c.AcceptPosterior) {
		return nil, ErrScoreInvalid
	}
	return c, nil
}

func (c *Chain) score(f ScoreFn, p Position) float64 {
	if f == nil {
		return 0
	}
	return f(p)
}

func (c *Chain) scorePrior(p Position) float64 {
	return c.score(c.Opts.Prior, p)
}

func (c *Chain) posterior(p Position) float64 {
	return c.score(c.Opts.Likelihood, p) + c.scorePrior(p)
}

// Run executes the chain. Interrupting the context stops the walk and
// returns the context error; the history up to that point stays valid.
func (c *Chain) Run(ctx context.Context) error {
	for c.Iter = 0; c.Iter < c.Opts.Nsteps; c.Iter++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.T = c.temperature(c.Iter)
		if c.Opts.UseHessian && c.Iter%c.Opts.HessianPeriod == 0 {
			c.guide = newGuidance(c.posterior, c.Position)
		}

		test := c.propose()
		c.TestLikelihood = c.score(c.Opts.Likelihood, test)
		c.TestPrior = c.scorePrior(test)
		c.TestPosterior = c.TestLikelihood + c.TestPrior

		delta := c.TestPosterior - c.AcceptPosterior
		accept := false
		if !math.IsNaN(c.TestPosterior) {
			if delta <= 0 {
				accept = true
			} else {
				accept = c.rng.Float64() < math.Exp(-delta/c.T)
			}
		}

		if accept {
			c.Position = test
			c.AcceptLikelihood = c.TestLikelihood
			c.AcceptPrior = c.TestPrior
			c.AcceptPosterior = c.TestPosterior
			c.accepts++
		}
		c.LastAccept = accept

		c.Records = append(c.Records, Record{
			Position:   c.Position.Clone(),
			Accept:     accept,
			Likelihood: c.AcceptLikelihood,
			Prior:      c.AcceptPrior,
			Posterior:  c.AcceptPosterior,
			Sigma:      c.Sigma,
			T:          c.T,
		})

		c.window = append(c.window, accept)
		limit := c.Opts.AcceptWindow * c.Opts.SigAdjInterval
		if len(c.window) > limit {
			c.window = c.window[len(c.window)-limit:]
		}
		if (c.Iter+1)%c.Opts.SigAdjInterval == 0 {
			c.adjustSigma()
		}

		if c.Opts.Step != nil {
			c.Opts.Step(c)
		}
	}
	return nil
}

// temperature anneals geometrically from TInit down to 1.
func (c *Chain) temperature(step int) float64 {
	if c.Opts.AnnealLength == 0 || step >= c.Opts.AnnealLength {
		return 1
	}
	frac := float64(step) / float64(c.Opts.AnnealLength)
	return math.Pow(c.Opts.TInit, 1-frac)
}

func (c *Chain) propose() Position {
	test := c.Position.Clone()
	scale := c.Sigma * math.Sqrt(c.T)
	if c.guide != nil {
		delta := c.guide.step(c.rng)
		for i := range test {
			test[i] += c.Opts.HessianScale * scale * delta[i]
		}
		return test
	}
	for i := range test {
		test[i] += scale * c.rng.NormFloat64()
	}
	return test
}

func (c *Chain) adjustSigma() {
	rate := c.windowRate()
	switch {
	case rate < c.Opts.TargetAccept:
		c.Sigma *= 1 - c.Opts.SigmaAdj
		if c.Sigma < c.Opts.SigmaMin {
			c.Sigma = c.Opts.SigmaMin
		}
	case rate > c.Opts.TargetAccept:
		c.Sigma *= 1 + c.Opts.SigmaAdj
		if c.Sigma > c.Opts.SigmaMax {
			c.Sigma = c.Opts.SigmaMax
		}
	}
}

func (c *Chain) windowRate() float64 {
	if len(c.window) == 0 {
		return 0
	}
	n := 0
	for _, a := range c.window {
		if a {
			n++
		}
	}
	return float64(n) / float64(len(c.window))
}

// AcceptanceRate is the overall accepted fraction so far.
func (c *Chain) AcceptanceRate() float64 {
	if len(c.Records) == 0 {
		return 0
	}
	return float64(c.accepts) / float64(len(c.Records))
}

// MixedAccepts returns the accepted steps at index >= burn, i.e. the
// posterior sample set after discarding the warmup prefix.
func (c *Chain) MixedAccepts(burn int) []Record {
	var out []Record
	for i, r := range c.Records {
		if i >= burn && r.Accept {
			out = append(out, r)
		}
	}
	return out
}
