package mcmc

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

// quadratic bowl centered at c: the chain should settle near c.
func quadratic(c []float64) ScoreFn {
	return func(p Position) float64 {
		sum := 0.0
		for i, v := range p {
			d := v - c[i]
			sum += d * d / 2
		}
		return sum
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Opts{Nsteps: 10}, Position{0}); !errors.Is(err, ErrNoLikelihood) {
		t.Errorf("err = %v, want ErrNoLikelihood", err)
	}
	if _, err := New(Opts{Likelihood: quadratic([]float64{0})}, Position{0}); !errors.Is(err, ErrBadOpts) {
		t.Errorf("err = %v, want ErrBadOpts", err)
	}
	nan := func(Position) float64 { return math.NaN() }
	if _, err := New(Opts{Nsteps: 10, Likelihood: nan}, Position{0}); !errors.Is(err, ErrScoreInvalid) {
		t.Errorf("err = %v, want ErrScoreInvalid", err)
	}
}

func TestChainConvergesToMode(t *testing.T) {
	center := []float64{2, -1}
	c, err := New(Opts{
		Nsteps:     4000,
		Seed:       7,
		SigmaInit:  0.5,
		Likelihood: quadratic(center),
	}, Position{-3, 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	accepts := c.MixedAccepts(c.Opts.Nsteps / 2)
	if len(accepts) == 0 {
		t.Fatal("no accepted samples after burn-in")
	}
	mean := make([]float64, 2)
	for _, r := range accepts {
		for i, v := range r.Position {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= float64(len(accepts))
		if math.Abs(mean[i]-center[i]) > 0.5 {
			t.Errorf("posterior mean[%d] = %g, want near %g", i, mean[i], center[i])
		}
	}
}

func TestChainRecordsEveryStep(t *testing.T) {
	c, err := New(Opts{
		Nsteps:     500,
		Seed:       1,
		Likelihood: quadratic([]float64{0}),
	}, Position{1})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(c.Records) != 500 {
		t.Fatalf("records = %d, want 500", len(c.Records))
	}
	rate := c.AcceptanceRate()
	if rate <= 0 || rate > 1 {
		t.Errorf("acceptance rate = %g", rate)
	}
	for _, r := range c.MixedAccepts(100) {
		if !r.Accept {
			t.Fatal("MixedAccepts returned a rejected step")
		}
	}
}

func TestChainDeterministicPerSeed(t *testing.T) {
	run := func(seed int64) []Record {
		c, err := New(Opts{
			Nsteps:     200,
			Seed:       seed,
			Likelihood: quadratic([]float64{1}),
		}, Position{0})
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		return c.Records
	}

	a, b := run(42), run(42)
	for i := range a {
		if a[i].Posterior != b[i].Posterior {
			t.Fatalf("step %d diverged between identical seeds", i)
		}
	}

	other := run(43)
	same := true
	for i := range a {
		if a[i].Posterior != other[i].Posterior {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical chains")
	}
}

func TestAnnealReachesUnitTemperature(t *testing.T) {
	c, err := New(Opts{
		Nsteps:       100,
		Seed:         1,
		TInit:        10,
		AnnealLength: 50,
		Likelihood:   quadratic([]float64{0}),
	}, Position{0})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.temperature(0); got != 10 {
		t.Errorf("T(0) = %g, want 10", got)
	}
	mid := c.temperature(25)
	if mid <= 1 || mid >= 10 {
		t.Errorf("T(25) = %g, want inside (1, 10)", mid)
	}
	if got := c.temperature(50); got != 1 {
		t.Errorf("T(50) = %g, want 1", got)
	}
	if got := c.temperature(99); got != 1 {
		t.Errorf("T(99) = %g, want 1", got)
	}
}

func TestContextStopsChain(t *testing.T) {
	c, err := New(Opts{
		Nsteps:     1000000,
		Seed:       1,
		Likelihood: quadratic([]float64{0}),
	}, Position{0})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGuidanceOnQuadratic(t *testing.T) {
	// Hessian of sum(x^2/2) is the identity: eigenvalues 1, steps
	// finite and isotropic
	g := newGuidance(func(p Position) float64 {
		return quadratic([]float64{0, 0})(p)
	}, Position{0.5, -0.5})
	if g == nil {
		t.Fatal("guidance failed on a smooth quadratic")
	}
	for _, lam := range g.values {
		if math.Abs(lam-1) > 1e-3 {
			t.Errorf("eigenvalue = %g, want 1", lam)
		}
	}

	rng := rand.New(rand.NewSource(3))
	step := g.step(rng)
	if len(step) != 2 {
		t.Fatalf("step dim = %d, want 2", len(step))
	}
	for _, v := range step {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("step component %g not finite", v)
		}
	}
}

func TestGuidanceRejectsNaN(t *testing.T) {
	g := newGuidance(func(p Position) float64 { return math.NaN() }, Position{0})
	if g != nil {
		t.Error("expected nil guidance for a NaN posterior")
	}
}

func TestHessianChainRuns(t *testing.T) {
	c, err := New(Opts{
		Nsteps:        300,
		Seed:          5,
		UseHessian:    true,
		HessianPeriod: 100,
		Likelihood:    quadratic([]float64{1, 2}),
	}, Position{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.AcceptanceRate() == 0 {
		t.Error("guided chain accepted nothing")
	}
}
