package analysis

import (
	"math"
	"math/rand"
	"testing"
)

func TestAutocorrelationLagZero(t *testing.T) {
	x := []float64{1, 3, 2, 5, 4, 6, 2, 3}
	acf := Autocorrelation(x, 4)
	if acf == nil {
		t.Fatal("nil acf for a varying trace")
	}
	if acf[0] != 1 {
		t.Errorf("acf[0] = %g, want 1", acf[0])
	}
	if len(acf) != 5 {
		t.Errorf("lags = %d, want 5", len(acf))
	}
}

func TestAutocorrelationDegenerate(t *testing.T) {
	if Autocorrelation([]float64{1}, 3) != nil {
		t.Error("single sample should yield nil")
	}
	if Autocorrelation([]float64{2, 2, 2, 2}, 2) != nil {
		t.Error("zero-variance trace should yield nil")
	}
}

func TestEffectiveSampleSizeIID(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	x := make([]float64, 4000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	ess := EffectiveSampleSize(x)
	// independent draws keep most of their sample size
	if ess < 2000 || ess > 4200 {
		t.Errorf("iid ess = %g, want near 4000", ess)
	}
}

func TestEffectiveSampleSizeCorrelated(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	x := make([]float64, 4000)
	v := 0.0
	for i := range x {
		// strongly autocorrelated AR(1) walk
		v = 0.95*v + rng.NormFloat64()
		x[i] = v
	}
	iid := make([]float64, 4000)
	for i := range iid {
		iid[i] = rng.NormFloat64()
	}
	if EffectiveSampleSize(x) >= EffectiveSampleSize(iid) {
		t.Error("correlated trace should have smaller ess than iid trace")
	}
	if IntegratedTime(x) <= 2 {
		t.Errorf("integrated time = %g, want well above 1", IntegratedTime(x))
	}
}

func TestSummarize(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	s, err := Summarize(x)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mean != 3 {
		t.Errorf("mean = %g, want 3", s.Mean)
	}
	if s.Median != 3 {
		t.Errorf("median = %g, want 3", s.Median)
	}
	if math.Abs(s.StdDev-math.Sqrt(2.5)) > 1e-12 {
		t.Errorf("stddev = %g, want %g", s.StdDev, math.Sqrt(2.5))
	}
	if s.Lo > s.Median || s.Hi < s.Median {
		t.Errorf("credible bounds [%g, %g] do not bracket the median", s.Lo, s.Hi)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(nil); err == nil {
		t.Error("expected error for an empty trace")
	}
}
