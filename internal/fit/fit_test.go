package fit

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/erbbfit/internal/chem"
	"github.com/san-kum/erbbfit/internal/dataio"
	"github.com/san-kum/erbbfit/internal/mcmc"
	"github.com/san-kum/erbbfit/internal/model"
)

func TestNormalize(t *testing.T) {
	m := [][]float64{
		{0, 5, 1},
		{10, 5, 3},
		{5, 5, 2},
	}
	n := Normalize(m)

	if n[0][0] != 0 || n[1][0] != 1 || n[2][0] != 0.5 {
		t.Errorf("column 0 = %v", [][]float64{{n[0][0]}, {n[1][0]}, {n[2][0]}})
	}
	// constant column maps to zeros
	for i := range n {
		if n[i][1] != 0 {
			t.Errorf("constant column row %d = %g, want 0", i, n[i][1])
		}
	}
	if n[0][2] != 0 || n[1][2] != 1 || n[2][2] != 0.5 {
		t.Errorf("column 2 normalized wrong: %v %v %v", n[0][2], n[1][2], n[2][2])
	}
	// input untouched
	if m[1][0] != 10 {
		t.Error("Normalize modified its input")
	}
}

// irreversible A -> B conversion, analytically B(t) = A0 (1 - exp(-k t))
func conversionModel(t *testing.T) *chem.Model {
	t.Helper()
	m := chem.NewModel("conversion")
	if err := m.Monomer("A", []string{"st"}, map[string][]string{
		"st": {"off", "on"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Param("A_0", 100, false); err != nil {
		t.Fatal(err)
	}
	k, _ := m.Param("k", 0.01, true)
	err := m.AddRule(chem.Rule{
		Name:      "turn_on",
		Reactants: []chem.Pattern{chem.Complex(chem.MonP("A", chem.St("st", "off")))},
		Products:  []chem.Pattern{chem.Complex(chem.MonP("A", chem.St("st", "on")))},
		Forward:   k,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddInitial(chem.Complex(chem.MonP("A", chem.St("st", "off"))), "A_0"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddObservable("obsOn", chem.Complex(chem.MonP("A", chem.St("st", "on")))); err != nil {
		t.Fatal(err)
	}
	return m
}

func conversionDataset(tspan []float64, k float64) *dataio.Dataset {
	values := make([][]float64, len(tspan))
	sigma := make([][]float64, len(tspan))
	for i, tt := range tspan {
		values[i] = []float64{100 * (1 - math.Exp(-k*tt))}
		sigma[i] = []float64{0.1}
	}
	// the calibration compares normalized columns
	norm := Normalize(values)
	return &dataio.Dataset{Names: []string{"obsOn"}, Values: norm, Sigma: sigma}
}

func TestNewCalibrationValidation(t *testing.T) {
	tspan := []float64{0, 50, 100, 200}

	_, err := NewCalibration(conversionModel(t), conversionDataset([]float64{0, 1}, 0.01), Opts{Tspan: tspan})
	if !errors.Is(err, ErrShape) {
		t.Errorf("err = %v, want ErrShape", err)
	}

	ds := conversionDataset(tspan, 0.01)
	ds.Names = []string{"obsMissing"}
	_, err = NewCalibration(conversionModel(t), ds, Opts{Tspan: tspan})
	if !errors.Is(err, ErrUnknownObservable) {
		t.Errorf("err = %v, want ErrUnknownObservable", err)
	}
}

func TestLikelihoodPrefersTrueRate(t *testing.T) {
	tspan := []float64{0, 50, 100, 200, 400}
	cal, err := NewCalibration(conversionModel(t), conversionDataset(tspan, 0.01), Opts{Tspan: tspan})
	if err != nil {
		t.Fatal(err)
	}

	atNominal := cal.Likelihood(cal.Start())

	off := cal.Start()
	off[0] += 1 // one decade away
	atOff := cal.Likelihood(off)

	if atNominal >= atOff {
		t.Errorf("likelihood at true rate %g, off rate %g; true should score lower", atNominal, atOff)
	}
	if atNominal > 1 {
		t.Errorf("likelihood at generating parameters = %g, want near 0", atNominal)
	}
}

func TestPriorCenteredOnNominal(t *testing.T) {
	tspan := []float64{0, 50, 100, 200}
	cal, err := NewCalibration(conversionModel(t), conversionDataset(tspan, 0.01), Opts{Tspan: tspan})
	if err != nil {
		t.Fatal(err)
	}
	if got := cal.Prior(cal.Start()); got != 0 {
		t.Errorf("prior at nominal = %g, want 0", got)
	}
	off := cal.Start()
	off[0] += 2
	// variance defaults to 6: (2^2)/(2*6)
	want := 4.0 / 12.0
	if got := cal.Prior(off); math.Abs(got-want) > 1e-12 {
		t.Errorf("prior two decades off = %g, want %g", got, want)
	}
}

func TestCalibrationRun(t *testing.T) {
	tspan := []float64{0, 50, 100, 200, 400}
	cal, err := NewCalibration(conversionModel(t), conversionDataset(tspan, 0.01), Opts{Tspan: tspan})
	if err != nil {
		t.Fatal(err)
	}

	res, err := cal.Run(context.Background(), mcmc.Opts{
		Nsteps:    200,
		Seed:      1,
		SigmaInit: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Params) != 1 || res.Params[0].Name != "k" {
		t.Fatalf("params = %+v", res.Params)
	}
	for _, r := range res.Posterior {
		if res.Best.Posterior > r.Posterior+1e-12 {
			t.Fatal("a posterior sample scores better than the reported best")
		}
	}
	if len(res.InitialTraj) != len(tspan) || len(res.FittedTraj) != len(tspan) {
		t.Error("trajectory row counts do not match tspan")
	}

	var sb strings.Builder
	res.Report(&sb)
	if !strings.Contains(sb.String(), "k") {
		t.Error("report does not mention the fitted parameter")
	}
}

// end-to-end over the shipped receptor model and dataset. The full
// seven-hour course needs far more integrator steps than a test can
// afford, so this fits the first two samples on a short span.
func TestCalibrationReceptorModelSmoke(t *testing.T) {
	ds, err := dataio.Load(
		filepath.Join("..", "..", "data", "a431_highegf.csv"),
		filepath.Join("..", "..", "data", "a431_highegf_sigma.csv"))
	if err != nil {
		t.Fatal(err)
	}
	ds.Values = ds.Values[:2]
	ds.Sigma = ds.Sigma[:2]
	tspan := []float64{0, 0.01}

	m, err := model.New()
	if err != nil {
		t.Fatal(err)
	}
	cal, err := NewCalibration(m, ds, Opts{Tspan: tspan})
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.ParamNames()) == 0 {
		t.Fatal("no estimated parameters")
	}

	res, err := cal.Run(context.Background(), mcmc.Opts{
		Nsteps:    5,
		Seed:      1,
		SigmaInit: 0.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(res.Best.Posterior, 0) || math.IsNaN(res.Best.Posterior) {
		t.Errorf("best posterior = %g", res.Best.Posterior)
	}
	if len(res.Params) != len(cal.ParamNames()) {
		t.Errorf("params = %d, want %d", len(res.Params), len(cal.ParamNames()))
	}
	if len(res.InitialTraj) != 2 || len(res.FittedTraj) != 2 {
		t.Errorf("trajectory rows = %d/%d, want 2", len(res.InitialTraj), len(res.FittedTraj))
	}
	if len(res.ObsNames) != 3 {
		t.Errorf("observable columns = %d, want 3", len(res.ObsNames))
	}
}

func TestConsoleStepEvery20(t *testing.T) {
	var sb strings.Builder
	step := ConsoleStep(&sb)

	c, err := mcmc.New(mcmc.Opts{
		Nsteps:     41,
		Seed:       1,
		Likelihood: func(p mcmc.Position) float64 { return p[0] * p[0] },
		Step:       step,
	}, mcmc.Position{1})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Count(sb.String(), "\n")
	// iterations 0, 20, 40
	if lines != 3 {
		t.Errorf("diagnostic lines = %d, want 3", lines)
	}
	if !strings.Contains(sb.String(), "sigma=") {
		t.Error("diagnostics missing sigma")
	}
}
