package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/erbbfit/internal/odesim"
)

// decay is dx/dt = -x with solution exp(-t).
type decay struct{}

func (decay) Derive(x odesim.State, t float64) odesim.State {
	dx := make(odesim.State, len(x))
	for i, v := range x {
		dx[i] = -v
	}
	return dx
}

func (decay) Dim() int { return 1 }

func integrate(integ odesim.Integrator, x0 odesim.State, dt float64, steps int) odesim.State {
	x := x0.Clone()
	t := 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(decay{}, x, t, dt)
		t += dt
	}
	return x
}

func TestEulerConverges(t *testing.T) {
	x := integrate(NewEuler(), odesim.State{1}, 1e-4, 10000)
	want := math.Exp(-1)
	if math.Abs(x[0]-want) > 1e-3 {
		t.Errorf("euler x(1) = %g, want %g", x[0], want)
	}
}

func TestRK4Accuracy(t *testing.T) {
	x := integrate(NewRK4(), odesim.State{1}, 0.01, 100)
	want := math.Exp(-1)
	if math.Abs(x[0]-want) > 1e-9 {
		t.Errorf("rk4 x(1) = %g, want %g", x[0], want)
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	want := math.Exp(-1)
	euler := integrate(NewEuler(), odesim.State{1}, 0.01, 100)
	rk4 := integrate(NewRK4(), odesim.State{1}, 0.01, 100)
	if math.Abs(rk4[0]-want) >= math.Abs(euler[0]-want) {
		t.Error("rk4 error should be below euler error at the same step size")
	}
}

func TestRK45SingleStep(t *testing.T) {
	r := NewRK45()
	x, next, accept, err := r.StepAdaptive(decay{}, odesim.State{1}, 0, 0.1, 1e-6, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Fatal("small step on a smooth system should be accepted")
	}
	want := math.Exp(-0.1)
	if math.Abs(x[0]-want) > 1e-8 {
		t.Errorf("rk45 x(0.1) = %g, want %g", x[0], want)
	}
	if next <= 0 {
		t.Errorf("suggested dt = %g, want positive", next)
	}
}

func TestRK45GrowsStepWhenAccurate(t *testing.T) {
	r := NewRK45()
	// a tiny step on a smooth system is far more accurate than needed
	_, next, accept, err := r.StepAdaptive(decay{}, odesim.State{1}, 0, 1e-6, 1e-3, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Fatal("accurate step should be accepted")
	}
	if next <= 1e-6 {
		t.Errorf("suggested dt = %g, want growth above 1e-6", next)
	}
}

func TestRK45RejectsOversizedStep(t *testing.T) {
	r := NewRK45()
	_, next, accept, err := r.StepAdaptive(decay{}, odesim.State{1}, 0, 5, 1e-6, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if accept {
		t.Fatal("oversized step should be rejected")
	}
	if next >= 5 {
		t.Errorf("suggested dt = %g, want shrink below 5", next)
	}
}

// a rejected step must not advance the state, otherwise the recorded
// samples drift away from the true solution
func TestSimulatorRetriesRejectedSteps(t *testing.T) {
	sim := odesim.New(decay{}, NewRK45())
	cfg := odesim.DefaultConfig()
	// start far too large so the first attempts are rejected
	cfg.InitialDt = 1.0
	cfg.Rtol = 1e-6
	cfg.Atol = 1e-9

	traj, err := sim.Sample(context.Background(), odesim.State{1}, []float64{0, 2}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Exp(-2)
	got := traj.States[1][0]
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("x(2) = %.8f, want %.8f", got, want)
	}
}

func TestRK45WithSimulator(t *testing.T) {
	sim := odesim.New(decay{}, NewRK45())
	cfg := odesim.DefaultConfig()
	cfg.InitialDt = 1e-3

	traj, err := sim.Sample(context.Background(), odesim.State{1}, []float64{0, 0.5, 2}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i, tt := range traj.Times {
		want := math.Exp(-tt)
		if math.Abs(traj.States[i][0]-want) > 1e-4 {
			t.Errorf("x(%g) = %g, want %g", tt, traj.States[i][0], want)
		}
	}
}
