package odesim

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type System interface {
	Derive(x State, t float64) State
	Dim() int
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator attempts a step of size dt and reports whether the
// embedded error estimate met the tolerances. On a rejected step the
// returned state must be discarded and the step retried with the
// suggested size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, rtol, atol float64) (newX State, dtNext float64, accept bool, err error)
}

// Config controls one sampling run. MaxSteps bounds the number of
// internal integrator steps across the whole time span.
type Config struct {
	InitialDt     float64
	MinDt         float64
	MaxDt         float64
	Rtol          float64
	Atol          float64
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		InitialDt:     1e-3,
		MinDt:         1e-12,
		MaxDt:         math.Inf(1),
		Rtol:          1e-3,
		Atol:          1e-6,
		MaxSteps:      5000,
		ValidateState: true,
	}
}

// Trajectory holds states sampled at the requested time points.
type Trajectory struct {
	Times  []float64
	States []State
}
