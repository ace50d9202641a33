package integrators

import "github.com/san-kum/erbbfit/internal/odesim"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys odesim.System, x odesim.State, t float64, dt float64) odesim.State {
	dx := sys.Derive(x, t)
	result := make(odesim.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
