package odesim

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	sys   System
	integ Integrator
}

func New(sys System, integ Integrator) *Simulator {
	return &Simulator{sys: sys, integ: integ}
}

// Sample integrates from tspan[0] and records the state exactly at each
// requested time point. Internal steps are adaptive when the integrator
// supports it; the step is clamped so every sample time is hit exactly.
func (s *Simulator) Sample(ctx context.Context, x0 State, tspan []float64, cfg Config) (*Trajectory, error) {
	if err := validateTspan(tspan); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	traj := &Trajectory{
		Times:  make([]float64, 0, len(tspan)),
		States: make([]State, 0, len(tspan)),
	}

	x := x0.Clone()
	t := tspan[0]
	traj.Times = append(traj.Times, t)
	traj.States = append(traj.States, x.Clone())

	dt := cfg.InitialDt
	adaptive, isAdaptive := s.integ.(AdaptiveIntegrator)
	steps := 0

	for _, target := range tspan[1:] {
		for t < target {
			select {
			case <-ctx.Done():
				return traj, ctx.Err()
			default:
			}

			if steps >= cfg.MaxSteps {
				return traj, &StepError{Step: steps, Time: t, Wrapped: ErrStepBudget}
			}

			h := math.Min(dt, target-t)
			h = math.Min(h, cfg.MaxDt)

			var newX State
			if isAdaptive {
				var next float64
				var accept bool
				var err error
				newX, next, accept, err = adaptive.StepAdaptive(s.sys, x, t, h, cfg.Rtol, cfg.Atol)
				if err != nil {
					return traj, &StepError{Step: steps, Time: t, Wrapped: err}
				}
				if next < cfg.MinDt {
					return traj, &StepError{Step: steps, Time: t, Wrapped: ErrStepTooSmall}
				}
				dt = math.Min(math.Max(next, cfg.MinDt), cfg.MaxDt)
				if !accept {
					// error estimate exceeded tolerance, retry with the
					// suggested smaller step
					steps++
					continue
				}
			} else {
				newX = s.integ.Step(s.sys, x, t, h)
			}

			if cfg.ValidateState && !newX.IsValid() {
				return traj, &StepError{Step: steps, Time: t, Wrapped: ErrInvalidState}
			}

			x = newX
			t += h
			steps++
		}

		traj.Times = append(traj.Times, target)
		traj.States = append(traj.States, x.Clone())
	}

	return traj, nil
}

func validateTspan(tspan []float64) error {
	if len(tspan) < 2 {
		return ErrBadTspan
	}
	for i := 1; i < len(tspan); i++ {
		if tspan[i] <= tspan[i-1] {
			return ErrBadTspan
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.InitialDt <= 0 {
		return fmt.Errorf("odesim: initial dt must be positive, got %g", cfg.InitialDt)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("odesim: step budget must be positive, got %d", cfg.MaxSteps)
	}
	if cfg.Rtol <= 0 || cfg.Atol <= 0 {
		return fmt.Errorf("odesim: tolerances must be positive")
	}
	return nil
}
