package network

import (
	"fmt"

	"github.com/san-kum/erbbfit/internal/odesim"
)

// ReactionSystem adapts an expanded network to odesim.System with
// mass-action kinetics. Parameter values are mutable so the
// calibration loop can re-simulate under proposed rates without
// re-expanding the network.
type ReactionSystem struct {
	net  *Network
	vals []float64
}

func NewSystem(net *Network) *ReactionSystem {
	vals := make([]float64, len(net.ParamValues))
	copy(vals, net.ParamValues)
	return &ReactionSystem{net: net, vals: vals}
}

func (s *ReactionSystem) Dim() int { return len(s.net.Species) }

func (s *ReactionSystem) Network() *Network { return s.net }

func (s *ReactionSystem) ParamIndex(name string) (int, bool) {
	return s.net.ParamIndex(name)
}

func (s *ReactionSystem) ParamValue(i int) float64 { return s.vals[i] }

func (s *ReactionSystem) SetParam(i int, v float64) { s.vals[i] = v }

func (s *ReactionSystem) SetParamByName(name string, v float64) error {
	i, ok := s.net.ParamIndex(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	s.vals[i] = v
	return nil
}

// ResetParams restores the nominal parameter values of the model.
func (s *ReactionSystem) ResetParams() {
	copy(s.vals, s.net.ParamValues)
}

// X0 builds the initial concentration vector from the current values
// of the seeding parameters.
func (s *ReactionSystem) X0() odesim.State {
	x := make(odesim.State, len(s.net.Species))
	for i, pi := range s.net.InitialParam {
		if pi >= 0 {
			x[i] = s.vals[pi]
		}
	}
	return x
}

func (s *ReactionSystem) Derive(x odesim.State, t float64) odesim.State {
	dx := make(odesim.State, len(x))
	for _, r := range s.net.Reactions {
		v := s.vals[r.Param] * r.Rate
		for _, ri := range r.Reactants {
			v *= x[ri]
		}
		if v == 0 {
			continue
		}
		for _, ri := range r.Reactants {
			dx[ri] -= v
		}
		for _, pi := range r.Products {
			dx[pi] += v
		}
	}
	return dx
}

func (s *ReactionSystem) ObservableNames() []string {
	names := make([]string, len(s.net.Observables))
	for i, o := range s.net.Observables {
		names[i] = o.Name
	}
	return names
}

// ObservableSeries projects a trajectory onto the model observables.
// Rows follow the trajectory time points, columns the observables.
func (s *ReactionSystem) ObservableSeries(traj *odesim.Trajectory) [][]float64 {
	out := make([][]float64, len(traj.States))
	for ti, x := range traj.States {
		row := make([]float64, len(s.net.Observables))
		for oi, obs := range s.net.Observables {
			sum := 0.0
			for _, term := range obs.Terms {
				sum += float64(term.Count) * x[term.Species]
			}
			row[oi] = sum
		}
		out[ti] = row
	}
	return out
}
