package chem

import "fmt"

type Monomer struct {
	Name   string
	Sites  []string
	States map[string][]string
}

func (m Monomer) HasSite(site string) bool {
	for _, s := range m.Sites {
		if s == site {
			return true
		}
	}
	return false
}

// BondKind describes the bond condition on a pattern site.
type BondKind int

const (
	// BondUnspecified places no constraint on the site.
	BondUnspecified BondKind = iota
	// BondNone requires the site to be unbound.
	BondNone
	// BondAny requires the site to be bound, to anything.
	BondAny
	// BondEdge requires the site to be bound via a numbered edge
	// shared with exactly one other site in the same pattern.
	BondEdge
)

type SitePattern struct {
	Bond  BondKind
	Edge  int
	State string // "" leaves the state unconstrained
}

type MonomerPattern struct {
	Monomer string
	Sites   map[string]SitePattern
}

// Pattern is a connected complex of monomer patterns.
type Pattern struct {
	Monomers []MonomerPattern
}

type Parameter struct {
	Name   string
	Value  float64
	IsRate bool
}

// Rule pairs reactant and product patterns with rate parameters.
// Reverse is empty for irreversible rules. MatchOnce collapses
// symmetric embeddings of the reactants to a single match.
type Rule struct {
	Name      string
	Reactants []Pattern
	Products  []Pattern
	Forward   string
	Reverse   string
	MatchOnce bool
}

type Observable struct {
	Name    string
	Pattern Pattern
}

// Initial seeds one species with the amount held by a parameter.
type Initial struct {
	Pattern Pattern
	Param   string
}

type Model struct {
	Name        string
	Monomers    []Monomer
	Parameters  []Parameter
	Rules       []Rule
	Initials    []Initial
	Observables []Observable

	monomerIdx map[string]int
	paramIdx   map[string]int
}

func NewModel(name string) *Model {
	return &Model{
		Name:       name,
		monomerIdx: make(map[string]int),
		paramIdx:   make(map[string]int),
	}
}

func (m *Model) Monomer(name string, sites []string, states map[string][]string) error {
	if _, ok := m.monomerIdx[name]; ok {
		return fmt.Errorf("chem: duplicate monomer %q", name)
	}
	m.monomerIdx[name] = len(m.Monomers)
	m.Monomers = append(m.Monomers, Monomer{Name: name, Sites: sites, States: states})
	return nil
}

func (m *Model) LookupMonomer(name string) (Monomer, bool) {
	i, ok := m.monomerIdx[name]
	if !ok {
		return Monomer{}, false
	}
	return m.Monomers[i], true
}

// Param declares a parameter and returns its name for use in rules.
func (m *Model) Param(name string, value float64, isRate bool) (string, error) {
	if _, ok := m.paramIdx[name]; ok {
		return "", fmt.Errorf("chem: duplicate parameter %q", name)
	}
	m.paramIdx[name] = len(m.Parameters)
	m.Parameters = append(m.Parameters, Parameter{Name: name, Value: value, IsRate: isRate})
	return name, nil
}

func (m *Model) ParamValue(name string) (float64, bool) {
	i, ok := m.paramIdx[name]
	if !ok {
		return 0, false
	}
	return m.Parameters[i].Value, true
}

// RuleParameters returns the rate parameters in declaration order,
// excluding initial amounts. These are the calibration targets.
func (m *Model) RuleParameters() []Parameter {
	out := make([]Parameter, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		if p.IsRate {
			out = append(out, p)
		}
	}
	return out
}

func (m *Model) AddRule(r Rule) error {
	if err := m.checkRule(r); err != nil {
		return err
	}
	m.Rules = append(m.Rules, r)
	return nil
}

func (m *Model) AddInitial(p Pattern, param string) error {
	if _, ok := m.paramIdx[param]; !ok {
		return fmt.Errorf("chem: initial references unknown parameter %q", param)
	}
	if err := m.checkPattern(p); err != nil {
		return err
	}
	m.Initials = append(m.Initials, Initial{Pattern: p, Param: param})
	return nil
}

func (m *Model) AddObservable(name string, p Pattern) error {
	if err := m.checkPattern(p); err != nil {
		return fmt.Errorf("chem: observable %q: %w", name, err)
	}
	m.Observables = append(m.Observables, Observable{Name: name, Pattern: p})
	return nil
}

func (m *Model) checkRule(r Rule) error {
	if r.Name == "" {
		return fmt.Errorf("chem: rule without a name")
	}
	if _, ok := m.paramIdx[r.Forward]; !ok {
		return fmt.Errorf("chem: rule %q references unknown parameter %q", r.Name, r.Forward)
	}
	if r.Reverse != "" {
		if _, ok := m.paramIdx[r.Reverse]; !ok {
			return fmt.Errorf("chem: rule %q references unknown parameter %q", r.Name, r.Reverse)
		}
	}
	if len(r.Reactants) == 0 || len(r.Reactants) > 2 {
		return fmt.Errorf("chem: rule %q must have 1 or 2 reactant complexes", r.Name)
	}
	for _, p := range append(append([]Pattern{}, r.Reactants...), r.Products...) {
		if err := m.checkPattern(p); err != nil {
			return fmt.Errorf("chem: rule %q: %w", r.Name, err)
		}
	}
	return nil
}

func (m *Model) checkPattern(p Pattern) error {
	for _, mp := range p.Monomers {
		mon, ok := m.LookupMonomer(mp.Monomer)
		if !ok {
			return fmt.Errorf("unknown monomer %q", mp.Monomer)
		}
		for site, sp := range mp.Sites {
			if !mon.HasSite(site) {
				return fmt.Errorf("monomer %q has no site %q", mp.Monomer, site)
			}
			if sp.State != "" {
				if !containsState(mon.States[site], sp.State) {
					return fmt.Errorf("monomer %q site %q has no state %q", mp.Monomer, site, sp.State)
				}
			}
		}
	}
	return nil
}

func containsState(states []string, s string) bool {
	for _, v := range states {
		if v == s {
			return true
		}
	}
	return false
}
