package chem

import (
	"fmt"
	"sort"
	"strings"
)

// SpeciesMonomer is one concrete molecule inside a species. Every site
// has a definite state (empty string for stateless sites) and is either
// unbound or carries an edge id shared with exactly one other site.
type SpeciesMonomer struct {
	Monomer string
	States  map[string]string
	Bonds   map[string]int
}

func (sm SpeciesMonomer) clone() SpeciesMonomer {
	c := SpeciesMonomer{
		Monomer: sm.Monomer,
		States:  make(map[string]string, len(sm.States)),
		Bonds:   make(map[string]int, len(sm.Bonds)),
	}
	for k, v := range sm.States {
		c.States[k] = v
	}
	for k, v := range sm.Bonds {
		c.Bonds[k] = v
	}
	return c
}

// Species is a connected complex of concrete molecules.
type Species struct {
	Monomers []SpeciesMonomer

	key string
}

func (s *Species) Clone() *Species {
	c := &Species{Monomers: make([]SpeciesMonomer, len(s.Monomers))}
	for i, m := range s.Monomers {
		c.Monomers[i] = m.clone()
	}
	return c
}

func (s *Species) Size() int { return len(s.Monomers) }

// BondPartner returns the monomer index and site bonded to the given
// site, if any.
func (s *Species) BondPartner(mon int, site string) (int, string, bool) {
	edge, ok := s.Monomers[mon].Bonds[site]
	if !ok {
		return 0, "", false
	}
	for mi, m := range s.Monomers {
		for st, e := range m.Bonds {
			if e == edge && !(mi == mon && st == site) {
				return mi, st, true
			}
		}
	}
	return 0, "", false
}

// Key returns the canonical serialization of the species. Structurally
// identical complexes yield identical keys regardless of monomer order
// or edge numbering.
func (s *Species) Key() string {
	if s.key == "" {
		s.key = canonicalKey(s)
	}
	return s.key
}

func (s *Species) String() string {
	parts := make([]string, len(s.Monomers))
	for i, m := range s.Monomers {
		parts[i] = serializeMonomer(m, nil)
	}
	return strings.Join(parts, "%")
}

func serializeMonomer(m SpeciesMonomer, edgeRelabel map[int]int) string {
	sites := make([]string, 0, len(m.States)+len(m.Bonds))
	seen := make(map[string]bool)
	for site := range m.States {
		seen[site] = true
		sites = append(sites, site)
	}
	for site := range m.Bonds {
		if !seen[site] {
			sites = append(sites, site)
		}
	}
	sort.Strings(sites)

	var b strings.Builder
	b.WriteString(m.Monomer)
	b.WriteByte('(')
	for i, site := range sites {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(site)
		if st, ok := m.States[site]; ok && st != "" {
			b.WriteByte('~')
			b.WriteString(st)
		}
		if e, ok := m.Bonds[site]; ok {
			b.WriteByte('!')
			if edgeRelabel != nil {
				e = edgeRelabel[e]
			}
			fmt.Fprintf(&b, "%d", e)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// SpeciesFromPattern converts a concrete pattern into a species.
// Unspecified bonds become unbound; unspecified states default to the
// first declared state of the site.
func SpeciesFromPattern(m *Model, p Pattern) (*Species, error) {
	if _, err := PatternEdges(p); err != nil {
		return nil, err
	}
	sp := &Species{Monomers: make([]SpeciesMonomer, len(p.Monomers))}
	for i, mp := range p.Monomers {
		mon, ok := m.LookupMonomer(mp.Monomer)
		if !ok {
			return nil, fmt.Errorf("chem: unknown monomer %q", mp.Monomer)
		}
		sm := SpeciesMonomer{
			Monomer: mp.Monomer,
			States:  make(map[string]string),
			Bonds:   make(map[string]int),
		}
		for _, site := range mon.Sites {
			if states := mon.States[site]; len(states) > 0 {
				sm.States[site] = states[0]
			}
			sp0, ok := mp.Sites[site]
			if !ok {
				continue
			}
			switch sp0.Bond {
			case BondEdge:
				sm.Bonds[site] = sp0.Edge
			case BondAny:
				return nil, fmt.Errorf("%w: site %s.%s bound to ANY", ErrNotConcrete, mp.Monomer, site)
			}
			if sp0.State != "" {
				sm.States[site] = sp0.State
			}
		}
		sp.Monomers[i] = sm
	}
	return sp, nil
}
