package network

import (
	"fmt"

	"github.com/san-kum/erbbfit/internal/chem"
)

// apply executes a compiled rule against concrete operands. emb maps
// the concatenated reactant monomer index to a molecule index in the
// combined molecule list (operand molecules concatenated in order).
// Products are the connected components left after the edits.
func (c *compiledRule) apply(m *chem.Model, operands []*chem.Species, emb []int, maxComplex int) ([]*chem.Species, error) {
	// each operand numbers its bonds independently, so shift every
	// operand's edge ids into a fresh range before combining
	var mols []chem.SpeciesMonomer
	nextEdge := 0
	for _, sp := range operands {
		base := nextEdge
		for _, mol := range sp.Monomers {
			cl := cloneMol(mol)
			for site, e := range cl.Bonds {
				cl.Bonds[site] = base + e
				if base+e >= nextEdge {
					nextEdge = base + e + 1
				}
			}
			mols = append(mols, cl)
		}
	}

	for _, op := range c.stateOps {
		mols[emb[op.Mon]].States[op.Site] = op.State
	}

	for _, b := range c.bondDels {
		am, bm := emb[b.A.Mon], emb[b.B.Mon]
		ea, okA := mols[am].Bonds[b.A.Site]
		eb, okB := mols[bm].Bonds[b.B.Site]
		if !okA || !okB || ea != eb {
			return nil, fmt.Errorf("network: rule %q: bond %s missing in match", c.name, bondKey(b))
		}
		delete(mols[am].Bonds, b.A.Site)
		delete(mols[bm].Bonds, b.B.Site)
	}

	for _, b := range c.bondAdds {
		am, bm := emb[b.A.Mon], emb[b.B.Mon]
		if _, busy := mols[am].Bonds[b.A.Site]; busy {
			return nil, fmt.Errorf("network: rule %q: site %s.%s already bound", c.name, mols[am].Monomer, b.A.Site)
		}
		if _, busy := mols[bm].Bonds[b.B.Site]; busy {
			return nil, fmt.Errorf("network: rule %q: site %s.%s already bound", c.name, mols[bm].Monomer, b.B.Site)
		}
		mols[am].Bonds[b.A.Site] = nextEdge
		mols[bm].Bonds[b.B.Site] = nextEdge
		nextEdge++
	}

	deleted := make(map[int]bool, len(c.deletes))
	for _, ri := range c.deletes {
		deleted[emb[ri]] = true
	}
	if len(deleted) > 0 {
		// sever bonds into deleted molecules
		gone := make(map[int]bool)
		for mi := range mols {
			if deleted[mi] {
				for _, e := range mols[mi].Bonds {
					gone[e] = true
				}
			}
		}
		for mi := range mols {
			if deleted[mi] {
				continue
			}
			for site, e := range mols[mi].Bonds {
				if gone[e] {
					delete(mols[mi].Bonds, site)
				}
			}
		}
	}

	for _, pm := range c.adds {
		mol, err := freshMolecule(m, pm)
		if err != nil {
			return nil, err
		}
		mols = append(mols, mol)
	}

	products := splitComponents(mols, deleted)
	for _, p := range products {
		if p.Size() > maxComplex {
			return nil, fmt.Errorf("%w: rule %q built a complex of %d molecules", ErrComplexBound, c.name, p.Size())
		}
	}
	return products, nil
}

func cloneMol(m chem.SpeciesMonomer) chem.SpeciesMonomer {
	c := chem.SpeciesMonomer{
		Monomer: m.Monomer,
		States:  make(map[string]string, len(m.States)),
		Bonds:   make(map[string]int, len(m.Bonds)),
	}
	for k, v := range m.States {
		c.States[k] = v
	}
	for k, v := range m.Bonds {
		c.Bonds[k] = v
	}
	return c
}

func freshMolecule(m *chem.Model, pm chem.MonomerPattern) (chem.SpeciesMonomer, error) {
	mon, ok := m.LookupMonomer(pm.Monomer)
	if !ok {
		return chem.SpeciesMonomer{}, fmt.Errorf("network: unknown monomer %q", pm.Monomer)
	}
	mol := chem.SpeciesMonomer{
		Monomer: pm.Monomer,
		States:  make(map[string]string),
		Bonds:   make(map[string]int),
	}
	for _, site := range mon.Sites {
		if states := mon.States[site]; len(states) > 0 {
			mol.States[site] = states[0]
		}
		if sp, ok := pm.Sites[site]; ok && sp.State != "" {
			mol.States[site] = sp.State
		}
	}
	return mol, nil
}

// splitComponents partitions surviving molecules into bond-connected
// species.
func splitComponents(mols []chem.SpeciesMonomer, deleted map[int]bool) []*chem.Species {
	parent := make([]int, len(mols))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	edgeOwner := make(map[int]int)
	for mi, mol := range mols {
		if deleted[mi] {
			continue
		}
		for _, e := range mol.Bonds {
			if prev, ok := edgeOwner[e]; ok {
				union(prev, mi)
			} else {
				edgeOwner[e] = mi
			}
		}
	}

	groups := make(map[int][]int)
	var order []int
	for mi := range mols {
		if deleted[mi] {
			continue
		}
		r := find(mi)
		if _, seen := groups[r]; !seen {
			order = append(order, r)
		}
		groups[r] = append(groups[r], mi)
	}

	out := make([]*chem.Species, 0, len(groups))
	for _, r := range order {
		members := groups[r]
		sp := &chem.Species{Monomers: make([]chem.SpeciesMonomer, 0, len(members))}
		for _, mi := range members {
			sp.Monomers = append(sp.Monomers, mols[mi])
		}
		out = append(out, sp)
	}
	return out
}
