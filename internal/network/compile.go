package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/erbbfit/internal/chem"
)

// directedRule is one direction of a (possibly reversible) model rule.
type directedRule struct {
	name      string
	param     string
	reactants []chem.Pattern
	products  []chem.Pattern
	matchOnce bool
}

type endpoint struct {
	Mon  int
	Site string
}

type stateOp struct {
	Mon   int
	Site  string
	State string
}

type bondOp struct {
	A, B endpoint
}

// compiledRule is a directed rule lowered to the edit operations that
// turn matched reactant molecules into product molecules. Monomer
// indices refer to the concatenated reactant pattern list.
type compiledRule struct {
	directedRule

	reactantMons []chem.MonomerPattern
	complexOf    []int // reactant monomer -> reactant complex index

	deletes  []int
	stateOps []stateOp
	bondAdds []bondOp
	bondDels []bondOp
	adds     []chem.MonomerPattern

	symmetric bool // bimolecular with structurally identical reactant patterns
}

// directRules splits reversible rules into forward/reverse pairs.
func directRules(m *chem.Model) []directedRule {
	out := make([]directedRule, 0, len(m.Rules))
	for i := range m.Rules {
		r := &m.Rules[i]
		out = append(out, directedRule{
			name:      r.Name,
			param:     r.Forward,
			reactants: r.Reactants,
			products:  r.Products,
			matchOnce: r.MatchOnce,
		})
		if r.Reverse != "" {
			out = append(out, directedRule{
				name:      r.Name + "_rev",
				param:     r.Reverse,
				reactants: r.Products,
				products:  r.Reactants,
				matchOnce: r.MatchOnce,
			})
		}
	}
	return out
}

func compileRule(d directedRule) (*compiledRule, error) {
	c := &compiledRule{directedRule: d}

	for ci, p := range d.reactants {
		for _, mp := range p.Monomers {
			c.reactantMons = append(c.reactantMons, mp)
			c.complexOf = append(c.complexOf, ci)
		}
	}
	var productMons []chem.MonomerPattern
	for _, p := range d.products {
		productMons = append(productMons, p.Monomers...)
	}

	// align product monomers to reactant monomers by name, first fit
	align := make([]int, len(productMons))
	usedR := make([]bool, len(c.reactantMons))
	for pi, pm := range productMons {
		align[pi] = -1
		for ri, rm := range c.reactantMons {
			if !usedR[ri] && rm.Monomer == pm.Monomer {
				align[pi] = ri
				usedR[ri] = true
				break
			}
		}
		if align[pi] == -1 {
			for site, sp := range pm.Sites {
				if sp.Bond == chem.BondEdge || sp.Bond == chem.BondAny {
					return nil, fmt.Errorf("%w: rule %q synthesizes bound monomer %s.%s",
						ErrUnsupportedRule, d.name, pm.Monomer, site)
				}
			}
			c.adds = append(c.adds, pm)
		}
	}
	for ri, used := range usedR {
		if !used {
			c.deletes = append(c.deletes, ri)
		}
	}

	// state edits on aligned monomers
	for pi, pm := range productMons {
		ri := align[pi]
		if ri == -1 {
			continue
		}
		rm := c.reactantMons[ri]
		for site, sp := range pm.Sites {
			if sp.State == "" {
				continue
			}
			if rsp, ok := rm.Sites[site]; ok && rsp.State == sp.State {
				continue
			}
			c.stateOps = append(c.stateOps, stateOp{Mon: ri, Site: site, State: sp.State})
		}
	}

	// edge diff, in reactant monomer index space
	rEdges, err := concatEdges(d.reactants, identityOffsets(d.reactants))
	if err != nil {
		return nil, fmt.Errorf("network: rule %q: %w", d.name, err)
	}
	pEdgesRaw, err := concatEdges(d.products, identityOffsets(d.products))
	if err != nil {
		return nil, fmt.Errorf("network: rule %q: %w", d.name, err)
	}
	pEdges := make(map[string]bondOp, len(pEdgesRaw))
	for _, e := range pEdgesRaw {
		a, b := e.A, e.B
		if align[a.Mon] == -1 || align[b.Mon] == -1 {
			return nil, fmt.Errorf("%w: rule %q bonds a synthesized monomer", ErrUnsupportedRule, d.name)
		}
		mapped := normBond(bondOp{
			A: endpoint{Mon: align[a.Mon], Site: a.Site},
			B: endpoint{Mon: align[b.Mon], Site: b.Site},
		})
		pEdges[bondKey(mapped)] = mapped
	}
	rSet := make(map[string]bondOp, len(rEdges))
	for _, e := range rEdges {
		e = normBond(e)
		rSet[bondKey(e)] = e
	}
	for k, e := range rSet {
		if _, ok := pEdges[k]; !ok {
			c.bondDels = append(c.bondDels, e)
		}
	}
	for k, e := range pEdges {
		if _, ok := rSet[k]; !ok {
			c.bondAdds = append(c.bondAdds, e)
		}
	}
	sortBondOps(c.bondDels)
	sortBondOps(c.bondAdds)

	if len(d.reactants) == 2 {
		c.symmetric = patternKey(d.reactants[0]) == patternKey(d.reactants[1])
	}
	return c, nil
}

// concatEdges lists the numbered edges of a pattern slice with monomer
// indices shifted into the concatenated index space.
func concatEdges(ps []chem.Pattern, offsets []int) ([]bondOp, error) {
	var out []bondOp
	for ci, p := range ps {
		edges, err := chem.PatternEdges(p)
		if err != nil {
			return nil, err
		}
		for _, eps := range edges {
			out = append(out, bondOp{
				A: endpoint{Mon: eps[0].Mon + offsets[ci], Site: eps[0].Site},
				B: endpoint{Mon: eps[1].Mon + offsets[ci], Site: eps[1].Site},
			})
		}
	}
	return out, nil
}

func identityOffsets(ps []chem.Pattern) []int {
	offsets := make([]int, len(ps))
	n := 0
	for i, p := range ps {
		offsets[i] = n
		n += len(p.Monomers)
	}
	return offsets
}

func normBond(b bondOp) bondOp {
	if b.B.Mon < b.A.Mon || (b.B.Mon == b.A.Mon && b.B.Site < b.A.Site) {
		b.A, b.B = b.B, b.A
	}
	return b
}

func bondKey(b bondOp) string {
	return fmt.Sprintf("%d.%s-%d.%s", b.A.Mon, b.A.Site, b.B.Mon, b.B.Site)
}

func sortBondOps(ops []bondOp) {
	sort.Slice(ops, func(i, j int) bool { return bondKey(ops[i]) < bondKey(ops[j]) })
}

// patternKey is a deterministic serialization used to detect symmetric
// bimolecular rules (identical reactant patterns).
func patternKey(p chem.Pattern) string {
	parts := make([]string, len(p.Monomers))
	for i, mp := range p.Monomers {
		sites := make([]string, 0, len(mp.Sites))
		for site, sp := range mp.Sites {
			sites = append(sites, fmt.Sprintf("%s:%d:%d:%s", site, sp.Bond, sp.Edge, sp.State))
		}
		sort.Strings(sites)
		parts[i] = mp.Monomer + "(" + strings.Join(sites, ",") + ")"
	}
	return strings.Join(parts, "%")
}
