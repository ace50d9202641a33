package chem

// SiteSpec is a single site constraint used by the pattern constructors.
type SiteSpec struct {
	Site string
	SP   SitePattern
}

// St constrains only the site state.
func St(site, state string) SiteSpec {
	return SiteSpec{Site: site, SP: SitePattern{Bond: BondUnspecified, State: state}}
}

// Free requires the site to be unbound.
func Free(site string) SiteSpec {
	return SiteSpec{Site: site, SP: SitePattern{Bond: BondNone}}
}

// FreeSt requires the site to be unbound and in the given state.
func FreeSt(site, state string) SiteSpec {
	return SiteSpec{Site: site, SP: SitePattern{Bond: BondNone, State: state}}
}

// Bound requires the site to be bound to anything.
func Bound(site string) SiteSpec {
	return SiteSpec{Site: site, SP: SitePattern{Bond: BondAny}}
}

// Edge binds the site through numbered edge n within the pattern.
func Edge(site string, n int) SiteSpec {
	return SiteSpec{Site: site, SP: SitePattern{Bond: BondEdge, Edge: n}}
}

// EdgeSt combines a numbered edge with a state constraint.
func EdgeSt(site string, n int, state string) SiteSpec {
	return SiteSpec{Site: site, SP: SitePattern{Bond: BondEdge, Edge: n, State: state}}
}

// MonP builds a monomer pattern from site constraints.
func MonP(monomer string, specs ...SiteSpec) MonomerPattern {
	mp := MonomerPattern{Monomer: monomer, Sites: make(map[string]SitePattern, len(specs))}
	for _, s := range specs {
		mp.Sites[s.Site] = s.SP
	}
	return mp
}

// Complex joins monomer patterns into one (connected) pattern.
func Complex(mps ...MonomerPattern) Pattern {
	return Pattern{Monomers: mps}
}

// WithSite returns a copy of the monomer pattern with one site replaced.
func (mp MonomerPattern) WithSite(spec SiteSpec) MonomerPattern {
	out := MonomerPattern{Monomer: mp.Monomer, Sites: make(map[string]SitePattern, len(mp.Sites)+1)}
	for k, v := range mp.Sites {
		out.Sites[k] = v
	}
	out.Sites[spec.Site] = spec.SP
	return out
}

// EdgeEndpoint identifies one end of a numbered edge inside a pattern:
// monomer index within the concatenated pattern list plus site name.
type EdgeEndpoint struct {
	Mon  int
	Site string
}

// PatternEdges collects the numbered edges of a pattern as endpoint pairs.
// Each edge number must appear on exactly two sites.
func PatternEdges(p Pattern) (map[int][2]EdgeEndpoint, error) {
	ends := make(map[int][]EdgeEndpoint)
	for mi, mp := range p.Monomers {
		for site, sp := range mp.Sites {
			if sp.Bond == BondEdge {
				ends[sp.Edge] = append(ends[sp.Edge], EdgeEndpoint{Mon: mi, Site: site})
			}
		}
	}
	out := make(map[int][2]EdgeEndpoint, len(ends))
	for e, eps := range ends {
		if len(eps) != 2 {
			return nil, errDanglingEdge(e, len(eps))
		}
		// deterministic endpoint order
		if eps[1].Mon < eps[0].Mon || (eps[1].Mon == eps[0].Mon && eps[1].Site < eps[0].Site) {
			eps[0], eps[1] = eps[1], eps[0]
		}
		out[e] = [2]EdgeEndpoint{eps[0], eps[1]}
	}
	return out, nil
}
