package chem

// Builder helpers mirroring the usual rule-based modeling macros.
// Each adds one or more rules to the model; the pattern arguments carry
// the context constraints and the named sites carry the bond change.

// Bind adds a reversible binding rule a.siteA + b.siteB <-> a:b.
// The bond sites are forced unbound on the reactant side.
func (m *Model) Bind(name string, a MonomerPattern, siteA string, b MonomerPattern, siteB string, kf, kr string) error {
	ra := a.WithSite(Free(siteA))
	rb := b.WithSite(Free(siteB))
	pa := a.WithSite(Edge(siteA, 1))
	pb := b.WithSite(Edge(siteB, 1))
	return m.AddRule(Rule{
		Name:      name,
		Reactants: []Pattern{Complex(ra), Complex(rb)},
		Products:  []Pattern{Complex(pa, pb)},
		Forward:   kf,
		Reverse:   kr,
	})
}

// BindEntry is one row of a binding table.
type BindEntry struct {
	Name         string
	A, B         MonomerPattern
	SiteA, SiteB string
	Kf, Kr       string
}

// BindTable adds one Bind rule per table row.
func (m *Model) BindTable(entries []BindEntry) error {
	for _, e := range entries {
		if err := m.Bind(e.Name, e.A, e.SiteA, e.B, e.SiteB, e.Kf, e.Kr); err != nil {
			return err
		}
	}
	return nil
}

// CatalyzeState adds the three-rule catalysis scheme
//
//	E + S(state=from) <-> E:S >> E + S(state=to)
//
// binding through esite/ssite and flipping statesite on the substrate.
func (m *Model) CatalyzeState(name string, enz MonomerPattern, esite string, sub MonomerPattern, ssite, statesite, from, to string, kf, kr, kc string) error {
	subFrom := sub.WithSite(St(statesite, from))
	if err := m.Bind(name+"_bind", enz, esite, subFrom, ssite, kf, kr); err != nil {
		return err
	}
	reBound := Complex(
		enz.WithSite(Edge(esite, 1)),
		subFrom.WithSite(Edge(ssite, 1)),
	)
	prFree := Complex(enz.WithSite(Free(esite)))
	prSub := Complex(sub.WithSite(St(statesite, to)).WithSite(Free(ssite)))
	return m.AddRule(Rule{
		Name:      name + "_cat",
		Reactants: []Pattern{reBound},
		Products:  []Pattern{prFree, prSub},
		Forward:   kc,
	})
}

// Degrade adds an irreversible removal rule for the matched monomers.
// Unmatched molecules bound into the same complex survive with the
// bonds to the degraded molecules severed. Symmetric matches of the
// doomed complex count once.
func (m *Model) Degrade(name string, p Pattern, k string) error {
	return m.AddRule(Rule{
		Name:      name,
		Reactants: []Pattern{p},
		Forward:   k,
		MatchOnce: true,
	})
}
