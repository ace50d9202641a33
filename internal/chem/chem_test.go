package chem

import (
	"errors"
	"testing"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel("test")
	if err := m.Monomer("R", []string{"l", "d", "st"}, map[string][]string{
		"st": {"U", "P"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.Monomer("L", []string{"b"}, nil); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCanonicalKeyOrderIndependent(t *testing.T) {
	m := testModel(t)

	a, err := SpeciesFromPattern(m, Complex(
		MonP("R", Edge("d", 1), St("st", "P"), Free("l")),
		MonP("R", Edge("d", 1), St("st", "U"), Free("l")),
	))
	if err != nil {
		t.Fatal(err)
	}
	b, err := SpeciesFromPattern(m, Complex(
		MonP("R", Edge("d", 5), St("st", "U"), Free("l")),
		MonP("R", Edge("d", 5), St("st", "P"), Free("l")),
	))
	if err != nil {
		t.Fatal(err)
	}

	if a.Key() != b.Key() {
		t.Errorf("keys differ for the same complex:\n  %s\n  %s", a.Key(), b.Key())
	}
}

func TestCanonicalKeyDistinguishesStates(t *testing.T) {
	m := testModel(t)

	a, err := SpeciesFromPattern(m, Complex(MonP("R", St("st", "U"), Free("l"), Free("d"))))
	if err != nil {
		t.Fatal(err)
	}
	b, err := SpeciesFromPattern(m, Complex(MonP("R", St("st", "P"), Free("l"), Free("d"))))
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() == b.Key() {
		t.Error("distinct phospho states mapped to the same key")
	}
}

func TestSpeciesFromPatternDefaults(t *testing.T) {
	m := testModel(t)

	// unspecified sites default to unbound, unspecified states to the
	// first declared state
	s, err := SpeciesFromPattern(m, Complex(MonP("R")))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Monomers[0].States["st"]; got != "U" {
		t.Errorf("default state = %q, want U", got)
	}
	if len(s.Monomers[0].Bonds) != 0 {
		t.Errorf("default bonds = %v, want none", s.Monomers[0].Bonds)
	}
}

func TestSpeciesFromPatternRejectsBondAny(t *testing.T) {
	m := testModel(t)

	_, err := SpeciesFromPattern(m, Complex(MonP("R", Bound("d"))))
	if !errors.Is(err, ErrNotConcrete) {
		t.Errorf("err = %v, want ErrNotConcrete", err)
	}
}

func TestPatternEdgesDangling(t *testing.T) {
	_, err := PatternEdges(Complex(MonP("R", Edge("d", 1))))
	if !errors.Is(err, ErrDanglingEdge) {
		t.Errorf("err = %v, want ErrDanglingEdge", err)
	}
}

func TestEmbeddings(t *testing.T) {
	m := testModel(t)

	dimer, err := SpeciesFromPattern(m, Complex(
		MonP("R", Edge("d", 1), St("st", "P"), Free("l")),
		MonP("R", Edge("d", 1), St("st", "P"), Free("l")),
	))
	if err != nil {
		t.Fatal(err)
	}

	// a single phosphorylated R embeds twice into a symmetric dimer
	n, err := EmbeddingCount(Complex(MonP("R", St("st", "P"))), dimer)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("embeddings = %d, want 2", n)
	}

	// requiring an unbound dimer site matches nothing
	n, err = EmbeddingCount(Complex(MonP("R", Free("d"))), dimer)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("embeddings = %d, want 0", n)
	}

	// the bonded pair pattern embeds twice (both orientations)
	n, err = EmbeddingCount(Complex(
		MonP("R", Edge("d", 1)),
		MonP("R", Edge("d", 1)),
	), dimer)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("embeddings = %d, want 2", n)
	}
}

func TestRuleParametersRatesOnly(t *testing.T) {
	m := testModel(t)
	if _, err := m.Param("R_0", 100, false); err != nil {
		t.Fatal(err)
	}
	kf, err := m.Param("kf", 1e-6, true)
	if err != nil {
		t.Fatal(err)
	}
	kr, err := m.Param("kr", 1e-3, true)
	if err != nil {
		t.Fatal(err)
	}
	_ = kf
	_ = kr

	params := m.RuleParameters()
	if len(params) != 2 {
		t.Fatalf("rule parameters = %d, want 2", len(params))
	}
	if params[0].Name != "kf" || params[1].Name != "kr" {
		t.Errorf("order = %s, %s, want kf, kr", params[0].Name, params[1].Name)
	}
}

func TestBindBuilder(t *testing.T) {
	m := testModel(t)
	kf, _ := m.Param("kf", 1e-6, true)
	kr, _ := m.Param("kr", 1e-3, true)

	if err := m.Bind("bind_L_R", MonP("R"), "l", MonP("L"), "b", kf, kr); err != nil {
		t.Fatal(err)
	}
	if len(m.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(m.Rules))
	}
	r := m.Rules[0]
	if len(r.Reactants) != 2 || len(r.Products) != 1 {
		t.Errorf("reactants/products = %d/%d, want 2/1", len(r.Reactants), len(r.Products))
	}
	if r.Reverse != "kr" {
		t.Errorf("reverse = %q, want kr", r.Reverse)
	}
	if got := r.Reactants[0].Monomers[0].Sites["l"].Bond; got != BondNone {
		t.Errorf("reactant bond condition = %v, want BondNone", got)
	}
	if got := r.Products[0].Monomers[0].Sites["l"].Bond; got != BondEdge {
		t.Errorf("product bond condition = %v, want BondEdge", got)
	}
}

func TestBindTable(t *testing.T) {
	m := testModel(t)
	kf, _ := m.Param("kf", 1e-6, true)
	kr, _ := m.Param("kr", 1e-3, true)

	err := m.BindTable([]BindEntry{
		{Name: "bind_L_R", A: MonP("R"), B: MonP("L"), SiteA: "l", SiteB: "b", Kf: kf, Kr: kr},
		{Name: "dim_R_R", A: MonP("R"), B: MonP("R"), SiteA: "d", SiteB: "d", Kf: kf, Kr: kr},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Rules) != 2 {
		t.Fatalf("rules = %d, want one per table row", len(m.Rules))
	}
	if m.Rules[0].Name != "bind_L_R" || m.Rules[1].Name != "dim_R_R" {
		t.Errorf("rule names = %q, %q", m.Rules[0].Name, m.Rules[1].Name)
	}
}

func TestCatalyzeStateBuilder(t *testing.T) {
	m := testModel(t)
	kf, _ := m.Param("kf", 1e-6, true)
	kr, _ := m.Param("kr", 1e-3, true)
	kc, _ := m.Param("kc", 1.0, true)

	err := m.CatalyzeState("phos", MonP("L"), "b", MonP("R"), "l", "st", "U", "P", kf, kr, kc)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Rules) != 2 {
		t.Fatalf("rules = %d, want bind + cat", len(m.Rules))
	}
	cat := m.Rules[1]
	if cat.Name != "phos_cat" {
		t.Errorf("cat rule name = %q", cat.Name)
	}
	if cat.Reverse != "" {
		t.Error("conversion step should be irreversible")
	}
	if got := cat.Products[1].Monomers[0].Sites["st"].State; got != "P" {
		t.Errorf("product state = %q, want P", got)
	}
}

func TestRuleValidation(t *testing.T) {
	m := testModel(t)
	kf, _ := m.Param("kf", 1e-6, true)

	err := m.AddRule(Rule{
		Name:      "bad_site",
		Reactants: []Pattern{Complex(MonP("R", Free("nope")))},
		Forward:   kf,
	})
	if err == nil {
		t.Error("expected error for unknown site")
	}

	err = m.AddRule(Rule{
		Name:      "bad_param",
		Reactants: []Pattern{Complex(MonP("R"))},
		Forward:   "missing",
	})
	if err == nil {
		t.Error("expected error for unknown parameter")
	}
}
