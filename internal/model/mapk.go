package model

import "github.com/san-kum/erbbfit/internal/chem"

// MAPK cascade: RAF activation at GAP-coupled receptor dimers, the
// RAF -> MEK -> ERK phosphorylation chain and its phosphatases.

func mapkMonomers(m *chem.Model) error {
	if err := m.Monomer("RAF", []string{"b", "st"}, map[string][]string{
		"st": {"U", "A"},
	}); err != nil {
		return err
	}
	if err := m.Monomer("MEK", []string{"b", "st"}, map[string][]string{
		"st": {"U", "P", "PP"},
	}); err != nil {
		return err
	}
	if err := m.Monomer("ERK", []string{"b", "st"}, map[string][]string{
		"st": {"U", "P", "PP"},
	}); err != nil {
		return err
	}
	return m.Monomer("MKP", []string{"b"}, nil)
}

func mapkInitials(m *chem.Model) error {
	type seed struct {
		param   string
		pattern chem.Pattern
	}
	seeds := []seed{
		{"RAF_0", chem.Complex(chem.MonP("RAF", chem.Free("b"), chem.St("st", "U")))},
		{"MEK_0", chem.Complex(chem.MonP("MEK", chem.Free("b"), chem.St("st", "U")))},
		{"ERK_0", chem.Complex(chem.MonP("ERK", chem.Free("b"), chem.St("st", "U")))},
		{"MKP_0", chem.Complex(chem.MonP("MKP", chem.Free("b")))},
	}
	for _, s := range seeds {
		if _, err := m.Param(s.param, defaultAmount, false); err != nil {
			return err
		}
		if err := m.AddInitial(s.pattern, s.param); err != nil {
			return err
		}
	}
	return nil
}

func mapkRules(m *chem.Model) error {
	// receptor-bound GAP recruits and activates RAF through its
	// secondary site
	krecf, err := m.Param("kraff", KF, true)
	if err != nil {
		return err
	}
	krecr, err := m.Param("krafr", KR, true)
	if err != nil {
		return err
	}
	krecc, err := m.Param("krafc", KC, true)
	if err != nil {
		return err
	}
	gap := chem.MonP("GAP", chem.Bound("b"))
	if err := m.CatalyzeState("raf_activation", gap, "bs",
		chem.MonP("RAF"), "b", "st", "U", "A", krecf, krecr, krecc); err != nil {
		return err
	}

	// spontaneous RAF deactivation
	kroff, err := m.Param("kraf_off", KR, true)
	if err != nil {
		return err
	}
	err = m.AddRule(chem.Rule{
		Name:      "raf_deactivation",
		Reactants: []chem.Pattern{chem.Complex(chem.MonP("RAF", chem.Free("b"), chem.St("st", "A")))},
		Products:  []chem.Pattern{chem.Complex(chem.MonP("RAF", chem.Free("b"), chem.St("st", "U")))},
		Forward:   kroff,
	})
	if err != nil {
		return err
	}

	type cat struct {
		name     string
		enz      chem.MonomerPattern
		esite    string
		sub      string
		from, to string
		pfx      string
	}
	rafA := chem.MonP("RAF", chem.St("st", "A"))
	mekPP := chem.MonP("MEK", chem.St("st", "PP"))
	pp2a := chem.MonP("PP2A")
	mkp := chem.MonP("MKP")
	cats := []cat{
		{"mek_phos_1", rafA, "b", "MEK", "U", "P", "kmekf1"},
		{"mek_phos_2", rafA, "b", "MEK", "P", "PP", "kmekf2"},
		{"erk_phos_1", mekPP, "b", "ERK", "U", "P", "kerkf1"},
		{"erk_phos_2", mekPP, "b", "ERK", "P", "PP", "kerkf2"},
		{"mek_dephos_1", pp2a, "b", "MEK", "PP", "P", "kmekd1"},
		{"mek_dephos_2", pp2a, "b", "MEK", "P", "U", "kmekd2"},
		{"erk_dephos_1", mkp, "b", "ERK", "PP", "P", "kerkd1"},
		{"erk_dephos_2", mkp, "b", "ERK", "P", "U", "kerkd2"},
	}
	for _, c := range cats {
		kf, err := m.Param(c.pfx+"_f", KF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param(c.pfx+"_r", KR, true)
		if err != nil {
			return err
		}
		kc, err := m.Param(c.pfx+"_c", KC, true)
		if err != nil {
			return err
		}
		if err := m.CatalyzeState(c.name, c.enz, c.esite,
			chem.MonP(c.sub), "b", "st", c.from, c.to, kf, kr, kc); err != nil {
			return err
		}
	}
	return nil
}
