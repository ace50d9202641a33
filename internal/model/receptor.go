package model

import (
	"fmt"

	"github.com/san-kum/erbbfit/internal/chem"
)

// Receptor layer: ligand binding, dimerization, ATP binding,
// cross-phosphorylation, dephosphorylation, internalization and
// endosomal degradation.

func receptorMonomers(m *chem.Model) error {
	if err := m.Monomer("EGF", []string{"b"}, nil); err != nil {
		return err
	}
	if err := m.Monomer("HRG", []string{"b"}, nil); err != nil {
		return err
	}
	// bl: ligand, bd: dimer, b: binding/catalysis, ty: receptor type,
	// st: phospho state, loc: membrane (C) or endosome (E)
	if err := m.Monomer("erbb", []string{"bl", "bd", "b", "ty", "st", "loc"}, map[string][]string{
		"ty":  {"1", "2", "3", "4"},
		"st":  {"U", "P"},
		"loc": {"C", "E"},
	}); err != nil {
		return err
	}
	if err := m.Monomer("DEP", []string{"b"}, nil); err != nil {
		return err
	}
	if err := m.Monomer("ATP", []string{"b"}, nil); err != nil {
		return err
	}
	if err := m.Monomer("ADP", nil, nil); err != nil {
		return err
	}
	return m.Monomer("GAP", []string{"b", "bs"}, nil)
}

func receptorInitials(m *chem.Model) error {
	type seed struct {
		param   string
		pattern chem.Pattern
	}
	seeds := []seed{
		{"EGF_0", chem.Complex(chem.MonP("EGF", chem.Free("b")))},
		{"HRG_0", chem.Complex(chem.MonP("HRG", chem.Free("b")))},
		{"DEP_0", chem.Complex(chem.MonP("DEP", chem.Free("b")))},
		{"ATP_0", chem.Complex(chem.MonP("ATP", chem.Free("b")))},
		{"GAP_0", chem.Complex(chem.MonP("GAP", chem.Free("b"), chem.Free("bs")))},
	}
	for _, ty := range []string{"1", "2", "3", "4"} {
		seeds = append(seeds, seed{
			"erbb" + ty + "_0",
			chem.Complex(chem.MonP("erbb",
				chem.Free("bl"), chem.Free("bd"), chem.Free("b"),
				chem.St("ty", ty), chem.St("st", "U"), chem.St("loc", "C"))),
		})
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

func receptorRules(m *chem.Model) error {
	// ligand binding: EGF to erbb1, HRG to erbb3/4
	ligands := []struct {
		lig string
		ty  string
	}{
		{"EGF", "1"},
		{"HRG", "3"},
		{"HRG", "4"},
	}
	for _, lb := range ligands {
		kf, err := m.Param(fmt.Sprintf("kbnd%sf%s", lb.lig, lb.ty), KLIGF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param(fmt.Sprintf("kbnd%sr%s", lb.lig, lb.ty), KLIGR, true)
		if err != nil {
			return err
		}
		rec := chem.MonP("erbb",
			chem.St("ty", lb.ty), chem.Free("b"), chem.St("st", "U"), chem.St("loc", "C"))
		if err := m.Bind("bind_"+lb.lig+"_erbb"+lb.ty,
			rec, "bl", chem.MonP(lb.lig), "b", kf, kr); err != nil {
			return err
		}
	}

	// dimerization: types 3 and 4 pair only with a kinase-competent partner
	pairs := [][2]string{{"1", "1"}, {"1", "2"}, {"2", "2"}, {"1", "3"}, {"2", "3"}, {"1", "4"}, {"2", "4"}}
	dimers := make([]chem.BindEntry, 0, len(pairs))
	for _, pr := range pairs {
		kf, err := m.Param("kdimf"+pr[0]+pr[1], KDIMF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param("kdimr"+pr[0]+pr[1], KDIMR, true)
		if err != nil {
			return err
		}
		dimers = append(dimers, chem.BindEntry{
			Name:  "dim_" + pr[0] + "_" + pr[1],
			A:     chem.MonP("erbb", chem.St("ty", pr[0]), chem.Free("b"), chem.St("st", "U"), chem.St("loc", "C")),
			B:     chem.MonP("erbb", chem.St("ty", pr[1]), chem.Free("b"), chem.St("st", "U"), chem.St("loc", "C")),
			SiteA: "bd", SiteB: "bd",
			Kf: kf, Kr: kr,
		})
	}
	if err := m.BindTable(dimers); err != nil {
		return err
	}

	// ATP binds dimerized, kinase-competent receptors only
	for _, ty := range []string{"1", "2", "4"} {
		kf, err := m.Param("katpf"+ty, KF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param("katpr"+ty, KR, true)
		if err != nil {
			return err
		}
		rec := chem.MonP("erbb",
			chem.St("ty", ty), chem.Bound("bd"), chem.St("st", "U"), chem.St("loc", "C"))
		if err := m.Bind("bind_ATP_erbb"+ty, rec, "b", chem.MonP("ATP"), "b", kf, kr); err != nil {
			return err
		}
	}

	// cross-phosphorylation: a ligand-bound kinase transfers the ATP
	// gamma-phosphate to its dimer partner
	for _, i := range []string{"1", "2", "4"} {
		for _, j := range []string{"1", "2", "3", "4"} {
			kc, err := m.Param("kcp"+i+j, KC, true)
			if err != nil {
				return err
			}
			err = m.AddRule(chem.Rule{
				Name: "cross_phospho_" + i + "_" + j,
				Reactants: []chem.Pattern{chem.Complex(
					chem.MonP("ATP", chem.Edge("b", 1)),
					chem.MonP("erbb", chem.St("ty", i), chem.Edge("b", 1), chem.Edge("bd", 2), chem.Bound("bl")),
					chem.MonP("erbb", chem.St("ty", j), chem.Edge("bd", 2), chem.St("st", "U")),
				)},
				Products: []chem.Pattern{
					chem.Complex(chem.MonP("ADP")),
					chem.Complex(
						chem.MonP("erbb", chem.St("ty", i), chem.Free("b"), chem.Edge("bd", 2), chem.Bound("bl")),
						chem.MonP("erbb", chem.St("ty", j), chem.Edge("bd", 2), chem.St("st", "P")),
					),
				},
				Forward: kc,
			})
			if err != nil {
				return err
			}
		}
	}

	// DEP-mediated receptor dephosphorylation
	for _, ty := range []string{"1", "2", "3", "4"} {
		kf, err := m.Param("kfdephos"+ty, KF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param("krdephos"+ty, KR, true)
		if err != nil {
			return err
		}
		kc, err := m.Param("kcdephos"+ty, KC, true)
		if err != nil {
			return err
		}
		rec := chem.MonP("erbb", chem.St("ty", ty))
		if err := m.CatalyzeState("dephospho_"+ty,
			chem.MonP("DEP"), "b", rec, "b", "st", "P", "U", kf, kr, kc); err != nil {
			return err
		}
	}

	// dimer internalization, membrane <-> endosome
	kintf, err := m.Param("kintf", KINTF, true)
	if err != nil {
		return err
	}
	kintr, err := m.Param("kintr", KINTR, true)
	if err != nil {
		return err
	}
	err = m.AddRule(chem.Rule{
		Name: "rec_intern",
		Reactants: []chem.Pattern{chem.Complex(
			chem.MonP("erbb", chem.Edge("bd", 1), chem.St("loc", "C")),
			chem.MonP("erbb", chem.Edge("bd", 1), chem.St("loc", "C")),
		)},
		Products: []chem.Pattern{chem.Complex(
			chem.MonP("erbb", chem.Edge("bd", 1), chem.St("loc", "E")),
			chem.MonP("erbb", chem.Edge("bd", 1), chem.St("loc", "E")),
		)},
		Forward:   kintf,
		Reverse:   kintr,
		MatchOnce: true,
	})
	if err != nil {
		return err
	}

	// endosomal dimer degradation
	kdeg, err := m.Param("kdeg", KDEG, true)
	if err != nil {
		return err
	}
	if err := m.Degrade("rec_deg", chem.Complex(
		chem.MonP("erbb", chem.Edge("bd", 1), chem.St("loc", "E")),
		chem.MonP("erbb", chem.Edge("bd", 1), chem.St("loc", "E")),
	), kdeg); err != nil {
		return err
	}

	// GAP docks onto phosphorylated dimers
	kgapf, err := m.Param("kerbb_dim_GAPf", KF, true)
	if err != nil {
		return err
	}
	kgapr, err := m.Param("kerbb_dim_GAPr", KR, true)
	if err != nil {
		return err
	}
	return m.AddRule(chem.Rule{
		Name: "GAP_dimerization",
		Reactants: []chem.Pattern{
			chem.Complex(
				chem.MonP("erbb", chem.Edge("bd", 1), chem.Free("b"), chem.St("st", "P")),
				chem.MonP("erbb", chem.Edge("bd", 1), chem.Free("b"), chem.St("st", "P")),
			),
			chem.Complex(chem.MonP("GAP", chem.Free("b"))),
		},
		Products: []chem.Pattern{chem.Complex(
			chem.MonP("erbb", chem.Edge("bd", 1), chem.Edge("b", 2), chem.St("st", "P")),
			chem.MonP("erbb", chem.Edge("bd", 1), chem.Free("b"), chem.St("st", "P")),
			chem.MonP("GAP", chem.Edge("b", 2)),
		)},
		Forward:   kgapf,
		Reverse:   kgapr,
		MatchOnce: true,
	})
}
