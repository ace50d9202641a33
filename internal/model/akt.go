package model

import (
	"fmt"

	"github.com/san-kum/erbbfit/internal/chem"
)

// AKT pathway: two-step activation at phosphorylated membrane dimers,
// reversed by PP2A.

func aktMonomers(m *chem.Model) error {
	if err := m.Monomer("AKT", []string{"b", "st"}, map[string][]string{
		"st": {"U", "P", "PP"},
	}); err != nil {
		return err
	}
	return m.Monomer("PP2A", []string{"b"}, nil)
}

func aktInitials(m *chem.Model) error {
	if _, err := m.Param("AKT_0", defaultAmount, false); err != nil {
		return err
	}
	if err := m.AddInitial(chem.Complex(
		chem.MonP("AKT", chem.Free("b"), chem.St("st", "U"))), "AKT_0"); err != nil {
		return err
	}
	if _, err := m.Param("PP2A_0", defaultAmount, false); err != nil {
		return err
	}
	return m.AddInitial(chem.Complex(chem.MonP("PP2A", chem.Free("b"))), "PP2A_0")
}

func aktRules(m *chem.Model) error {
	// the kinase-competent surface is a phosphorylated receptor inside
	// a membrane dimer
	recP := chem.MonP("erbb", chem.St("st", "P"), chem.Bound("bd"), chem.St("loc", "C"))

	steps := []struct {
		name     string
		from, to string
	}{
		{"akt_phos_1", "U", "P"},
		{"akt_phos_2", "P", "PP"},
	}
	for i, s := range steps {
		kf, err := m.Param(fmt.Sprintf("kaktf%d", i+1), KF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param(fmt.Sprintf("kaktr%d", i+1), KR, true)
		if err != nil {
			return err
		}
		kc, err := m.Param(fmt.Sprintf("kaktc%d", i+1), KC, true)
		if err != nil {
			return err
		}
		if err := m.CatalyzeState(s.name, recP, "b",
			chem.MonP("AKT"), "b", "st", s.from, s.to, kf, kr, kc); err != nil {
			return err
		}
	}

	back := []struct {
		name     string
		from, to string
	}{
		{"akt_dephos_1", "PP", "P"},
		{"akt_dephos_2", "P", "U"},
	}
	for i, s := range back {
		kf, err := m.Param(fmt.Sprintf("kaktdf%d", i+1), KF, true)
		if err != nil {
			return err
		}
		kr, err := m.Param(fmt.Sprintf("kaktdr%d", i+1), KR, true)
		if err != nil {
			return err
		}
		kc, err := m.Param(fmt.Sprintf("kaktdc%d", i+1), KC, true)
		if err != nil {
			return err
		}
		if err := m.CatalyzeState(s.name, chem.MonP("PP2A"), "b",
			chem.MonP("AKT"), "b", "st", s.from, s.to, kf, kr, kc); err != nil {
			return err
		}
	}
	return nil
}
