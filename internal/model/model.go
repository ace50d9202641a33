package model

import "github.com/san-kum/erbbfit/internal/chem"

// Default rate scales, per Chen/Sorger 2009.
const (
	KF    = 1e-6
	KR    = 1e-3
	KC    = 1.0
	KDIMF = 1e-6
	KDIMR = 1e-3
	KINTF = 1.0e-3
	KINTR = 5.0e-5
	KDEG  = 0.1

	KLIGF = 1.0
	KLIGR = 1.0

	defaultAmount = 1000.0
)

// New assembles the full ErbB model: receptor layer plus the AKT and
// MAPK pathways.
func New() (*chem.Model, error) {
	m := chem.NewModel("erbb")

	build := []func(*chem.Model) error{
		receptorMonomers,
		receptorInitials,
		receptorRules,
		aktMonomers,
		aktInitials,
		aktRules,
		mapkMonomers,
		mapkInitials,
		mapkRules,
		observables,
	}
	for _, f := range build {
		if err := f(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func observables(m *chem.Model) error {
	if err := m.AddObservable("obsAKTPP",
		chem.Complex(chem.MonP("AKT", chem.St("st", "PP")))); err != nil {
		return err
	}
	// phosphorylated ErbB1 in dimers, membrane and endosome
	if err := m.AddObservable("obsErbB1_ErbB_P_CE",
		chem.Complex(
			chem.MonP("erbb", chem.St("ty", "1"), chem.St("st", "P"), chem.Edge("bd", 1)),
			chem.MonP("erbb", chem.Edge("bd", 1)),
		)); err != nil {
		return err
	}
	if err := m.AddObservable("obsERKPP",
		chem.Complex(chem.MonP("ERK", chem.St("st", "PP")))); err != nil {
		return err
	}
	if err := m.AddObservable("obsRecC",
		chem.Complex(chem.MonP("erbb", chem.St("loc", "C")))); err != nil {
		return err
	}
	return m.AddObservable("obsRecE",
		chem.Complex(chem.MonP("erbb", chem.St("loc", "E"))))
}
