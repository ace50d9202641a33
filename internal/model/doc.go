// Package model declares the ErbB signaling model: receptor-layer
// events for the ErbB1-4 family (ligand binding, dimerization,
// cross-phosphorylation, dephosphorylation, internalization and
// degradation) plus the downstream AKT and MAPK cascades.
//
// The model follows the Chen/Sorger 2009 ErbB network. Rules are
// declared against package chem and expanded by package network; the
// three calibration observables are obsAKTPP, obsErbB1_ErbB_P_CE and
// obsERKPP.
package model
