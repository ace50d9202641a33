// Package chem provides the rule-based model core for reaction networks.
//
// A model is declared as monomers with named sites, reaction rules over
// site-level patterns, rate parameters, initial conditions and observables:
//
//   - [Monomer]: molecule type with binding sites and site states
//   - [Pattern]: partially specified complex used by rules and observables
//   - [Species]: fully specified complex with a canonical key
//   - [Rule]: reactant/product patterns plus rate parameters
//   - [Model]: the declarative model container with builder helpers
//
// Rules stay declarative here; package network expands them into a
// concrete set of elementary reactions.
package chem
