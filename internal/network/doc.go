// Package network expands a rule-based chem.Model into a concrete
// reaction network and adapts it to the odesim.System interface with
// mass-action kinetics.
//
// Expansion runs a worklist from the initial species: every rule is
// applied to each species (or species pair for bimolecular rules),
// product complexes are canonicalized and new ones feed back into the
// worklist until no new species appear. Species and complex-size bounds
// turn a runaway model into an error instead of an endless loop.
package network
