// Package fit calibrates rate parameters of an expanded reaction
// network against experimental time courses. It owns the likelihood
// and prior score functions handed to the sampler, column
// normalization, the periodic console diagnostics and the best-fit
// report.
package fit
