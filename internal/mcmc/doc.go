// Package mcmc implements a Metropolis sampler with simulated-annealing
// warmup, step-size adaptation and optional Hessian-guided proposals.
//
// Positions are arbitrary float vectors; the caller supplies likelihood
// and prior score functions (negative log, lower is better). The chain
// records every step so the posterior sample set can be extracted after
// a burn-in prefix.
package mcmc
