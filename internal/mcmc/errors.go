package mcmc

import "errors"

var (
	// ErrNoLikelihood indicates Opts without a likelihood function.
	ErrNoLikelihood = errors.New("mcmc: likelihood function is required")

	// ErrBadOpts indicates a non-positive step count or empty position.
	ErrBadOpts = errors.New("mcmc: invalid options")

	// ErrScoreInvalid indicates a NaN score at the starting position.
	ErrScoreInvalid = errors.New("mcmc: score is NaN at the initial position")
)
