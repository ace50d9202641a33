package network

import "errors"

var (
	// ErrSpeciesBound indicates expansion exceeded the species limit.
	ErrSpeciesBound = errors.New("network: species limit exceeded during expansion")

	// ErrComplexBound indicates a rule produced a complex larger than
	// the configured maximum.
	ErrComplexBound = errors.New("network: complex size limit exceeded")

	// ErrUnsupportedRule indicates a rule transformation the expansion
	// engine cannot compile (e.g. a synthesized monomer with bonds).
	ErrUnsupportedRule = errors.New("network: unsupported rule transformation")

	// ErrUnknownParam indicates a lookup of an undeclared parameter.
	ErrUnknownParam = errors.New("network: unknown parameter")
)
