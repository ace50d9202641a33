// Package odesim provides the trajectory simulation primitives used to
// integrate expanded reaction networks.
//
//   - [State]: concentration vector
//   - [System]: ODE right-hand side (dX/dt = f(X, t))
//   - [Integrator]: fixed-step integrator interface
//   - [AdaptiveIntegrator]: error-controlled stepping
//   - [Simulator]: samples a trajectory at arbitrary time points
//
// Simulator instances are not safe for concurrent use; the calibration
// loop owns one simulator per chain.
package odesim
