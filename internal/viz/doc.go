// Package viz renders the live calibration monitor: a terminal panel
// showing chain statistics next to an ascii plot of the posterior
// trace, updated as the sampler walks.
package viz
