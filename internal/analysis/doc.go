// Package analysis provides chain diagnostics for posterior samples.
//
// The package characterizes sampler output per estimated parameter:
//
//   - [Autocorrelation]: normalized autocorrelation of a trace
//   - [IntegratedTime]: integrated autocorrelation time
//   - [EffectiveSampleSize]: independent-sample equivalent of a trace
//   - [Summarize]: mean, median, spread and 95% credible bounds
package analysis
