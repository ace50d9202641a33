package analysis

// Autocorrelation returns the normalized autocorrelation of x at lags
// 0..maxLag. Lag 0 is always 1. Traces shorter than 2 points or with
// zero variance return nil.
func Autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	if n < 2 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	c0 := 0.0
	for _, v := range x {
		d := v - mean
		c0 += d * d
	}
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		c := 0.0
		for i := 0; i < n-lag; i++ {
			c += (x[i] - mean) * (x[i+lag] - mean)
		}
		acf[lag] = c / c0
	}
	return acf
}

// IntegratedTime estimates the integrated autocorrelation time
// tau = 1 + 2*sum(acf), summing until the autocorrelation first drops
// below zero. A flat or tiny trace yields 1.
func IntegratedTime(x []float64) float64 {
	acf := Autocorrelation(x, len(x)/2)
	if acf == nil {
		return 1
	}
	tau := 1.0
	for _, rho := range acf[1:] {
		if rho < 0 {
			break
		}
		tau += 2 * rho
	}
	return tau
}

// EffectiveSampleSize is the trace length divided by its integrated
// autocorrelation time.
func EffectiveSampleSize(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return float64(len(x)) / IntegratedTime(x)
}
