package analysis

import "github.com/montanaflynn/stats"

// Summary describes one posterior marginal.
type Summary struct {
	Mean   float64
	Median float64
	StdDev float64
	Lo     float64 // 2.5 percentile
	Hi     float64 // 97.5 percentile
}

// Summarize computes the posterior summary of a trace.
func Summarize(x []float64) (Summary, error) {
	var s Summary
	var err error
	if s.Mean, err = stats.Mean(x); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(x); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = stats.StdDevS(x); err != nil {
		// a single sample has no spread
		s.StdDev = 0
	}
	if s.Lo, err = stats.Percentile(x, 2.5); err != nil {
		s.Lo = s.Median
	}
	if s.Hi, err = stats.Percentile(x, 97.5); err != nil {
		s.Hi = s.Median
	}
	return s, nil
}
