package fit

// Normalize rescales each column of m to [0,1]. The input is not
// modified; a new matrix is returned. A constant column maps to all
// zeros.
func Normalize(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	cols := len(m[0])
	out := make([][]float64, len(m))
	for i := range out {
		out[i] = make([]float64, cols)
	}
	for j := 0; j < cols; j++ {
		lo, hi := m[0][j], m[0][j]
		for i := 1; i < len(m); i++ {
			v := m[i][j]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		span := hi - lo
		if span == 0 {
			continue
		}
		for i := range m {
			out[i][j] = (m[i][j] - lo) / span
		}
	}
	return out
}
