package mcmc

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// guidance holds the eigendecomposition of a finite-difference Hessian
// of the posterior, used to shape proposal steps along the local
// curvature directions.
type guidance struct {
	dim     int
	values  []float64
	vectors *mat.Dense
}

const (
	hessianH      = 1e-2 // relative finite-difference step
	eigenvalueMin = 1e-6 // flat directions get a bounded step scale
)

// newGuidance computes the central-difference Hessian of f at p and
// factorizes it. Returns nil when the decomposition fails or produces
// non-finite entries, in which case the chain falls back to isotropic
// proposals.
func newGuidance(f func(Position) float64, p Position) *guidance {
	n := len(p)
	h := make([]float64, n)
	for i := range h {
		h[i] = hessianH * math.Max(1, math.Abs(p[i]))
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			pp := p.Clone()
			pp[i] += h[i]
			pp[j] += h[j]
			fpp := f(pp)

			pm := p.Clone()
			pm[i] += h[i]
			pm[j] -= h[j]
			fpm := f(pm)

			mp := p.Clone()
			mp[i] -= h[i]
			mp[j] += h[j]
			fmp := f(mp)

			mm := p.Clone()
			mm[i] -= h[i]
			mm[j] -= h[j]
			fmm := f(mm)

			v := (fpp - fpm - fmp + fmm) / (4 * h[i] * h[j])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil
			}
			sym.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil
	}
	g := &guidance{dim: n, values: eig.Values(nil)}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	g.vectors = &vecs
	return g
}

// step draws an unscaled proposal direction: independent normal
// coefficients along each eigenvector, damped by 1/sqrt(|eigenvalue|)
// so steep directions get short steps.
func (g *guidance) step(rng *rand.Rand) []float64 {
	delta := make([]float64, g.dim)
	for k := 0; k < g.dim; k++ {
		lam := math.Abs(g.values[k])
		if lam < eigenvalueMin {
			lam = eigenvalueMin
		}
		coef := rng.NormFloat64() / math.Sqrt(lam)
		for i := 0; i < g.dim; i++ {
			delta[i] += coef * g.vectors.At(i, k)
		}
	}
	return delta
}
