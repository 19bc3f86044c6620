// Package noise draws the Dirichlet exploration noise mixed into the
// priors of every freshly evaluated node. It samples the distribution
// directly instead of indexing a precomputed gamma table; the draw is
// not on the search hot path, so the convenience wins.
package noise

import (
	rng "github.com/leesper/go_rng"
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// Alpha is the Dirichlet concentration parameter of the noise mixed into
// every evaluated node's priors.
const Alpha = 0.3

// Source draws Dirichlet(Alpha) noise vectors. Not safe for concurrent
// use; a Searcher owns one.
type Source struct {
	src   distrand.Source
	gamma *rng.GammaGenerator
}

// New builds a Source seeded from seed.
func New(seed uint64) *Source {
	return &Source{
		src:   distrand.NewSource(seed),
		gamma: rng.NewGammaGenerator(int64(seed)),
	}
}

// Sample draws n noise weights summing to 1: a Dirichlet(Alpha) draw
// for n >= 2, via gonum's distmv.Dirichlet. gonum's Dirichlet panics below 2
// dimensions, so the single-legal-move case (too rare to warrant
// pulling in the multivariate machinery) draws its own Gamma(Alpha, 1)
// sample and normalizes it, which is trivially always 1.
func (s *Source) Sample(n int) []float64 {
	if n <= 1 {
		s.gamma.Gamma(Alpha, 1.0)
		return []float64{1}
	}
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = Alpha
	}
	d := distmv.NewDirichlet(alpha, s.src)
	return d.Rand(nil)
}
