package ga

import (
	"snakeevo/internal/nn"
)

// mutate applies the primary mutation with probability MutationRate.
// Otherwise a lighter mutation fires with probability SecondaryMutationRate
// to keep some variation in children that would be exact copies.
func (g *GeneticAlgorithm) mutate(child *nn.Network) {
	primary := g.cfg.GA.MutationRate
	secondary := g.cfg.GA.SecondaryMutationRate
	sigma := g.cfg.NN.MutationSigma

	p := g.rng.Float64()
	switch {
	case p < primary:
		child.Mutate(primary, sigma, g.rng)
	case p < primary+secondary:
		child.Mutate(secondary, sigma, g.rng)
	}
}
