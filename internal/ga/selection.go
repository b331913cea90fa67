package ga

import (
	"snakeevo/internal/env"
)

// Select returns a mating pool the size of the population: the elites in
// rank order followed by tournament winners.
func (g *GeneticAlgorithm) Select() []*env.Snake {
	g.mustBeEvaluated("Select")

	n := len(g.population)
	selected := make([]*env.Snake, 0, n)
	selected = append(selected, g.population[:g.eliteSize]...)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for len(selected) < n {
		selected = append(selected, g.tournament(idx))
	}
	return selected
}

// tournament draws TournamentSize distinct snakes and returns the fittest.
// idx is a permutation of population indices reused between tournaments;
// a partial shuffle of any permutation yields a uniform sample.
func (g *GeneticAlgorithm) tournament(idx []int) *env.Snake {
	n := len(idx)
	k := g.cfg.GA.TournamentSize

	var best *env.Snake
	for i := 0; i < k; i++ {
		j := i + g.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]

		candidate := g.population[idx[i]]
		if best == nil || candidate.Fitness() > best.Fitness() {
			best = candidate
		}
	}
	return best
}
