package ga

import (
	"fmt"

	"snakeevo/internal/env"
	"snakeevo/internal/nn"
)

// Reproduce builds the next generation from a mating pool returned by
// Select. Elites are carried over as the same snakes with the same networks;
// every other slot gets a child of two random parents.
func (g *GeneticAlgorithm) Reproduce(selected []*env.Snake) []*env.Snake {
	g.mustBeEvaluated("Reproduce")
	if len(selected) < g.eliteSize || len(selected) == 0 {
		panic(fmt.Sprintf("ga: mating pool of %d cannot hold %d elites", len(selected), g.eliteSize))
	}

	n := len(g.population)
	next := make([]*env.Snake, 0, n)
	next = append(next, selected[:g.eliteSize]...)

	for len(next) < n {
		p1 := selected[g.rng.Intn(len(selected))]
		p2 := selected[g.rng.Intn(len(selected))]

		child := g.createChild(p1, p2)
		g.mutate(child)
		next = append(next, g.newSnake(child))
	}

	g.population = next
	g.episodes = nil
	g.evaluated = false
	g.generation++
	return next
}

// createChild crosses the parents' networks, or clones the first parent's
// when no crossover happens
func (g *GeneticAlgorithm) createChild(p1, p2 *env.Snake) *nn.Network {
	if g.rng.Float64() < g.cfg.GA.CrossoverRate {
		return nn.Crossover(p1.Network(), p2.Network(), g.rng)
	}
	return p1.Network().Clone()
}
