// Package ga evolves a population of snakes with elitism, tournament
// selection, uniform crossover and gaussian mutation.
package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"snakeevo/internal/config"
	"snakeevo/internal/env"
	"snakeevo/internal/eval"
	"snakeevo/internal/nn"
)

// GeneticAlgorithm owns the population and runs evaluate, select and
// reproduce once per generation, in that order.
type GeneticAlgorithm struct {
	cfg       *config.Config
	rng       *rand.Rand
	evaluator *eval.Evaluator

	population []*env.Snake
	episodes   []env.EpisodeStats // aligned with population after Evaluate
	evaluated  bool

	generation  int
	eliteSize   int
	bestFitness float64
	history     []float64
}

// New validates cfg and creates a random population. All randomness of the
// run derives from rng.
func New(cfg *config.Config, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.NN.Inputs != env.VisionSize {
		return nil, fmt.Errorf("%w: nn.inputs is %d but the vision vector has %d values",
			config.ErrInvalid, cfg.NN.Inputs, env.VisionSize)
	}
	if cfg.NN.Outputs != len(env.Directions) {
		return nil, fmt.Errorf("%w: nn.outputs is %d but a snake has %d headings",
			config.ErrInvalid, cfg.NN.Outputs, len(env.Directions))
	}

	g := &GeneticAlgorithm{
		cfg:        cfg,
		rng:        rng,
		evaluator:  eval.NewEvaluator(cfg),
		population: make([]*env.Snake, cfg.GA.Population),
		generation: 1,
		eliteSize:  cfg.EliteSize(),
	}
	for i := range g.population {
		s, err := env.NewSnake(cfg, nil, rng)
		if err != nil {
			return nil, err
		}
		g.population[i] = s
	}
	return g, nil
}

// Evaluate plays one game per snake, sorts the population by fitness
// (best first) and records the generation's best fitness.
func (g *GeneticAlgorithm) Evaluate(ctx context.Context) (Summary, error) {
	seeds := make([]int64, len(g.population))
	for i := range seeds {
		seeds[i] = g.rng.Int63()
	}

	episodes, err := g.evaluator.EvaluateAll(ctx, g.population, seeds)
	if err != nil {
		return Summary{}, fmt.Errorf("evaluating generation %d: %w", g.generation, err)
	}

	sort.Stable(byFitness{snakes: g.population, episodes: episodes})
	g.episodes = episodes
	g.evaluated = true

	current := g.population[0].Fitness()
	if current > g.bestFitness {
		g.bestFitness = current
	}
	g.history = append(g.history, current)

	return summarize(g.generation, g.bestFitness, episodes), nil
}

// Step runs one full generation and returns its summary.
func (g *GeneticAlgorithm) Step(ctx context.Context) (Summary, error) {
	summary, err := g.Evaluate(ctx)
	if err != nil {
		return summary, err
	}
	g.Reproduce(g.Select())
	return summary, nil
}

// Population returns the current snakes, best first after Evaluate
func (g *GeneticAlgorithm) Population() []*env.Snake {
	return g.population
}

// Best returns the fittest snake of the last evaluation
func (g *GeneticAlgorithm) Best() *env.Snake {
	g.mustBeEvaluated("Best")
	return g.population[0]
}

// BestEpisode returns the game statistics of the fittest snake
func (g *GeneticAlgorithm) BestEpisode() env.EpisodeStats {
	g.mustBeEvaluated("BestEpisode")
	return g.episodes[0]
}

// Generation returns the 1-based index of the current generation
func (g *GeneticAlgorithm) Generation() int {
	return g.generation
}

// BestFitness returns the best fitness seen in any generation
func (g *GeneticAlgorithm) BestFitness() float64 {
	return g.bestFitness
}

// History returns each evaluated generation's best fitness, oldest first
func (g *GeneticAlgorithm) History() []float64 {
	out := make([]float64, len(g.history))
	copy(out, g.history)
	return out
}

// EliteSize returns how many snakes survive unchanged each generation
func (g *GeneticAlgorithm) EliteSize() int {
	return g.eliteSize
}

func (g *GeneticAlgorithm) mustBeEvaluated(op string) {
	if !g.evaluated {
		panic(fmt.Sprintf("ga: %s called before Evaluate in generation %d", op, g.generation))
	}
}

func (g *GeneticAlgorithm) newSnake(network *nn.Network) *env.Snake {
	s, err := env.NewSnake(g.cfg, network, g.rng)
	if err != nil {
		// Topology was checked in New and children keep their parents' shape.
		panic(err)
	}
	return s
}

// byFitness sorts snakes and their episodes together, best first
type byFitness struct {
	snakes   []*env.Snake
	episodes []env.EpisodeStats
}

func (b byFitness) Len() int { return len(b.snakes) }

func (b byFitness) Less(i, j int) bool {
	return b.snakes[i].Fitness() > b.snakes[j].Fitness()
}

func (b byFitness) Swap(i, j int) {
	b.snakes[i], b.snakes[j] = b.snakes[j], b.snakes[i]
	b.episodes[i], b.episodes[j] = b.episodes[j], b.episodes[i]
}
