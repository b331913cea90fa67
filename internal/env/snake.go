package env

import (
	"fmt"
	"math/rand"

	"snakeevo/internal/config"
	"snakeevo/internal/nn"
)

// Snake is an agent on the grid driven by its own network.
type Snake struct {
	grid            Grid
	startLength     int
	starvationLimit int
	randomStart     bool
	weights         config.FitnessConfig

	network *nn.Network

	body             *body
	length           int
	direction        Direction
	alive            bool
	death            DeathReason
	score            int
	steps            int
	stepsWithoutFood int
	fitness          float64
}

// NewSnake creates a snake around network, or around a fresh random network
// when network is nil. rng positions the snake and seeds a fresh network.
func NewSnake(cfg *config.Config, network *nn.Network, rng *rand.Rand) (*Snake, error) {
	if network == nil {
		network = nn.New(cfg.NN.Inputs, cfg.NN.Hidden, cfg.NN.Outputs, rng)
	}
	if in, _, out := network.Shape(); in != VisionSize || out != len(Directions) {
		return nil, fmt.Errorf("%w: network is %d->%d, snake needs %d inputs and %d outputs",
			config.ErrInvalid, in, out, VisionSize, len(Directions))
	}

	s := &Snake{
		grid:            Grid{Width: cfg.Env.Width, Height: cfg.Env.Height},
		startLength:     cfg.Env.StartLength,
		starvationLimit: cfg.Env.StarvationLimit,
		randomStart:     cfg.Env.RandomStart,
		weights:         cfg.Fitness,
		network:         network,
	}
	s.Reset(rng)
	return s, nil
}

// Reset puts the snake back at the centre of the grid with all counters
// cleared. The network is kept. rng is only used for a random heading.
func (s *Snake) Reset(rng *rand.Rand) {
	s.direction = DirRight
	if s.randomStart {
		s.direction = Directions[rng.Intn(len(Directions))]
	}

	s.length = s.startLength
	s.body = newBody(s.length + 1)
	center := Point{X: s.grid.Width / 2, Y: s.grid.Height / 2}
	// Lay the body out behind the head, tail pushed first.
	for i := s.length - 1; i >= 0; i-- {
		s.body.pushHead(s.grid.Step(center, s.direction.Opposite(), i))
	}

	s.alive = true
	s.death = DeathNone
	s.score = 0
	s.steps = 0
	s.stepsWithoutFood = 0
	s.fitness = 0
}

// Replica returns a fresh snake with a copy of this snake's network, used
// to replay a policy without touching the evaluated individual.
func (s *Snake) Replica(rng *rand.Rand) *Snake {
	r := *s
	r.network = s.network.Clone()
	r.Reset(rng)
	return &r
}

// Turn changes heading unless d reverses the current one.
func (s *Snake) Turn(d Direction) {
	if d == s.direction.Opposite() {
		return
	}
	s.direction = d
}

// Move advances the snake one cell and reports whether it ate the food.
func (s *Snake) Move(food Point) bool {
	if !s.alive {
		return false
	}

	next := s.grid.Step(s.body.head(), s.direction, 1)
	if s.blocked(next) {
		s.kill(DeathSelf)
		return false
	}

	s.body.pushHead(next)

	if next == food {
		s.score++
		s.length++
		s.stepsWithoutFood = 0
		return true
	}

	for s.body.len() > s.length {
		s.body.popTail()
	}

	s.steps++
	s.stepsWithoutFood++
	if s.stepsWithoutFood > s.starvationLimit {
		s.kill(DeathStarved)
	}
	return false
}

// blocked reports whether entering p is a self collision. At full length
// the tail leaves its cell this tick, so it is not an obstacle.
func (s *Snake) blocked(p Point) bool {
	if !s.body.contains(p) {
		return false
	}
	if s.body.len() >= s.length && p == s.body.tail() && s.body.count(p) == 1 {
		return false
	}
	return true
}

func (s *Snake) kill(reason DeathReason) {
	if !s.alive {
		panic(fmt.Sprintf("env: snake killed twice (%s after %s)", reason, s.death))
	}
	s.alive = false
	s.death = reason
}

// Think feeds the vision vector through the network and turns towards the
// strongest output.
func (s *Snake) Think(food Point) {
	out := s.network.Forward(s.Vision(food))
	s.Turn(Directions[nn.Argmax(out)])
}

// Head returns the snake's head position
func (s *Snake) Head() Point {
	return s.body.head()
}

// Positions returns the occupied cells, head first
func (s *Snake) Positions() []Point {
	return s.body.positions()
}

// Snapshot returns the snake's part of a renderer frame. Food and Tick are
// left for the game to fill in.
func (s *Snake) Snapshot() Snapshot {
	return Snapshot{
		Positions: s.body.positions(),
		Score:     s.score,
		Length:    s.length,
		Direction: s.direction,
		Alive:     s.alive,
	}
}

// Occupies reports whether p is covered by the body
func (s *Snake) Occupies(p Point) bool {
	return s.body.contains(p)
}

func (s *Snake) Grid() Grid            { return s.grid }
func (s *Snake) Network() *nn.Network  { return s.network }
func (s *Snake) Direction() Direction  { return s.direction }
func (s *Snake) Alive() bool           { return s.alive }
func (s *Snake) Death() DeathReason    { return s.death }
func (s *Snake) Length() int           { return s.length }
func (s *Snake) Score() int            { return s.score }
func (s *Snake) Steps() int            { return s.steps }
func (s *Snake) StepsWithoutFood() int { return s.stepsWithoutFood }
func (s *Snake) Fitness() float64      { return s.fitness }
