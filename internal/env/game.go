package env

import (
	"errors"
	"fmt"
	"math/rand"
)

// maxSpawnTries bounds rejection sampling before falling back to a scan of
// the free cells.
const maxSpawnTries = 64

// Game couples one snake to the food it is chasing.
type Game struct {
	snake   *Snake
	food    Point
	ticks   int
	cleared bool

	rng *rand.Rand
}

// Snapshot is the read-only view handed to renderers once per tick
type Snapshot struct {
	Positions []Point
	Food      Point
	Score     int
	Length    int
	Direction Direction
	Alive     bool
	Tick      int
}

// NewGame starts a game around a live snake and places the first food.
func NewGame(snake *Snake, rng *rand.Rand) (*Game, error) {
	if snake == nil {
		return nil, errors.New("env: game needs a snake")
	}
	if !snake.Alive() {
		return nil, errors.New("env: game needs a live snake, reset it first")
	}

	g := &Game{snake: snake, rng: rng}
	g.spawnFood()
	return g, nil
}

// Update runs one tick: the snake thinks, moves, and food respawns if eaten.
func (g *Game) Update() {
	if g.Done() {
		return
	}

	g.ticks++
	g.snake.Think(g.food)
	if g.snake.Move(g.food) {
		g.spawnFood()
	}
}

// Done reports whether the game can make no further progress
func (g *Game) Done() bool {
	return !g.snake.Alive() || g.cleared
}

// spawnFood places food uniformly on a free cell. When the snake covers the
// whole board the game is marked cleared instead.
func (g *Game) spawnFood() {
	grid := g.snake.Grid()
	free := grid.Cells() - g.snake.body.distinct()
	if free <= 0 {
		g.cleared = true
		return
	}

	for i := 0; i < maxSpawnTries; i++ {
		p := Point{X: g.rng.Intn(grid.Width), Y: g.rng.Intn(grid.Height)}
		if !g.snake.Occupies(p) {
			g.food = p
			return
		}
	}

	empty := make([]Point, 0, free)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := Point{X: x, Y: y}
			if !g.snake.Occupies(p) {
				empty = append(empty, p)
			}
		}
	}
	g.food = empty[g.rng.Intn(len(empty))]

	if g.snake.Occupies(g.food) {
		panic(fmt.Sprintf("env: food spawned on snake at %v", g.food))
	}
}

// Snapshot returns the state a renderer needs for this tick
func (g *Game) Snapshot() Snapshot {
	snap := g.snake.Snapshot()
	snap.Food = g.food
	snap.Tick = g.ticks
	return snap
}

func (g *Game) Snake() *Snake { return g.snake }
func (g *Game) Food() Point   { return g.food }
func (g *Game) Ticks() int    { return g.ticks }
func (g *Game) Cleared() bool { return g.cleared }
