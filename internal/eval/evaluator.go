package eval

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"snakeevo/internal/config"
	"snakeevo/internal/env"
)

// Evaluator runs snakes through games and scores them
type Evaluator struct {
	stepBudget int
	workers    int
}

// NewEvaluator creates a new evaluator. Zero workers means one per CPU.
func NewEvaluator(cfg *config.Config) *Evaluator {
	workers := cfg.GA.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Evaluator{
		stepBudget: cfg.GA.StepBudget,
		workers:    workers,
	}
}

// RunEpisode resets the snake, plays one game with an RNG seeded from seed
// until the snake dies or the step budget runs out, then scores it.
func (e *Evaluator) RunEpisode(snake *env.Snake, seed int64) env.EpisodeStats {
	rng := rand.New(rand.NewSource(seed))
	snake.Reset(rng)
	game := newGame(snake, rng)

	for !game.Done() && game.Ticks() < e.stepBudget {
		game.Update()
	}

	snake.CalculateFitness()
	stats := game.Stats(seed)
	stats.Budget = !game.Done()
	return stats
}

// EvaluateAll runs one episode per snake, seeds[i] driving snakes[i]. Results
// do not depend on the number of workers.
func (e *Evaluator) EvaluateAll(ctx context.Context, snakes []*env.Snake, seeds []int64) ([]env.EpisodeStats, error) {
	if len(seeds) != len(snakes) {
		panic(fmt.Sprintf("eval: %d seeds for %d snakes", len(seeds), len(snakes)))
	}
	results := make([]env.EpisodeStats, len(snakes))

	if e.workers == 1 {
		for i, s := range snakes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.RunEpisode(s, seeds[i])
		}
		return results, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, s := range snakes {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(i int, s *env.Snake) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.RunEpisode(s, seeds[i])
		}(i, s)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Play replays snake's policy on a fresh copy so the evaluated individual is
// left untouched, calling frame once before the first tick and after every
// tick. It stops early when ctx is done or frame returns an error; the stats
// then describe the game up to that point.
func (e *Evaluator) Play(ctx context.Context, snake *env.Snake, seed int64, frame func(env.Snapshot) error) (env.EpisodeStats, error) {
	rng := rand.New(rand.NewSource(seed))
	replica := snake.Replica(rng)
	game := newGame(replica, rng)

	stats := func() env.EpisodeStats {
		replica.CalculateFitness()
		return game.Stats(seed)
	}

	if err := frame(game.Snapshot()); err != nil {
		return stats(), err
	}
	for !game.Done() && game.Ticks() < e.stepBudget {
		if err := ctx.Err(); err != nil {
			return stats(), err
		}
		game.Update()
		if err := frame(game.Snapshot()); err != nil {
			return stats(), err
		}
	}

	out := stats()
	out.Budget = !game.Done()
	return out, nil
}

// Record plays snake like Play and keeps at most limit frames. Filling the
// recorder ends the playthrough without an error.
func (e *Evaluator) Record(ctx context.Context, snake *env.Snake, seed int64, limit int) (*env.Recorder, env.EpisodeStats, error) {
	rec := env.NewRecorder(seed, limit)
	stats, err := e.Play(ctx, snake, seed, rec.Record)
	if errors.Is(err, env.ErrRecordingFull) {
		err = nil
	}
	return rec, stats, err
}

func newGame(snake *env.Snake, rng *rand.Rand) *env.Game {
	game, err := env.NewGame(snake, rng)
	if err != nil {
		// A freshly reset snake is always alive.
		panic(err)
	}
	return game
}
