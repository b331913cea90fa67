package eval

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"snakeevo/internal/config"
	"snakeevo/internal/env"
)

func testConfig(workers int) *config.Config {
	cfg := config.Default()
	cfg.GA.Workers = workers
	cfg.GA.StepBudget = 300
	return cfg
}

func testSnakes(t *testing.T, cfg *config.Config, n int) []*env.Snake {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	snakes := make([]*env.Snake, n)
	for i := range snakes {
		s, err := env.NewSnake(cfg, nil, rng)
		if err != nil {
			t.Fatal(err)
		}
		snakes[i] = s
	}
	return snakes
}

func TestRunEpisodeRespectsBudget(t *testing.T) {
	cfg := testConfig(1)
	cfg.GA.StepBudget = 40
	e := NewEvaluator(cfg)

	for _, s := range testSnakes(t, cfg, 10) {
		stats := e.RunEpisode(s, 5)
		if stats.Ticks > 40 {
			t.Errorf("ran %d ticks, budget is 40", stats.Ticks)
		}
		if stats.Budget != s.Alive() {
			t.Errorf("budget flag %v but alive=%v", stats.Budget, s.Alive())
		}
		if stats.Fitness != s.Fitness() || stats.Fitness < 0 {
			t.Errorf("fitness %v not recorded on the snake (%v)", stats.Fitness, s.Fitness())
		}
	}
}

func TestRunEpisodeIsReproducible(t *testing.T) {
	cfg := testConfig(1)
	e := NewEvaluator(cfg)
	s := testSnakes(t, cfg, 1)[0]

	first := e.RunEpisode(s, 77)
	second := e.RunEpisode(s, 77)
	if first != second {
		t.Errorf("same seed gave %+v then %+v", first, second)
	}
}

func TestEvaluateAllIndependentOfWorkers(t *testing.T) {
	seeds := make([]int64, 24)
	for i := range seeds {
		seeds[i] = int64(i * 31)
	}

	var baseline []env.EpisodeStats
	for _, workers := range []int{1, 4, 0} {
		cfg := testConfig(workers)
		got, err := NewEvaluator(cfg).EvaluateAll(context.Background(), testSnakes(t, cfg, len(seeds)), seeds)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if baseline == nil {
			baseline = got
			continue
		}
		for i := range got {
			if got[i] != baseline[i] {
				t.Fatalf("workers=%d snake %d: %+v, want %+v", workers, i, got[i], baseline[i])
			}
		}
	}
}

func TestEvaluateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		cfg := testConfig(workers)
		_, err := NewEvaluator(cfg).EvaluateAll(ctx, testSnakes(t, cfg, 5), make([]int64, 5))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}

func TestPlayLeavesSnakeUntouched(t *testing.T) {
	cfg := testConfig(1)
	e := NewEvaluator(cfg)
	s := testSnakes(t, cfg, 1)[0]
	evaluated := e.RunEpisode(s, 3)

	rec := env.NewRecorder(3, 0)
	stats, err := e.Play(context.Background(), s, 3, rec.Record)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Len() != stats.Ticks+1 {
		t.Errorf("%d frames for %d ticks", rec.Len(), stats.Ticks)
	}
	if last, _ := rec.Final(); last.Score != stats.Score || last.Tick != stats.Ticks {
		t.Errorf("final frame %+v does not match %+v", last, stats)
	}
	if stats != evaluated {
		t.Errorf("replay %+v differs from evaluation %+v", stats, evaluated)
	}
	if s.Fitness() != evaluated.Fitness || s.Score() != evaluated.Score {
		t.Error("Play modified the evaluated snake")
	}
}

func TestRecordStopsAtLimit(t *testing.T) {
	cfg := testConfig(1)
	e := NewEvaluator(cfg)
	s := testSnakes(t, cfg, 1)[0]

	rec, stats, err := e.Record(context.Background(), s, 5, 4)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Len() > 4 {
		t.Errorf("recorded %d frames past the limit", rec.Len())
	}
	last, ok := rec.Final()
	if !ok || last.Tick != rec.Len()-1 {
		t.Errorf("final frame %+v after %d frames", last, rec.Len())
	}
	if rec.Seed != 5 || stats.Seed != 5 {
		t.Errorf("seed not kept: recorder %d, stats %d", rec.Seed, stats.Seed)
	}
}

func TestInterruptedPlayIsScored(t *testing.T) {
	cfg := testConfig(1)
	e := NewEvaluator(cfg)
	s := testSnakes(t, cfg, 1)[0]

	// The tick whose frame no longer fits is still played.
	rec, stats, err := e.Record(context.Background(), s, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 2 || stats.Ticks != 2 {
		t.Fatalf("frames=%d ticks=%d, want 2 and 2", rec.Len(), stats.Ticks)
	}
	if stats.Fitness <= 0 {
		t.Errorf("interrupted playthrough has fitness %v", stats.Fitness)
	}
	if stats.Budget {
		t.Error("interrupted playthrough reported as over budget")
	}
}

func TestPlayStopsOnFrameError(t *testing.T) {
	cfg := testConfig(1)
	e := NewEvaluator(cfg)
	s := testSnakes(t, cfg, 1)[0]
	quit := errors.New("quit")

	calls := 0
	_, err := e.Play(context.Background(), s, 1, func(env.Snapshot) error {
		calls++
		if calls == 3 {
			return quit
		}
		return nil
	})
	if !errors.Is(err, quit) || calls != 3 {
		t.Errorf("err=%v calls=%d", err, calls)
	}
}
