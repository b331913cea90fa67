package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"snakeevo/internal/config"
	"snakeevo/internal/env"
	"snakeevo/internal/eval"
	"snakeevo/internal/ga"
	"snakeevo/internal/logging"
	"snakeevo/internal/render"
)

// recordFrames bounds the debug recording of each generation's best snake.
const recordFrames = 2000

type options struct {
	configPath  string
	generations int
	seed        int64
	workers     int
	render      bool
	outputDir   string

	set map[string]bool // flags given on the command line
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (empty = use defaults)")
	fs.IntVar(&opts.generations, "generations", 0, "number of generations to run (overrides config)")
	fs.Int64Var(&opts.seed, "seed", 0, "RNG seed (overrides config)")
	fs.IntVar(&opts.workers, "workers", 0, "parallel evaluations, 0 = one per CPU (overrides config)")
	fs.BoolVar(&opts.render, "render", false, "show the best snake of every generation in the terminal")
	fs.StringVar(&opts.outputDir, "output-dir", "", "directory for run artifacts (overrides config)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("training failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig applies command line overrides to the config file and then
// validates the result.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.set["generations"] {
		cfg.GA.Generations = opts.generations
	}
	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}
	if opts.set["workers"] {
		cfg.GA.Workers = opts.workers
	}
	if opts.set["render"] {
		cfg.Logging.Render = opts.render
	}
	if opts.set["output-dir"] {
		cfg.Logging.Dir = opts.outputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, opts options) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID)
	slog.SetDefault(logger)

	runDir := filepath.Join(cfg.Logging.Dir, runID)
	metrics, err := logging.NewMetrics(runDir, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, metrics.Close())
	}()

	if err := cfg.WriteYAML(filepath.Join(runDir, "config.yaml")); err != nil {
		return err
	}

	algo, err := ga.New(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	// Playthroughs for display draw from their own RNG so they never change
	// the course of training.
	playRNG := rand.New(rand.NewSource(cfg.Seed + 1))
	evaluator := eval.NewEvaluator(cfg)
	viewer := newViewer(cfg, evaluator)

	logger.Info("starting training",
		"seed", cfg.Seed,
		"grid", fmt.Sprintf("%dx%d", cfg.Env.Width, cfg.Env.Height),
		"population", cfg.GA.Population,
		"elites", algo.EliteSize(),
		"generations", cfg.GA.Generations,
		"dir", runDir,
	)
	start := time.Now()

	var loopErr error
	for algo.Generation() <= cfg.GA.Generations {
		summary, err := algo.Evaluate(ctx)
		if err != nil {
			loopErr = err
			break
		}
		if err := metrics.Record(summary, cfg.Logging.EveryGenSummary); err != nil {
			return err
		}

		switch {
		case viewer != nil:
			if err := viewer.show(ctx, algo, playRNG.Int63()); err != nil {
				loopErr = err
			}
		case logger.Enabled(ctx, slog.LevelDebug):
			if err := recordBest(ctx, logger, evaluator, algo, playRNG.Int63()); err != nil {
				loopErr = err
			}
		}
		if loopErr != nil {
			break
		}

		algo.Reproduce(algo.Select())
	}

	history := algo.History()
	logger.Info("training finished",
		"generations", len(history),
		"best_fitness", algo.BestFitness(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if len(history) > 0 {
		if err := logging.WriteHistory(filepath.Join(runDir, "history.csv"), history); err != nil {
			return err
		}
		if err := logging.PlotHistory(filepath.Join(runDir, "history.png"), history); err != nil {
			return err
		}
	}
	return loopErr
}

// recordBest replays the fittest snake off screen and logs how the game went.
func recordBest(ctx context.Context, logger *slog.Logger, evaluator *eval.Evaluator, algo *ga.GeneticAlgorithm, seed int64) error {
	rec, stats, err := evaluator.Record(ctx, algo.Best(), seed, recordFrames)
	if err != nil {
		return err
	}
	last, _ := rec.Final()
	logger.Debug("fittest snake",
		"generation", algo.Generation(),
		"episode", algo.BestEpisode(),
		"replay_seed", rec.Seed,
		"frames", rec.Len(),
		"turns", rec.Turns(),
		"final_tick", last.Tick,
		"final_score", last.Score,
		"final_length", last.Length,
		"death", stats.Death,
	)
	return nil
}

// viewer plays the fittest snake of a generation on screen.
type viewer struct {
	evaluator *eval.Evaluator
	term      *render.Terminal
	frame     time.Duration
}

func newViewer(cfg *config.Config, evaluator *eval.Evaluator) *viewer {
	if !cfg.Logging.Render {
		return nil
	}
	v := &viewer{
		evaluator: evaluator,
		term:      render.NewTerminal(os.Stdout, env.Grid{Width: cfg.Env.Width, Height: cfg.Env.Height}, true),
	}
	if cfg.Logging.FPS > 0 {
		v.frame = time.Second / time.Duration(cfg.Logging.FPS)
	}
	return v
}

func (v *viewer) show(ctx context.Context, algo *ga.GeneticAlgorithm, seed int64) error {
	v.term.Caption = fmt.Sprintf("Generation %d | best fitness %.1f", algo.Generation(), algo.Best().Fitness())

	var tick <-chan time.Time
	if v.frame > 0 {
		ticker := time.NewTicker(v.frame)
		defer ticker.Stop()
		tick = ticker.C
	}

	_, err := v.evaluator.Play(ctx, algo.Best(), seed, func(s env.Snapshot) error {
		if err := v.term.Render(s); err != nil {
			return err
		}
		if tick == nil {
			return nil
		}
		select {
		case <-tick:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	return err
}
