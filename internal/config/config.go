// Package config loads and validates the training configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration structure
type Config struct {
	Seed    int64         `yaml:"seed"`
	Env     EnvConfig     `yaml:"env"`
	NN      NNConfig      `yaml:"nn"`
	GA      GAConfig      `yaml:"ga"`
	Fitness FitnessConfig `yaml:"fitness"`
	Logging LogConfig     `yaml:"logging"`
}

// EnvConfig defines the grid and the snake's life rules
type EnvConfig struct {
	Width           int  `yaml:"width"`
	Height          int  `yaml:"height"`
	StartLength     int  `yaml:"start_length"`
	StarvationLimit int  `yaml:"starvation_limit"` // moves without food before dying
	RandomStart     bool `yaml:"random_start"`     // random initial heading instead of right
}

// NNConfig defines the network topology
type NNConfig struct {
	Inputs        int     `yaml:"inputs"`
	Hidden        int     `yaml:"hidden"`
	Outputs       int     `yaml:"outputs"`
	MutationSigma float64 `yaml:"mutation_sigma"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population            int     `yaml:"population"`
	EliteFraction         float64 `yaml:"elite_fraction"`
	TournamentSize        int     `yaml:"tournament_size"`
	CrossoverRate         float64 `yaml:"crossover_rate"`
	MutationRate          float64 `yaml:"mutation_rate"`
	SecondaryMutationRate float64 `yaml:"secondary_mutation_rate"`
	StepBudget            int     `yaml:"step_budget"` // safety cap on ticks per evaluation
	Generations           int     `yaml:"generations"`
	Workers               int     `yaml:"workers"`
}

// FitnessConfig defines fitness function weights
type FitnessConfig struct {
	FoodReward        float64 `yaml:"food_reward"`
	ScoreSquared      float64 `yaml:"score_squared"`
	LengthReward      float64 `yaml:"length_reward"`
	Survival          float64 `yaml:"survival"`
	StarvationPenalty float64 `yaml:"starvation_penalty"`
}

// LogConfig defines logging and output parameters
type LogConfig struct {
	Level           string `yaml:"level"`  // debug|info|warn|error
	Format          string `yaml:"format"` // text|json
	Dir             string `yaml:"dir"`
	EveryGenSummary bool   `yaml:"every_gen_summary"`
	Render          bool   `yaml:"render"`
	FPS             int    `yaml:"fps"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load reads a YAML config file over the embedded defaults and validates it.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that adjust the result
// before checking it.
func Read(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteYAML saves the configuration, used to snapshot a run's settings.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// EliteSize returns the number of individuals carried unchanged into the
// next generation.
func (c *Config) EliteSize() int {
	return int(math.Floor(float64(c.GA.Population)*c.GA.EliteFraction + 1e-9))
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch {
	case c.Env.Width <= 0 || c.Env.Height <= 0:
		return invalid("grid must be positive, got %dx%d", c.Env.Width, c.Env.Height)
	case c.Env.StartLength < 1:
		return invalid("env.start_length must be at least 1, got %d", c.Env.StartLength)
	case c.Env.StartLength > c.Env.Width || c.Env.StartLength > c.Env.Height:
		return invalid("env.start_length %d does not fit a %dx%d grid", c.Env.StartLength, c.Env.Width, c.Env.Height)
	case c.Env.StarvationLimit <= 0:
		return invalid("env.starvation_limit must be positive, got %d", c.Env.StarvationLimit)

	case c.NN.Inputs <= 0 || c.NN.Hidden <= 0 || c.NN.Outputs <= 0:
		return invalid("nn topology must be positive, got %d/%d/%d", c.NN.Inputs, c.NN.Hidden, c.NN.Outputs)
	case c.NN.MutationSigma < 0:
		return invalid("nn.mutation_sigma cannot be negative")

	case c.GA.Population < 2:
		return invalid("ga.population must be at least 2, got %d", c.GA.Population)
	case c.GA.EliteFraction < 0 || c.GA.EliteFraction > 1:
		return invalid("ga.elite_fraction must be in [0,1], got %v", c.GA.EliteFraction)
	case c.GA.Population < c.EliteSize()+1:
		return invalid("ga.population %d leaves no room beside %d elites", c.GA.Population, c.EliteSize())
	case c.GA.TournamentSize < 1 || c.GA.TournamentSize > c.GA.Population:
		return invalid("ga.tournament_size must be in [1,%d], got %d", c.GA.Population, c.GA.TournamentSize)
	case !isProbability(c.GA.CrossoverRate):
		return invalid("ga.crossover_rate must be between 0 and 1")
	case !isProbability(c.GA.MutationRate):
		return invalid("ga.mutation_rate must be between 0 and 1")
	case !isProbability(c.GA.SecondaryMutationRate):
		return invalid("ga.secondary_mutation_rate must be between 0 and 1")
	case c.GA.StepBudget <= 0:
		return invalid("ga.step_budget must be positive, got %d", c.GA.StepBudget)
	case c.GA.Generations <= 0:
		return invalid("ga.generations must be positive, got %d", c.GA.Generations)
	case c.GA.Workers < 0:
		return invalid("ga.workers cannot be negative")

	case c.Fitness.FoodReward <= 0:
		return invalid("fitness.food_reward must be positive")
	case c.Fitness.ScoreSquared < 0 || c.Fitness.LengthReward < 0 || c.Fitness.Survival < 0 || c.Fitness.StarvationPenalty < 0:
		return invalid("fitness weights cannot be negative")
	case c.Fitness.Survival >= c.Fitness.FoodReward:
		return invalid("fitness.survival (%v) must be smaller than fitness.food_reward (%v)", c.Fitness.Survival, c.Fitness.FoodReward)

	case c.Logging.FPS < 0:
		return invalid("logging.fps cannot be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}
