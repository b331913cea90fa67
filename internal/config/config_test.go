package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded defaults invalid: %v", err)
	}
	if cfg.NN.Inputs != 19 || cfg.NN.Hidden != 24 || cfg.NN.Outputs != 4 {
		t.Errorf("topology = %d/%d/%d, want 19/24/4", cfg.NN.Inputs, cfg.NN.Hidden, cfg.NN.Outputs)
	}
	if got := cfg.EliteSize(); got != 15 {
		t.Errorf("EliteSize() = %d, want 15", got)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("env:\n  width: 12\nga:\n  population: 10\n  elite_fraction: 0.1\n  tournament_size: 3\n  secondary_mutation_rate: 0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env.Width != 12 {
		t.Errorf("width = %d, want 12", cfg.Env.Width)
	}
	if cfg.Env.Height != 20 {
		t.Errorf("height = %d, want default 20", cfg.Env.Height)
	}
	if cfg.GA.SecondaryMutationRate != 0 {
		t.Errorf("explicit zero not honoured: %v", cfg.GA.SecondaryMutationRate)
	}
	if cfg.EliteSize() != 1 {
		t.Errorf("EliteSize() = %d, want 1", cfg.EliteSize())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Env.Width = 0 }},
		{"negative height", func(c *Config) { c.Env.Height = -3 }},
		{"start length too long", func(c *Config) { c.Env.StartLength = 21 }},
		{"no starvation limit", func(c *Config) { c.Env.StarvationLimit = 0 }},
		{"no hidden units", func(c *Config) { c.NN.Hidden = 0 }},
		{"population below elites", func(c *Config) { c.GA.EliteFraction = 1 }},
		{"tournament larger than population", func(c *Config) { c.GA.TournamentSize = 101 }},
		{"crossover rate above one", func(c *Config) { c.GA.CrossoverRate = 1.5 }},
		{"negative mutation rate", func(c *Config) { c.GA.MutationRate = -0.1 }},
		{"no step budget", func(c *Config) { c.GA.StepBudget = 0 }},
		{"survival outweighs food", func(c *Config) { c.Fitness.Survival = 500 }},
		{"negative weight", func(c *Config) { c.Fitness.LengthReward = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Seed = 42
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("seed = %d, want 42", loaded.Seed)
	}
}

func TestReadSkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("ga:\n  generations: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.GA.Generations != 0 || cfg.Env.Width != 20 {
		t.Errorf("generations=%d width=%d", cfg.GA.Generations, cfg.Env.Width)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load err = %v, want ErrInvalid", err)
	}
}
