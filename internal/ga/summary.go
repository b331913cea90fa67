package ga

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"snakeevo/internal/env"
)

// Summary holds per-generation statistics
type Summary struct {
	Generation   int     `csv:"generation" json:"generation"`
	BestFitness  float64 `csv:"best_fitness" json:"best_fitness"`
	MeanFitness  float64 `csv:"mean_fitness" json:"mean_fitness"`
	StdFitness   float64 `csv:"std_fitness" json:"std_fitness"`
	BestEver     float64 `csv:"best_ever" json:"best_ever"`
	BestScore    int     `csv:"best_score" json:"best_score"` // score of the fittest snake
	MaxScore     int     `csv:"max_score" json:"max_score"`
	MeanScore    float64 `csv:"mean_score" json:"mean_score"`
	MeanSteps    float64 `csv:"mean_steps" json:"mean_steps"`
	DeathsSelf   int     `csv:"deaths_self" json:"deaths_self"`
	DeathsStarve int     `csv:"deaths_starved" json:"deaths_starved"`
	OverBudget   int     `csv:"over_budget" json:"over_budget"`
	Cleared      int     `csv:"cleared" json:"cleared"`
}

// summarize expects episodes sorted best first
func summarize(generation int, bestEver float64, episodes []env.EpisodeStats) Summary {
	fitness := make([]float64, len(episodes))
	scores := make([]float64, len(episodes))
	steps := make([]float64, len(episodes))

	s := Summary{
		Generation:  generation,
		BestFitness: episodes[0].Fitness,
		BestEver:    bestEver,
		BestScore:   episodes[0].Score,
	}

	for i, ep := range episodes {
		fitness[i] = ep.Fitness
		scores[i] = float64(ep.Score)
		steps[i] = float64(ep.Steps)
		if ep.Score > s.MaxScore {
			s.MaxScore = ep.Score
		}

		switch {
		case ep.Cleared:
			s.Cleared++
		case ep.Budget:
			s.OverBudget++
		case ep.Death == env.DeathSelf:
			s.DeathsSelf++
		case ep.Death == env.DeathStarved:
			s.DeathsStarve++
		}
	}

	s.MeanFitness, s.StdFitness = stat.MeanStdDev(fitness, nil)
	s.MeanScore = stat.Mean(scores, nil)
	s.MeanSteps = stat.Mean(steps, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Float64("best", s.BestFitness),
		slog.Float64("mean", s.MeanFitness),
		slog.Float64("std", s.StdFitness),
		slog.Float64("best_ever", s.BestEver),
		slog.Int("best_score", s.BestScore),
		slog.Int("max_score", s.MaxScore),
		slog.Float64("mean_score", s.MeanScore),
		slog.Int("deaths_self", s.DeathsSelf),
		slog.Int("deaths_starved", s.DeathsStarve),
		slog.Int("over_budget", s.OverBudget),
		slog.Int("cleared", s.Cleared),
	)
}
