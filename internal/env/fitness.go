package env

import "math"

// CalculateFitness scores the finished life: food dominates, survival adds a
// little per step and time spent hungry costs a little. Never negative.
func (s *Snake) CalculateFitness() float64 {
	w := s.weights
	score := float64(s.score)

	f := w.FoodReward*score +
		w.ScoreSquared*score*score +
		w.LengthReward*float64(s.length) +
		w.Survival*float64(s.steps) -
		w.StarvationPenalty*float64(s.stepsWithoutFood)

	s.fitness = math.Max(0, f)
	return s.fitness
}
