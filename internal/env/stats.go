package env

// DeathReason indicates how the snake died
type DeathReason int

const (
	DeathNone    DeathReason = iota
	DeathSelf                // ran into its own body
	DeathStarved             // too long without food
)

func (d DeathReason) String() string {
	switch d {
	case DeathNone:
		return "none"
	case DeathSelf:
		return "self"
	case DeathStarved:
		return "starved"
	default:
		return "unknown"
	}
}

// EpisodeStats captures the outcome of one evaluation
type EpisodeStats struct {
	Fitness float64
	Score   int
	Length  int
	Steps   int         // moves survived, eating moves excluded
	Ticks   int         // game updates run
	Death   DeathReason // DeathNone when the episode was cut short
	Budget  bool        // step budget exhausted with the snake alive
	Cleared bool        // the snake filled the board
	Seed    int64
}

// Stats returns the episode statistics of the game so far
func (g *Game) Stats(seed int64) EpisodeStats {
	s := g.snake
	return EpisodeStats{
		Fitness: s.Fitness(),
		Score:   s.Score(),
		Length:  s.Length(),
		Steps:   s.Steps(),
		Ticks:   g.ticks,
		Death:   s.Death(),
		Cleared: g.cleared,
		Seed:    seed,
	}
}
