package env

// VisionSize is the number of values produced by Snake.Vision
const VisionSize = 19

// Vision builds the network input for the current state:
//
//	0-1    shortest displacement to food, dx/W and dy/H
//	2-5    obstacle in the adjacent cell (up, right, down, left)
//	6-9    distance to the nearest body cell along each direction, 1 if none
//	10-13  current heading, one-hot
//	14     length relative to the board
//	15     steps without food relative to the starvation limit
//	16     distance to food relative to the largest possible distance
//	17-18  head position, x/W and y/H
func (s *Snake) Vision(food Point) []float64 {
	v := make([]float64, 0, VisionSize)
	head := s.Head()
	w, h := float64(s.grid.Width), float64(s.grid.Height)

	dx, dy := s.grid.Delta(head, food)
	v = append(v, float64(dx)/w, float64(dy)/h)

	for _, d := range Directions {
		v = append(v, boolToFloat(s.blocked(s.grid.Step(head, d, 1))))
	}

	for _, d := range Directions {
		v = append(v, s.bodyDistance(d))
	}

	for _, d := range Directions {
		v = append(v, boolToFloat(d == s.direction))
	}

	v = append(v, float64(s.length)/float64(s.grid.Cells()))
	v = append(v, float64(s.stepsWithoutFood)/float64(s.starvationLimit))

	if maxDist := s.grid.MaxDistance(); maxDist > 0 {
		v = append(v, s.grid.Distance(head, food)/maxDist)
	} else {
		v = append(v, 0)
	}

	v = append(v, float64(head.X)/w, float64(head.Y)/h)
	return v
}

// bodyDistance casts a ray from the head and returns the normalized distance
// to the first body cell, or 1 when the ray wraps back without a hit.
func (s *Snake) bodyDistance(d Direction) float64 {
	span := s.grid.Width
	if d == DirUp || d == DirDown {
		span = s.grid.Height
	}

	head := s.Head()
	for dist := 1; dist < span; dist++ {
		if s.body.contains(s.grid.Step(head, d, dist)) {
			return float64(dist) / float64(span)
		}
	}
	return 1.0
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
