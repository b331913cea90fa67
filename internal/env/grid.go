package env

import "math"

// Point represents a cell on the grid
type Point struct {
	X, Y int
}

// Add returns the component-wise sum of two points
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Direction represents the snake's heading
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// Directions lists the headings in network output order.
var Directions = [4]Direction{DirUp, DirRight, DirDown, DirLeft}

// Vector returns the unit step for the direction. Y grows downwards.
func (d Direction) Vector() Point {
	switch d {
	case DirUp:
		return Point{X: 0, Y: -1}
	case DirRight:
		return Point{X: 1, Y: 0}
	case DirDown:
		return Point{X: 0, Y: 1}
	case DirLeft:
		return Point{X: -1, Y: 0}
	}
	return Point{}
}

// Opposite returns the reverse heading
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Grid is a toroidal board: positions wrap around every edge.
type Grid struct {
	Width, Height int
}

// Cells returns the number of cells on the board
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Wrap maps any point back onto the board
func (g Grid) Wrap(p Point) Point {
	return Point{X: mod(p.X, g.Width), Y: mod(p.Y, g.Height)}
}

// Step moves n cells from p in direction d, wrapping at the edges
func (g Grid) Step(p Point, d Direction, n int) Point {
	v := d.Vector()
	return g.Wrap(Point{X: p.X + v.X*n, Y: p.Y + v.Y*n})
}

// Delta returns the shortest signed displacement from a to b on the torus.
func (g Grid) Delta(a, b Point) (dx, dy int) {
	return wrapDelta(b.X-a.X, g.Width), wrapDelta(b.Y-a.Y, g.Height)
}

// Distance returns the euclidean length of the shortest displacement
func (g Grid) Distance(a, b Point) float64 {
	dx, dy := g.Delta(a, b)
	return math.Hypot(float64(dx), float64(dy))
}

// MaxDistance is the largest value Distance can return on this grid
func (g Grid) MaxDistance() float64 {
	return math.Hypot(float64(g.Width/2), float64(g.Height/2))
}

func wrapDelta(d, n int) int {
	d = mod(d, n)
	if d > n/2 {
		d -= n
	}
	return d
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
