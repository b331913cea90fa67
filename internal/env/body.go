package env

// body keeps the snake's cells in order alongside an occupancy count so
// membership tests do not scan the whole body.
type body struct {
	cells    []Point // tail first, head last
	occupied map[Point]int
}

func newBody(capacity int) *body {
	return &body{
		cells:    make([]Point, 0, capacity),
		occupied: make(map[Point]int, capacity),
	}
}

func (b *body) pushHead(p Point) {
	b.cells = append(b.cells, p)
	b.occupied[p]++
}

func (b *body) popTail() Point {
	p := b.cells[0]
	b.cells = b.cells[1:]
	if b.occupied[p] <= 1 {
		delete(b.occupied, p)
	} else {
		b.occupied[p]--
	}
	return p
}

func (b *body) head() Point {
	return b.cells[len(b.cells)-1]
}

func (b *body) tail() Point {
	return b.cells[0]
}

func (b *body) len() int {
	return len(b.cells)
}

func (b *body) contains(p Point) bool {
	return b.occupied[p] > 0
}

func (b *body) count(p Point) int {
	return b.occupied[p]
}

// distinct returns the number of different cells covered
func (b *body) distinct() int {
	return len(b.occupied)
}

// positions returns a head-first copy of the cells
func (b *body) positions() []Point {
	out := make([]Point, len(b.cells))
	for i, p := range b.cells {
		out[len(b.cells)-1-i] = p
	}
	return out
}
