package nn

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := New(19, 24, 4, rng)

	in, hidden, out := n.Shape()
	if in != 19 || hidden != 24 || out != 4 {
		t.Fatalf("Shape() = %d/%d/%d, want 19/24/4", in, hidden, out)
	}

	ih, ho := n.Weights()
	if r, c := ih.Dims(); r != 19 || c != 24 {
		t.Errorf("input->hidden is %dx%d", r, c)
	}
	if r, c := ho.Dims(); r != 24 || c != 4 {
		t.Errorf("hidden->output is %dx%d", r, c)
	}
}

func TestForwardRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := New(19, 24, 4, rng)

	input := make([]float64, 19)
	for i := range input {
		input[i] = float64(i) / 19
	}

	out := n.Forward(input)
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	for i, v := range out {
		if v <= 0 || v >= 1 {
			t.Errorf("out[%d] = %v outside (0,1)", i, v)
		}
	}

	again := n.Forward(input)
	for i := range out {
		if out[i] != again[i] {
			t.Fatal("Forward is not deterministic")
		}
	}
}

func TestForwardKnownWeights(t *testing.T) {
	// Input 0 feeds hidden 0 with weight 1; hidden 0 drives output 1 strongly.
	ih := mat.NewDense(2, 2, []float64{
		1, 0,
		0, -1,
	})
	ho := mat.NewDense(2, 3, []float64{
		0, 5, 0,
		9, 9, 9,
	})
	n := FromWeights(ih, ho)

	out := n.Forward([]float64{1, 1})
	// Hidden 1 is ReLU(-1) = 0, so only hidden 0 contributes.
	if Argmax(out) != 1 {
		t.Errorf("Argmax(%v) = %d, want 1", out, Argmax(out))
	}
	if out[0] != 0.5 || out[2] != 0.5 {
		t.Errorf("outputs 0 and 2 should be sigmoid(0): %v", out)
	}
}

func TestForwardWrongInputPanics(t *testing.T) {
	n := New(3, 2, 2, rand.New(rand.NewSource(1)))
	defer func() {
		if recover() == nil {
			t.Error("expected panic for short input")
		}
	}()
	n.Forward([]float64{1, 2})
}

func TestCrossoverWithSelfIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := New(19, 24, 4, rng)

	child := Crossover(a, a, rng)
	if !child.Equal(a) {
		t.Error("Crossover(a, a) differs from a")
	}
}

func TestCrossoverPicksFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := FromWeights(mat.NewDense(4, 5, filled(20, 1)), mat.NewDense(5, 3, filled(15, 1)))
	b := FromWeights(mat.NewDense(4, 5, filled(20, 2)), mat.NewDense(5, 3, filled(15, 2)))

	child := Crossover(a, b, rng)
	ih, ho := child.Weights()

	var fromA, fromB int
	for _, v := range append(ih.RawMatrix().Data, ho.RawMatrix().Data...) {
		switch v {
		case 1:
			fromA++
		case 2:
			fromB++
		default:
			t.Fatalf("child weight %v not taken from a parent", v)
		}
	}
	if fromA == 0 || fromB == 0 {
		t.Errorf("expected genes from both parents, got a=%d b=%d", fromA, fromB)
	}
}

func TestCrossoverShapeMismatchPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := New(3, 4, 2, rng)
	b := New(3, 5, 2, rng)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched shapes")
		}
	}()
	Crossover(a, b, rng)
}

func TestMutate(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		changed bool
	}{
		{"zero rate keeps weights", 0, false},
		{"full rate perturbs weights", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(3))
			n := New(19, 24, 4, rng)
			original := n.Clone()

			n.Mutate(tt.rate, 0.8, rng)

			if got := !n.Equal(original); got != tt.changed {
				t.Errorf("changed = %v, want %v", got, tt.changed)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := New(5, 4, 3, rng)
	c := n.Clone()

	c.Mutate(1, 1, rng)
	if n.Equal(c) {
		t.Error("mutating the clone changed the original")
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		vals []float64
		want int
	}{
		{[]float64{0.1, 0.9, 0.3, 0.2}, 1},
		{[]float64{0.5, 0.5, 0.5, 0.5}, 0},
		{[]float64{0.1, 0.2, 0.3, 0.4}, 3},
	}
	for _, tt := range tests {
		if got := Argmax(tt.vals); got != tt.want {
			t.Errorf("Argmax(%v) = %d, want %d", tt.vals, got, tt.want)
		}
	}
}

func filled(n int, v float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return data
}
