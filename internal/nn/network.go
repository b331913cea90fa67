// Package nn implements the snake's fixed-topology feedforward network.
package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is a feedforward network with one ReLU hidden layer and sigmoid
// outputs. There are no bias terms.
type Network struct {
	ih *mat.Dense // inputs x hidden
	ho *mat.Dense // hidden x outputs
}

// New creates a network with He-scaled normal weights.
func New(inputs, hidden, outputs int, rng *rand.Rand) *Network {
	return &Network{
		ih: randomMatrix(inputs, hidden, rng),
		ho: randomMatrix(hidden, outputs, rng),
	}
}

// FromWeights builds a network from copies of the given matrices.
func FromWeights(ih, ho mat.Matrix) *Network {
	_, hidden := ih.Dims()
	if r, _ := ho.Dims(); r != hidden {
		panic(fmt.Sprintf("nn: hidden size mismatch: input->hidden has %d columns, hidden->output has %d rows", hidden, r))
	}
	return &Network{
		ih: mat.DenseCopyOf(ih),
		ho: mat.DenseCopyOf(ho),
	}
}

func randomMatrix(rows, cols int, rng *rand.Rand) *mat.Dense {
	scale := math.Sqrt(2.0 / float64(rows))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(rows, cols, data)
}

// Shape returns the input, hidden and output sizes.
func (n *Network) Shape() (inputs, hidden, outputs int) {
	inputs, hidden = n.ih.Dims()
	_, outputs = n.ho.Dims()
	return inputs, hidden, outputs
}

// Forward evaluates the network and returns one activation per output.
func (n *Network) Forward(input []float64) []float64 {
	inputs, _, _ := n.Shape()
	if len(input) != inputs {
		panic(fmt.Sprintf("nn: input has %d values, network expects %d", len(input), inputs))
	}

	x := mat.NewVecDense(len(input), input)

	var hidden mat.VecDense
	hidden.MulVec(n.ih.T(), x)
	for i := 0; i < hidden.Len(); i++ {
		hidden.SetVec(i, relu(hidden.AtVec(i)))
	}

	var out mat.VecDense
	out.MulVec(n.ho.T(), &hidden)

	result := make([]float64, out.Len())
	for i := range result {
		result[i] = sigmoid(out.AtVec(i))
	}
	return result
}

// Weights returns copies of the input->hidden and hidden->output matrices.
func (n *Network) Weights() (ih, ho *mat.Dense) {
	return mat.DenseCopyOf(n.ih), mat.DenseCopyOf(n.ho)
}

// Clone makes an independent copy of the network.
func (n *Network) Clone() *Network {
	return &Network{
		ih: mat.DenseCopyOf(n.ih),
		ho: mat.DenseCopyOf(n.ho),
	}
}

// Equal reports whether both networks hold identical weights.
func (n *Network) Equal(other *Network) bool {
	return mat.Equal(n.ih, other.ih) && mat.Equal(n.ho, other.ho)
}

// Mutate adds gaussian noise with standard deviation sigma to each weight
// independently with probability rate.
func (n *Network) Mutate(rate, sigma float64, rng *rand.Rand) {
	for _, m := range []*mat.Dense{n.ih, n.ho} {
		data := m.RawMatrix().Data
		for i := range data {
			if rng.Float64() < rate {
				data[i] += rng.NormFloat64() * sigma
			}
		}
	}
}

// Crossover builds a child by picking every weight from a or b with equal
// probability.
func Crossover(a, b *Network, rng *rand.Rand) *Network {
	return &Network{
		ih: uniformCrossover(a.ih, b.ih, rng),
		ho: uniformCrossover(a.ho, b.ho, rng),
	}
}

func uniformCrossover(a, b *mat.Dense, rng *rand.Rand) *mat.Dense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		panic(fmt.Sprintf("nn: crossover of %dx%d and %dx%d matrices", ar, ac, br, bc))
	}

	child := mat.NewDense(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if rng.Float64() < 0.5 {
				child.Set(i, j, a.At(i, j))
			} else {
				child.Set(i, j, b.At(i, j))
			}
		}
	}
	return child
}

// Argmax returns the index of the largest value, the first one on ties.
func Argmax(vals []float64) int {
	maxIdx := 0
	maxVal := vals[0]
	for i := 1; i < len(vals); i++ {
		if vals[i] > maxVal {
			maxVal = vals[i]
			maxIdx = i
		}
	}
	return maxIdx
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
