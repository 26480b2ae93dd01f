package processor

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// rbfSupportVector is a soft-margin support vector classifier with an RBF
// kernel, trained with simplified sequential minimal optimization. The
// conflict class carries the same weight boost as the forest. Probabilities
// come from a sigmoid over the decision value fitted on the training set.
type rbfSupportVector struct {
	gamma     float64
	c         float64
	tolerance float64
	maxPasses int
	rng       *rand.Rand
	supportX  [][]float64
	supportY  []float64
	alpha     []float64
	b         float64
	sigmoidA  float64
	sigmoidB  float64
}

func newRBFSupportVector(seed uint64) *rbfSupportVector {
	return &rbfSupportVector{
		gamma:     10,
		c:         1,
		tolerance: 1e-3,
		maxPasses: 5,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (c *rbfSupportVector) kernel(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Exp(-c.gamma * sum)
}

func (c *rbfSupportVector) boxFor(y float64) float64 {
	if y > 0 {
		return c.c * conflictClassWeight
	}
	return c.c
}

func (c *rbfSupportVector) Fit(X [][]float64, y []int) error {
	if err := checkTrainingLabels(y); err != nil {
		return err
	}

	n := len(X)
	signed := make([]float64, n)
	for i, label := range y {
		signed[i] = -1
		if label == 1 {
			signed[i] = 1
		}
	}

	// precomputed kernel matrix; symmetric by construction
	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k.SetSym(i, j, c.kernel(X[i], X[j]))
		}
	}

	alpha := make([]float64, n)
	b := 0.0
	decision := func(i int) float64 {
		var sum float64
		for j := 0; j < n; j++ {
			if alpha[j] != 0 {
				sum += alpha[j] * signed[j] * k.At(j, i)
			}
		}
		return sum + b
	}

	passes := 0
	for passes < c.maxPasses {
		changed := 0
		for i := 0; i < n; i++ {
			ei := decision(i) - signed[i]
			boxI := c.boxFor(signed[i])
			if !((signed[i]*ei < -c.tolerance && alpha[i] < boxI) || (signed[i]*ei > c.tolerance && alpha[i] > 0)) {
				continue
			}

			j := c.rng.Intn(n - 1)
			if j >= i {
				j++
			}
			ej := decision(j) - signed[j]
			boxJ := c.boxFor(signed[j])

			var low, high float64
			if signed[i] != signed[j] {
				low = math.Max(0, alpha[j]-alpha[i])
				high = math.Min(boxJ, boxJ+alpha[j]-alpha[i])
			} else {
				low = math.Max(0, alpha[i]+alpha[j]-boxJ)
				high = math.Min(boxJ, alpha[i]+alpha[j])
			}
			if low == high {
				continue
			}

			eta := 2*k.At(i, j) - k.At(i, i) - k.At(j, j)
			if eta >= 0 {
				continue
			}

			oldI, oldJ := alpha[i], alpha[j]
			alpha[j] = oldJ - signed[j]*(ei-ej)/eta
			if alpha[j] > high {
				alpha[j] = high
			} else if alpha[j] < low {
				alpha[j] = low
			}
			if math.Abs(alpha[j]-oldJ) < 1e-5 {
				continue
			}
			alpha[i] = oldI + signed[i]*signed[j]*(oldJ-alpha[j])

			b1 := b - ei - signed[i]*(alpha[i]-oldI)*k.At(i, i) - signed[j]*(alpha[j]-oldJ)*k.At(i, j)
			b2 := b - ej - signed[i]*(alpha[i]-oldI)*k.At(i, j) - signed[j]*(alpha[j]-oldJ)*k.At(j, j)
			switch {
			case alpha[i] > 0 && alpha[i] < boxI:
				b = b1
			case alpha[j] > 0 && alpha[j] < boxJ:
				b = b2
			default:
				b = (b1 + b2) / 2
			}
			changed++
		}
		if changed == 0 {
			passes++
		} else {
			passes = 0
		}
	}

	c.supportX = nil
	c.supportY = nil
	c.alpha = nil
	for i := 0; i < n; i++ {
		if alpha[i] > 0 {
			c.supportX = append(c.supportX, X[i])
			c.supportY = append(c.supportY, signed[i])
			c.alpha = append(c.alpha, alpha[i])
		}
	}
	c.b = b

	c.fitSigmoid(X, signed)
	return nil
}

func (c *rbfSupportVector) decisionValue(row []float64) float64 {
	sum := c.b
	for i, sv := range c.supportX {
		sum += c.alpha[i] * c.supportY[i] * c.kernel(row, sv)
	}
	return sum
}

// fitSigmoid calibrates P(conflict|f) = 1/(1+exp(A*f+B)) on the training
// decision values by gradient descent on the log loss (Platt scaling).
func (c *rbfSupportVector) fitSigmoid(X [][]float64, signed []float64) {
	c.sigmoidA = -1
	c.sigmoidB = 0

	f := make([]float64, len(X))
	t := make([]float64, len(X))
	for i, row := range X {
		f[i] = c.decisionValue(row)
		if signed[i] > 0 {
			t[i] = 1
		}
	}

	step := 0.01
	for iter := 0; iter < 200; iter++ {
		var gradA, gradB float64
		for i := range f {
			p := 1 / (1 + math.Exp(c.sigmoidA*f[i]+c.sigmoidB))
			gradA += (p - t[i]) * -f[i]
			gradB += (p - t[i]) * -1
		}
		c.sigmoidA -= step * gradA / float64(len(f))
		c.sigmoidB -= step * gradB / float64(len(f))
	}
}

func (c *rbfSupportVector) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		if c.decisionValue(row) > 0 {
			out[i] = 1
		}
	}
	return out
}

func (c *rbfSupportVector) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = 1 / (1 + math.Exp(c.sigmoidA*c.decisionValue(row)+c.sigmoidB))
	}
	return out
}
