package processor

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// conflictClassWeight compensates for the rarity of conflict rows: they
// count 100 times in impurity and leaf probabilities.
const conflictClassWeight = 100.0

// randomForestClassifier bags gini-split decision trees over bootstrap
// samples, considering sqrt(p) random features per split.
type randomForestClassifier struct {
	estimators int
	rng        *rand.Rand
	trees      []*forestNode
}

func newRandomForest(estimators int, seed uint64) *randomForestClassifier {
	return &randomForestClassifier{
		estimators: estimators,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

type forestNode struct {
	feature   int
	threshold float64
	left      *forestNode
	right     *forestNode
	leaf      bool
	prob      float64
}

func (c *randomForestClassifier) Fit(X [][]float64, y []int) error {
	if err := checkTrainingLabels(y); err != nil {
		return err
	}

	weights := make([]float64, len(y))
	for i, label := range y {
		weights[i] = 1
		if label == 1 {
			weights[i] = conflictClassWeight
		}
	}

	features := len(X[0])
	maxFeatures := int(math.Ceil(math.Sqrt(float64(features))))

	c.trees = make([]*forestNode, c.estimators)
	for t := 0; t < c.estimators; t++ {
		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = c.rng.Intn(len(X))
		}
		c.trees[t] = c.grow(X, y, weights, sample, maxFeatures)
	}
	return nil
}

func (c *randomForestClassifier) grow(X [][]float64, y []int, weights []float64, rows []int, maxFeatures int) *forestNode {
	var total, conflict float64
	for _, i := range rows {
		total += weights[i]
		if y[i] == 1 {
			conflict += weights[i]
		}
	}
	prob := conflict / total

	if prob == 0 || prob == 1 || len(rows) < 2 {
		return &forestNode{leaf: true, prob: prob}
	}

	feature, threshold, ok := c.bestSplit(X, y, weights, rows, maxFeatures)
	if !ok {
		return &forestNode{leaf: true, prob: prob}
	}

	var left, right []int
	for _, i := range rows {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &forestNode{leaf: true, prob: prob}
	}

	return &forestNode{
		feature:   feature,
		threshold: threshold,
		left:      c.grow(X, y, weights, left, maxFeatures),
		right:     c.grow(X, y, weights, right, maxFeatures),
	}
}

// bestSplit scans a random feature subset for the threshold minimizing the
// weighted gini impurity of the two children.
func (c *randomForestClassifier) bestSplit(X [][]float64, y []int, weights []float64, rows []int, maxFeatures int) (int, float64, bool) {
	bestGini := math.Inf(1)
	bestFeature := -1
	var bestThreshold float64

	for _, feature := range c.rng.Perm(len(X[0]))[:maxFeatures] {
		ordered := make([]int, len(rows))
		copy(ordered, rows)
		sort.Slice(ordered, func(a, b int) bool {
			return X[ordered[a]][feature] < X[ordered[b]][feature]
		})

		var totalW, totalC float64
		for _, i := range ordered {
			totalW += weights[i]
			if y[i] == 1 {
				totalC += weights[i]
			}
		}

		var leftW, leftC float64
		for pos := 0; pos < len(ordered)-1; pos++ {
			i := ordered[pos]
			leftW += weights[i]
			if y[i] == 1 {
				leftC += weights[i]
			}
			v, next := X[i][feature], X[ordered[pos+1]][feature]
			if v == next {
				continue
			}
			rightW := totalW - leftW
			rightC := totalC - leftC
			g := (leftW*gini(leftC/leftW) + rightW*gini(rightC/rightW)) / totalW
			if g < bestGini {
				bestGini = g
				bestFeature = feature
				bestThreshold = (v + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

func (c *randomForestClassifier) forestProb(row []float64) float64 {
	var sum float64
	for _, tree := range c.trees {
		node := tree
		for !node.leaf {
			if row[node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		sum += node.prob
	}
	return sum / float64(len(c.trees))
}

func (c *randomForestClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		if c.forestProb(row) > 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (c *randomForestClassifier) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = c.forestProb(row)
	}
	return out
}
