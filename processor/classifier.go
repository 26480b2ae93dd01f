package processor

import (
	"fmt"
	"math"
	"sort"

	"github.com/JannisHoch/conflict-model/constant"
)

// Classifier is the model capability used by the evaluation loop. Fit mutates
// the classifier, so every run gets its own instance. PredictProba returns
// the probability of the conflict class per row.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
}

// DefineModel instantiates the configured classifier with its fixed
// hyperparameters. An unrecognized name is a configuration error, surfaced
// before any run executes.
func DefineModel(cfg *Config) (Classifier, error) {
	switch cfg.ModelName {
	case constant.ModelKNeighbors:
		return &kNeighborsClassifier{k: cfg.NeighborCount}, nil
	case constant.ModelRF:
		return newRandomForest(cfg.EstimatorCount, cfg.RandomSeed), nil
	case constant.ModelNuSVC:
		return newRBFSupportVector(cfg.RandomSeed), nil
	default:
		return nil, &ConfigurationError{
			Key:    constant.EnvModel,
			Reason: fmt.Sprintf("no supported ML model selected (%s) - choose between NuSVC, KNeighborsClassifier or RFClassifier", cfg.ModelName),
		}
	}
}

// checkTrainingLabels rejects a degenerate partition holding a single class.
// Fitting on it would produce meaningless metrics downstream.
func checkTrainingLabels(y []int) error {
	if len(y) == 0 {
		return fmt.Errorf("training partition is empty")
	}
	first := y[0]
	for _, label := range y {
		if label != first {
			return nil
		}
	}
	return fmt.Errorf("training partition contains a single class (%d), cannot fit", first)
}

// kNeighborsClassifier votes over the k nearest training rows, weighting each
// vote by inverse distance.
type kNeighborsClassifier struct {
	k int
	X [][]float64
	y []int
}

func (c *kNeighborsClassifier) Fit(X [][]float64, y []int) error {
	if err := checkTrainingLabels(y); err != nil {
		return err
	}
	if len(X) != len(y) {
		return &DataConsistencyError{
			Detail: fmt.Sprintf("feature rows and labels diverge: %d vs %d", len(X), len(y)),
		}
	}
	c.X = X
	c.y = y
	return nil
}

func (c *kNeighborsClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		if c.conflictShare(row) > 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (c *kNeighborsClassifier) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = c.conflictShare(row)
	}
	return out
}

type neighborDistance struct {
	distance float64
	label    int
}

func (c *kNeighborsClassifier) neighbors(row []float64) []neighborDistance {
	dists := make([]neighborDistance, len(c.X))
	for i, train := range c.X {
		dists[i] = neighborDistance{distance: euclidean(row, train), label: c.y[i]}
	}
	sort.Slice(dists, func(i, j int) bool { return dists[i].distance < dists[j].distance })
	k := c.k
	if k > len(dists) {
		k = len(dists)
	}
	return dists[:k]
}

// conflictShare is the distance-weighted vote fraction of the conflict class
// among the k nearest neighbors. An exact feature match decides the vote on
// its own.
func (c *kNeighborsClassifier) conflictShare(row []float64) float64 {
	var total, conflict float64
	for _, nb := range c.neighbors(row) {
		if nb.distance == 0 {
			return float64(nb.label)
		}
		w := 1 / nb.distance
		total += w
		if nb.label == 1 {
			conflict += w
		}
	}
	if total == 0 {
		return 0
	}
	return conflict / total
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
