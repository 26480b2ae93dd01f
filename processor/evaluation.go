package processor

import (
	"fmt"
	"math"
	"sort"
)

type ConfusionMatrix struct {
	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}

type CurvePoint struct {
	X float64
	Y float64
}

// RunMetrics holds the classification scores of one evaluation run, plus the
// curve data collected for later plotting outside the core.
type RunMetrics struct {
	Accuracy   float64
	Precision  float64
	Recall     float64
	F1         float64
	Brier      float64
	CohenKappa float64
	ROCAUC     float64
	Confusion  ConfusionMatrix
	ROC        []CurvePoint
	PR         []CurvePoint
}

// TestPrediction records one test-set row of one run: what was predicted for
// which polygon, and whether it hit.
type TestPrediction struct {
	ID          int64
	Geometry    Polygon
	YTest       int
	YPred       int
	Probability float64
	Hit         bool
}

// PolygonAccuracy aggregates, per polygon, how often it appeared in test
// sets across all runs and how often the prediction was correct.
type PolygonAccuracy struct {
	ID          int64
	Appearances int
	TotalHits   int
	AverageHit  float64
}

// EvaluatePrediction scores one run. It refuses to compute metrics over
// mismatched arrays or an empty test set.
func EvaluatePrediction(yTest, yPred []int, probs []float64) (RunMetrics, error) {
	if len(yTest) != len(yPred) || len(yTest) != len(probs) {
		return RunMetrics{}, &DataConsistencyError{
			Detail: fmt.Sprintf("test labels, predictions and probabilities diverge: %d vs %d vs %d",
				len(yTest), len(yPred), len(probs)),
		}
	}
	if len(yTest) == 0 {
		return RunMetrics{}, fmt.Errorf("cannot evaluate an empty test partition")
	}

	var m RunMetrics
	for i := range yTest {
		switch {
		case yTest[i] == 1 && yPred[i] == 1:
			m.Confusion.TruePositive++
		case yTest[i] == 0 && yPred[i] == 1:
			m.Confusion.FalsePositive++
		case yTest[i] == 1 && yPred[i] == 0:
			m.Confusion.FalseNegative++
		default:
			m.Confusion.TrueNegative++
		}
		d := probs[i] - float64(yTest[i])
		m.Brier += d * d
	}
	m.Brier /= float64(len(yTest))

	tp := float64(m.Confusion.TruePositive)
	fp := float64(m.Confusion.FalsePositive)
	tn := float64(m.Confusion.TrueNegative)
	fn := float64(m.Confusion.FalseNegative)
	total := tp + fp + tn + fn

	m.Accuracy = (tp + tn) / total
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	// chance agreement for Cohen's kappa
	pe := ((tp+fp)*(tp+fn) + (fn+tn)*(fp+tn)) / (total * total)
	if pe != 1 {
		m.CohenKappa = (m.Accuracy - pe) / (1 - pe)
	}

	m.ROC, m.ROCAUC = rocCurve(yTest, probs)
	m.PR = prCurve(yTest, probs)
	return m, nil
}

// rocCurve sweeps the probability thresholds from high to low, emitting
// (FPR, TPR) points, and integrates the area under them by trapezoid.
func rocCurve(yTest []int, probs []float64) ([]CurvePoint, float64) {
	order := argsortDesc(probs)

	var positives, negatives float64
	for _, label := range yTest {
		if label == 1 {
			positives++
		} else {
			negatives++
		}
	}

	points := []CurvePoint{{X: 0, Y: 0}}
	var tp, fp, auc float64
	for idx, i := range order {
		if yTest[i] == 1 {
			tp++
		} else {
			fp++
		}
		if idx+1 < len(order) && probs[order[idx+1]] == probs[i] {
			continue
		}
		p := CurvePoint{}
		if negatives > 0 {
			p.X = fp / negatives
		}
		if positives > 0 {
			p.Y = tp / positives
		}
		prev := points[len(points)-1]
		auc += (p.X - prev.X) * (p.Y + prev.Y) / 2
		points = append(points, p)
	}
	return points, auc
}

// prCurve emits (recall, precision) points over the same threshold sweep.
func prCurve(yTest []int, probs []float64) []CurvePoint {
	order := argsortDesc(probs)

	var positives float64
	for _, label := range yTest {
		if label == 1 {
			positives++
		}
	}

	var points []CurvePoint
	var tp, predicted float64
	for idx, i := range order {
		predicted++
		if yTest[i] == 1 {
			tp++
		}
		if idx+1 < len(order) && probs[order[idx+1]] == probs[i] {
			continue
		}
		p := CurvePoint{Y: tp / predicted}
		if positives > 0 {
			p.X = tp / positives
		}
		points = append(points, p)
	}
	return points
}

func argsortDesc(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })
	return order
}

// PolygonModelAccuracy rebuilds the per-polygon hit table from the union of
// all runs' test predictions. Polygons that never entered a test set are
// absent, not reported as zero.
func PolygonModelAccuracy(predictions []TestPrediction) []PolygonAccuracy {
	appearances := make(map[int64]int)
	hits := make(map[int64]int)
	for _, p := range predictions {
		appearances[p.ID]++
		if p.Hit {
			hits[p.ID]++
		}
	}

	out := make([]PolygonAccuracy, 0, len(appearances))
	for id, count := range appearances {
		out = append(out, PolygonAccuracy{
			ID:          id,
			Appearances: count,
			TotalHits:   hits[id],
			AverageHit:  float64(hits[id]) / float64(count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MeanMetrics averages every scalar metric over the runs.
func MeanMetrics(runs []RunMetrics) map[string]float64 {
	out := map[string]float64{
		"accuracy":    0,
		"precision":   0,
		"recall":      0,
		"f1_score":    0,
		"brier_loss":  0,
		"cohen_kappa": 0,
		"roc_auc":     0,
	}
	if len(runs) == 0 {
		return out
	}
	for _, r := range runs {
		out["accuracy"] += r.Accuracy
		out["precision"] += r.Precision
		out["recall"] += r.Recall
		out["f1_score"] += r.F1
		out["brier_loss"] += r.Brier
		out["cohen_kappa"] += r.CohenKappa
		out["roc_auc"] += r.ROCAUC
	}
	for key := range out {
		out[key] /= float64(len(runs))
	}
	return out
}

// round3 keeps reported metrics readable in logs and responses.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
