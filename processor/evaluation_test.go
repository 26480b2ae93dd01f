package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePrediction(t *testing.T) {
	yTest := []int{1, 1, 0, 0}
	yPred := []int{1, 0, 0, 0}
	probs := []float64{0.8, 0.4, 0.1, 0.2}

	m, err := EvaluatePrediction(yTest, yPred, probs)
	require.NoError(t, err)

	assert.Equal(t, ConfusionMatrix{
		TruePositive:  1,
		FalsePositive: 0,
		TrueNegative:  2,
		FalseNegative: 1,
	}, m.Confusion)

	assert.InDelta(t, 0.75, m.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, m.Precision, 1e-9)
	assert.InDelta(t, 0.5, m.Recall, 1e-9)
	assert.InDelta(t, 2.0/3, m.F1, 1e-9)
	assert.InDelta(t, 0.1125, m.Brier, 1e-9)
	assert.InDelta(t, 0.5, m.CohenKappa, 1e-9)
}

func TestEvaluatePredictionPerfectRanking(t *testing.T) {
	yTest := []int{1, 1, 0, 0}
	yPred := []int{1, 1, 0, 0}
	probs := []float64{0.9, 0.8, 0.2, 0.1}

	m, err := EvaluatePrediction(yTest, yPred, probs)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, m.ROCAUC, 1e-9)
	assert.NotEmpty(t, m.ROC)
	assert.NotEmpty(t, m.PR)
}

func TestEvaluatePredictionRejectsBadInput(t *testing.T) {
	_, err := EvaluatePrediction([]int{1}, []int{1, 0}, []float64{0.5, 0.5})
	require.Error(t, err)

	var consistency *DataConsistencyError
	assert.ErrorAs(t, err, &consistency)

	_, err = EvaluatePrediction(nil, nil, nil)
	require.Error(t, err)
}

func TestPolygonModelAccuracy(t *testing.T) {
	square := Polygon{}
	predictions := []TestPrediction{
		{ID: 1, Geometry: square, Hit: true},
		{ID: 1, Geometry: square, Hit: false},
		{ID: 2, Geometry: square, Hit: true},
	}

	accuracy := PolygonModelAccuracy(predictions)
	require.Len(t, accuracy, 2)

	assert.Equal(t, PolygonAccuracy{ID: 1, Appearances: 2, TotalHits: 1, AverageHit: 0.5}, accuracy[0])
	assert.Equal(t, PolygonAccuracy{ID: 2, Appearances: 1, TotalHits: 1, AverageHit: 1}, accuracy[1])
}

func TestPolygonModelAccuracyOmitsUnseenPolygons(t *testing.T) {
	accuracy := PolygonModelAccuracy([]TestPrediction{{ID: 7, Hit: false}})
	require.Len(t, accuracy, 1)
	assert.Equal(t, int64(7), accuracy[0].ID)
	assert.Equal(t, 0.0, accuracy[0].AverageHit)
}

func TestMeanMetrics(t *testing.T) {
	runs := []RunMetrics{
		{Accuracy: 0.8, Precision: 0.6, Recall: 0.4, F1: 0.48, Brier: 0.2, CohenKappa: 0.3, ROCAUC: 0.7},
		{Accuracy: 0.6, Precision: 0.4, Recall: 0.2, F1: 0.26, Brier: 0.4, CohenKappa: 0.1, ROCAUC: 0.5},
	}

	mean := MeanMetrics(runs)
	assert.InDelta(t, 0.7, mean["accuracy"], 1e-9)
	assert.InDelta(t, 0.5, mean["precision"], 1e-9)
	assert.InDelta(t, 0.3, mean["recall"], 1e-9)
	assert.InDelta(t, 0.37, mean["f1_score"], 1e-9)
	assert.InDelta(t, 0.3, mean["brier_loss"], 1e-9)
	assert.InDelta(t, 0.2, mean["cohen_kappa"], 1e-9)
	assert.InDelta(t, 0.6, mean["roc_auc"], 1e-9)
}

func TestMeanMetricsWithoutRuns(t *testing.T) {
	mean := MeanMetrics(nil)
	assert.Len(t, mean, 7)
	for key, value := range mean {
		assert.Equal(t, 0.0, value, key)
	}
}
