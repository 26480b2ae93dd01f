package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func splitFixture(t *testing.T, rows int) ([]int64, []Polygon, [][]float64, []int) {
	t.Helper()
	ids := make([]int64, rows)
	geoms := make([]Polygon, rows)
	X := make([][]float64, rows)
	Y := make([]int, rows)
	for i := 0; i < rows; i++ {
		ids[i] = int64(i + 1)
		geoms[i] = unitSquare(t, float64(i))
		X[i] = []float64{float64(i)}
		Y[i] = i % 2
	}
	return ids, geoms, X, Y
}

func TestSplitXY(t *testing.T) {
	matrix := &SampleMatrix{
		Columns:  []string{"rainfall", "conflict_t_min_1", "conflict"},
		IDs:      []int64{1, 2},
		Geometry: []Polygon{unitSquare(t, 0), unitSquare(t, 1)},
		Data: [][]float64{
			{0.5, 1, 1},
			{0.7, 0, 0},
		},
		HasLabel: true,
	}

	features, labels, err := SplitXY(matrix)
	require.NoError(t, err)

	assert.Equal(t, []string{"rainfall", "conflict_t_min_1"}, features.Columns)
	assert.Equal(t, [][]float64{{0.5, 1}, {0.7, 0}}, features.Data)
	assert.Equal(t, []int{1, 0}, labels)
	assert.Equal(t, matrix.IDs, features.IDs)
}

func TestSplitXYWithoutLabel(t *testing.T) {
	_, _, err := SplitXY(&SampleMatrix{HasLabel: false})
	require.Error(t, err)

	var consistency *DataConsistencyError
	assert.ErrorAs(t, err, &consistency)
}

func TestSplitColumnsRejectsMisalignment(t *testing.T) {
	matrix := &SampleMatrix{
		IDs:      []int64{1, 2},
		Geometry: []Polygon{unitSquare(t, 0)},
		Data:     [][]float64{{1}, {2}},
	}

	_, _, _, err := SplitColumns(matrix)
	require.Error(t, err)

	var consistency *DataConsistencyError
	assert.ErrorAs(t, err, &consistency)
}

func TestTrainTestSplitSizes(t *testing.T) {
	ids, geoms, X, Y := splitFixture(t, 10)
	rng := rand.New(rand.NewSource(1))

	train, test, err := TrainTestSplit(rng, ids, geoms, X, Y, 0.7)
	require.NoError(t, err)

	// floor of 0.7 * 10
	assert.Len(t, train.X, 7)
	assert.Len(t, test.X, 3)
	assert.Len(t, train.IDs, 7)
	assert.Len(t, train.Geometry, 7)
	assert.Len(t, train.Y, 7)
}

func TestTrainTestSplitIsDisjointAndComplete(t *testing.T) {
	ids, geoms, X, Y := splitFixture(t, 20)
	rng := rand.New(rand.NewSource(7))

	train, test, err := TrainTestSplit(rng, ids, geoms, X, Y, 0.6)
	require.NoError(t, err)

	seen := make(map[int64]int)
	for _, id := range train.IDs {
		seen[id]++
	}
	for _, id := range test.IDs {
		seen[id]++
	}

	assert.Len(t, seen, 20)
	for id, count := range seen {
		assert.Equal(t, 1, count, "row %d drawn more than once", id)
	}
}

func TestTrainTestSplitKeepsRowsAligned(t *testing.T) {
	ids, geoms, X, Y := splitFixture(t, 10)
	rng := rand.New(rand.NewSource(3))

	train, test, err := TrainTestSplit(rng, ids, geoms, X, Y, 0.5)
	require.NoError(t, err)

	for _, p := range []Partition{train, test} {
		for i, id := range p.IDs {
			// features and labels were built from the identifier
			assert.Equal(t, float64(id-1), p.X[i][0])
			assert.Equal(t, int(id-1)%2, p.Y[i])
		}
	}
}

func TestTrainTestSplitRejectsDivergingInputs(t *testing.T) {
	ids, geoms, X, _ := splitFixture(t, 10)
	rng := rand.New(rand.NewSource(1))

	_, _, err := TrainTestSplit(rng, ids, geoms, X, []int{1, 0}, 0.7)
	require.Error(t, err)

	var consistency *DataConsistencyError
	assert.ErrorAs(t, err, &consistency)
}
