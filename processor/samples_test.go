package processor

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JannisHoch/conflict-model/constant"
)

func testAssembler(t *testing.T, cfg *Config, events []ConflictEvent) *SampleMatrixAssembler {
	t.Helper()
	polys := threeSquares(t)
	matrix, err := NewAdjacencyMatrix(polys)
	require.NoError(t, err)

	lookup := NewConflictLookup(events, polys)
	provider := &stubSourceProvider{series: map[string]*RasterSeries{
		"rainfall": rainfallSeries(cfg.YearStart, cfg.YearEnd+1),
	}}
	reader := testReader(t, provider, cfg.Reduction)
	return NewSampleMatrixAssembler(testHelper().LoggerHelper, cfg, polys, lookup, reader, matrix)
}

func referenceConfig() *Config {
	return &Config{
		YearStart: 2000,
		YearEnd:   2002,
		Variables: []string{"rainfall"},
		Reduction: constant.ReductionMean,
	}
}

func TestAssembleReference(t *testing.T) {
	events := []ConflictEvent{
		{Year: 2000, Location: squareCenter(1)},
		{Year: 2001, Location: squareCenter(1)},
	}
	assembler := testAssembler(t, referenceConfig(), events)

	matrix, err := assembler.AssembleReference()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"rainfall",
		constant.ColumnConflictTMin1,
		constant.ColumnConflictNb,
		constant.ColumnConflict,
	}, matrix.Columns)
	assert.True(t, matrix.HasLabel)

	// the first year seeds the lag features and contributes no row
	require.Equal(t, 6, matrix.Rows())
	assert.Equal(t, []int64{1, 2, 3, 1, 2, 3}, matrix.IDs)

	assert.Equal(t, [][]float64{
		{2002, 1, 0, 1},
		{2003, 0, 0.5, 0},
		{2004, 0, 0, 0},
		{2003, 1, 0, 0},
		{2004, 0, 0.5, 0},
		{2005, 0, 0, 0},
	}, matrix.Data)
}

type shortColumn struct{}

func (shortColumn) name() string { return "short" }

func (shortColumn) produce(int) ([]float64, error) { return []float64{1}, nil }

func TestAppendYearRejectsShortColumn(t *testing.T) {
	assembler := testAssembler(t, referenceConfig(), nil)

	producers := []columnProducer{shortColumn{}}
	matrix := assembler.initMatrix(producers, len(assembler.polys))

	err := assembler.appendYear(matrix, producers, 2001)
	require.Error(t, err)

	var consistency *DataConsistencyError
	require.ErrorAs(t, err, &consistency)
	assert.Contains(t, consistency.Detail, "column short")
}

func TestAssembleProjection(t *testing.T) {
	events := []ConflictEvent{{Year: 2002, Location: squareCenter(1)}}
	assembler := testAssembler(t, referenceConfig(), events)

	state := map[int64]bool{1: true}
	matrix, err := assembler.AssembleProjection(2003, state)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"rainfall",
		constant.ColumnConflictTMin1,
		constant.ColumnConflictNb,
	}, matrix.Columns)
	assert.False(t, matrix.HasLabel)

	require.Equal(t, 3, matrix.Rows())
	assert.Equal(t, [][]float64{
		{2004, 1, 0},
		{2005, 0, 0.5},
		{2006, 0, 0},
	}, matrix.Data)
}

func TestAssembleProjectionWithoutYear(t *testing.T) {
	assembler := testAssembler(t, referenceConfig(), nil)

	_, err := assembler.AssembleProjection(0, nil)
	require.Error(t, err)

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, constant.EnvProjectionYear, confErr.Key)
}

func TestDropMissing(t *testing.T) {
	matrix := &SampleMatrix{
		Columns:  []string{"a", "b"},
		IDs:      []int64{1, 2, 3},
		Geometry: []Polygon{unitSquare(t, 0), unitSquare(t, 1), unitSquare(t, 2)},
		Data: [][]float64{
			{1, 2},
			{math.NaN(), 2},
			{3, 4},
		},
	}

	kept := matrix.DropMissing(testHelper().LoggerHelper, true)

	assert.Equal(t, 2, kept.Rows())
	assert.Equal(t, []int64{1, 3}, kept.IDs)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, kept.Data)

	// the source matrix stays intact
	assert.Equal(t, 3, matrix.Rows())
}

func TestSampleMatrixCSVRoundTrip(t *testing.T) {
	events := []ConflictEvent{{Year: 2000, Location: squareCenter(1)}}
	assembler := testAssembler(t, referenceConfig(), events)

	original, err := assembler.AssembleReference()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "XY.csv")
	require.NoError(t, original.SaveCSV(path))

	reloaded, err := LoadSampleMatrixCSV(path)
	require.NoError(t, err)

	assert.Equal(t, original.Columns, reloaded.Columns)
	assert.Equal(t, original.IDs, reloaded.IDs)
	assert.Equal(t, original.Data, reloaded.Data)
	assert.True(t, reloaded.HasLabel)
	for i := range original.Geometry {
		assert.Equal(t, original.Geometry[i].Ring(), reloaded.Geometry[i].Ring())
	}
}

func TestLoadSampleMatrixCSVWithoutLabel(t *testing.T) {
	matrix := &SampleMatrix{
		Columns:  []string{"rainfall", constant.ColumnConflictTMin1, constant.ColumnConflictNb},
		IDs:      []int64{1},
		Geometry: []Polygon{unitSquare(t, 0)},
		Data:     [][]float64{{0.25, 1, 0.5}},
	}

	path := filepath.Join(t.TempDir(), "X.csv")
	require.NoError(t, matrix.SaveCSV(path))

	reloaded, err := LoadSampleMatrixCSV(path)
	require.NoError(t, err)
	assert.False(t, reloaded.HasLabel)
	assert.Equal(t, matrix.Data, reloaded.Data)
}
