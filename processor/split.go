package processor

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Partition is one side of a train/test split. Identifiers and geometry
// index the same rows, in the same order, as the feature and label arrays.
type Partition struct {
	IDs      []int64
	Geometry []Polygon
	X        [][]float64
	Y        []int
}

// SplitXY separates the label column from the feature block of a
// reference-mode matrix.
func SplitXY(m *SampleMatrix) (*SampleMatrix, []int, error) {
	if !m.HasLabel {
		return nil, nil, &DataConsistencyError{Detail: "matrix holds no label column to split off"}
	}

	features := &SampleMatrix{
		Columns:  m.Columns[:len(m.Columns)-1],
		IDs:      m.IDs,
		Geometry: m.Geometry,
		Data:     make([][]float64, len(m.Data)),
	}
	labels := make([]int, len(m.Data))
	for i, row := range m.Data {
		features.Data[i] = row[:len(row)-1]
		labels[i] = int(row[len(row)-1])
	}
	return features, labels, nil
}

// SplitColumns separates the identifier and geometry columns from the
// numeric block. The three results always have equal length.
func SplitColumns(m *SampleMatrix) ([]int64, []Polygon, [][]float64, error) {
	if len(m.IDs) != len(m.Data) || len(m.Geometry) != len(m.Data) {
		return nil, nil, nil, &DataConsistencyError{
			Detail: fmt.Sprintf("identifier/geometry/data lengths diverge: %d vs %d vs %d",
				len(m.IDs), len(m.Geometry), len(m.Data)),
		}
	}
	return m.IDs, m.Geometry, m.Data, nil
}

// TrainTestSplit draws one random partition of the rows. The train size is
// the floor of trainFraction times the row count; everything else is test.
// Identifiers, geometry, features and labels are partitioned by the same row
// indices, and the alignment is re-checked afterwards.
func TrainTestSplit(rng *rand.Rand, ids []int64, geoms []Polygon, X [][]float64, Y []int, trainFraction float64) (Partition, Partition, error) {
	n := len(X)
	if len(ids) != n || len(geoms) != n || len(Y) != n {
		return Partition{}, Partition{}, &DataConsistencyError{
			Detail: fmt.Sprintf("inputs to split diverge: %d ids, %d geometries, %d rows, %d labels",
				len(ids), len(geoms), n, len(Y)),
		}
	}

	perm := rng.Perm(n)
	trainSize := int(trainFraction * float64(n))

	take := func(indices []int) Partition {
		p := Partition{
			IDs:      make([]int64, len(indices)),
			Geometry: make([]Polygon, len(indices)),
			X:        make([][]float64, len(indices)),
			Y:        make([]int, len(indices)),
		}
		for i, idx := range indices {
			p.IDs[i] = ids[idx]
			p.Geometry[i] = geoms[idx]
			p.X[i] = X[idx]
			p.Y[i] = Y[idx]
		}
		return p
	}

	train := take(perm[:trainSize])
	test := take(perm[trainSize:])

	for _, p := range []Partition{train, test} {
		if len(p.IDs) != len(p.X) || len(p.Geometry) != len(p.X) || len(p.Y) != len(p.X) {
			return Partition{}, Partition{}, &DataConsistencyError{
				Detail: fmt.Sprintf("partition misaligned after split: %d ids, %d geometries, %d rows, %d labels",
					len(p.IDs), len(p.Geometry), len(p.X), len(p.Y)),
			}
		}
	}
	return train, test, nil
}
