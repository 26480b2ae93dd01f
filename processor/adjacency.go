package processor

import "fmt"

// AdjacencyMatrix holds the boolean touches-relation between all polygons of
// a run. It is built once and read-only afterwards; both directions are
// stored independently, so lookups never rely on geometric symmetry.
type AdjacencyMatrix struct {
	ids   []int64
	index map[int64]int
	data  [][]bool
}

// NewAdjacencyMatrix evaluates the touches-predicate for every polygon pair.
// O(n²) over the unit count, which is a small administrative-unit number.
// Missing geometry on any unit is a hard error.
func NewAdjacencyMatrix(polys []PolygonUnit) (*AdjacencyMatrix, error) {
	n := len(polys)
	m := &AdjacencyMatrix{
		ids:   make([]int64, n),
		index: make(map[int64]int, n),
		data:  make([][]bool, n),
	}

	for i, p := range polys {
		if p.Geometry.Empty() {
			return nil, &DataConsistencyError{
				Detail: fmt.Sprintf("polygon %d has missing or malformed geometry", p.ID),
			}
		}
		m.ids[i] = p.ID
		m.index[p.ID] = i
	}

	for i := range polys {
		m.data[i] = make([]bool, n)
		for j := range polys {
			if i == j {
				continue
			}
			m.data[i][j] = polys[i].Geometry.Touches(polys[j].Geometry)
		}
	}

	return m, nil
}

// Touches reports whether b is marked as touching a. The direction is
// explicit: the row belongs to a, the column to b.
func (m *AdjacencyMatrix) Touches(a, b int64) bool {
	i, ok := m.index[a]
	if !ok {
		return false
	}
	j, ok := m.index[b]
	if !ok {
		return false
	}
	return m.data[i][j]
}

func (m *AdjacencyMatrix) IDs() []int64 {
	return m.ids
}

// FindNeighbors returns the identifiers marked as touching id, in matrix
// order. A polygon without neighbors yields an empty set, not an error.
func FindNeighbors(id int64, m *AdjacencyMatrix) []int64 {
	neighbors := []int64{}
	i, ok := m.index[id]
	if !ok {
		return neighbors
	}
	for j, touches := range m.data[i] {
		if touches {
			neighbors = append(neighbors, m.ids[j])
		}
	}
	return neighbors
}
