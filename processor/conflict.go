package processor

// ConflictEvent is one raw conflict record: where and in which year it took
// place. Events are immutable input; many events may fall into one polygon.
type ConflictEvent struct {
	Year     int
	Location Point
}

// ConflictProvider yields the raw conflict events for the model's temporal
// extent.
type ConflictProvider interface {
	Events(yearStart, yearEnd int) ([]ConflictEvent, error)
}

// ConflictLookup answers per-polygon conflict questions against a fixed event
// collection. All operations are pure reads.
type ConflictLookup struct {
	polys  []PolygonUnit
	byYear map[int]map[int64]bool
}

func NewConflictLookup(events []ConflictEvent, polys []PolygonUnit) *ConflictLookup {
	l := &ConflictLookup{
		polys:  polys,
		byYear: make(map[int]map[int64]bool),
	}
	for _, e := range events {
		for _, p := range polys {
			if p.Geometry.Contains(e.Location) {
				hits, ok := l.byYear[e.Year]
				if !ok {
					hits = make(map[int64]bool)
					l.byYear[e.Year] = hits
				}
				hits[p.ID] = true
				break
			}
		}
	}
	return l
}

// ConflictInYear reports, per polygon, whether at least one event is
// attributed to it in the given year.
func (l *ConflictLookup) ConflictInYear(year int) map[int64]bool {
	out := make(map[int64]bool, len(l.polys))
	hits := l.byYear[year]
	for _, p := range l.polys {
		out[p.ID] = hits[p.ID]
	}
	return out
}

// ConflictInYearBool returns the same information as ConflictInYear as a 0/1
// vector in polygon order, ready to append as the label column.
func (l *ConflictLookup) ConflictInYearBool(year int) []float64 {
	hits := l.byYear[year]
	out := make([]float64, len(l.polys))
	for i, p := range l.polys {
		if hits[p.ID] {
			out[i] = 1
		}
	}
	return out
}

// ConflictInPreviousYear returns the boolean self-lag for year-1 as a 0/1
// vector in polygon order.
func (l *ConflictLookup) ConflictInPreviousYear(year int) []float64 {
	return l.ConflictInYearBool(year - 1)
}

// ConflictInPreviousYearNeighbors returns, per polygon, the fraction of its
// neighbors that saw conflict in year-1. Polygons without neighbors get 0.
func (l *ConflictLookup) ConflictInPreviousYearNeighbors(year int, matrix *AdjacencyMatrix) []float64 {
	hits := l.byYear[year-1]
	out := make([]float64, len(l.polys))
	for i, p := range l.polys {
		out[i] = neighborFraction(p.ID, matrix, hits)
	}
	return out
}

// ReadProjectedConflict mirrors the lag reads for forecast mode, where the
// previous-year state is supplied externally instead of derived from events.
// With a nil matrix it returns the 0/1 self state; with a matrix, the
// neighbor fraction over that state.
func (l *ConflictLookup) ReadProjectedConflict(state map[int64]bool, matrix *AdjacencyMatrix) []float64 {
	out := make([]float64, len(l.polys))
	for i, p := range l.polys {
		if matrix == nil {
			if state[p.ID] {
				out[i] = 1
			}
			continue
		}
		out[i] = neighborFraction(p.ID, matrix, state)
	}
	return out
}

func neighborFraction(id int64, matrix *AdjacencyMatrix, state map[int64]bool) float64 {
	neighbors := FindNeighbors(id, matrix)
	if len(neighbors) == 0 {
		return 0
	}
	inConflict := 0
	for _, nb := range neighbors {
		if state[nb] {
			inConflict++
		}
	}
	return float64(inConflict) / float64(len(neighbors))
}
