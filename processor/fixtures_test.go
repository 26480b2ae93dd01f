package processor

import (
	"fmt"
	"testing"

	"github.com/JannisHoch/conflict-model/helper"
)

// unitSquare returns the open ring of a 1x1 square with its lower-left
// corner at (x, 0). Consecutive squares share a full edge, so their
// polygons touch through the shared corner vertices.
func unitSquare(t *testing.T, x float64) Polygon {
	t.Helper()
	p, err := NewPolygon([]Point{
		{X: x, Y: 0},
		{X: x + 1, Y: 0},
		{X: x + 1, Y: 1},
		{X: x, Y: 1},
	})
	if err != nil {
		t.Fatalf("building test polygon: %v", err)
	}
	return p
}

// threeSquares is the standard spatial fixture: three unit squares in a row.
// Unit 1 touches unit 2, unit 2 touches both, unit 3 touches unit 2 only.
func threeSquares(t *testing.T) []PolygonUnit {
	t.Helper()
	return []PolygonUnit{
		{ID: 1, Geometry: unitSquare(t, 0)},
		{ID: 2, Geometry: unitSquare(t, 1)},
		{ID: 3, Geometry: unitSquare(t, 2)},
	}
}

func squareCenter(id int64) Point {
	return Point{X: float64(id) - 0.5, Y: 0.5}
}

func testHelper() helper.Helper {
	return helper.NewHelper()
}

// stubSourceProvider serves fixed raster series and counts lookups, so tests
// can assert that cached reads skip the source.
type stubSourceProvider struct {
	series map[string]*RasterSeries
	calls  int
}

func (p *stubSourceProvider) Source(name string) (*RasterSeries, error) {
	p.calls++
	s, ok := p.series[name]
	if !ok {
		return nil, fmt.Errorf("no such variable %s", name)
	}
	return s, nil
}

// rainfallSeries builds a float-encoded series with one cell per square,
// valued year+unit so every (year, polygon) pair is distinguishable.
func rainfallSeries(yearStart, yearEnd int) *RasterSeries {
	s := &RasterSeries{Name: "rainfall"}
	for year := yearStart; year <= yearEnd; year++ {
		s.FloatYears = append(s.FloatYears, float64(year))
		frame := make([]RasterCell, 0, 3)
		for id := int64(1); id <= 3; id++ {
			frame = append(frame, RasterCell{
				Center: squareCenter(id),
				Value:  float64(year) + float64(id),
			})
		}
		s.Frames = append(s.Frames, frame)
	}
	return s
}

func testReader(t *testing.T, provider VariableSourceProvider, reduction string) *VariableReader {
	t.Helper()
	h := testHelper()
	return NewVariableReader(h.LoggerHelper, h.CacheHelper, h.TypeAssertHelper, provider, reduction)
}
