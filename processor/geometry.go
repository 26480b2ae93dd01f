package processor

import (
	"fmt"
	"strconv"
	"strings"
)

type Point struct {
	X float64
	Y float64
}

// Polygon is a planar analysis-unit geometry described by its outer ring.
// The ring is stored open, i.e. without repeating the first vertex at the end.
type Polygon struct {
	ring []Point
}

func NewPolygon(ring []Point) (Polygon, error) {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return Polygon{}, fmt.Errorf("polygon ring needs at least 3 vertices, got %d", len(ring))
	}
	return Polygon{ring: ring}, nil
}

func (p Polygon) Ring() []Point {
	return p.ring
}

func (p Polygon) Empty() bool {
	return len(p.ring) < 3
}

// Touches reports whether the two polygons share at least one boundary
// vertex. Administrative units cut from the same source share exact border
// coordinates, so vertex identity is the touching criterion here.
func (p Polygon) Touches(other Polygon) bool {
	for _, a := range p.ring {
		for _, b := range other.ring {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Contains reports whether pt lies inside the polygon, using ray casting.
// Points exactly on a horizontal edge may land on either side; event and
// cell coordinates never sit on unit borders in practice.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p.ring)
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := p.ring[i], p.ring[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// WKT renders the polygon as a POLYGON(( ... )) string with the ring closed,
// the format used when the sample matrix is persisted.
func (p Polygon) WKT() string {
	var b strings.Builder
	b.WriteString("POLYGON((")
	for i, pt := range p.ring {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(pt.X, 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(pt.Y, 'g', -1, 64))
	}
	b.WriteString(", ")
	b.WriteString(strconv.FormatFloat(p.ring[0].X, 'g', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.ring[0].Y, 'g', -1, 64))
	b.WriteString("))")
	return b.String()
}

func ParseWKT(s string) (Polygon, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "POLYGON((") || !strings.HasSuffix(trimmed, "))") {
		return Polygon{}, fmt.Errorf("cannot parse geometry %q", s)
	}
	body := trimmed[len("POLYGON((") : len(trimmed)-2]

	var ring []Point
	for _, pair := range strings.Split(body, ",") {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return Polygon{}, fmt.Errorf("cannot parse vertex %q in geometry %q", pair, s)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Polygon{}, fmt.Errorf("cannot parse vertex %q: %v", pair, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Polygon{}, fmt.Errorf("cannot parse vertex %q: %v", pair, err)
		}
		ring = append(ring, Point{X: x, Y: y})
	}
	return NewPolygon(ring)
}

// PolygonUnit couples an analysis polygon with its opaque identifier. The
// collection of units stays immutable for the whole model run.
type PolygonUnit struct {
	ID       int64
	Geometry Polygon
}

// PolygonProvider yields the polygon collection for the model's spatial extent.
type PolygonProvider interface {
	Polygons() ([]PolygonUnit, error)
}
