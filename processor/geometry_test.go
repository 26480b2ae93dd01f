package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolygonStripsClosingVertex(t *testing.T) {
	p, err := NewPolygon([]Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 0},
	})
	require.NoError(t, err)
	assert.Len(t, p.Ring(), 3)
}

func TestNewPolygonRejectsDegenerateRing(t *testing.T) {
	_, err := NewPolygon([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.Error(t, err)

	_, err = NewPolygon(nil)
	require.Error(t, err)
}

func TestPolygonTouchesSharedVertex(t *testing.T) {
	first := unitSquare(t, 0)
	second := unitSquare(t, 1)
	third := unitSquare(t, 2)

	assert.True(t, first.Touches(second))
	assert.True(t, second.Touches(first))
	assert.True(t, second.Touches(third))
	assert.False(t, first.Touches(third))
}

func TestPolygonContains(t *testing.T) {
	square := unitSquare(t, 0)

	assert.True(t, square.Contains(Point{X: 0.5, Y: 0.5}))
	assert.True(t, square.Contains(Point{X: 0.01, Y: 0.99}))
	assert.False(t, square.Contains(Point{X: 1.5, Y: 0.5}))
	assert.False(t, square.Contains(Point{X: 0.5, Y: -0.5}))
}

func TestPolygonContainsConcaveRing(t *testing.T) {
	// L-shape: the notch at the upper right is outside
	p, err := NewPolygon([]Point{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
		{X: 2, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 2},
		{X: 0, Y: 2},
	})
	require.NoError(t, err)

	assert.True(t, p.Contains(Point{X: 0.5, Y: 1.5}))
	assert.True(t, p.Contains(Point{X: 1.5, Y: 0.5}))
	assert.False(t, p.Contains(Point{X: 1.5, Y: 1.5}))
}

func TestWKTRoundTrip(t *testing.T) {
	original := unitSquare(t, 2)

	text := original.WKT()
	assert.Equal(t, "POLYGON((2 0, 3 0, 3 1, 2 1, 2 0))", text)

	parsed, err := ParseWKT(text)
	require.NoError(t, err)
	assert.Equal(t, original.Ring(), parsed.Ring())
}

func TestParseWKTRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"POINT(1 2)",
		"POLYGON((1 2, 3))",
		"POLYGON((a b, 1 2, 3 4))",
	} {
		_, err := ParseWKT(input)
		assert.Error(t, err, "input %q", input)
	}
}
