package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVPolygonProvider(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "provinces.csv",
		"watprovID,geometry\n"+
			"1,\"POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))\"\n"+
			"2,\"POLYGON((1 0, 2 0, 2 1, 1 1, 1 0))\"\n")

	provider := NewCSVPolygonProvider(testHelper().LoggerHelper, path)
	polys, err := provider.Polygons()
	require.NoError(t, err)

	require.Len(t, polys, 2)
	assert.Equal(t, int64(1), polys[0].ID)
	assert.Equal(t, int64(2), polys[1].ID)
	assert.True(t, polys[0].Geometry.Touches(polys[1].Geometry))
}

func TestCSVPolygonProviderRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	logger := testHelper().LoggerHelper

	path := writeTestFile(t, dir, "empty.csv", "watprovID,geometry\n")
	_, err := NewCSVPolygonProvider(logger, path).Polygons()
	assert.Error(t, err)

	path = writeTestFile(t, dir, "badid.csv",
		"watprovID,geometry\nabc,\"POLYGON((0 0, 1 0, 1 1, 0 0))\"\n")
	_, err = NewCSVPolygonProvider(logger, path).Polygons()
	assert.Error(t, err)

	path = writeTestFile(t, dir, "badgeom.csv",
		"watprovID,geometry\n1,\"LINESTRING(0 0, 1 1)\"\n")
	_, err = NewCSVPolygonProvider(logger, path).Polygons()
	assert.Error(t, err)
}

func TestCSVVariableProviderFloatTimes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "rainfall.csv",
		"time,x,y,value\n"+
			"2000,0.5,0.5,1.5\n"+
			"2000,1.5,0.5,2.5\n"+
			"2001,0.5,0.5,3.5\n")

	provider := NewCSVVariableProvider(testHelper().LoggerHelper, dir)
	series, err := provider.Source("rainfall")
	require.NoError(t, err)

	assert.Equal(t, []float64{2000, 2001}, series.FloatYears)
	assert.Empty(t, series.Timestamps)
	require.Len(t, series.Frames, 2)
	assert.Len(t, series.Frames[0], 2)
	assert.Equal(t, RasterCell{Center: Point{X: 0.5, Y: 0.5}, Value: 3.5}, series.Frames[1][0])
}

func TestCSVVariableProviderDatetimeTimes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "gdp.csv",
		"time,x,y,value\n"+
			"2000-01-01,0.5,0.5,7\n"+
			"2001-01-01,0.5,0.5,8\n")

	provider := NewCSVVariableProvider(testHelper().LoggerHelper, dir)
	series, err := provider.Source("gdp")
	require.NoError(t, err)

	assert.Empty(t, series.FloatYears)
	require.Len(t, series.Timestamps, 2)
	assert.Equal(t, 2000, series.Timestamps[0].Year())
	assert.Equal(t, 2001, series.Timestamps[1].Year())
}

func TestCSVVariableProviderRejectsMixedTimes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "mixed.csv",
		"time,x,y,value\n"+
			"2000,0.5,0.5,1\n"+
			"2001-01-01,0.5,0.5,2\n")

	provider := NewCSVVariableProvider(testHelper().LoggerHelper, dir)
	_, err := provider.Source("mixed")
	require.Error(t, err)

	var format *UnsupportedFormatError
	require.ErrorAs(t, err, &format)
	assert.Equal(t, "mixed", format.Variable)
}

func TestCSVVariableProviderRejectsUnparsableTime(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "odd.csv",
		"time,x,y,value\n"+
			"yesterday,0.5,0.5,1\n")

	provider := NewCSVVariableProvider(testHelper().LoggerHelper, dir)
	_, err := provider.Source("odd")
	require.Error(t, err)

	var format *UnsupportedFormatError
	require.ErrorAs(t, err, &format)
	assert.Contains(t, format.Detail, "yesterday")
}

func TestCSVVariableProviderMissingFile(t *testing.T) {
	provider := NewCSVVariableProvider(testHelper().LoggerHelper, t.TempDir())
	_, err := provider.Source("absent")
	assert.Error(t, err)
}
