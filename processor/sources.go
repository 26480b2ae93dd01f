package processor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JannisHoch/conflict-model/helper"
)

// CSVPolygonProvider reads the polygon collection from a csv file with an
// identifier and a WKT geometry column.
type CSVPolygonProvider struct {
	logger helper.LoggerHelper
	path   string
}

func NewCSVPolygonProvider(l helper.LoggerHelper, path string) *CSVPolygonProvider {
	return &CSVPolygonProvider{logger: l, path: path}
}

func (p *CSVPolygonProvider) Polygons() ([]PolygonUnit, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("opening polygon file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading polygon file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("polygon file %s holds no polygons", p.path)
	}

	units := make([]PolygonUnit, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			return nil, fmt.Errorf("polygon row %v misses identifier or geometry", record)
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad polygon identifier %q: %v", record[0], err)
		}
		geom, err := ParseWKT(record[1])
		if err != nil {
			return nil, fmt.Errorf("polygon %d: %v", id, err)
		}
		units = append(units, PolygonUnit{ID: id, Geometry: geom})
	}
	p.logger.LogAndContinue("Read %d polygons from %s", len(units), p.path)
	return units, nil
}

// CSVVariableProvider serves raster series from <inputDir>/<name>.csv files
// with time, x, y and value columns. The time column decides the encoding:
// numeric values become fractional-year timestamps, date strings become
// native timestamps, and anything else is rejected with the variable name.
type CSVVariableProvider struct {
	logger   helper.LoggerHelper
	inputDir string
}

func NewCSVVariableProvider(l helper.LoggerHelper, inputDir string) *CSVVariableProvider {
	return &CSVVariableProvider{logger: l, inputDir: inputDir}
}

func (p *CSVVariableProvider) Source(name string) (*RasterSeries, error) {
	path := filepath.Join(p.inputDir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening variable file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading variable file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("variable file %s holds no data", path)
	}

	series := &RasterSeries{Name: name}
	frameIndex := make(map[string]int)
	for _, record := range records[1:] {
		if len(record) < 4 {
			return nil, fmt.Errorf("variable row %v misses a field in %s", record, path)
		}

		idx, ok := frameIndex[record[0]]
		if !ok {
			idx = len(series.Frames)
			frameIndex[record[0]] = idx
			series.Frames = append(series.Frames, nil)
			if err := appendTimestamp(series, record[0]); err != nil {
				return nil, err
			}
		}

		x, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad cell coordinate %q in %s: %v", record[1], path, err)
		}
		y, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad cell coordinate %q in %s: %v", record[2], path, err)
		}
		value, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad cell value %q in %s: %v", record[3], path, err)
		}
		series.Frames[idx] = append(series.Frames[idx], RasterCell{Center: Point{X: x, Y: y}, Value: value})
	}
	return series, nil
}

func appendTimestamp(series *RasterSeries, field string) error {
	if v, err := strconv.ParseFloat(field, 64); err == nil {
		if len(series.Timestamps) > 0 {
			return &UnsupportedFormatError{Variable: series.Name, Detail: "mixed numeric and datetime timestamps"}
		}
		series.FloatYears = append(series.FloatYears, v)
		return nil
	}
	if t, err := time.Parse("2006-01-02", field); err == nil {
		if len(series.FloatYears) > 0 {
			return &UnsupportedFormatError{Variable: series.Name, Detail: "mixed numeric and datetime timestamps"}
		}
		series.Timestamps = append(series.Timestamps, t)
		return nil
	}
	return &UnsupportedFormatError{
		Variable: series.Name,
		Detail:   fmt.Sprintf("timestamp %q is neither numeric nor a date", field),
	}
}
