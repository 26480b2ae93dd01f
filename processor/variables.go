package processor

import (
	"fmt"
	"math"
	"time"

	"github.com/JannisHoch/conflict-model/constant"
	"github.com/JannisHoch/conflict-model/helper"
)

// TimeEncoding distinguishes the two supported time axes of a raster series.
type TimeEncoding int

const (
	TimeEncodingUnknown TimeEncoding = iota
	// TimeEncodingFloat marks numeric timestamps: fractional years counted
	// from the calendar origin, e.g. 2014.0 for the start of 2014.
	TimeEncodingFloat
	// TimeEncodingDatetime marks native date/time timestamps.
	TimeEncodingDatetime
)

// RasterCell is one grid cell of a variable frame: its center coordinate and
// value. Nodata cells carry NaN.
type RasterCell struct {
	Center Point
	Value  float64
}

// RasterSeries is one named, time-indexed raster variable. Exactly one of
// FloatYears and Timestamps must be set; each entry of either axis indexes
// the frame at the same position.
type RasterSeries struct {
	Name       string
	FloatYears []float64
	Timestamps []time.Time
	Frames     [][]RasterCell
}

func (s *RasterSeries) timeEncoding() (TimeEncoding, error) {
	switch {
	case len(s.FloatYears) > 0 && len(s.Timestamps) > 0:
		return TimeEncodingUnknown, &UnsupportedFormatError{
			Variable: s.Name,
			Detail:   "both numeric and datetime time axes present",
		}
	case len(s.FloatYears) > 0:
		return TimeEncodingFloat, nil
	case len(s.Timestamps) > 0:
		return TimeEncodingDatetime, nil
	default:
		return TimeEncodingUnknown, &UnsupportedFormatError{
			Variable: s.Name,
			Detail:   "no recognized time axis present",
		}
	}
}

// VariableSourceProvider yields, per configured variable name, a readable
// time-indexed raster series.
type VariableSourceProvider interface {
	Source(name string) (*RasterSeries, error)
}

// VariableReader reduces one raster variable to a single scalar per polygon
// per simulation year. Reduced vectors are cached per (variable, year) so a
// re-assembly within the same process does not re-read the source.
type VariableReader struct {
	logger    helper.LoggerHelper
	cache     helper.CacheHelper
	assert    helper.TypeAssertHelper
	provider  VariableSourceProvider
	reduction string
}

func NewVariableReader(l helper.LoggerHelper, c helper.CacheHelper, t helper.TypeAssertHelper, p VariableSourceProvider, reduction string) *VariableReader {
	return &VariableReader{
		logger:    l,
		cache:     c,
		assert:    t,
		provider:  p,
		reduction: reduction,
	}
}

// Read returns one scalar per polygon, in polygon order, for the given
// variable and year. The series' time encoding decides the extraction
// strategy; an unrecognized encoding is fatal and names the variable.
func (r *VariableReader) Read(name string, year int, polys []PolygonUnit) ([]float64, error) {
	key := fmt.Sprintf("%s@%d", name, year)
	if cached := r.cache.Get(key); cached != nil {
		return r.assert.Float64Slice(cached), nil
	}

	series, err := r.provider.Source(name)
	if err != nil {
		return nil, fmt.Errorf("reading variable %s: %w", name, err)
	}

	encoding, err := series.timeEncoding()
	if err != nil {
		return nil, err
	}

	var frame []RasterCell
	switch encoding {
	case TimeEncodingFloat:
		frame = frameWithFloatTimestamp(series, year)
	case TimeEncodingDatetime:
		frame = frameWithDatetimeTimestamp(series, year)
	}

	values := make([]float64, len(polys))
	if frame == nil {
		r.logger.LogAndContinue("No %s frame found for year %d, filling with missing values", name, year)
		for i := range values {
			values[i] = math.NaN()
		}
		r.cache.Set(key, values)
		return values, nil
	}

	for i, p := range polys {
		values[i] = reduceCells(frame, p.Geometry, r.reduction)
	}
	r.cache.Set(key, values)
	return values, nil
}

// frameWithFloatTimestamp picks the first frame whose fractional-year
// timestamp falls inside the requested calendar year.
func frameWithFloatTimestamp(s *RasterSeries, year int) []RasterCell {
	for i, t := range s.FloatYears {
		if int(math.Floor(t)) == year {
			return s.Frames[i]
		}
	}
	return nil
}

func frameWithDatetimeTimestamp(s *RasterSeries, year int) []RasterCell {
	for i, t := range s.Timestamps {
		if t.Year() == year {
			return s.Frames[i]
		}
	}
	return nil
}

// reduceCells aggregates all non-missing cells whose centers fall inside the
// polygon. A footprint without valid cells yields NaN, which the missing-row
// drop removes later.
func reduceCells(frame []RasterCell, geom Polygon, reduction string) float64 {
	var acc float64
	count := 0
	switch reduction {
	case constant.ReductionMax:
		acc = math.Inf(-1)
	case constant.ReductionMin:
		acc = math.Inf(1)
	}

	for _, cell := range frame {
		if math.IsNaN(cell.Value) || !geom.Contains(cell.Center) {
			continue
		}
		switch reduction {
		case constant.ReductionMax:
			acc = math.Max(acc, cell.Value)
		case constant.ReductionMin:
			acc = math.Min(acc, cell.Value)
		default:
			acc += cell.Value
		}
		count++
	}

	if count == 0 {
		return math.NaN()
	}
	if reduction == constant.ReductionMean {
		return acc / float64(count)
	}
	return acc
}
