package processor

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/JannisHoch/conflict-model/constant"
	"github.com/JannisHoch/conflict-model/helper"
)

// SampleMatrix is the assembled table of one row per (polygon, year) pair.
// Identifier and geometry are carried beside the numeric block and index the
// same rows at all times. In reference mode the label is the last numeric
// column.
type SampleMatrix struct {
	Columns  []string
	IDs      []int64
	Geometry []Polygon
	Data     [][]float64
	HasLabel bool
}

func (m *SampleMatrix) Rows() int {
	return len(m.Data)
}

// columnProducer yields the per-polygon values of one numeric column for a
// simulation year. One implementation exists per column kind.
type columnProducer interface {
	name() string
	produce(year int) ([]float64, error)
}

type variableColumn struct {
	variable string
	reader   *VariableReader
	polys    []PolygonUnit
}

func (c *variableColumn) name() string { return c.variable }

func (c *variableColumn) produce(year int) ([]float64, error) {
	return c.reader.Read(c.variable, year, c.polys)
}

type selfLagColumn struct {
	lookup *ConflictLookup
}

func (c *selfLagColumn) name() string { return constant.ColumnConflictTMin1 }

func (c *selfLagColumn) produce(year int) ([]float64, error) {
	return c.lookup.ConflictInPreviousYear(year), nil
}

type neighborLagColumn struct {
	lookup *ConflictLookup
	matrix *AdjacencyMatrix
}

func (c *neighborLagColumn) name() string { return constant.ColumnConflictNb }

func (c *neighborLagColumn) produce(year int) ([]float64, error) {
	return c.lookup.ConflictInPreviousYearNeighbors(year, c.matrix), nil
}

type labelColumn struct {
	lookup *ConflictLookup
}

func (c *labelColumn) name() string { return constant.ColumnConflict }

func (c *labelColumn) produce(year int) ([]float64, error) {
	return c.lookup.ConflictInYearBool(year), nil
}

type projectedLagColumn struct {
	name_  string
	lookup *ConflictLookup
	matrix *AdjacencyMatrix
	state  map[int64]bool
}

func (c *projectedLagColumn) name() string { return c.name_ }

func (c *projectedLagColumn) produce(int) ([]float64, error) {
	return c.lookup.ReadProjectedConflict(c.state, c.matrix), nil
}

// SampleMatrixAssembler walks the configured year range and fills the sample
// store column by column. The column layout is fixed up front from the
// configured variable list, and storage is sized to the known final row
// count, so any producer returning the wrong number of values is caught
// immediately.
type SampleMatrixAssembler struct {
	logger helper.LoggerHelper
	cfg    *Config
	polys  []PolygonUnit
	lookup *ConflictLookup
	reader *VariableReader
	matrix *AdjacencyMatrix
}

func NewSampleMatrixAssembler(l helper.LoggerHelper, cfg *Config, polys []PolygonUnit, lookup *ConflictLookup, reader *VariableReader, matrix *AdjacencyMatrix) *SampleMatrixAssembler {
	return &SampleMatrixAssembler{
		logger: l,
		cfg:    cfg,
		polys:  polys,
		lookup: lookup,
		reader: reader,
		matrix: matrix,
	}
}

func (a *SampleMatrixAssembler) referenceProducers() []columnProducer {
	producers := make([]columnProducer, 0, len(a.cfg.Variables)+3)
	for _, v := range a.cfg.Variables {
		producers = append(producers, &variableColumn{variable: v, reader: a.reader, polys: a.polys})
	}
	producers = append(producers,
		&selfLagColumn{lookup: a.lookup},
		&neighborLagColumn{lookup: a.lookup, matrix: a.matrix},
		&labelColumn{lookup: a.lookup},
	)
	return producers
}

// AssembleReference builds the full reference-mode matrix. The first
// simulation year only seeds the lag features and contributes no row.
func (a *SampleMatrixAssembler) AssembleReference() (*SampleMatrix, error) {
	a.logger.LogAndContinue("Reading data for period from %d to %d", a.cfg.YearStart, a.cfg.YearEnd)

	producers := a.referenceProducers()
	matrix := a.initMatrix(producers, (a.cfg.YearEnd-a.cfg.YearStart)*len(a.polys))
	matrix.HasLabel = true

	for year := a.cfg.YearStart; year <= a.cfg.YearEnd; year++ {
		if year == a.cfg.YearStart {
			a.logger.LogAndContinue("Skipping first year %d to start up model", year)
			continue
		}
		if a.cfg.Verbose {
			a.logger.LogAndContinue("Entering year %d", year)
		}
		if err := a.appendYear(matrix, producers, year); err != nil {
			return nil, err
		}
	}

	a.logger.LogAndContinue("All data read")
	return matrix, nil
}

// AssembleProjection builds the single-year forecast matrix. Lag columns come
// from the externally supplied previous-year state, and no label column is
// produced.
func (a *SampleMatrixAssembler) AssembleProjection(projYear int, projected map[int64]bool) (*SampleMatrix, error) {
	if projYear == 0 {
		return nil, &ConfigurationError{
			Key:    constant.EnvProjectionYear,
			Reason: "a projection year must be specified in projection mode",
		}
	}
	a.logger.LogAndContinue("Entering projection year %d", projYear)

	producers := make([]columnProducer, 0, len(a.cfg.Variables)+2)
	for _, v := range a.cfg.Variables {
		producers = append(producers, &variableColumn{variable: v, reader: a.reader, polys: a.polys})
	}
	producers = append(producers,
		&projectedLagColumn{name_: constant.ColumnConflictTMin1, lookup: a.lookup, state: projected},
		&projectedLagColumn{name_: constant.ColumnConflictNb, lookup: a.lookup, matrix: a.matrix, state: projected},
	)

	matrix := a.initMatrix(producers, len(a.polys))
	if err := a.appendYear(matrix, producers, projYear); err != nil {
		return nil, err
	}

	a.logger.LogAndContinue("All data read")
	return matrix, nil
}

func (a *SampleMatrixAssembler) initMatrix(producers []columnProducer, rows int) *SampleMatrix {
	columns := make([]string, len(producers))
	for i, p := range producers {
		columns[i] = p.name()
	}
	if a.cfg.Verbose {
		a.logger.LogAndContinue("The columns in the sample matrix used are: %s, %s, %v",
			constant.ColumnPolyID, constant.ColumnPolyGeometry, columns)
	}
	return &SampleMatrix{
		Columns:  columns,
		IDs:      make([]int64, 0, rows),
		Geometry: make([]Polygon, 0, rows),
		Data:     make([][]float64, 0, rows),
	}
}

// appendYear grows every column by exactly one value per polygon. A producer
// returning any other count is an internal consistency failure.
func (a *SampleMatrixAssembler) appendYear(matrix *SampleMatrix, producers []columnProducer, year int) error {
	n := len(a.polys)
	block := make([][]float64, len(producers))
	for i, p := range producers {
		values, err := p.produce(year)
		if err != nil {
			return err
		}
		if len(values) != n {
			return &DataConsistencyError{
				Detail: fmt.Sprintf("column %s grew by %d values in year %d, want %d", p.name(), len(values), year, n),
			}
		}
		block[i] = values
	}

	for row := 0; row < n; row++ {
		matrix.IDs = append(matrix.IDs, a.polys[row].ID)
		matrix.Geometry = append(matrix.Geometry, a.polys[row].Geometry)
		record := make([]float64, len(producers))
		for col := range producers {
			record[col] = block[col][row]
		}
		matrix.Data = append(matrix.Data, record)
	}
	return nil
}

// DropMissing removes every row holding at least one NaN. Partial feature
// rows are unusable, so they leave the analysis entirely rather than being
// imputed.
func (m *SampleMatrix) DropMissing(logger helper.LoggerHelper, verbose bool) *SampleMatrix {
	if verbose {
		logger.LogAndContinue("Number of data points including missing values: %d", m.Rows())
	}

	kept := &SampleMatrix{
		Columns:  m.Columns,
		HasLabel: m.HasLabel,
	}
	for i, row := range m.Data {
		missing := false
		for _, v := range row {
			if math.IsNaN(v) {
				missing = true
				break
			}
		}
		if missing {
			continue
		}
		kept.IDs = append(kept.IDs, m.IDs[i])
		kept.Geometry = append(kept.Geometry, m.Geometry[i])
		kept.Data = append(kept.Data, row)
	}

	if verbose {
		logger.LogAndContinue("Number of data points excluding missing values: %d", kept.Rows())
	}
	return kept
}

// SaveCSV persists the matrix so a later run can skip reassembly. Geometry is
// written as WKT; floats use the shortest exact representation, so reloading
// reproduces the values bit for bit.
func (m *SampleMatrix) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving sample matrix: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{constant.ColumnPolyID, constant.ColumnPolyGeometry}, m.Columns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("saving sample matrix: %w", err)
	}

	record := make([]string, len(header))
	for i, row := range m.Data {
		record[0] = strconv.FormatInt(m.IDs[i], 10)
		record[1] = m.Geometry[i].WKT()
		for j, v := range row {
			record[j+2] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("saving sample matrix: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// LoadSampleMatrixCSV reads a matrix persisted by SaveCSV. Whether the last
// column is a label is decided by its name.
func LoadSampleMatrixCSV(path string) (*SampleMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading sample matrix: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loading sample matrix: %w", err)
	}
	if len(records) == 0 || len(records[0]) < 3 {
		return nil, fmt.Errorf("loading sample matrix: %s holds no usable header", path)
	}

	header := records[0]
	m := &SampleMatrix{
		Columns:  header[2:],
		HasLabel: header[len(header)-1] == constant.ColumnConflict,
	}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			return nil, &DataConsistencyError{
				Detail: fmt.Sprintf("row with %d fields in %s, want %d", len(record), path, len(header)),
			}
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("loading sample matrix: bad identifier %q: %v", record[0], err)
		}
		geom, err := ParseWKT(record[1])
		if err != nil {
			return nil, fmt.Errorf("loading sample matrix: %v", err)
		}
		row := make([]float64, len(record)-2)
		for j, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("loading sample matrix: bad value %q: %v", field, err)
			}
			row[j] = v
		}
		m.IDs = append(m.IDs, id)
		m.Geometry = append(m.Geometry, geom)
		m.Data = append(m.Data, row)
	}
	return m, nil
}
