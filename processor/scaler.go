package processor

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/JannisHoch/conflict-model/constant"
)

// Scaler is the numeric-transform capability fitted on feature columns only.
// Identifier, geometry and label columns never pass through it.
type Scaler interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
	FitTransform(X [][]float64) ([][]float64, error)
}

// DefineScaling instantiates the configured scaling method. An unrecognized
// name is a configuration error, surfaced before anything is computed.
func DefineScaling(cfg *Config) (Scaler, error) {
	switch cfg.ScalerName {
	case constant.ScalerMinMax:
		return &minMaxScaler{}, nil
	case constant.ScalerStandard:
		return &standardScaler{}, nil
	case constant.ScalerRobust:
		return &robustScaler{}, nil
	case constant.ScalerQuantile:
		return &quantileTransformer{}, nil
	default:
		return nil, &ConfigurationError{
			Key:    constant.EnvScaler,
			Reason: fmt.Sprintf("no supported scaling-algorithm selected (%s) - choose between MinMaxScaler, StandardScaler, RobustScaler or QuantileTransformer", cfg.ScalerName),
		}
	}
}

func checkFit(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return &DataConsistencyError{Detail: "cannot fit scaler on an empty matrix"}
	}
	return nil
}

func column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i := range X {
		col[i] = X[i][j]
	}
	return col
}

type minMaxScaler struct {
	min []float64
	max []float64
}

func (s *minMaxScaler) Fit(X [][]float64) error {
	if err := checkFit(X); err != nil {
		return err
	}
	cols := len(X[0])
	s.min = make([]float64, cols)
	s.max = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := column(X, j)
		s.min[j] = col[0]
		s.max[j] = col[0]
		for _, v := range col {
			if v < s.min[j] {
				s.min[j] = v
			}
			if v > s.max[j] {
				s.max[j] = v
			}
		}
	}
	return nil
}

func (s *minMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.min == nil {
		return nil, fmt.Errorf("scaler used before fitting")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			span := s.max[j] - s.min[j]
			if span == 0 {
				out[i][j] = 0
				continue
			}
			out[i][j] = (v - s.min[j]) / span
		}
	}
	return out, nil
}

func (s *minMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

type standardScaler struct {
	mean   []float64
	stddev []float64
}

func (s *standardScaler) Fit(X [][]float64) error {
	if err := checkFit(X); err != nil {
		return err
	}
	cols := len(X[0])
	s.mean = make([]float64, cols)
	s.stddev = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := column(X, j)
		s.mean[j], s.stddev[j] = stat.MeanStdDev(col, nil)
	}
	return nil
}

func (s *standardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("scaler used before fitting")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if s.stddev[j] == 0 {
				out[i][j] = 0
				continue
			}
			out[i][j] = (v - s.mean[j]) / s.stddev[j]
		}
	}
	return out, nil
}

func (s *standardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// robustScaler centers on the median and scales by the interquartile range,
// so outlier rows do not dominate the transform.
type robustScaler struct {
	median []float64
	iqr    []float64
}

func (s *robustScaler) Fit(X [][]float64) error {
	if err := checkFit(X); err != nil {
		return err
	}
	cols := len(X[0])
	s.median = make([]float64, cols)
	s.iqr = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := column(X, j)
		sort.Float64s(col)
		s.median[j] = stat.Quantile(0.5, stat.Empirical, col, nil)
		s.iqr[j] = stat.Quantile(0.75, stat.Empirical, col, nil) - stat.Quantile(0.25, stat.Empirical, col, nil)
	}
	return nil
}

func (s *robustScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.median == nil {
		return nil, fmt.Errorf("scaler used before fitting")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if s.iqr[j] == 0 {
				out[i][j] = 0
				continue
			}
			out[i][j] = (v - s.median[j]) / s.iqr[j]
		}
	}
	return out, nil
}

func (s *robustScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// quantileTransformer maps each value to its empirical cumulative rank in
// the fitted column, yielding a uniform [0,1] distribution.
type quantileTransformer struct {
	sorted [][]float64
}

func (s *quantileTransformer) Fit(X [][]float64) error {
	if err := checkFit(X); err != nil {
		return err
	}
	cols := len(X[0])
	s.sorted = make([][]float64, cols)
	for j := 0; j < cols; j++ {
		col := column(X, j)
		sort.Float64s(col)
		s.sorted[j] = col
	}
	return nil
}

func (s *quantileTransformer) Transform(X [][]float64) ([][]float64, error) {
	if s.sorted == nil {
		return nil, fmt.Errorf("scaler used before fitting")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			ref := s.sorted[j]
			rank := sort.SearchFloat64s(ref, v)
			// values above the fitted range saturate at 1
			if len(ref) > 1 {
				out[i][j] = float64(rank) / float64(len(ref)-1)
			}
			if out[i][j] > 1 {
				out[i][j] = 1
			}
		}
	}
	return out, nil
}

func (s *quantileTransformer) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
