package processor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JannisHoch/conflict-model/constant"
)

// Config carries every model setting as a typed value. It is loaded once from
// the environment and validated before any data is read.
type Config struct {
	YearStart      int
	YearEnd        int
	IDColumn       string
	Variables      []string
	ScalerName     string
	ModelName      string
	TrainFraction  float64
	RunCount       int
	Verbose        bool
	Reduction      string
	PrecalcMatrix  string
	OutputDir      string
	ProjectionYear int
	EstimatorCount int
	NeighborCount  int
	RandomSeed     uint64
}

// LoadConfig reads the model settings from the environment, applying defaults
// where a key is optional. Validation failures surface as ConfigurationError
// before anything else happens.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		IDColumn:       envOr(constant.EnvIDColumn, "watprovID"),
		ScalerName:     envOr(constant.EnvScaler, constant.ScalerMinMax),
		ModelName:      envOr(constant.EnvModel, constant.ModelKNeighbors),
		Reduction:      envOr(constant.EnvReduction, constant.ReductionMean),
		PrecalcMatrix:  os.Getenv(constant.EnvPrecalcMatrix),
		OutputDir:      envOr(constant.EnvOutputDir, "output"),
		Verbose:        os.Getenv(constant.EnvVerbose) == "true",
		EstimatorCount: 1000,
		NeighborCount:  10,
		RandomSeed:     42,
	}

	var err error
	if cfg.YearStart, err = envInt(constant.EnvYearStart); err != nil {
		return nil, err
	}
	if cfg.YearEnd, err = envInt(constant.EnvYearEnd); err != nil {
		return nil, err
	}
	if cfg.RunCount, err = envIntOr(constant.EnvRunCount, 10); err != nil {
		return nil, err
	}
	if cfg.TrainFraction, err = envFloatOr(constant.EnvTrainFraction, 0.7); err != nil {
		return nil, err
	}
	if cfg.ProjectionYear, err = envIntOr(constant.EnvProjectionYear, 0); err != nil {
		return nil, err
	}
	if cfg.EstimatorCount, err = envIntOr(constant.EnvEstimatorCount, 1000); err != nil {
		return nil, err
	}
	if cfg.NeighborCount, err = envIntOr(constant.EnvNeighborCount, 10); err != nil {
		return nil, err
	}
	seed, err := envIntOr(constant.EnvRandomSeed, 42)
	if err != nil {
		return nil, err
	}
	cfg.RandomSeed = uint64(seed)

	raw := os.Getenv(constant.EnvVariables)
	if raw == "" {
		return nil, &ConfigurationError{Key: constant.EnvVariables, Reason: "at least one variable source must be configured"}
	}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			cfg.Variables = append(cfg.Variables, name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.YearEnd <= c.YearStart {
		return &ConfigurationError{
			Key:    constant.EnvYearEnd,
			Reason: fmt.Sprintf("year range [%d, %d] must span at least two years", c.YearStart, c.YearEnd),
		}
	}
	if len(c.Variables) == 0 {
		return &ConfigurationError{Key: constant.EnvVariables, Reason: "at least one variable source must be configured"}
	}
	switch c.ScalerName {
	case constant.ScalerMinMax, constant.ScalerStandard, constant.ScalerRobust, constant.ScalerQuantile:
	default:
		return &ConfigurationError{
			Key:    constant.EnvScaler,
			Reason: fmt.Sprintf("no supported scaling-algorithm selected (%s) - choose between MinMaxScaler, StandardScaler, RobustScaler or QuantileTransformer", c.ScalerName),
		}
	}
	switch c.ModelName {
	case constant.ModelNuSVC, constant.ModelKNeighbors, constant.ModelRF:
	default:
		return &ConfigurationError{
			Key:    constant.EnvModel,
			Reason: fmt.Sprintf("no supported ML model selected (%s) - choose between NuSVC, KNeighborsClassifier or RFClassifier", c.ModelName),
		}
	}
	switch c.Reduction {
	case constant.ReductionMean, constant.ReductionMax, constant.ReductionMin, constant.ReductionSum:
	default:
		return &ConfigurationError{
			Key:    constant.EnvReduction,
			Reason: fmt.Sprintf("no supported reduction selected (%s) - choose between mean, max, min or sum", c.Reduction),
		}
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return &ConfigurationError{
			Key:    constant.EnvTrainFraction,
			Reason: fmt.Sprintf("train fraction %g must lie strictly between 0 and 1", c.TrainFraction),
		}
	}
	if c.RunCount < 1 {
		return &ConfigurationError{
			Key:    constant.EnvRunCount,
			Reason: fmt.Sprintf("run count %d must be at least 1", c.RunCount),
		}
	}
	return nil
}

// FeatureColumns lists the numeric columns of the sample matrix in their
// fixed order: the configured variables, then the self-lag, then the
// neighbor-lag. The label column is appended separately in reference mode.
func (c *Config) FeatureColumns() []string {
	cols := make([]string, 0, len(c.Variables)+2)
	cols = append(cols, c.Variables...)
	cols = append(cols, constant.ColumnConflictTMin1, constant.ColumnConflictNb)
	return cols
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, &ConfigurationError{Key: key, Reason: "required setting is missing"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("%q is not a valid number", v)}
	}
	return n, nil
}

func envIntOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("%q is not a valid number", v)}
	}
	return n, nil
}

func envFloatOr(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: fmt.Sprintf("%q is not a valid number", v)}
	}
	return f, nil
}
