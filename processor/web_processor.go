package processor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JannisHoch/conflict-model/helper"
)

type WebProcessor interface {
	HandleReferenceRunRequest(c echo.Context) error
	HandleProjectionRequest(c echo.Context) error
}

type WebProcessorImpl struct {
	logger helper.LoggerHelper
	runner RunProcessor
}

func NewWebProcessor(l helper.LoggerHelper, runner RunProcessor) WebProcessor {
	return &WebProcessorImpl{
		logger: l,
		runner: runner,
	}
}

type runResponse struct {
	Message         string             `json:"message"`
	Runs            []RunMetrics       `json:"runs"`
	MeanMetrics     map[string]float64 `json:"mean_metrics"`
	PolygonAccuracy []PolygonAccuracy  `json:"polygon_accuracy"`
}

type errorResponse struct {
	Err        string `json:"error"`
	StatusCode int    `json:"status_code"`
	Timestamp  int64  `json:"timestamp"`
}

// HandleReferenceRunRequest runs the reference evaluation. The environment
// supplies the configuration; a few form values may override it per request.
func (p *WebProcessorImpl) HandleReferenceRunRequest(c echo.Context) error {
	p.logger.LogAndContinue("Start Processing Reference Run Request")
	start := time.Now()

	cfg, err := p.requestConfig(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Err:        err.Error(),
			StatusCode: http.StatusUnprocessableEntity,
			Timestamp:  time.Now().Unix(),
		})
	}

	eval, err := p.runner.ReferenceRun(cfg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Err:        err.Error(),
			StatusCode: http.StatusInternalServerError,
			Timestamp:  time.Now().Unix(),
		})
	}

	p.logger.LogAndContinue("Done Processing Reference Run Request")
	return c.JSON(http.StatusOK, runResponse{
		Message:         "Evaluation Done. Time Taken: " + strconv.FormatInt(time.Since(start).Milliseconds(), 10) + "ms",
		Runs:            eval.Runs,
		MeanMetrics:     eval.Mean,
		PolygonAccuracy: eval.Accuracy,
	})
}

type projectionResponse struct {
	Message     string              `json:"message"`
	Predictions []PolygonPrediction `json:"predictions"`
}

// HandleProjectionRequest runs the forecast for the configured projection
// year, seeding the lag features from the last historical year.
func (p *WebProcessorImpl) HandleProjectionRequest(c echo.Context) error {
	p.logger.LogAndContinue("Start Processing Projection Request")
	start := time.Now()

	cfg, err := p.requestConfig(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Err:        err.Error(),
			StatusCode: http.StatusUnprocessableEntity,
			Timestamp:  time.Now().Unix(),
		})
	}
	if yearValue := c.FormValue("projection_year"); yearValue != "" {
		cfg.ProjectionYear, err = strconv.Atoi(yearValue)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{
				Err:        "Projection Year is not a valid number",
				StatusCode: http.StatusUnprocessableEntity,
				Timestamp:  time.Now().Unix(),
			})
		}
	}

	predictions, err := p.runner.ProjectionRun(cfg, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Err:        err.Error(),
			StatusCode: http.StatusInternalServerError,
			Timestamp:  time.Now().Unix(),
		})
	}

	p.logger.LogAndContinue("Done Processing Projection Request")
	return c.JSON(http.StatusOK, projectionResponse{
		Message:     "Projection Done. Time Taken: " + strconv.FormatInt(time.Since(start).Milliseconds(), 10) + "ms",
		Predictions: predictions,
	})
}

// requestConfig loads the environment configuration and applies the request
// overrides, re-validating the result.
func (p *WebProcessorImpl) requestConfig(c echo.Context) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if v := c.FormValue("scaler"); v != "" {
		cfg.ScalerName = v
	}
	if v := c.FormValue("model"); v != "" {
		cfg.ModelName = v
	}
	if v := c.FormValue("n_runs"); v != "" {
		if cfg.RunCount, err = strconv.Atoi(v); err != nil {
			return nil, &ConfigurationError{Key: "n_runs", Reason: "not a valid number"}
		}
	}
	if v := c.FormValue("train_fraction"); v != "" {
		if cfg.TrainFraction, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, &ConfigurationError{Key: "train_fraction", Reason: "not a valid number"}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
