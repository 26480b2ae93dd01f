package processor

import (
	"github.com/JannisHoch/conflict-model/helper"
)

// RunProcessor executes complete model runs against the configured
// collaborators. It backs both the web handlers and the batch entry point.
type RunProcessor interface {
	ReferenceRun(cfg *Config) (*Evaluation, error)
	ProjectionRun(cfg *Config, projected map[int64]bool) ([]PolygonPrediction, error)
}

type RunProcessorImpl struct {
	logger    helper.LoggerHelper
	cache     helper.CacheHelper
	assert    helper.TypeAssertHelper
	conflicts ConflictProvider
	polys     PolygonProvider
	sources   VariableSourceProvider
}

func NewRunProcessor(h helper.Helper, conflicts ConflictProvider, polys PolygonProvider, sources VariableSourceProvider) RunProcessor {
	return &RunProcessorImpl{
		logger:    h.LoggerHelper,
		cache:     h.CacheHelper,
		assert:    h.TypeAssertHelper,
		conflicts: conflicts,
		polys:     polys,
		sources:   sources,
	}
}

func (p *RunProcessorImpl) pipeline(cfg *Config) (*Pipeline, error) {
	// unsupported capability choices must surface before any file is read
	if _, _, err := PrepareML(cfg); err != nil {
		return nil, err
	}

	polys, err := p.polys.Polygons()
	if err != nil {
		return nil, err
	}
	events, err := p.conflicts.Events(cfg.YearStart-1, cfg.YearEnd)
	if err != nil {
		return nil, err
	}

	reader := NewVariableReader(p.logger, p.cache, p.assert, p.sources, cfg.Reduction)
	return NewPipeline(p.logger, cfg, polys, events, reader)
}

// ReferenceRun assembles (or reloads) the sample matrix and executes the
// repeated-evaluation loop against historical ground truth.
func (p *RunProcessorImpl) ReferenceRun(cfg *Config) (*Evaluation, error) {
	pipeline, err := p.pipeline(cfg)
	if err != nil {
		return nil, err
	}

	features, labels, err := pipeline.CreateXY()
	if err != nil {
		return nil, err
	}
	return pipeline.RunReference(features, labels)
}

// ProjectionRun fits the configured classifier on the full historical data,
// then predicts the projection year from the supplied conflict state. A nil
// state falls back to the observed conflicts of the last historical year.
func (p *RunProcessorImpl) ProjectionRun(cfg *Config, projected map[int64]bool) ([]PolygonPrediction, error) {
	pipeline, err := p.pipeline(cfg)
	if err != nil {
		return nil, err
	}
	if projected == nil {
		projected = pipeline.lookup.ConflictInYear(cfg.YearEnd)
	}

	features, labels, err := pipeline.CreateXY()
	if err != nil {
		return nil, err
	}

	scaler, clf, err := PrepareML(cfg)
	if err != nil {
		return nil, err
	}
	_, _, numeric, err := SplitColumns(features)
	if err != nil {
		return nil, err
	}
	scaled, err := scaler.FitTransform(numeric)
	if err != nil {
		return nil, err
	}
	if err := clf.Fit(scaled, labels); err != nil {
		return nil, &RunFailure{Run: 1, Err: err}
	}

	projection, err := pipeline.CreateX(projected)
	if err != nil {
		return nil, err
	}
	return pipeline.RunProjection(projection, scaler, clf)
}
