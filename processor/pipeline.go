package processor

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"

	"github.com/JannisHoch/conflict-model/helper"
)

// Pipeline runs the model end to end: assemble the sample matrix, prepare
// the capabilities, evaluate over repeated splits, aggregate per polygon.
type Pipeline struct {
	logger    helper.LoggerHelper
	cfg       *Config
	polys     []PolygonUnit
	lookup    *ConflictLookup
	reader    *VariableReader
	matrix    *AdjacencyMatrix
	assembler *SampleMatrixAssembler
}

// NewPipeline wires the collaborators for one model run. The adjacency
// matrix is computed here, once, and shared read-only from then on.
func NewPipeline(l helper.LoggerHelper, cfg *Config, polys []PolygonUnit, events []ConflictEvent, reader *VariableReader) (*Pipeline, error) {
	if cfg.Verbose {
		l.LogAndContinue("Determining matrix with neighboring polygons")
	}
	matrix, err := NewAdjacencyMatrix(polys)
	if err != nil {
		return nil, err
	}

	lookup := NewConflictLookup(events, polys)
	return &Pipeline{
		logger:    l,
		cfg:       cfg,
		polys:     polys,
		lookup:    lookup,
		reader:    reader,
		matrix:    matrix,
		assembler: NewSampleMatrixAssembler(l, cfg, polys, lookup, reader, matrix),
	}, nil
}

func (p *Pipeline) AdjacencyMatrix() *AdjacencyMatrix {
	return p.matrix
}

// CreateXY returns the feature matrix and label vector for reference mode.
// When a precomputed artifact is configured it is reloaded instead of
// reassembled; a fresh assembly is persisted for later reuse.
func (p *Pipeline) CreateXY() (*SampleMatrix, []int, error) {
	var matrix *SampleMatrix
	var err error

	if p.cfg.PrecalcMatrix != "" {
		p.logger.LogAndContinue("Loading XY data from file %s", p.cfg.PrecalcMatrix)
		matrix, err = LoadSampleMatrixCSV(p.cfg.PrecalcMatrix)
		if err != nil {
			return nil, nil, err
		}
	} else {
		matrix, err = p.assembler.AssembleReference()
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(p.cfg.OutputDir, "XY.csv")
		p.logger.LogAndContinue("Saving XY data by default to file %s", path)
		if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating output dir: %w", err)
		}
		if err := matrix.SaveCSV(path); err != nil {
			return nil, nil, err
		}
	}

	matrix = matrix.DropMissing(p.logger, p.cfg.Verbose)

	features, labels, err := SplitXY(matrix)
	if err != nil {
		return nil, nil, err
	}

	if p.cfg.Verbose {
		conflicts := 0
		for _, y := range labels {
			if y != 0 {
				conflicts++
			}
		}
		share := 100 * float64(conflicts) / float64(len(labels))
		p.logger.LogAndContinue("A fraction of %v percent in the data corresponds to conflicts", round3(share))
	}
	return features, labels, nil
}

// CreateX returns the unlabeled feature matrix for one projection year,
// with lag columns derived from the supplied projected conflict state.
func (p *Pipeline) CreateX(projected map[int64]bool) (*SampleMatrix, error) {
	matrix, err := p.assembler.AssembleProjection(p.cfg.ProjectionYear, projected)
	if err != nil {
		return nil, err
	}
	return matrix.DropMissing(p.logger, p.cfg.Verbose), nil
}

// PrepareML instantiates scaler and classifier from the configuration. Both
// factories run here so unsupported choices fail before any run executes.
func PrepareML(cfg *Config) (Scaler, Classifier, error) {
	scaler, err := DefineScaling(cfg)
	if err != nil {
		return nil, nil, err
	}
	clf, err := DefineModel(cfg)
	if err != nil {
		return nil, nil, err
	}
	return scaler, clf, nil
}

// Evaluation is the outcome of a reference run: per-run metrics, the union
// of test predictions, and the per-polygon accuracy aggregate.
type Evaluation struct {
	Runs        []RunMetrics
	Predictions []TestPrediction
	Accuracy    []PolygonAccuracy
	Mean        map[string]float64
}

// RunReference executes the repeated-evaluation loop. Every run draws a
// fresh random partition and fits its own scaler and classifier state; a fit
// or predict failure aborts the whole evaluation.
func (p *Pipeline) RunReference(features *SampleMatrix, labels []int) (*Evaluation, error) {
	if _, _, err := PrepareML(p.cfg); err != nil {
		return nil, err
	}

	ids, geoms, numeric, err := SplitColumns(features)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.cfg.RandomSeed))
	eval := &Evaluation{}

	for run := 0; run < p.cfg.RunCount; run++ {
		if p.cfg.Verbose {
			p.logger.LogAndContinue("Run %d of %d", run+1, p.cfg.RunCount)
		}

		scaler, clf, err := PrepareML(p.cfg)
		if err != nil {
			return nil, err
		}

		scaled, err := scaler.FitTransform(numeric)
		if err != nil {
			return nil, &RunFailure{Run: run + 1, Err: err}
		}

		train, test, err := TrainTestSplit(rng, ids, geoms, scaled, labels, p.cfg.TrainFraction)
		if err != nil {
			return nil, err
		}

		if err := clf.Fit(train.X, train.Y); err != nil {
			return nil, &RunFailure{Run: run + 1, Err: err}
		}
		yPred := clf.Predict(test.X)
		yProb := clf.PredictProba(test.X)

		metrics, err := EvaluatePrediction(test.Y, yPred, yProb)
		if err != nil {
			return nil, &RunFailure{Run: run + 1, Err: err}
		}
		eval.Runs = append(eval.Runs, metrics)

		for i := range test.Y {
			eval.Predictions = append(eval.Predictions, TestPrediction{
				ID:          test.IDs[i],
				Geometry:    test.Geometry[i],
				YTest:       test.Y[i],
				YPred:       yPred[i],
				Probability: yProb[i],
				Hit:         yPred[i] == test.Y[i],
			})
		}
	}

	eval.Accuracy = PolygonModelAccuracy(eval.Predictions)
	eval.Mean = MeanMetrics(eval.Runs)
	if p.cfg.Verbose {
		for key, value := range eval.Mean {
			p.logger.LogAndContinue("Average %s of run with %d repetitions is %v", key, p.cfg.RunCount, round3(value))
		}
	}
	return eval, nil
}

// PolygonPrediction is the projection-mode output: the conflict probability
// per polygon for the projection year.
type PolygonPrediction struct {
	ID          int64
	Geometry    Polygon
	Prediction  int
	Probability float64
}

// RunProjection applies an already fitted classifier to the projection
// matrix. The scaler is fitted on the projection features, mirroring the
// reference flow.
func (p *Pipeline) RunProjection(features *SampleMatrix, scaler Scaler, clf Classifier) ([]PolygonPrediction, error) {
	ids, geoms, numeric, err := SplitColumns(features)
	if err != nil {
		return nil, err
	}

	scaled, err := scaler.FitTransform(numeric)
	if err != nil {
		return nil, err
	}

	yPred := clf.Predict(scaled)
	yProb := clf.PredictProba(scaled)

	out := make([]PolygonPrediction, len(ids))
	for i := range ids {
		out[i] = PolygonPrediction{
			ID:          ids[i],
			Geometry:    geoms[i],
			Prediction:  yPred[i],
			Probability: yProb[i],
		}
	}
	return out, nil
}
