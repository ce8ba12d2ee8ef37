// Package pipeline orchestrates a principal component run end to end:
// read, clean, standardize, decompose, select, project, export.
//
// # Overview
//
// A Pipeline is built from a validated PipelineConfig and executed with
// Run. Each stage hands a typed value to the next:
//   - Source: parse the configured CSV into a dataframe
//   - Clean: extract identifiers and a numeric matrix
//   - Standardize: zero mean, unit sample variance per column
//   - Decompose: singular value decomposition of the standardized data
//   - Select: retain components by cumulative variance or Kaiser rule
//   - Project: compute scores and write artifacts
//
// Rank deficiency is reported in the Result and logged but does not stop
// the run. Degenerate (constant) columns do.
//
// # Basic Usage
//
//	cfg := config.NewPipelineConfig("food")
//	cfg.Source.Location = "testdata/food.csv"
//
//	p, err := pipeline.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := p.Run(ctx)
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/dataset"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/export"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/pca"
	"github.com/ajitpratap0/prism/pkg/plot"
	"github.com/ajitpratap0/prism/pkg/source"
)

// Pipeline executes one configured run.
type Pipeline struct {
	cfg    *config.PipelineConfig
	logger *zap.Logger
}

// New creates a Pipeline from a validated configuration.
func New(cfg *config.PipelineConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid pipeline configuration").
			WithDetail("pipeline", cfg.Name)
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger.Get().With(zap.String("dataset", cfg.Name)),
	}, nil
}

// Run executes every stage and returns the run summary. The returned
// Result is non-nil whenever the run completed, including runs that
// finished with warnings.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.cfg.Source.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Source.Timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, logger.DatasetKey, p.cfg.Name)

	start := time.Now()
	result := &Result{
		Dataset: p.cfg.Name,
		Stages:  make(map[string]time.Duration),
	}

	// Source
	stage := time.Now()
	reader, err := source.Create(p.cfg.Source.Kind, &p.cfg.Source)
	if err != nil {
		return nil, err
	}
	df, err := reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	result.Stages["read"] = time.Since(stage)

	// Clean
	stage = time.Now()
	ds, report, err := dataset.FromDataFrame(p.cfg.Name, df, &p.cfg.Clean)
	if err != nil {
		return nil, err
	}
	result.Rows = ds.Rows()
	result.Cols = ds.Cols()
	result.DroppedRows = report.DroppedRows
	result.ExcludedColumns = report.ExcludedColumns
	result.NonNumericColumns = report.NonNumericColumns
	result.Stages["clean"] = time.Since(stage)

	p.logger.Info("dataset cleaned",
		zap.Int("rows", ds.Rows()),
		zap.Int("cols", ds.Cols()),
		zap.Int("dropped_rows", report.DroppedRows),
		zap.Strings("non_numeric", report.NonNumericColumns))

	// Standardize
	stage = time.Now()
	std, err := pca.Standardize(ds.Matrix())
	if err != nil {
		return nil, p.nameDegenerateColumn(err, ds)
	}
	result.Stages["standardize"] = time.Since(stage)

	// Decompose
	stage = time.Now()
	dec, err := pca.Decompose(std, p.cfg.Decompose.Tolerance)
	if err != nil {
		if !errors.IsWarning(err) {
			return nil, err
		}
		p.logger.Warn("rank-deficient input", zap.Error(err))
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.Rank = dec.Rank()
	result.Stages["decompose"] = time.Since(stage)

	// Select and project
	stage = time.Now()
	policy, err := pca.ParsePolicy(p.cfg.Select.Policy)
	if err != nil {
		return nil, err
	}
	k, err := pca.Select(dec, policy, p.cfg.Select.Threshold)
	if err != nil {
		return nil, err
	}
	scores, err := pca.Project(std, dec, k)
	if err != nil {
		return nil, err
	}
	result.Selected = k
	result.Captured = dec.CumulativeVariance()[k-1]
	result.Stages["project"] = time.Since(stage)

	p.logger.Info("components selected",
		zap.Int("selected", k),
		zap.Int("rank", dec.Rank()),
		zap.Float64("captured", result.Captured))

	// Reprojection diagnostic
	if diag, derr := pca.Reproject(scores, p.cfg.Decompose.Tolerance); derr != nil {
		p.logger.Warn("reprojection diagnostic failed", zap.Error(derr))
		result.Warnings = append(result.Warnings, derr.Error())
	} else {
		result.ReprojectionMax = diag.MaxCorrelation
		p.logger.Debug("reprojection diagnostic",
			zap.Float64("max_correlation", diag.MaxCorrelation))
	}

	// Export
	stage = time.Now()
	paths, err := p.export(ds, dec, scores)
	if err != nil {
		return nil, err
	}
	result.Artifacts = paths
	result.Stages["export"] = time.Since(stage)

	result.Duration = time.Since(start)
	p.logger.Info("pipeline complete",
		zap.Duration("duration", result.Duration),
		zap.Int("artifacts", len(result.Artifacts)))
	return result, nil
}

// export writes the enabled artifact formats and, when configured, the
// diagnostic plots.
func (p *Pipeline) export(ds *dataset.Dataset, dec *pca.Decomposition, scores *pca.Scores) ([]string, error) {
	writer := export.NewWriter(&p.cfg.Output)
	paths, err := writer.Write(&export.Artifacts{
		Dataset:      ds.Name(),
		Variables:    ds.Columns(),
		IDs:          ds.IDs(),
		Labels:       ds.Labels(),
		Basis:        dec.Basis(),
		Eigenvalues:  dec.Eigenvalues(),
		Explained:    dec.ExplainedVariance(),
		Cumulative:   dec.CumulativeVariance(),
		Scores:       scores.Matrix(),
		ScoreColumns: scores.Columns(),
	})
	if err != nil {
		return nil, err
	}

	if !p.cfg.Output.Plots {
		return paths, nil
	}

	screePath := filepath.Join(p.cfg.Output.Dir, ds.Name()+"_scree.png")
	if err := plot.Scree(screePath, ds.Name(), dec.ExplainedVariance(), dec.CumulativeVariance()); err != nil {
		return nil, err
	}
	paths = append(paths, screePath)

	if scores.Components() >= 2 {
		biplotPath := filepath.Join(p.cfg.Output.Dir, ds.Name()+"_biplot.png")
		if err := plot.Biplot(biplotPath, ds.Name(), scores.Matrix(), dec.Basis(), ds.Columns()); err != nil {
			return nil, err
		}
		paths = append(paths, biplotPath)
	} else {
		p.logger.Debug("biplot skipped", zap.Int("components", scores.Components()))
	}

	return paths, nil
}

// nameDegenerateColumn attaches the offending column name to a
// degenerate_column error, which below the dataset layer is only known
// by index.
func (p *Pipeline) nameDegenerateColumn(err error, ds *dataset.Dataset) error {
	var perr *errors.Error
	if !errors.As(err, &perr) || perr.Type != errors.ErrorTypeDegenerateColumn {
		return err
	}
	if idx, ok := perr.Detail("column_index").(int); ok && idx >= 0 && idx < ds.Cols() {
		return perr.WithDetail("column", ds.Columns()[idx])
	}
	return err
}

// RunAll executes several configured runs concurrently, at most workers
// at a time. It returns results in configuration order and fails fast on
// the first error.
func RunAll(ctx context.Context, cfgs []*config.PipelineConfig, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range cfgs {
		g.Go(func() error {
			p, err := New(cfg)
			if err != nil {
				return fmt.Errorf("pipeline %q: %w", cfg.Name, err)
			}
			result, err := p.Run(gctx)
			if err != nil {
				return fmt.Errorf("pipeline %q: %w", cfg.Name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
