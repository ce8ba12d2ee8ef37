// Package prism provides a dimensionality-reduction pipeline for tabular
// data built around Principal Component Analysis (PCA). It loads and
// cleans a CSV dataset, standardizes its numeric columns, computes an
// orthonormal component basis via singular value decomposition, selects
// the leading components by an explicit policy, and projects the
// observations onto the reduced basis.
//
// # Architecture
//
// Prism is a strictly linear, single-pass pipeline. Each stage consumes
// the previous stage's artifact and produces a new one; no stage mutates
// its input, and independent dataset runs share no state, so multiple
// datasets may be processed concurrently.
//
//	Loader/Cleaner -> Standardizer -> Decomposer -> Selector/Projector
//
// The decomposition works directly on the standardized data matrix
// rather than on an explicitly formed covariance matrix: the SVD route
// avoids squaring condition numbers and stays numerically stable as row
// and column counts grow.
//
// # Quick Start
//
// Run PCA on a CSV file and keep enough components for 95% of the
// variance:
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/prism/internal/pipeline"
//	    "github.com/ajitpratap0/prism/pkg/config"
//	)
//
//	cfg := config.NewPipelineConfig("nutrition")
//	cfg.Source.Location = "data/nutrients.csv"
//	cfg.Clean.IDColumn = "Desc"
//	cfg.Clean.ExcludeSuffixes = []string{"_USRDA"}
//	cfg.Select.Policy = config.PolicyCumulative
//	cfg.Select.Threshold = 0.95
//
//	p, err := pipeline.New(cfg)
//	if err != nil {
//	    // handle
//	}
//	result, err := p.Run(context.Background())
//
// # Key Packages
//
//	pkg/source    - dataset reader registry (CSV from file path or URL)
//	pkg/dataset   - cleaning rules and numeric matrix extraction
//	pkg/pca       - standardization, SVD decomposition, component selection
//	pkg/export    - CSV/JSON artifact writers with optional gzip
//	pkg/plot      - scree plot and biplot rendering
//	pkg/config    - unified pipeline configuration
//	pkg/errors    - structured error handling
//	pkg/logger    - structured logging
package prism
