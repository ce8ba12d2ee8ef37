package pca

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/pool"
)

// Standardized is a matrix whose columns have been centered to zero mean
// and scaled to unit sample standard deviation, together with the
// per-column parameters used. It is immutable once produced.
type Standardized struct {
	data    *mat.Dense
	means   []float64
	stddevs []float64
}

// Matrix returns the standardized matrix. Callers must treat it as
// read-only.
func (s *Standardized) Matrix() *mat.Dense {
	return s.data
}

// Means returns the per-column sample means removed during scaling
func (s *Standardized) Means() []float64 {
	return s.means
}

// StdDevs returns the per-column sample standard deviations divided out
// during scaling
func (s *Standardized) StdDevs() []float64 {
	return s.stddevs
}

// Dims returns the row and column counts
func (s *Standardized) Dims() (rows, cols int) {
	return s.data.Dims()
}

// Standardize centers and scales every column of x to zero mean and unit
// sample standard deviation. It is a pure function: identical input
// always yields identical output.
//
// A constant column cannot be scaled; rather than divide by zero and let
// NaN propagate silently, Standardize fails with a degenerate_column
// error carrying the offending column index.
func Standardize(x mat.Matrix) (*Standardized, error) {
	m, n := x.Dims()
	if m < 2 {
		return nil, errors.New(errors.ErrorTypeDataFormat, "standardization requires at least two rows").
			WithDetail("rows", m)
	}
	if n == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyDataset, "standardization requires at least one column")
	}

	out := mat.NewDense(m, n, nil)
	means := make([]float64, n)
	stddevs := make([]float64, n)

	col := pool.GetFloat64Slice(m)
	defer pool.PutFloat64Slice(col)

	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			col[i] = x.At(i, j)
		}

		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			return nil, errors.New(errors.ErrorTypeDegenerateColumn, "column has zero variance").
				WithDetail("column_index", j).
				WithDetail("value", mean).
				WithDetail("rows", m)
		}

		means[j] = mean
		stddevs[j] = std
		for i := 0; i < m; i++ {
			out.Set(i, j, (col[i]-mean)/std)
		}
	}

	return &Standardized{
		data:    out,
		means:   means,
		stddevs: stddevs,
	}, nil
}
