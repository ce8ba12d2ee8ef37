package pca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ajitpratap0/prism/pkg/errors"
)

// Scores holds the coordinates of every observation in the reduced
// component basis: the standardized matrix multiplied by the first k
// basis columns.
type Scores struct {
	data *mat.Dense // m x k
	cols []string   // PC1..PCk
}

// Matrix returns the m-by-k scores matrix. Callers must treat it as
// read-only.
func (s *Scores) Matrix() *mat.Dense {
	return s.data
}

// Columns returns the component column names (PC1, PC2, ...).
func (s *Scores) Columns() []string {
	return s.cols
}

// Components returns the number of retained components k
func (s *Scores) Components() int {
	return len(s.cols)
}

// Project expresses every observation of the standardized matrix in the
// first k components of the basis. k must lie in [1, n].
func Project(std *Standardized, dec *Decomposition, k int) (*Scores, error) {
	_, n := std.Dims()
	if k < 1 || k > n {
		return nil, errors.New(errors.ErrorTypeNoComponents, "component count out of range").
			WithDetail("k", k).
			WithDetail("columns", n)
	}

	sub := dec.Basis().Slice(0, n, 0, k)

	var scores mat.Dense
	scores.Mul(std.Matrix(), sub)

	cols := make([]string, k)
	for j := range cols {
		cols[j] = fmt.Sprintf("PC%d", j+1)
	}

	return &Scores{
		data: &scores,
		cols: cols,
	}, nil
}

// Reconstruct maps scores back into the standardized variable space:
// X-hat = S V_k-transpose. With k equal to the full component count the
// reconstruction reproduces the standardized matrix up to floating-point
// tolerance; with smaller k it is the closest rank-k approximation the
// basis offers.
func Reconstruct(scores *Scores, dec *Decomposition) *mat.Dense {
	n := dec.Components()
	k := scores.Components()
	sub := dec.Basis().Slice(0, n, 0, k)

	var recon mat.Dense
	recon.Mul(scores.Matrix(), sub.T())
	return &recon
}

// Reproject runs the scores through a fresh standardize-and-decompose
// pass. It is a diagnostic, not a pipeline stage: principal component
// scores are uncorrelated by construction, so the off-diagonal
// correlations of the reprojected input should vanish. MaxCorrelation in
// the returned report makes the check concrete.
//
// The diagnostic fails with degenerate_column if a retained component
// carries (numerically) zero variance; selecting such a component is
// itself the anomaly to investigate.
func Reproject(scores *Scores, tol float64) (*ReprojectReport, error) {
	std, err := Standardize(scores.Matrix())
	if err != nil {
		return nil, err
	}

	dec, err := Decompose(std, tol)
	if err != nil && !errors.IsWarning(err) {
		return nil, err
	}

	report := &ReprojectReport{
		Decomposition:  dec,
		MaxCorrelation: maxOffDiagonalCorrelation(scores.Matrix()),
	}
	return report, nil
}

// ReprojectReport is the result of the reprojection diagnostic.
type ReprojectReport struct {
	// Decomposition of the standardized scores
	Decomposition *Decomposition
	// MaxCorrelation is the largest absolute off-diagonal correlation
	// between score columns; near zero for a healthy projection
	MaxCorrelation float64
}

// maxOffDiagonalCorrelation computes the largest absolute pairwise
// correlation between distinct columns of x.
func maxOffDiagonalCorrelation(x *mat.Dense) float64 {
	m, k := x.Dims()
	cols := make([][]float64, k)
	for j := 0; j < k; j++ {
		col := make([]float64, m)
		mat.Col(col, j, x)
		cols[j] = col
	}

	maxCorr := 0.0
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			if c := math.Abs(stat.Correlation(cols[a], cols[b], nil)); c > maxCorr {
				maxCorr = c
			}
		}
	}
	return maxCorr
}
