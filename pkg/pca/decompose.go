package pca

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ajitpratap0/prism/pkg/errors"
)

// DefaultTolerance is the relative singular-value cutoff used for rank
// detection when the caller passes a non-positive tolerance.
const DefaultTolerance = 1e-12

// Decomposition holds the orthonormal component basis of a standardized
// matrix and the variance captured along each component, ordered by
// descending captured variance.
type Decomposition struct {
	basis       *mat.Dense // n x n, columns are loading vectors
	singular    []float64  // length min(m, n), descending
	eigenvalues []float64  // length n, sigma^2/(m-1), zero-padded
	proportions []float64  // length n, sigma^2 / sum(sigma^2)
	rank        int
	rows        int
}

// Basis returns the n-by-n orthonormal loading matrix. Column j is the
// direction of the j-th principal component expressed in the original
// variable space. Callers must treat it as read-only.
func (d *Decomposition) Basis() *mat.Dense {
	return d.basis
}

// SingularValues returns the singular values of the standardized matrix
// in descending order.
func (d *Decomposition) SingularValues() []float64 {
	return d.singular
}

// Eigenvalues returns the variance of the data along each component
// (the eigenvalues of the correlation matrix), in component order. For a
// standardized input these sum to approximately the number of columns.
func (d *Decomposition) Eigenvalues() []float64 {
	return d.eigenvalues
}

// ExplainedVariance returns the proportion of total variance captured by
// each component. Proportions are non-increasing and sum to 1.
func (d *Decomposition) ExplainedVariance() []float64 {
	return d.proportions
}

// CumulativeVariance returns the running sum of ExplainedVariance.
func (d *Decomposition) CumulativeVariance() []float64 {
	cum := make([]float64, len(d.proportions))
	sum := 0.0
	for i, p := range d.proportions {
		sum += p
		cum[i] = sum
	}
	return cum
}

// Components returns the number of components (the column count of the
// input).
func (d *Decomposition) Components() int {
	return len(d.eigenvalues)
}

// Rank returns the number of numerically independent directions found.
func (d *Decomposition) Rank() int {
	return d.rank
}

// Decompose computes the principal component basis of a standardized
// matrix via singular value decomposition. tol is the relative cutoff
// for rank detection: singular values at or below tol times the largest
// singular value count as zero. A non-positive tol selects
// DefaultTolerance.
//
// When the input has fewer independent columns than total columns
// (perfect collinearity), Decompose still returns a full basis, with
// near-zero explained variance on the dependent directions, alongside a
// rank_deficiency warning. Callers should log the warning and continue;
// errors.IsWarning distinguishes it from fatal errors.
func Decompose(std *Standardized, tol float64) (*Decomposition, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	m, n := std.Dims()

	// Thin factorization suffices when rows cover the column space; with
	// fewer rows than columns the full V is needed to keep the basis
	// square.
	kind := mat.SVDThin
	if m < n {
		kind = mat.SVDFull
	}

	var svd mat.SVD
	if ok := svd.Factorize(std.Matrix(), kind); !ok {
		return nil, errors.New(errors.ErrorTypeInternal, "singular value decomposition failed to converge").
			WithDetail("rows", m).
			WithDetail("columns", n)
	}

	singular := svd.Values(nil)

	var v mat.Dense
	svd.VTo(&v)
	basis := mat.DenseCopyOf(&v)
	normalizeSigns(basis)

	eigenvalues := make([]float64, n)
	proportions := make([]float64, n)
	total := 0.0
	for _, sv := range singular {
		total += sv * sv
	}
	for i, sv := range singular {
		eigenvalues[i] = sv * sv / float64(m-1)
		if total > 0 {
			proportions[i] = sv * sv / total
		}
	}

	rank := 0
	for _, sv := range singular {
		if sv > tol*singular[0] {
			rank++
		}
	}

	dec := &Decomposition{
		basis:       basis,
		singular:    singular,
		eigenvalues: eigenvalues,
		proportions: proportions,
		rank:        rank,
		rows:        m,
	}

	if rank < n {
		return dec, errors.New(errors.ErrorTypeRankDeficiency, "input has linearly dependent columns").
			WithDetail("rank", rank).
			WithDetail("columns", n)
	}
	return dec, nil
}

// normalizeSigns flips each basis column so its largest-magnitude
// loading is positive. Component directions are only defined up to sign;
// pinning the sign makes repeated runs byte-for-byte reproducible.
func normalizeSigns(basis *mat.Dense) {
	n, k := basis.Dims()
	for j := 0; j < k; j++ {
		maxAbs, maxVal := 0.0, 0.0
		for i := 0; i < n; i++ {
			v := basis.At(i, j)
			if a := math.Abs(v); a > maxAbs {
				maxAbs, maxVal = a, v
			}
		}
		if maxVal < 0 {
			for i := 0; i < n; i++ {
				basis.Set(i, j, -basis.At(i, j))
			}
		}
	}
}
