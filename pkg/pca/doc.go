// Package pca implements the numeric core of Prism: standardization,
// singular value decomposition, component selection, and projection.
//
// # Overview
//
// The package provides the three pure stages that follow dataset
// cleaning:
//
//   - Standardize centers and scales every column to zero mean and unit
//     sample variance, returning the parameters it used.
//   - Decompose computes an orthonormal component basis and the variance
//     captured along each component, directly from the standardized data
//     matrix via SVD. Working on the data matrix instead of an explicit
//     covariance matrix avoids squaring condition numbers.
//   - Select and Project choose how many leading components to keep and
//     express every observation in the reduced basis.
//
// Every function is a pure function of its inputs: no hidden global
// numeric state, and the numerical tolerance is an explicit parameter.
// Stages return new artifacts and never mutate their inputs.
//
// # Sign Ambiguity
//
// A principal component's direction is only defined up to a global sign
// flip. Decompose normalizes each component so that its
// largest-magnitude loading is positive, which makes results
// reproducible across runs, but callers comparing against other
// implementations must still treat a flipped column (with a matching
// flip in the scores) as equal. Explained variance, orthonormality, and
// reconstruction are all unaffected by sign flips.
//
// # Basic Usage
//
//	std, err := pca.Standardize(ds.Matrix())
//	if err != nil {
//	    return err
//	}
//	dec, err := pca.Decompose(std, 0)
//	if err != nil && !errors.IsWarning(err) {
//	    return err
//	}
//	k, err := pca.Select(dec, pca.PolicyCumulative, 0.95)
//	if err != nil {
//	    return err
//	}
//	scores, err := pca.Project(std, dec, k)
package pca
