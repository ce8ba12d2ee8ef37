package pca

import (
	"github.com/ajitpratap0/prism/pkg/errors"
)

// Policy names a component selection rule.
type Policy string

const (
	// PolicyCumulative keeps the smallest prefix of components whose
	// cumulative explained variance reaches a caller-supplied threshold.
	PolicyCumulative Policy = "cumulative"
	// PolicyKaiser keeps every component whose eigenvalue exceeds 1.0,
	// i.e. components that explain more variance than a single original
	// (standardized) variable. Known as the Kaiser-Guttman rule.
	PolicyKaiser Policy = "kaiser"
)

// thresholdSlack absorbs floating-point rounding in cumulative sums so
// that a threshold exactly equal to an attainable cumulative proportion
// selects that prefix.
const thresholdSlack = 1e-12

// ParsePolicy converts a policy name from configuration into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyCumulative, PolicyKaiser:
		return Policy(s), nil
	default:
		return "", errors.Newf(errors.ErrorTypeConfig, "unknown selection policy %q", s)
	}
}

// Select returns the number of leading components to retain under the
// given policy. threshold is the cumulative explained-variance target
// for PolicyCumulative and must lie in (0, 1]; PolicyKaiser ignores it.
//
// Select fails with invalid_threshold when the threshold is out of range
// and with no_components when the policy would retain nothing (possible
// only under the Kaiser rule, when no component beats a single
// standardized variable).
func Select(dec *Decomposition, policy Policy, threshold float64) (int, error) {
	switch policy {
	case PolicyCumulative:
		return selectCumulative(dec, threshold)
	case PolicyKaiser:
		return selectKaiser(dec)
	default:
		return 0, errors.Newf(errors.ErrorTypeConfig, "unknown selection policy %q", policy)
	}
}

func selectCumulative(dec *Decomposition, threshold float64) (int, error) {
	if threshold <= 0 || threshold > 1 {
		return 0, errors.New(errors.ErrorTypeInvalidThreshold, "cumulative-variance threshold must be in (0, 1]").
			WithDetail("threshold", threshold)
	}

	cum := 0.0
	for i, p := range dec.ExplainedVariance() {
		cum += p
		if cum+thresholdSlack >= threshold {
			return i + 1, nil
		}
	}
	// Rounding can leave the final cumulative sum a hair under 1; the
	// full basis always satisfies any valid threshold.
	return dec.Components(), nil
}

func selectKaiser(dec *Decomposition) (int, error) {
	k := 0
	for _, ev := range dec.Eigenvalues() {
		if ev > 1.0 {
			k++
		} else {
			// eigenvalues are non-increasing
			break
		}
	}
	if k == 0 {
		return 0, errors.New(errors.ErrorTypeNoComponents, "no component has eigenvalue above 1").
			WithDetail("largest_eigenvalue", dec.Eigenvalues()[0]).
			WithDetail("components", dec.Components())
	}
	return k, nil
}
