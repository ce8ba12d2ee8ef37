// Package testutil provides testing utilities for Prism
package testutil

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/mat"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// RequireVecApprox fails the test if the two vectors differ anywhere by
// more than tol.
func RequireVecApprox(t *testing.T, want, got []float64, tol float64) {
	t.Helper()

	if len(want) != len(got) {
		t.Fatalf("vector length mismatch: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > tol {
			t.Fatalf("vectors differ at %d: want %v, got %v (tol %v)", i, want[i], got[i], tol)
		}
	}
}

// RequireMatApprox fails the test if the two matrices differ in shape or
// anywhere by more than tol.
func RequireMatApprox(t *testing.T, want, got mat.Matrix, tol float64) {
	t.Helper()

	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("matrix shape mismatch: want %dx%d, got %dx%d", wr, wc, gr, gc)
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if math.Abs(want.At(i, j)-got.At(i, j)) > tol {
				t.Fatalf("matrices differ at (%d,%d): want %v, got %v (tol %v)",
					i, j, want.At(i, j), got.At(i, j), tol)
			}
		}
	}
}

// RequireVecApproxUpToSign fails the test unless got matches want within
// tol either directly or with every element negated. Principal component
// directions are only defined up to a global sign flip, so component
// comparisons must accept both.
func RequireVecApproxUpToSign(t *testing.T, want, got []float64, tol float64) {
	t.Helper()

	if len(want) != len(got) {
		t.Fatalf("vector length mismatch: want %d, got %d", len(want), len(got))
	}
	direct, flipped := true, true
	for i := range want {
		if math.Abs(want[i]-got[i]) > tol {
			direct = false
		}
		if math.Abs(want[i]+got[i]) > tol {
			flipped = false
		}
	}
	if !direct && !flipped {
		t.Fatalf("vectors differ beyond sign flip: want %v, got %v (tol %v)", want, got, tol)
	}
}

// Column extracts column j of m as a fresh slice.
func Column(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	col := make([]float64, r)
	for i := 0; i < r; i++ {
		col[i] = m.At(i, j)
	}
	return col
}
