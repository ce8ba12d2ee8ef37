// Package dataset turns a parsed dataframe into the numeric matrix the
// PCA stages consume. Cleaning drops excluded and non-numeric columns,
// keeps the unique row identifier and an optional categorical label
// column aside, and removes rows with missing numeric values. The
// resulting Dataset is immutable: every downstream stage derives new
// artifacts from it rather than modifying it.
package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// Dataset is an ordered collection of observations over a fixed set of
// numeric variables, keyed by a unique row identifier. An optional label
// column is carried through unscaled for downstream grouping.
type Dataset struct {
	name    string
	ids     []string
	labels  []string // empty when no label column was configured
	columns []string
	data    *mat.Dense
}

// Name returns the dataset name
func (d *Dataset) Name() string {
	return d.name
}

// IDs returns the row identifiers, in row order
func (d *Dataset) IDs() []string {
	return d.ids
}

// Labels returns the pass-through label values in row order, or nil when
// no label column was configured.
func (d *Dataset) Labels() []string {
	return d.labels
}

// Columns returns the names of the retained numeric variables
func (d *Dataset) Columns() []string {
	return d.columns
}

// Matrix returns the observations-by-variables numeric matrix. Callers
// must treat it as read-only.
func (d *Dataset) Matrix() *mat.Dense {
	return d.data
}

// Rows returns the number of observations
func (d *Dataset) Rows() int {
	return len(d.ids)
}

// Cols returns the number of numeric variables
func (d *Dataset) Cols() int {
	return len(d.columns)
}

// New assembles a Dataset from already-clean parts. It is intended for
// tests and for feeding projection scores back through the pipeline; CSV
// ingestion goes through FromDataFrame.
func New(name string, ids, columns []string, data *mat.Dense) *Dataset {
	return &Dataset{
		name:    name,
		ids:     ids,
		columns: columns,
		data:    data,
	}
}
