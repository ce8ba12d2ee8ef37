package pipeline

import "time"

// Result summarizes one completed pipeline run.
type Result struct {
	// Dataset is the configured run name
	Dataset string `json:"dataset"`
	// Rows and Cols are the cleaned matrix dimensions
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// DroppedRows counts observations removed for missing values
	DroppedRows int `json:"dropped_rows"`
	// ExcludedColumns lists columns removed by configuration
	ExcludedColumns []string `json:"excluded_columns,omitempty"`
	// NonNumericColumns lists columns dropped as non-numeric
	NonNumericColumns []string `json:"non_numeric_columns,omitempty"`
	// Rank is the numerical rank of the standardized matrix
	Rank int `json:"rank"`
	// Selected is the number of retained components
	Selected int `json:"selected"`
	// Captured is the cumulative explained variance of the retained set
	Captured float64 `json:"captured"`
	// ReprojectionMax is the largest off-diagonal score correlation,
	// near zero for a well-behaved decomposition
	ReprojectionMax float64 `json:"reprojection_max"`
	// Warnings carries non-fatal diagnostics such as rank deficiency
	Warnings []string `json:"warnings,omitempty"`
	// Artifacts lists every file written
	Artifacts []string `json:"artifacts,omitempty"`
	// Duration is total wall time; Stages breaks it down per stage
	Duration time.Duration            `json:"duration"`
	Stages   map[string]time.Duration `json:"stages"`
}
