// Package config provides the unified configuration system for Prism.
// It defines a single PipelineConfig structure that every dataset run
// uses, ensuring consistent configuration across the entire system.
//
// The configuration is organized into logical sections:
//   - Source: Where and how the CSV dataset is read
//   - Clean: Identifier, label, and column exclusion rules
//   - Decompose: Numerical tolerance for the decomposition
//   - Select: Component selection policy and threshold
//   - Output: Artifact directory, formats, compression, plots
//   - Observability: Logging verbosity
//
// Example usage:
//
//	cfg := config.NewPipelineConfig("nutrition")
//	cfg.Source.Location = "data/nutrients.csv"
//	cfg.Clean.IDColumn = "Desc"
//	cfg.Select.Threshold = 0.95
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"strings"
	"time"
)

// Selection policy names accepted by SelectConfig.Policy.
const (
	// PolicyCumulative keeps the smallest prefix of components whose
	// cumulative explained variance reaches the configured threshold.
	PolicyCumulative = "cumulative"
	// PolicyKaiser keeps every component whose eigenvalue exceeds 1.0
	// (Kaiser-Guttman rule).
	PolicyKaiser = "kaiser"
)

// PipelineConfig is the single unified configuration structure for a
// dataset run. The zero value is not usable; construct it with
// NewPipelineConfig and override fields as needed.
type PipelineConfig struct {
	// Name identifies the dataset run; it prefixes artifact file names
	Name string `yaml:"name" json:"name"`

	// Source controls where the CSV dataset is read from
	Source SourceConfig `yaml:"source" json:"source"`

	// Clean controls identifier, label, and exclusion rules
	Clean CleanConfig `yaml:"clean" json:"clean"`

	// Decompose controls the numerical decomposition
	Decompose DecomposeConfig `yaml:"decompose" json:"decompose"`

	// Select controls how many components are retained
	Select SelectConfig `yaml:"select" json:"select"`

	// Output controls artifact export
	Output OutputConfig `yaml:"output" json:"output"`

	// Observability controls logging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// SourceConfig describes the tabular source. Location may be a local
// file path or an http(s) URL; the reader named by Kind decides how the
// bytes are parsed.
type SourceConfig struct {
	// Kind names a registered reader ("csv")
	Kind string `yaml:"kind" json:"kind"`
	// Location is a file path or http(s) URL
	Location string `yaml:"location" json:"location"`
	// HasHeader indicates whether the first row holds column names
	HasHeader bool `yaml:"has_header" json:"has_header"`
	// Delimiter is the field separator (single character, default ",")
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// Timeout bounds the initial fetch for URL sources
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// CleanConfig describes how the raw table becomes a numeric matrix.
type CleanConfig struct {
	// IDColumn names the unique row identifier column (required)
	IDColumn string `yaml:"id_column" json:"id_column"`
	// LabelColumn optionally names a categorical column passed through
	// unscaled for downstream grouping
	LabelColumn string `yaml:"label_column" json:"label_column"`
	// ExcludeSuffixes drops every column whose name ends with one of
	// these suffixes (e.g. "_USRDA" daily-allowance duplicates)
	ExcludeSuffixes []string `yaml:"exclude_suffixes" json:"exclude_suffixes"`
	// ExcludeColumns drops columns by exact name
	ExcludeColumns []string `yaml:"exclude_columns" json:"exclude_columns"`
}

// DecomposeConfig describes the numerical decomposition.
type DecomposeConfig struct {
	// Tolerance is the relative singular-value cutoff used for rank
	// detection; values at or below Tolerance times the largest singular
	// value count as zero
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// SelectConfig describes the component selection policy.
type SelectConfig struct {
	// Policy is "cumulative" or "kaiser"
	Policy string `yaml:"policy" json:"policy"`
	// Threshold is the cumulative explained-variance target in (0, 1];
	// ignored by the kaiser policy
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// OutputConfig describes artifact export.
type OutputConfig struct {
	// Dir is the directory artifacts are written into
	Dir string `yaml:"dir" json:"dir"`
	// Formats lists artifact formats to write ("csv", "json")
	Formats []string `yaml:"formats" json:"formats"`
	// Compress gzips every written artifact
	Compress bool `yaml:"compress" json:"compress"`
	// Plots renders a scree plot and biplot alongside the artifacts
	Plots bool `yaml:"plots" json:"plots"`
}

// ObservabilityConfig controls logging output.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Development enables human-readable console encoding
	Development bool `yaml:"development" json:"development"`
}

// NewPipelineConfig creates a PipelineConfig with sensible defaults:
// CSV source with a header row, cumulative selection at 0.95, CSV and
// JSON artifacts in ./out, info-level logging.
func NewPipelineConfig(name string) *PipelineConfig {
	return &PipelineConfig{
		Name: name,
		Source: SourceConfig{
			Kind:      "csv",
			HasHeader: true,
			Delimiter: ",",
			Timeout:   30 * time.Second,
		},
		Clean: CleanConfig{},
		Decompose: DecomposeConfig{
			Tolerance: 1e-12,
		},
		Select: SelectConfig{
			Policy:    PolicyCumulative,
			Threshold: 0.95,
		},
		Output: OutputConfig{
			Dir:     "out",
			Formats: []string{"csv", "json"},
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Validate validates the configuration for correctness. It checks
// required fields and ensures values are within acceptable ranges.
// Callers should validate after loading configuration to catch errors
// early; the selection threshold is re-checked by the selector so that
// programmatic callers bypassing config files get the same guarantee.
func (pc *PipelineConfig) Validate() error {
	if pc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if pc.Source.Kind == "" {
		return fmt.Errorf("source.kind is required")
	}
	if pc.Source.Location == "" {
		return fmt.Errorf("source.location is required")
	}
	if len(pc.Source.Delimiter) > 1 {
		return fmt.Errorf("source.delimiter must be a single character, got %q", pc.Source.Delimiter)
	}
	if pc.Clean.IDColumn == "" {
		return fmt.Errorf("clean.id_column is required")
	}
	if pc.Decompose.Tolerance < 0 {
		return fmt.Errorf("decompose.tolerance cannot be negative")
	}
	switch pc.Select.Policy {
	case PolicyCumulative:
		if pc.Select.Threshold <= 0 || pc.Select.Threshold > 1 {
			return fmt.Errorf("select.threshold must be in (0, 1], got %v", pc.Select.Threshold)
		}
	case PolicyKaiser:
		// threshold unused
	default:
		return fmt.Errorf("select.policy must be %q or %q, got %q", PolicyCumulative, PolicyKaiser, pc.Select.Policy)
	}
	for _, f := range pc.Output.Formats {
		if f != "csv" && f != "json" {
			return fmt.Errorf("output.formats entries must be \"csv\" or \"json\", got %q", f)
		}
	}
	return nil
}

// DelimiterRune returns the source delimiter as a rune, defaulting to a
// comma when unset.
func (sc *SourceConfig) DelimiterRune() rune {
	if sc.Delimiter == "" {
		return ','
	}
	return []rune(sc.Delimiter)[0]
}

// IsURL reports whether the source location is fetched over HTTP.
func (sc *SourceConfig) IsURL() bool {
	return strings.HasPrefix(sc.Location, "http://") || strings.HasPrefix(sc.Location, "https://")
}

// HasFormat reports whether the given artifact format is enabled.
func (oc *OutputConfig) HasFormat(format string) bool {
	for _, f := range oc.Formats {
		if f == format {
			return true
		}
	}
	return false
}
