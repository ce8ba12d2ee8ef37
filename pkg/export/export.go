// Package export writes pipeline artifacts for downstream analysis and
// plotting: the component basis (loadings), the explained-variance
// vector, and the scores matrix, each labeled with variable names,
// component indices, and row identifiers. Artifacts are written as CSV
// and/or JSON, optionally gzip-compressed.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/pool"
)

// topLoadingCount is how many of each component's largest-magnitude
// loadings the JSON artifact lists.
const topLoadingCount = 5

// Artifacts bundles everything a pipeline run produces for export.
type Artifacts struct {
	// Dataset names the run; it prefixes every artifact file
	Dataset string
	// Variables are the cleaned numeric column names
	Variables []string
	// IDs are the row identifiers, in score row order
	IDs []string
	// Labels are the optional pass-through group labels (nil if none)
	Labels []string
	// Basis is the full n-by-n loading matrix
	Basis *mat.Dense
	// Eigenvalues per component
	Eigenvalues []float64
	// Explained variance proportion per component
	Explained []float64
	// Cumulative explained variance per component
	Cumulative []float64
	// Scores is the m-by-k projection onto the selected components
	Scores *mat.Dense
	// ScoreColumns are the selected component names (PC1..PCk)
	ScoreColumns []string
}

// Writer writes artifacts according to the output configuration.
type Writer struct {
	cfg    *config.OutputConfig
	logger *zap.Logger
}

// NewWriter creates an artifact writer for the given output
// configuration.
func NewWriter(cfg *config.OutputConfig) *Writer {
	return &Writer{
		cfg:    cfg,
		logger: logger.Get().With(zap.String("component", "export")),
	}
}

// Write writes every enabled artifact format into the output directory,
// creating it if needed, and returns the paths written.
func (w *Writer) Write(a *Artifacts) ([]string, error) {
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").
			WithDetail("dir", w.cfg.Dir)
	}

	var paths []string

	if w.cfg.HasFormat("csv") {
		for suffix, write := range map[string]func(io.Writer, *Artifacts) error{
			"_scores.csv":   writeScoresCSV,
			"_loadings.csv": writeLoadingsCSV,
			"_variance.csv": writeVarianceCSV,
		} {
			path, err := w.writeFile(a.Dataset+suffix, a, write)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}

	if w.cfg.HasFormat("json") {
		path, err := w.writeFile(a.Dataset+"_pca.json", a, writeJSON)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	sort.Strings(paths)
	w.logger.Info("artifacts written",
		zap.String("dataset", a.Dataset),
		zap.Strings("paths", paths))
	return paths, nil
}

// writeFile writes one artifact, wrapping the file in a gzip writer when
// compression is enabled.
func (w *Writer) writeFile(name string, a *Artifacts, write func(io.Writer, *Artifacts) error) (string, error) {
	if w.cfg.Compress {
		name += ".gz"
	}
	path := filepath.Join(w.cfg.Dir, name)

	file, err := os.Create(path) //nolint:gosec // G304: path derives from validated config
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to create artifact file").
			WithDetail("path", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			w.logger.Warn("failed to close artifact file", zap.String("path", path), zap.Error(cerr))
		}
	}()

	var out io.Writer = file
	var gz *gzip.Writer
	if w.cfg.Compress {
		gz = gzip.NewWriter(file)
		out = gz
	}

	if err := write(out, a); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to write artifact").
			WithDetail("path", path)
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed artifact").
				WithDetail("path", path)
		}
	}

	return path, nil
}

// writeScoresCSV writes one row per observation: identifier, optional
// label, then the score on each selected component.
func writeScoresCSV(out io.Writer, a *Artifacts) error {
	cw := csv.NewWriter(out)

	hasLabels := len(a.Labels) > 0
	width := 1 + len(a.ScoreColumns)
	if hasLabels {
		width++
	}

	row := pool.GetStringSlice(width)
	defer pool.PutStringSlice(row)

	row[0] = "id"
	col := 1
	if hasLabels {
		row[1] = "label"
		col = 2
	}
	for j, name := range a.ScoreColumns {
		row[col+j] = name
	}
	if err := cw.Write(row); err != nil {
		return err
	}

	for i, id := range a.IDs {
		row[0] = id
		col = 1
		if hasLabels {
			row[1] = a.Labels[i]
			col = 2
		}
		for j := range a.ScoreColumns {
			row[col+j] = formatFloat(a.Scores.At(i, j))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeLoadingsCSV writes one row per variable with its loading on every
// component.
func writeLoadingsCSV(out io.Writer, a *Artifacts) error {
	cw := csv.NewWriter(out)

	n := len(a.Variables)
	row := pool.GetStringSlice(n + 1)
	defer pool.PutStringSlice(row)

	row[0] = "variable"
	for j := 0; j < n; j++ {
		row[j+1] = fmt.Sprintf("PC%d", j+1)
	}
	if err := cw.Write(row); err != nil {
		return err
	}

	for i, name := range a.Variables {
		row[0] = name
		for j := 0; j < n; j++ {
			row[j+1] = formatFloat(a.Basis.At(i, j))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeVarianceCSV writes one row per component with its eigenvalue and
// explained-variance figures.
func writeVarianceCSV(out io.Writer, a *Artifacts) error {
	cw := csv.NewWriter(out)

	if err := cw.Write([]string{"component", "eigenvalue", "explained", "cumulative"}); err != nil {
		return err
	}
	for i := range a.Eigenvalues {
		err := cw.Write([]string{
			fmt.Sprintf("PC%d", i+1),
			formatFloat(a.Eigenvalues[i]),
			formatFloat(a.Explained[i]),
			formatFloat(a.Cumulative[i]),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// JSON artifact shape.

type jsonComponent struct {
	Component   string        `json:"component"`
	Eigenvalue  float64       `json:"eigenvalue"`
	Explained   float64       `json:"explained"`
	Cumulative  float64       `json:"cumulative"`
	TopLoadings []jsonLoading `json:"top_loadings"`
}

type jsonLoading struct {
	Variable string  `json:"variable"`
	Loading  float64 `json:"loading"`
}

type jsonScore struct {
	ID     string    `json:"id"`
	Label  string    `json:"label,omitempty"`
	Values []float64 `json:"values"`
}

type jsonArtifact struct {
	Dataset    string          `json:"dataset"`
	Variables  []string        `json:"variables"`
	Selected   int             `json:"selected_components"`
	Components []jsonComponent `json:"components"`
	Scores     []jsonScore     `json:"scores"`
}

// writeJSON writes the full artifact bundle as a single JSON document,
// including the largest-magnitude loadings per component (the "which
// variables drive this component" table).
func writeJSON(out io.Writer, a *Artifacts) error {
	doc := jsonArtifact{
		Dataset:   a.Dataset,
		Variables: a.Variables,
		Selected:  len(a.ScoreColumns),
	}

	for i := range a.Eigenvalues {
		doc.Components = append(doc.Components, jsonComponent{
			Component:   fmt.Sprintf("PC%d", i+1),
			Eigenvalue:  a.Eigenvalues[i],
			Explained:   a.Explained[i],
			Cumulative:  a.Cumulative[i],
			TopLoadings: topLoadings(a, i),
		})
	}

	for i, id := range a.IDs {
		score := jsonScore{ID: id, Values: make([]float64, len(a.ScoreColumns))}
		if len(a.Labels) > 0 {
			score.Label = a.Labels[i]
		}
		for j := range a.ScoreColumns {
			score.Values[j] = a.Scores.At(i, j)
		}
		doc.Scores = append(doc.Scores, score)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// topLoadings returns the variables with the largest absolute loadings
// on component j, largest first.
func topLoadings(a *Artifacts, j int) []jsonLoading {
	loadings := make([]jsonLoading, len(a.Variables))
	for i, name := range a.Variables {
		loadings[i] = jsonLoading{Variable: name, Loading: a.Basis.At(i, j)}
	}
	sort.SliceStable(loadings, func(x, y int) bool {
		return math.Abs(loadings[x].Loading) > math.Abs(loadings[y].Loading)
	})
	if len(loadings) > topLoadingCount {
		loadings = loadings[:topLoadingCount]
	}
	return loadings
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
