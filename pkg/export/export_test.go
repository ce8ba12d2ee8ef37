package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ajitpratap0/prism/pkg/config"
)

func fixture() *Artifacts {
	return &Artifacts{
		Dataset:   "food",
		Variables: []string{"energy", "protein", "fat"},
		IDs:       []string{"apple", "butter", "cheddar"},
		Labels:    []string{"fruit", "dairy", "dairy"},
		Basis: mat.NewDense(3, 3, []float64{
			0.8, -0.1, 0.2,
			0.5, 0.9, -0.3,
			0.1, 0.4, 0.9,
		}),
		Eigenvalues: []float64{2.1, 0.7, 0.2},
		Explained:   []float64{0.70, 0.23, 0.07},
		Cumulative:  []float64{0.70, 0.93, 1.0},
		Scores: mat.NewDense(3, 2, []float64{
			1.5, 0.2,
			-0.8, 0.6,
			-0.7, -0.8,
		}),
		ScoreColumns: []string{"PC1", "PC2"},
	}
}

func TestWriteCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&config.OutputConfig{
		Dir:     dir,
		Formats: []string{"csv", "json"},
	})

	paths, err := w.Write(fixture())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	for _, name := range []string{
		"food_scores.csv", "food_loadings.csv", "food_variance.csv", "food_pca.json",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestScoresCSVContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&config.OutputConfig{Dir: dir, Formats: []string{"csv"}})

	_, err := w.Write(fixture())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "food_scores.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"id", "label", "PC1", "PC2"}, rows[0])
	assert.Equal(t, "apple", rows[1][0])
	assert.Equal(t, "fruit", rows[1][1])

	v, err := strconv.ParseFloat(rows[1][2], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-12)
}

func TestScoresCSVWithoutLabels(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&config.OutputConfig{Dir: dir, Formats: []string{"csv"}})

	a := fixture()
	a.Labels = nil
	_, err := w.Write(a)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "food_scores.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "PC1", "PC2"}, rows[0])
}

func TestJSONContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&config.OutputConfig{Dir: dir, Formats: []string{"json"}})

	_, err := w.Write(fixture())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "food_pca.json"))
	require.NoError(t, err)

	var doc jsonArtifact
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "food", doc.Dataset)
	assert.Equal(t, 2, doc.Selected)
	require.Len(t, doc.Components, 3)
	require.Len(t, doc.Scores, 3)

	assert.Equal(t, "PC1", doc.Components[0].Component)
	assert.InDelta(t, 2.1, doc.Components[0].Eigenvalue, 1e-12)

	// PC1 loadings are 0.8, 0.5, 0.1: energy dominates.
	top := doc.Components[0].TopLoadings
	require.NotEmpty(t, top)
	assert.Equal(t, "energy", top[0].Variable)
	assert.InDelta(t, 0.8, top[0].Loading, 1e-12)

	// PC2 loadings are -0.1, 0.9, 0.4: ordered by magnitude.
	top = doc.Components[1].TopLoadings
	require.Len(t, top, 3)
	assert.Equal(t, "protein", top[0].Variable)
	assert.Equal(t, "fat", top[1].Variable)
	assert.Equal(t, "energy", top[2].Variable)

	assert.Equal(t, "apple", doc.Scores[0].ID)
	assert.Equal(t, "fruit", doc.Scores[0].Label)
	require.Len(t, doc.Scores[0].Values, 2)
}

func TestCompressedArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(&config.OutputConfig{
		Dir:      dir,
		Formats:  []string{"json"},
		Compress: true,
	})

	paths, err := w.Write(fixture())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "food_pca.json.gz"), paths[0])

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var doc jsonArtifact
	require.NoError(t, json.NewDecoder(gz).Decode(&doc))
	assert.Equal(t, "food", doc.Dataset)
}

func TestWriteCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(&config.OutputConfig{Dir: dir, Formats: []string{"csv"}})

	_, err := w.Write(fixture())
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
