package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineConfigDefaults(t *testing.T) {
	cfg := NewPipelineConfig("nutrition")

	assert.Equal(t, "nutrition", cfg.Name)
	assert.Equal(t, "csv", cfg.Source.Kind)
	assert.True(t, cfg.Source.HasHeader)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, PolicyCumulative, cfg.Select.Policy)
	assert.Equal(t, 0.95, cfg.Select.Threshold)
	assert.Equal(t, 1e-12, cfg.Decompose.Tolerance)
	assert.Equal(t, []string{"csv", "json"}, cfg.Output.Formats)
}

func TestValidate(t *testing.T) {
	valid := func() *PipelineConfig {
		cfg := NewPipelineConfig("test")
		cfg.Source.Location = "data.csv"
		cfg.Clean.IDColumn = "id"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*PipelineConfig)
	}{
		{"missing name", func(c *PipelineConfig) { c.Name = "" }},
		{"missing source kind", func(c *PipelineConfig) { c.Source.Kind = "" }},
		{"missing location", func(c *PipelineConfig) { c.Source.Location = "" }},
		{"missing id column", func(c *PipelineConfig) { c.Clean.IDColumn = "" }},
		{"multi-char delimiter", func(c *PipelineConfig) { c.Source.Delimiter = ";;" }},
		{"negative tolerance", func(c *PipelineConfig) { c.Decompose.Tolerance = -1 }},
		{"zero threshold", func(c *PipelineConfig) { c.Select.Threshold = 0 }},
		{"threshold above one", func(c *PipelineConfig) { c.Select.Threshold = 1.5 }},
		{"unknown policy", func(c *PipelineConfig) { c.Select.Policy = "elbow" }},
		{"unknown format", func(c *PipelineConfig) { c.Output.Formats = []string{"parquet"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateKaiserIgnoresThreshold(t *testing.T) {
	cfg := NewPipelineConfig("test")
	cfg.Source.Location = "data.csv"
	cfg.Clean.IDColumn = "id"
	cfg.Select.Policy = PolicyKaiser
	cfg.Select.Threshold = 0 // would fail for cumulative

	require.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")

	content := `
name: demographic
source:
  location: ${PRISM_TEST_DATA}/demographic.csv
clean:
  id_column: Country
  label_column: Region
  exclude_suffixes: ["_pct"]
select:
  policy: kaiser
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PRISM_TEST_DATA", "/tmp/data")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demographic", cfg.Name)
	assert.Equal(t, "/tmp/data/demographic.csv", cfg.Source.Location)
	assert.Equal(t, "Country", cfg.Clean.IDColumn)
	assert.Equal(t, "Region", cfg.Clean.LabelColumn)
	assert.Equal(t, []string{"_pct"}, cfg.Clean.ExcludeSuffixes)
	assert.Equal(t, PolicyKaiser, cfg.Select.Policy)
	// defaults survive partial files
	assert.Equal(t, "csv", cfg.Source.Kind)
	assert.True(t, cfg.Source.HasHeader)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	cfg := NewPipelineConfig("cifar")
	cfg.Source.Location = "cifar.csv"
	cfg.Clean.IDColumn = "image_id"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
