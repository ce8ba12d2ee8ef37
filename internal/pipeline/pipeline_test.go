package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/testutil"
)

const foodCSV = `Desc,Energy_Kcal,Protein_g,Fat_g,Carb_g,FoodGroup
apple,52,0.3,0.2,13.8,fruit
banana,89,1.1,0.3,22.8,fruit
butter,717,0.9,81.1,0.1,dairy
cheddar,403,24.9,33.1,1.3,dairy
chicken,239,27.3,13.6,0.0,meat
salmon,208,20.4,13.4,0.0,meat
lentils,116,9.0,0.4,20.1,legume
rice,130,2.7,0.3,28.2,grain
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T, csvPath string) *config.PipelineConfig {
	t.Helper()
	cfg := config.NewPipelineConfig("food")
	cfg.Source.Location = csvPath
	cfg.Clean.IDColumn = "Desc"
	cfg.Clean.LabelColumn = "FoodGroup"
	cfg.Select.Threshold = 0.90
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg := testConfig(t, writeCSV(t, foodCSV))
	p, err := New(cfg)
	require.NoError(t, err)

	result, err := p.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "food", result.Dataset)
	assert.Equal(t, 8, result.Rows)
	assert.Equal(t, 4, result.Cols)
	assert.Zero(t, result.DroppedRows)
	assert.GreaterOrEqual(t, result.Selected, 1)
	assert.LessOrEqual(t, result.Selected, 4)
	assert.GreaterOrEqual(t, result.Captured, 0.90)
	assert.InDelta(t, 0.0, result.ReprojectionMax, 1e-9)
	assert.NotEmpty(t, result.Artifacts)

	for _, path := range result.Artifacts {
		assert.FileExists(t, path)
	}
	for _, stage := range []string{"read", "clean", "standardize", "decompose", "project", "export"} {
		assert.Contains(t, result.Stages, stage)
	}
}

func TestRunWithPlots(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg := testConfig(t, writeCSV(t, foodCSV))
	cfg.Output.Plots = true

	p, err := New(cfg)
	require.NoError(t, err)

	result, err := p.Run(ctx)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.Output.Dir, "food_scree.png"))
	if result.Selected >= 2 {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, "food_biplot.png"))
	}
}

func TestRunDropsIncompleteRows(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	csv := `Desc,Energy_Kcal,Protein_g,Fat_g,FoodGroup
apple,52,0.3,0.2,fruit
banana,89,NA,0.3,fruit
butter,717,0.9,81.1,dairy
cheddar,403,24.9,33.1,dairy
chicken,239,27.3,13.6,meat
`
	cfg := testConfig(t, writeCSV(t, csv))
	p, err := New(cfg)
	require.NoError(t, err)

	result, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, 1, result.DroppedRows)
}

func TestRunRankDeficiencyWarns(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	// Fat_2x duplicates Fat_g, so the standardized matrix loses a rank.
	csv := `Desc,Energy_Kcal,Fat_g,Fat_2x,FoodGroup
apple,52,0.2,0.4,fruit
banana,89,0.3,0.6,fruit
butter,717,81.1,162.2,dairy
cheddar,403,33.1,66.2,dairy
chicken,239,13.6,27.2,meat
`
	cfg := testConfig(t, writeCSV(t, csv))
	p, err := New(cfg)
	require.NoError(t, err)

	result, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rank)
	assert.NotEmpty(t, result.Warnings)
}

func TestRunNamesDegenerateColumn(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	csv := `Desc,Energy_Kcal,Constant,FoodGroup
apple,52,7,fruit
banana,89,7,fruit
butter,717,7,dairy
`
	cfg := testConfig(t, writeCSV(t, csv))
	p, err := New(cfg)
	require.NoError(t, err)

	_, err = p.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDegenerateColumn))

	var perr *errors.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Constant", perr.Detail("column"))
}

func TestRunMissingFile(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent.csv"))
	p, err := New(cfg)
	require.NoError(t, err)

	_, err = p.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.NewPipelineConfig("bad")
	cfg.Source.Location = ""

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRunAll(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	path := writeCSV(t, foodCSV)
	first := testConfig(t, path)
	second := testConfig(t, path)
	second.Name = "food-repeat"

	results, err := RunAll(ctx, []*config.PipelineConfig{first, second}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "food", results[0].Dataset)
	assert.Equal(t, "food-repeat", results[1].Dataset)
}

func TestRunAllFailsFast(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	good := testConfig(t, writeCSV(t, foodCSV))
	bad := testConfig(t, filepath.Join(t.TempDir(), "absent.csv"))
	bad.Name = "broken"

	_, err := RunAll(ctx, []*config.PipelineConfig{good, bad}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
