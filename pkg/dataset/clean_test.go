package dataset

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
)

const foodCSV = `Desc,Energy_Kcal,Protein_g,Protein_USRDA,FoodGroup
butter,717,0.85,0.017,fats
cheddar,403,24.9,0.498,dairy
salmon,208,20.4,0.408,fish
`

func readFrame(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Err)
	return df
}

func TestFromDataFrame(t *testing.T) {
	df := readFrame(t, foodCSV)

	cfg := &config.CleanConfig{
		IDColumn:        "Desc",
		LabelColumn:     "FoodGroup",
		ExcludeSuffixes: []string{"_USRDA"},
	}

	ds, report, err := FromDataFrame("food", df, cfg)
	require.NoError(t, err)

	assert.Equal(t, "food", ds.Name())
	assert.Equal(t, []string{"butter", "cheddar", "salmon"}, ds.IDs())
	assert.Equal(t, []string{"fats", "dairy", "fish"}, ds.Labels())
	assert.Equal(t, []string{"Energy_Kcal", "Protein_g"}, ds.Columns())
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 2, ds.Cols())
	assert.Equal(t, []string{"Protein_USRDA"}, report.ExcludedColumns)
	assert.Zero(t, report.DroppedRows)

	assert.InDelta(t, 717.0, ds.Matrix().At(0, 0), 1e-12)
	assert.InDelta(t, 20.4, ds.Matrix().At(2, 1), 1e-12)
}

func TestFromDataFrameDropsNonNumeric(t *testing.T) {
	df := readFrame(t, foodCSV)

	ds, report, err := FromDataFrame("food", df, &config.CleanConfig{IDColumn: "Desc"})
	require.NoError(t, err)

	// FoodGroup is categorical and was not configured as label, so it is
	// dropped as non-numeric rather than scaled.
	assert.NotContains(t, ds.Columns(), "FoodGroup")
	assert.Contains(t, report.NonNumericColumns, "FoodGroup")
}

func TestFromDataFrameMissingID(t *testing.T) {
	df := readFrame(t, foodCSV)

	_, _, err := FromDataFrame("food", df, &config.CleanConfig{IDColumn: "NDB_No"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataFormat))
}

func TestFromDataFrameDuplicateID(t *testing.T) {
	df := readFrame(t, `Desc,Energy_Kcal
butter,717
butter,403
`)

	_, _, err := FromDataFrame("food", df, &config.CleanConfig{IDColumn: "Desc"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataFormat))

	var perr *errors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "butter", perr.Detail("duplicate"))
}

func TestFromDataFrameMissingLabel(t *testing.T) {
	df := readFrame(t, foodCSV)

	_, _, err := FromDataFrame("food", df, &config.CleanConfig{
		IDColumn:    "Desc",
		LabelColumn: "Category",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataFormat))
}

func TestFromDataFrameEmptyDataset(t *testing.T) {
	df := readFrame(t, `Desc,Note
butter,creamy
cheddar,sharp
`)

	_, _, err := FromDataFrame("food", df, &config.CleanConfig{IDColumn: "Desc"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyDataset))
}

func TestFromDataFrameAllColumnsExcluded(t *testing.T) {
	df := readFrame(t, foodCSV)

	_, _, err := FromDataFrame("food", df, &config.CleanConfig{
		IDColumn:        "Desc",
		ExcludeSuffixes: []string{"_Kcal", "_g", "_USRDA"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyDataset))
}

func TestFromDataFrameDropsIncompleteRows(t *testing.T) {
	df := readFrame(t, `Desc,Energy_Kcal,Protein_g
butter,717,0.85
mystery,NA,2.0
salmon,208,20.4
`)

	ds, report, err := FromDataFrame("food", df, &config.CleanConfig{IDColumn: "Desc"})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, []string{"butter", "salmon"}, ds.IDs())
	assert.Equal(t, 1, report.DroppedRows)
}

func TestFromDataFrameExactExclusion(t *testing.T) {
	df := readFrame(t, foodCSV)

	ds, _, err := FromDataFrame("food", df, &config.CleanConfig{
		IDColumn:       "Desc",
		ExcludeColumns: []string{"Energy_Kcal"},
	})
	require.NoError(t, err)
	assert.NotContains(t, ds.Columns(), "Energy_Kcal")
}
