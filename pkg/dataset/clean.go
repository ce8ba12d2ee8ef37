package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
)

// Report summarizes what cleaning removed. It is informational; the
// pipeline logs it so a reader can account for every dropped column and
// row.
type Report struct {
	// ExcludedColumns were dropped by suffix or exact-name rules
	ExcludedColumns []string
	// NonNumericColumns were dropped because they hold no numeric data
	NonNumericColumns []string
	// DroppedRows counts rows removed for missing numeric values
	DroppedRows int
}

// FromDataFrame cleans a parsed dataframe into a Dataset according to
// the cleaning rules. It fails with a data_format error when the
// identifier column is absent or not unique, and with an empty_dataset
// error when no numeric columns (or no complete rows) survive cleaning.
func FromDataFrame(name string, df dataframe.DataFrame, cfg *config.CleanConfig) (*Dataset, *Report, error) {
	names := df.Names()

	if !contains(names, cfg.IDColumn) {
		return nil, nil, errors.New(errors.ErrorTypeDataFormat, "identifier column not found").
			WithDetail("column", cfg.IDColumn).
			WithDetail("available", names)
	}

	ids := df.Col(cfg.IDColumn).Records()
	if dup, ok := firstDuplicate(ids); ok {
		return nil, nil, errors.New(errors.ErrorTypeDataFormat, "identifier column is not unique").
			WithDetail("column", cfg.IDColumn).
			WithDetail("duplicate", dup)
	}

	var labels []string
	if cfg.LabelColumn != "" {
		if !contains(names, cfg.LabelColumn) {
			return nil, nil, errors.New(errors.ErrorTypeDataFormat, "label column not found").
				WithDetail("column", cfg.LabelColumn)
		}
		labels = df.Col(cfg.LabelColumn).Records()
	}

	report := &Report{}
	var numeric []string
	var values [][]float64

	for _, colName := range names {
		if colName == cfg.IDColumn || colName == cfg.LabelColumn {
			continue
		}
		if excluded(colName, cfg) {
			report.ExcludedColumns = append(report.ExcludedColumns, colName)
			continue
		}

		col := df.Col(colName)
		switch col.Type() {
		case series.Int, series.Float:
			numeric = append(numeric, colName)
			values = append(values, col.Float())
		case series.String:
			// The CSV parser demotes a numeric column to string when it
			// holds missing-value markers. Rescue it if every non-missing
			// record still parses as a number; missing entries become NaN
			// and drop their row below.
			if vals, ok := rescueNumeric(col); ok {
				numeric = append(numeric, colName)
				values = append(values, vals)
			} else {
				report.NonNumericColumns = append(report.NonNumericColumns, colName)
			}
		default:
			report.NonNumericColumns = append(report.NonNumericColumns, colName)
		}
	}

	if len(numeric) == 0 {
		return nil, nil, errors.New(errors.ErrorTypeEmptyDataset, "no numeric columns survived cleaning").
			WithDetail("excluded", report.ExcludedColumns).
			WithDetail("non_numeric", report.NonNumericColumns)
	}

	// Drop rows with any missing numeric value.
	rows := df.Nrow()
	keep := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		complete := true
		for j := range values {
			if math.IsNaN(values[j][i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	report.DroppedRows = rows - len(keep)

	if len(keep) == 0 {
		return nil, nil, errors.New(errors.ErrorTypeEmptyDataset, "no complete rows after cleaning").
			WithDetail("rows", rows).
			WithDetail("columns", numeric)
	}

	data := mat.NewDense(len(keep), len(numeric), nil)
	keptIDs := make([]string, len(keep))
	var keptLabels []string
	if labels != nil {
		keptLabels = make([]string, len(keep))
	}
	for r, i := range keep {
		keptIDs[r] = ids[i]
		if labels != nil {
			keptLabels[r] = labels[i]
		}
		for j := range values {
			data.Set(r, j, values[j][i])
		}
	}

	logger.Get().Debug("dataset cleaned",
		zap.String("dataset", name),
		zap.Int("rows", len(keep)),
		zap.Int("columns", len(numeric)),
		zap.Int("dropped_rows", report.DroppedRows),
		zap.Strings("excluded_columns", report.ExcludedColumns))

	return &Dataset{
		name:    name,
		ids:     keptIDs,
		labels:  keptLabels,
		columns: numeric,
		data:    data,
	}, report, nil
}

// missingMarkers are the values treated as absent numeric entries.
var missingMarkers = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {},
}

// rescueNumeric converts a string column to float64 values when every
// non-missing record parses as a number. It returns ok=false when the
// column holds genuinely non-numeric data or no values at all.
func rescueNumeric(col series.Series) ([]float64, bool) {
	records := col.Records()
	vals := make([]float64, len(records))
	parsed := 0
	for i, r := range records {
		if _, missing := missingMarkers[r]; missing {
			vals[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = f
		parsed++
	}
	if parsed == 0 {
		return nil, false
	}
	return vals, true
}

// excluded reports whether the column name matches an exclusion rule.
func excluded(name string, cfg *config.CleanConfig) bool {
	for _, exact := range cfg.ExcludeColumns {
		if name == exact {
			return true
		}
	}
	for _, suffix := range cfg.ExcludeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// firstDuplicate returns the first value appearing more than once.
func firstDuplicate(values []string) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v, true
		}
		seen[v] = struct{}{}
	}
	return "", false
}
