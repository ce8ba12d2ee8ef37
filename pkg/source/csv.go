package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
)

// CSVReader reads a CSV dataset from a local file or an http(s) URL.
type CSVReader struct {
	cfg    *config.SourceConfig
	client *http.Client
	logger *zap.Logger
}

// NewCSVReader creates a new CSV reader for the given source
// configuration.
func NewCSVReader(cfg *config.SourceConfig) (Reader, error) {
	if cfg.Location == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "csv reader requires a location")
	}

	return &CSVReader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Get().With(zap.String("reader", "csv")),
	}, nil
}

// Name returns the reader kind
func (r *CSVReader) Name() string {
	return "csv"
}

// Read fetches the CSV bytes and parses them into a dataframe. Column
// types are inferred by the parser; ambiguous columns come back as
// strings and are resolved by the cleaning stage.
func (r *CSVReader) Read(ctx context.Context) (dataframe.DataFrame, error) {
	body, err := r.open(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			r.logger.Warn("failed to close source", zap.Error(cerr))
		}
	}()

	df := dataframe.ReadCSV(body,
		dataframe.HasHeader(r.cfg.HasHeader),
		dataframe.WithDelimiter(r.cfg.DelimiterRune()),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Err, errors.ErrorTypeDataFormat, "failed to parse CSV").
			WithDetail("location", r.cfg.Location)
	}

	r.logger.Info("CSV source read",
		zap.String("location", r.cfg.Location),
		zap.Int("rows", df.Nrow()),
		zap.Int("columns", df.Ncol()))

	return df, nil
}

// open returns the raw byte stream for the configured location.
func (r *CSVReader) open(ctx context.Context) (io.ReadCloser, error) {
	if r.cfg.IsURL() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Location, nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid source URL").
				WithDetail("location", r.cfg.Location)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to fetch source URL").
				WithDetail("location", r.cfg.Location)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, errors.New(errors.ErrorTypeFile, fmt.Sprintf("unexpected status %d fetching source", resp.StatusCode)).
				WithDetail("location", r.cfg.Location)
		}
		return resp.Body, nil
	}

	file, err := os.Open(r.cfg.Location)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open source file").
			WithDetail("location", r.cfg.Location)
	}
	return file, nil
}

func init() {
	if err := Register("csv", NewCSVReader); err != nil {
		logger.Get().Fatal("failed to register csv reader", zap.Error(err))
	}
}
