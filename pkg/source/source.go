// Package source provides dataset readers for Prism. A reader turns a
// configured location (local file path or http(s) URL) into a dataframe
// the cleaning stage consumes. Readers register themselves by kind, so
// the pipeline creates them by name from configuration alone.
package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
)

// Reader reads a tabular dataset from its configured location. The read
// happens once per pipeline run; readers hold no state between calls.
type Reader interface {
	// Name returns the reader kind (e.g. "csv")
	Name() string
	// Read fetches and parses the dataset. The context bounds the
	// initial fetch for remote locations.
	Read(ctx context.Context) (dataframe.DataFrame, error)
}

// Factory is a function that creates reader instances for a source
// configuration.
type Factory func(cfg *config.SourceConfig) (Reader, error)

// Registry manages reader registration and instantiation
type Registry struct {
	readers map[string]Factory
	mu      sync.RWMutex
	logger  *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new reader registry
func NewRegistry() *Registry {
	return &Registry{
		readers: make(map[string]Factory),
		logger:  logger.Get().With(zap.String("component", "source_registry")),
	}
}

// Register registers a reader factory under the given kind
func (r *Registry) Register(kind string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.readers[kind]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("reader %s already registered", kind))
	}

	r.readers[kind] = factory
	r.logger.Debug("reader registered", zap.String("kind", kind))
	return nil
}

// Create creates a reader instance for the given kind
func (r *Registry) Create(kind string, cfg *config.SourceConfig) (Reader, error) {
	r.mu.RLock()
	factory, exists := r.readers[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("reader %s not found", kind))
	}

	reader, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create reader %s", kind))
	}

	return reader, nil
}

// List returns the registered reader kinds, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.readers))
	for kind := range r.readers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Global registry functions

// Register registers a reader factory in the global registry
func Register(kind string, factory Factory) error {
	return globalRegistry.Register(kind, factory)
}

// Create creates a reader from the global registry
func Create(kind string, cfg *config.SourceConfig) (Reader, error) {
	return globalRegistry.Create(kind, cfg)
}

// List returns registered reader kinds from the global registry
func List() []string {
	return globalRegistry.List()
}
