package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// ExperimentLoader parses, validates, and compiles experiment YAML into
// runnable experiments. Compiled experiments are cached by the SHA256 of
// their normalized configuration, and concurrent loads of the same
// configuration compile once.
type ExperimentLoader struct {
	validator *validator.Validate
	registry  ports.AllocatorRegistry

	// cache holds compiled experiments keyed by config hash. Cached
	// experiments are shared and must not be mutated.
	cache   map[string]*Experiment
	cacheMu sync.RWMutex
	sf      singleflight.Group
}

// NewExperimentLoader creates a loader that builds allocators through
// registry.
func NewExperimentLoader(registry ports.AllocatorRegistry) (*ExperimentLoader, error) {
	if registry == nil {
		return nil, fmt.Errorf("allocator registry cannot be nil")
	}
	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &ExperimentLoader{
		validator: v,
		registry:  registry,
		cache:     make(map[string]*Experiment),
	}, nil
}

// LoadFromFile loads and compiles the experiment at path. Failures are
// reported as a *ports.ConfigError keyed by path; a missing file also
// matches ports.ErrConfigNotFound.
func (el *ExperimentLoader) LoadFromFile(ctx context.Context, path string) (*Experiment, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	exp, err := el.load(ctx, data)
	if err != nil {
		return nil, ports.NewConfigError(path, err)
	}
	return exp, nil
}

// readConfigFile reads a YAML configuration file.
func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.NewConfigError(path, fmt.Errorf("%w: %w", ports.ErrConfigNotFound, err))
	}
	if err != nil {
		return nil, ports.NewConfigError(path, fmt.Errorf("failed to read file: %w", err))
	}
	return data, nil
}

// LoadFromReader loads and compiles an experiment from r.
func (el *ExperimentLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Experiment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return el.load(ctx, data)
}

// Compile validates an in-memory configuration and builds its experiment.
// It shares the cache with the YAML entry points.
func (el *ExperimentLoader) Compile(ctx context.Context, config ExperimentConfig) (*Experiment, error) {
	return el.compile(ctx, &config)
}

func (el *ExperimentLoader) load(ctx context.Context, data []byte) (*Experiment, error) {
	config, err := el.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return el.compile(ctx, config)
}

func (el *ExperimentLoader) compile(ctx context.Context, config *ExperimentConfig) (*Experiment, error) {
	hash, err := el.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := el.sf.Do(hash, func() (any, error) {
		if exp, ok := el.getCachedExperiment(hash); ok {
			return exp, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := el.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		exp, err := el.buildExperiment(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build experiment: %w", err)
		}
		exp.Hash = hash

		el.cacheExperiment(hash, exp)
		return exp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Experiment), nil
}

// parseYAML decodes data over DefaultExperimentConfig in strict mode, so
// unknown fields are errors and omitted fields keep their defaults.
func (el *ExperimentLoader) parseYAML(data []byte) (*ExperimentConfig, error) {
	config := DefaultExperimentConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

func (el *ExperimentLoader) validateConfig(config *ExperimentConfig) error {
	if err := el.validator.Struct(config); err != nil {
		return toValidationError(fmt.Sprintf("experiment %q", config.Metadata.Name), err)
	}
	return nil
}

// buildExperiment instantiates one allocator per strategy through the
// registry.
func (el *ExperimentLoader) buildExperiment(config *ExperimentConfig) (*Experiment, error) {
	allocators := make([]ports.Allocator, 0, len(config.Strategies))
	for _, sc := range config.Strategies {
		params := make(map[string]any, len(sc.Parameters))
		for k, v := range sc.Parameters {
			params[k] = v
		}
		allocator, err := el.registry.CreateAllocator(sc.Type, sc.ID, params)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", sc.ID, err)
		}
		allocators = append(allocators, allocator)
	}
	return &Experiment{Config: *config, Allocators: allocators}, nil
}

// calculateConfigHash computes the SHA256 of the re-encoded configuration,
// so formatting and key order in the source do not affect the key.
func (el *ExperimentLoader) calculateConfigHash(config *ExperimentConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (el *ExperimentLoader) getCachedExperiment(hash string) (*Experiment, bool) {
	el.cacheMu.RLock()
	defer el.cacheMu.RUnlock()

	exp, ok := el.cache[hash]
	return exp, ok
}

func (el *ExperimentLoader) cacheExperiment(hash string, exp *Experiment) {
	el.cacheMu.Lock()
	defer el.cacheMu.Unlock()

	el.cache[hash] = exp
}

// ClearCache drops all compiled experiments.
func (el *ExperimentLoader) ClearCache() {
	el.cacheMu.Lock()
	defer el.cacheMu.Unlock()

	el.cache = make(map[string]*Experiment)
}

// toValidationError converts validator output into a *domain.ValidationError
// that unwraps to domain.ErrInvalidConfiguration.
func toValidationError(entity string, err error) error {
	verr := domain.NewValidationError(entity)
	verr.Err = domain.ErrInvalidConfiguration

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.AddErrorf("%s failed %q", fe.Namespace(), fe.Tag())
		}
	} else {
		verr.AddError(err.Error())
	}
	return verr
}
