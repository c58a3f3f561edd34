package selfcheck

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/born-ml/gradtape/internal/check"
	"github.com/born-ml/gradtape/internal/parallel"
	"gopkg.in/yaml.v3"
)

// ErrUnknownOp is returned for an operation name that is not registered.
var ErrUnknownOp = errors.New("unknown operation")

// Config selects the operations to check and how strictly.
type Config struct {
	Epsilon   float64 `yaml:"epsilon"`   // Finite-difference step
	Tolerance float64 `yaml:"tolerance"` // Allowed scaled error
	BlockSize int     `yaml:"block_size"`

	// Ops lists the operations to check. Empty means all of them.
	Ops []string `yaml:"ops"`

	// Points replaces the default grid of an operation.
	Points map[string][][]float64 `yaml:"points"`

	Parallel ParallelConfig `yaml:"parallel"`
}

// ParallelConfig controls how operations are spread across workers.
type ParallelConfig struct {
	Enabled bool `yaml:"enabled"`
	Workers int  `yaml:"workers"`
}

// DefaultConfig checks every operation with the default tolerances.
func DefaultConfig() Config {
	return Config{
		Epsilon:   1e-6,
		Tolerance: 1e-5,
		BlockSize: 1024,
		Parallel: ParallelConfig{
			Enabled: false,
			Workers: 4,
		},
	}
}

// LoadConfig reads a YAML file over the defaults, then applies
// GRADTAPE_EPSILON and GRADTAPE_TOLERANCE from the environment.
// An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	loadConfigFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadConfigFromEnv(cfg *Config) {
	if v := os.Getenv("GRADTAPE_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Epsilon = f
		}
	}
	if v := os.Getenv("GRADTAPE_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tolerance = f
		}
	}
}

// Validate checks tolerances, operation names and point arities.
func (c Config) Validate() error {
	if err := check.PositiveFinite("selfcheck", "epsilon", c.Epsilon); err != nil {
		return err
	}
	if err := check.PositiveFinite("selfcheck", "tolerance", c.Tolerance); err != nil {
		return err
	}
	if err := check.Nonnegative("selfcheck", "block_size", float64(c.BlockSize)); err != nil {
		return err
	}
	for _, name := range c.Ops {
		if _, ok := Lookup(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownOp, name)
		}
	}
	for name, points := range c.Points {
		op, ok := Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownOp, name)
		}
		for i, p := range points {
			if err := check.FiniteSlice("selfcheck", fmt.Sprintf("points.%s[%d]", name, i), p); err != nil {
				return err
			}
			if op.Arity == 0 {
				if len(p) == 0 {
					return fmt.Errorf("points.%s[%d]: %w", name, i, check.ErrInvalidArgument)
				}
				continue
			}
			if err := check.ConsistentSizes("selfcheck",
				check.Size{Name: "arity of " + name, Len: op.Arity},
				check.Size{Name: fmt.Sprintf("points.%s[%d]", name, i), Len: len(p)},
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// ops resolves the configured operations, applying point overrides.
func (c Config) ops() []Op {
	names := c.Ops
	if len(names) == 0 {
		names = make([]string, len(registry))
		for i, op := range registry {
			names[i] = op.Name
		}
	}
	out := make([]Op, 0, len(names))
	for _, name := range names {
		op, ok := Lookup(name)
		if !ok {
			continue
		}
		if points, ok := c.Points[name]; ok {
			op.Points = points
		}
		out = append(out, op)
	}
	return out
}

func (c Config) parallelConfig() parallel.Config {
	if !c.Parallel.Enabled {
		return parallel.Sequential()
	}
	return parallel.Config{
		Enabled:      true,
		NumWorkers:   max(c.Parallel.Workers, 1),
		MinChunkSize: 1,
	}
}
