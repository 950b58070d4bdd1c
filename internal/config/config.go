package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/gapseq/internal/config/loader"
)

// Config is the complete gapseq configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Buffer   BufferConfig   `toml:"buffer" yaml:"buffer"`
	Pipeline PipelineConfig `toml:"pipeline" yaml:"pipeline"`
	Watch    WatchConfig    `toml:"watch" yaml:"watch"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level" validate:"loglevel"`
}

// BufferConfig configures the text builders a run creates.
type BufferConfig struct {
	// Pooled rents backing arrays from the shared rune pool.
	Pooled bool `toml:"pooled" yaml:"pooled"`
	// Capacity is the initial capacity in runes.
	Capacity int `toml:"capacity" yaml:"capacity" validate:"gte=0,lte=2147483647"`
	// MaxCapacity caps growth; zero means the builder default.
	MaxCapacity int `toml:"max_capacity" yaml:"max_capacity" validate:"omitempty,gtefield=Capacity,lte=2147483647"`
	// Language is a BCP 47 tag used for case mapping.
	Language string `toml:"language" yaml:"language" validate:"omitempty,bcp47_language_tag"`
}

// PipelineConfig lists the transformation steps of a run.
type PipelineConfig struct {
	// Seed seeds the shuffle random source. Zero picks a random seed.
	Seed uint64 `toml:"seed" yaml:"seed"`
	// Script is a Lua file run after the steps.
	Script string `toml:"script" yaml:"script"`
	// Steps run in order.
	Steps []Step `toml:"steps" yaml:"steps" validate:"dive"`
}

// Step is one pipeline operation. Which fields apply depends on Op; the
// pipeline package checks them when it compiles the step.
type Step struct {
	Op    string `toml:"op" yaml:"op" validate:"required"`
	Text  string `toml:"text,omitempty" yaml:"text,omitempty"`
	Index int    `toml:"index,omitempty" yaml:"index,omitempty" validate:"gte=0"`
	Other int    `toml:"other,omitempty" yaml:"other,omitempty" validate:"gte=0"`
	Count int    `toml:"count,omitempty" yaml:"count,omitempty" validate:"gte=0"`
	Width int    `toml:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Pad   string `toml:"pad,omitempty" yaml:"pad,omitempty"`
	Left  string `toml:"left,omitempty" yaml:"left,omitempty"`
	Right string `toml:"right,omitempty" yaml:"right,omitempty"`
	Bias  string `toml:"bias,omitempty" yaml:"bias,omitempty" validate:"omitempty,oneof=left right"`
	Chars string `toml:"chars,omitempty" yaml:"chars,omitempty"`
	Old   string `toml:"old,omitempty" yaml:"old,omitempty"`
	New   string `toml:"new,omitempty" yaml:"new,omitempty"`
	Form  string `toml:"form,omitempty" yaml:"form,omitempty" validate:"omitempty,oneof=NFC NFD NFKC NFKD nfc nfd nfkc nfkd"`
}

// WatchConfig configures -watch re-runs.
type WatchConfig struct {
	// DebounceMS is how long file events must settle before a re-run.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms" validate:"gte=0,lte=60000"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Buffer:  BufferConfig{Capacity: 16},
		Watch:   WatchConfig{DebounceMS: 100},
	}
}

// defaultMap is Default as a configuration layer.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"logging": map[string]any{"level": d.Logging.Level},
		"buffer":  map[string]any{"capacity": int64(d.Buffer.Capacity)},
		"watch":   map[string]any{"debounce_ms": int64(d.Watch.DebounceMS)},
	}
}

// boolPaths are settings whose environment values may be written as 0/1.
var boolPaths = []string{"buffer.pooled"}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs      loader.FileSystem
	environ []string
	useEnv  bool
}

// WithFS reads config files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnviron reads "KEY=value" pairs from environ instead of the process
// environment.
func WithEnviron(environ []string) Option {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load builds the configuration from defaults, the file at path, and
// GAPSEQ_* environment variables, in increasing priority, then validates
// it. An empty path skips the file layer; a missing file is an error.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{fs: loader.DefaultFS(), useEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	merged := defaultMap()

	if path != "" {
		fl, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		layer, err := fl.Load()
		if err != nil {
			return nil, err
		}
		if layer == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = loader.DeepMerge(merged, layer)
	}

	if o.useEnv {
		env := loader.NewEnvLoader(loader.EnvPrefix)
		if o.environ != nil {
			env = loader.NewEnvLoaderFrom(loader.EnvPrefix, o.environ)
		}
		layer, err := env.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, layer)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode converts a merged layer map into a Config by re-encoding it as
// TOML, so both file formats and the environment share one set of field
// tags and type conversions.
func decode(merged map[string]any) (*Config, error) {
	for _, p := range boolPaths {
		if v, ok := loader.GetPath(merged, p); ok {
			switch v {
			case int64(0):
				loader.SetPath(merged, p, false)
			case int64(1):
				loader.SetPath(merged, p, true)
			}
		}
	}

	data, err := toml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding merged config: %w", err)
	}

	var cfg Config
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return nil, &TypeError{Message: err.Error(), Err: err}
	}
	return &cfg, nil
}
