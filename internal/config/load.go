package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keybus/internal/config/loader"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "keybus.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KEYBUS_"

// Options controls which layers Load reads.
type Options struct {
	// Path is an explicit config file. It must exist when set.
	Path string

	// FS reads the config file. Defaults to the OS file system.
	FS loader.FileSystem

	// Env is the environment loader. Defaults to one reading KEYBUS_ variables.
	// Set SkipEnv to ignore the environment.
	Env     loader.Loader
	SkipEnv bool

	// Overrides are applied last, keyed by dotted path ("keyboard.allow_repeat").
	Overrides map[string]any
}

// Load merges defaults, the config file, the environment and overrides,
// then validates the result.
func Load(opts Options) (*Config, error) {
	defaults, err := ToMap(Default())
	if err != nil {
		return nil, err
	}
	merged, err := ToMap(Default())
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}
	path := opts.Path
	if path == "" {
		path = DefaultPath
	} else if _, err := fsys.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	fileCfg, err := loader.NewTOMLLoaderWithFS(fsys, path).Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, fileCfg)

	if !opts.SkipEnv {
		env := opts.Env
		if env == nil {
			env = loader.NewEnvLoader(EnvPrefix).WithDefaults(defaults)
		}
		envCfg, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		loader.CoerceStrings(envCfg, defaults)
		merged = loader.DeepMerge(merged, envCfg)
	}

	over := make(map[string]any, len(opts.Overrides))
	for p, v := range opts.Overrides {
		loader.SetByPath(over, p, v)
	}
	merged = loader.DeepMerge(merged, over)

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToMap converts a Config to its nested map form.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return m, nil
}

// FromMap decodes a nested map onto the defaults.
// Unknown settings are rejected.
func FromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return cfg, nil
}
