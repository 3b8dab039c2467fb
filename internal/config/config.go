// Package config loads graphir.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"graphir/internal/trace"
)

// FileName is the file Find looks for.
const FileName = "graphir.toml"

// Config is the decoded file. Fields left out of the file keep the values
// from Default.
type Config struct {
	Eval  EvalConfig  `toml:"eval"`
	Trace TraceConfig `toml:"trace"`
	Dump  DumpConfig  `toml:"dump"`

	// Path is where the config was read from; empty for defaults.
	Path string `toml:"-"`
	meta toml.MetaData
}

type EvalConfig struct {
	MaxDepth int   `toml:"max_depth"`
	MaxSteps int64 `toml:"max_steps"`
	Jobs     int   `toml:"jobs"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

type DumpConfig struct {
	Color string `toml:"color"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Trace: TraceConfig{Level: "off", Mode: "stream"},
		Dump:  DumpConfig{Color: "auto"},
	}
}

// IsDefined reports whether the file set the given key, e.g.
// IsDefined("eval", "jobs").
func (c Config) IsDefined(key ...string) bool {
	if c.Path == "" {
		return false
	}
	return c.meta.IsDefined(key...)
}

// Find walks up from startDir looking for graphir.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path, or searches upward from the working directory when path
// is empty. A missing file found by search is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		found, ok, err := Find(".")
		if err != nil {
			return Config{}, err
		}
		if !ok {
			return Default(), nil
		}
		path = found
	}
	return LoadFile(path)
}

// LoadFile decodes a single file over the defaults and validates it.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.meta = meta
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Eval.MaxDepth < 0 {
		return fmt.Errorf("[eval].max_depth must not be negative")
	}
	if c.Eval.Jobs < 0 {
		return fmt.Errorf("[eval].jobs must not be negative")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Dump.Color)) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[dump].color: invalid value %q (expected auto|on|off)", c.Dump.Color)
	}
	return nil
}
