// Package config loads luedit.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"luedit/internal/trace"
)

// FileName is looked up from the working directory towards the root.
const FileName = "luedit.toml"

type Config struct {
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Render      RenderConfig      `toml:"render"`
	Gateway     GatewayConfig     `toml:"gateway"`
	LSP         LSPConfig         `toml:"lsp"`
	Log         LogConfig         `toml:"log"`
	Trace       TraceConfig       `toml:"trace"`

	// Path is the file the config was read from; empty for Default.
	Path string `toml:"-"`
}

type DiagnosticsConfig struct {
	// Max caps reported parse errors; 0 means no limit.
	Max int `toml:"max"`
}

type RenderConfig struct {
	EnableSections bool `toml:"enable_sections"`
}

type GatewayConfig struct {
	QueueSize int `toml:"queue_size"`
}

type LSPConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

// Default returns the settings used when no luedit.toml exists.
func Default() Config {
	return Config{
		Gateway: GatewayConfig{QueueSize: 64},
		LSP:     LSPConfig{DebounceMS: 150},
		Trace:   TraceConfig{Level: "off", Output: "-", Mode: "ring"},
	}
}

// Find walks up from startDir to locate luedit.toml.
func Find(startDir string) (path string, ok bool, err error) {
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

// Load reads path on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
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
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadNearest loads the closest luedit.toml above startDir, or Default
// when there is none.
func LoadNearest(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must be >= 0, got %d", c.Diagnostics.Max)
	}
	if c.Gateway.QueueSize <= 0 {
		return fmt.Errorf("[gateway].queue_size must be > 0, got %d", c.Gateway.QueueSize)
	}
	if c.LSP.DebounceMS < 0 {
		return fmt.Errorf("[lsp].debounce_ms must be >= 0, got %d", c.LSP.DebounceMS)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	return nil
}
