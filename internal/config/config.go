// Package config provides configuration types, defaults, and persistence
// for the scrollbox demo binary.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zjrosen/scrollbox/internal/log"
)

// UIConfig holds user interface configuration options.
type UIConfig struct {
	// Alignment is the default scroll-into-view alignment:
	// "auto", "top", "bottom" or "center".
	Alignment string `mapstructure:"alignment"`

	// DebugOverflow disables viewport clipping for visual inspection.
	DebugOverflow bool `mapstructure:"debug_overflow"`

	ShowScrollbar bool `mapstructure:"show_scrollbar"`

	// WheelLines is how many rows a mouse wheel notch scrolls.
	WheelLines int `mapstructure:"wheel_lines"`
}

// ViewportConfig sizes the demo container. Dimensions are either a fixed
// cell count ("80") or a percentage of the terminal ("75%").
type ViewportConfig struct {
	Width  string `mapstructure:"width"`
	Height string `mapstructure:"height"`
}

// ThemeConfig holds accent color overrides as hex strings.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
}

// Config holds all configuration options for scrollbox.
type Config struct {
	UI       UIConfig       `mapstructure:"ui"`
	Viewport ViewportConfig `mapstructure:"viewport"`
	Theme    ThemeConfig    `mapstructure:"theme"`

	// Path is the file the config was loaded from, empty when running on
	// built-in defaults. Set by the cmd layer so in-app changes can be
	// saved back; never read from the file itself.
	Path string `mapstructure:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		UI: UIConfig{
			Alignment:     "auto",
			DebugOverflow: false,
			ShowScrollbar: true,
			WheelLines:    3,
		},
		Viewport: ViewportConfig{
			Width:  "100%",
			Height: "100%",
		},
	}
}

// Validate checks the config for values that cannot be applied.
func Validate(cfg Config) error {
	switch strings.ToLower(cfg.UI.Alignment) {
	case "", "auto", "top", "bottom", "center":
	default:
		return fmt.Errorf("ui.alignment: unknown alignment %q", cfg.UI.Alignment)
	}
	if cfg.UI.WheelLines < 0 {
		return fmt.Errorf("ui.wheel_lines: must be >= 0, got %d", cfg.UI.WheelLines)
	}
	for _, dim := range []struct{ name, value string }{
		{"viewport.width", cfg.Viewport.Width},
		{"viewport.height", cfg.Viewport.Height},
	} {
		if dim.value == "" {
			continue
		}
		if _, err := ResolveDimension(dim.value, 100); err != nil {
			return fmt.Errorf("%s: %w", dim.name, err)
		}
	}
	return nil
}

// ResolveDimension converts a dimension spec to cells. "80" is a fixed
// count; "75%" is a share of total. Empty means the full total. Results
// are clamped to [0, total].
func ResolveDimension(spec string, total int) (int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return total, nil
	}

	var n int
	if pct, ok := strings.CutSuffix(spec, "%"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(pct))
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q", spec)
		}
		n = total * v / 100
	} else {
		v, err := strconv.Atoi(spec)
		if err != nil {
			return 0, fmt.Errorf("invalid dimension %q (want a cell count or percentage)", spec)
		}
		n = v
	}

	if n < 0 {
		n = 0
	} else if n > total {
		n = total
	}
	return n, nil
}

// DefaultConfigTemplate returns the commented YAML written for new users.
func DefaultConfigTemplate() string {
	return `# scrollbox configuration

ui:
  # Default scroll-into-view alignment: auto, top, bottom or center.
  # auto moves the minimum distance needed to make the item visible.
  alignment: auto

  # Disable viewport clipping so overflowing content stays visible.
  # Only useful when debugging layout issues.
  debug_overflow: false

  show_scrollbar: true

  # Rows scrolled per mouse wheel notch.
  wheel_lines: 3

viewport:
  # Fixed cell count ("80") or percentage of the terminal ("75%").
  width: "100%"
  height: "100%"

# Accent color overrides (hex). Leave empty for the built-in theme.
theme:
  highlight: ""
  subtle: ""
  error: ""
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
