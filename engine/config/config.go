package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config drives the command line tools and the player.
type Config struct {
	// LogLevel is one of debug, info, warn, error and fatal.
	LogLevel string `toml:"log_level"`
	// AssetsDir is scanned for .skm, .sk1 and .ska files.
	AssetsDir string `toml:"assets_dir"`
	// Layout is the default mesh layout for files without a known extension.
	Layout string `toml:"layout"`
	// Clip is the animation played by the player.
	Clip string `toml:"clip"`
	// TargetFPS is the frame rate of the player loop.
	TargetFPS int `toml:"target_fps"`
	// DurationSeconds stops the player after that long. 0 runs until interrupted.
	DurationSeconds float64 `toml:"duration_seconds"`
	// Speed scales the delta time handed to the animation.
	Speed float64 `toml:"speed"`
	// Watch reloads assets when their files change.
	Watch bool `toml:"watch"`
	// Workers is the size of the decoding worker pool.
	Workers int `toml:"workers"`
	// ExportDir receives exported .glb files.
	ExportDir string `toml:"export_dir"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		AssetsDir: "assets",
		Layout:    mesh.LayoutChunked.String(),
		TargetFPS: 60,
		Speed:     1,
		Workers:   runtime.NumCPU(),
		ExportDir: "export",
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	d := toml.NewDecoder(f)
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %s", ErrInvalidConfig, path, row, col, de.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Flags are command line overrides. Zero values keep the configured value.
type Flags struct {
	ConfigPath      string
	LogLevel        string
	AssetsDir       string
	Layout          string
	Clip            string
	TargetFPS       int
	DurationSeconds float64
	Speed           float64
	Watch           bool
	Workers         int
	ExportDir       string
}

// Resolve loads the configuration file named by the flags, if any, applies
// the overrides and validates the result.
func Resolve(f Flags) (*Config, error) {
	cfg := Default()
	if f.ConfigPath != "" {
		var err error
		if cfg, err = Load(f.ConfigPath); err != nil {
			return nil, err
		}
	}

	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.AssetsDir != "" {
		cfg.AssetsDir = f.AssetsDir
	}
	if f.Layout != "" {
		cfg.Layout = f.Layout
	}
	if f.Clip != "" {
		cfg.Clip = f.Clip
	}
	if f.TargetFPS != 0 {
		cfg.TargetFPS = f.TargetFPS
	}
	if f.DurationSeconds != 0 {
		cfg.DurationSeconds = f.DurationSeconds
	}
	if f.Speed != 0 {
		cfg.Speed = f.Speed
	}
	if f.Watch {
		cfg.Watch = true
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
	if f.ExportDir != "" {
		cfg.ExportDir = f.ExportDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if _, err := mesh.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.TargetFPS <= 0 {
		return fmt.Errorf("%w: target_fps must be positive, got %d", ErrInvalidConfig, c.TargetFPS)
	}
	if c.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// MeshLayout returns the parsed Layout. Validate must have succeeded.
func (c *Config) MeshLayout() mesh.Layout {
	l, _ := mesh.ParseLayout(c.Layout)
	return l
}
