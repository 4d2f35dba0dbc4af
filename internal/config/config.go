package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-inkfit/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidField    = errors.New("invalid config field")
)

// Enum values accepted by the string fields. Validate and shell completion
// both read these so they cannot drift apart.
var (
	PageSizes   = []string{"scribe", "a5", "source", "custom"}
	FitModes    = []string{"contain", "fit-width", "fit-height", "stretch"}
	EngineModes = []string{"auto", "vector", "raster"}
	Qualities   = []string{"screen", "ebook", "printer", "prepress", "default"}
)

// Numeric bounds enforced on top of the library's own validation. The CLI
// rejects settings that would technically work but melt a laptop.
const (
	MinDPI            = 36
	MaxDPI            = 1200
	MaxWorkers        = 64
	MaxTimeout        = time.Hour
	MaxSuffixLength   = 50
	MaxProfileNameLen = 50
)

// Config holds every knob for an optimization run. Unset fields (empty
// strings, nil pointers, zero numbers) defer to the device profile and then
// to the library defaults. Boolean knobs whose default is on use pointers so
// "absent" and "explicitly off" stay distinguishable.
type Config struct {
	Profile string       `yaml:"profile"` // device profile name (default: scribe)
	Input   InputConfig  `yaml:"input"`
	Output  OutputConfig `yaml:"output"`
	Page    PageConfig   `yaml:"page"`
	Render  RenderConfig `yaml:"render"`
	Tone    ToneConfig   `yaml:"tone"`
	Crop    CropConfig   `yaml:"crop"`
	Fit     FitConfig    `yaml:"fit"`
	Engine  EngineConfig `yaml:"engine"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = alongside input)
	Suffix     string `yaml:"suffix"`     // Output filename suffix (empty = "_" + profile name)
}

// PageConfig defines the output page geometry.
type PageConfig struct {
	Size     string         `yaml:"size"`     // "scribe", "a5", "source", "custom"
	WidthPt  float64        `yaml:"widthPt"`  // Custom page width in points
	HeightPt float64        `yaml:"heightPt"` // Custom page height in points
	MarginPt *float64       `yaml:"marginPt"` // Uniform margin in points (default: 14)
	Margins  *MarginsConfig `yaml:"margins"`  // Per-side margins, overrides marginPt
}

// MarginsConfig holds per-side margins in points.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// RenderConfig defines raster pipeline settings.
type RenderConfig struct {
	DPI     int `yaml:"dpi"`     // Render resolution (default: 300)
	Workers int `yaml:"workers"` // Page render concurrency (0 = automatic)
}

// ToneConfig defines grayscale tone adjustments.
type ToneConfig struct {
	AutoContrast   *bool `yaml:"autoContrast"`   // Histogram stretch (default: true)
	ContrastCutoff *int  `yaml:"contrastCutoff"` // Percent clipped per tail, 0-49 (default: 1)
	Bilevel        *bool `yaml:"bilevel"`        // Pure black and white output (default: false)
	Dither         *bool `yaml:"dither"`         // Floyd-Steinberg when bilevel (default: true)
	Sharpen        *bool `yaml:"sharpen"`        // Unsharp mask after resize (default: false)
}

// CropConfig defines content detection options.
type CropConfig struct {
	Enabled   *bool    `yaml:"enabled"`   // Trim near-white borders (default: true)
	Threshold *int     `yaml:"threshold"` // Background gray level 1-255 (default: 245)
	PadPt     *float64 `yaml:"padPt"`     // Padding around detected content (default: 10)
}

// FitConfig defines how content scales into the printable area.
type FitConfig struct {
	Mode            string `yaml:"mode"`            // "contain", "fit-width", "fit-height", "stretch"
	RotateLandscape *bool  `yaml:"rotateLandscape"` // Rotate wide pages 90 degrees (default: false)
}

// EngineConfig defines grayscale engine settings.
type EngineConfig struct {
	Mode    string `yaml:"mode"`    // "auto", "vector", "raster"
	Quality string `yaml:"quality"` // "screen", "ebook", "printer", "prepress", "default"
	Timeout string `yaml:"timeout"` // Per-document budget, e.g. "90s" (default: 2m)
}

// Validate checks enum values and numeric ranges. Called automatically by
// LoadConfig, but available for consumers that construct Config directly.
func (c *Config) Validate() error {
	if len(c.Profile) > MaxProfileNameLen {
		return fmt.Errorf("%w: profile (%d chars, max %d)", ErrInvalidField, len(c.Profile), MaxProfileNameLen)
	}
	if strings.ContainsAny(c.Output.Suffix, "/\\") {
		return fmt.Errorf("%w: output.suffix must not contain path separators", ErrInvalidField)
	}
	if len(c.Output.Suffix) > MaxSuffixLength {
		return fmt.Errorf("%w: output.suffix (%d chars, max %d)", ErrInvalidField, len(c.Output.Suffix), MaxSuffixLength)
	}

	if err := validateEnum("page.size", c.Page.Size, PageSizes); err != nil {
		return err
	}
	if c.Page.WidthPt < 0 || c.Page.HeightPt < 0 {
		return fmt.Errorf("%w: page dimensions must not be negative", ErrInvalidField)
	}
	if c.Page.MarginPt != nil && *c.Page.MarginPt < 0 {
		return fmt.Errorf("%w: page.marginPt must not be negative, got %g", ErrInvalidField, *c.Page.MarginPt)
	}
	if m := c.Page.Margins; m != nil {
		if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
			return fmt.Errorf("%w: page.margins must not be negative", ErrInvalidField)
		}
	}

	if c.Render.DPI != 0 && (c.Render.DPI < MinDPI || c.Render.DPI > MaxDPI) {
		return fmt.Errorf("%w: render.dpi %d (want %d-%d)", ErrInvalidField, c.Render.DPI, MinDPI, MaxDPI)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers %d (want 0-%d)", ErrInvalidField, c.Render.Workers, MaxWorkers)
	}

	if v := c.Tone.ContrastCutoff; v != nil && (*v < 0 || *v > 49) {
		return fmt.Errorf("%w: tone.contrastCutoff %d (want 0-49)", ErrInvalidField, *v)
	}
	if v := c.Crop.Threshold; v != nil && (*v < 1 || *v > 255) {
		return fmt.Errorf("%w: crop.threshold %d (want 1-255)", ErrInvalidField, *v)
	}
	if v := c.Crop.PadPt; v != nil && *v < 0 {
		return fmt.Errorf("%w: crop.padPt must not be negative, got %g", ErrInvalidField, *v)
	}

	if err := validateEnum("fit.mode", c.Fit.Mode, FitModes); err != nil {
		return err
	}
	if err := validateEnum("engine.mode", c.Engine.Mode, EngineModes); err != nil {
		return err
	}
	if err := validateEnum("engine.quality", c.Engine.Quality, Qualities); err != nil {
		return err
	}
	if c.Engine.Timeout != "" {
		d, err := time.ParseDuration(c.Engine.Timeout)
		if err != nil {
			return fmt.Errorf("%w: engine.timeout %q: %v", ErrInvalidField, c.Engine.Timeout, err)
		}
		if d <= 0 || d > MaxTimeout {
			return fmt.Errorf("%w: engine.timeout %s (want >0 and <=%s)", ErrInvalidField, d, MaxTimeout)
		}
	}
	return nil
}

// validateEnum checks that value is empty or one of allowed.
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (want one of %s)", ErrInvalidField, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns an empty configuration. Every unset field falls
// through to the active device profile and then to the library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Merge copies set fields from overlay onto c: non-empty strings, non-zero
// numbers, and non-nil pointers win. Used to layer a user config over a
// device profile.
func (c *Config) Merge(overlay *Config) {
	if overlay == nil {
		return
	}
	if overlay.Profile != "" {
		c.Profile = overlay.Profile
	}
	if overlay.Input.DefaultDir != "" {
		c.Input.DefaultDir = overlay.Input.DefaultDir
	}
	if overlay.Output.DefaultDir != "" {
		c.Output.DefaultDir = overlay.Output.DefaultDir
	}
	if overlay.Output.Suffix != "" {
		c.Output.Suffix = overlay.Output.Suffix
	}
	if overlay.Page.Size != "" {
		c.Page.Size = overlay.Page.Size
	}
	if overlay.Page.WidthPt != 0 {
		c.Page.WidthPt = overlay.Page.WidthPt
	}
	if overlay.Page.HeightPt != 0 {
		c.Page.HeightPt = overlay.Page.HeightPt
	}
	if overlay.Page.MarginPt != nil {
		c.Page.MarginPt = overlay.Page.MarginPt
	}
	if overlay.Page.Margins != nil {
		c.Page.Margins = overlay.Page.Margins
	}
	if overlay.Render.DPI != 0 {
		c.Render.DPI = overlay.Render.DPI
	}
	if overlay.Render.Workers != 0 {
		c.Render.Workers = overlay.Render.Workers
	}
	if overlay.Tone.AutoContrast != nil {
		c.Tone.AutoContrast = overlay.Tone.AutoContrast
	}
	if overlay.Tone.ContrastCutoff != nil {
		c.Tone.ContrastCutoff = overlay.Tone.ContrastCutoff
	}
	if overlay.Tone.Bilevel != nil {
		c.Tone.Bilevel = overlay.Tone.Bilevel
	}
	if overlay.Tone.Dither != nil {
		c.Tone.Dither = overlay.Tone.Dither
	}
	if overlay.Tone.Sharpen != nil {
		c.Tone.Sharpen = overlay.Tone.Sharpen
	}
	if overlay.Crop.Enabled != nil {
		c.Crop.Enabled = overlay.Crop.Enabled
	}
	if overlay.Crop.Threshold != nil {
		c.Crop.Threshold = overlay.Crop.Threshold
	}
	if overlay.Crop.PadPt != nil {
		c.Crop.PadPt = overlay.Crop.PadPt
	}
	if overlay.Fit.Mode != "" {
		c.Fit.Mode = overlay.Fit.Mode
	}
	if overlay.Fit.RotateLandscape != nil {
		c.Fit.RotateLandscape = overlay.Fit.RotateLandscape
	}
	if overlay.Engine.Mode != "" {
		c.Engine.Mode = overlay.Engine.Mode
	}
	if overlay.Engine.Quality != "" {
		c.Engine.Quality = overlay.Engine.Quality
	}
	if overlay.Engine.Timeout != "" {
		c.Engine.Timeout = overlay.Engine.Timeout
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's treated as a config name and searched in standard locations.
// Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the locations LoadConfig would try for a config name,
// in order. Exposed so the CLI can suggest them when nothing is found.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "inkfit", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/inkfit/
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
