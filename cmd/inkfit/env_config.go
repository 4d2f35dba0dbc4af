package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-inkfit/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Selection
	Config  string // INKFIT_CONFIG: config file name or path
	Profile string // INKFIT_PROFILE: device profile name

	// I/O
	InputDir  string // INKFIT_INPUT_DIR: default input directory
	OutputDir string // INKFIT_OUTPUT_DIR: default output directory

	// Tuning
	PageSize string        // INKFIT_PAGE_SIZE: scribe, a5, source, custom
	DPI      int           // INKFIT_DPI: raster render resolution
	Workers  int           // INKFIT_WORKERS: parallel documents
	Timeout  time.Duration // INKFIT_TIMEOUT: per-document time budget
	Engine   string        // INKFIT_ENGINE: auto, vector, raster
	Quality  string        // INKFIT_QUALITY: downsampling preset
}

// knownEnvVars lists valid INKFIT_* environment variables.
// Used to detect typos and warn users about unknown variables.
// INKFIT_GS and INKFIT_PROFILE_DIR are consumed by the engine probe and the
// profile resolver rather than here, and INKFIT_CONTAINER by doctor; they are
// listed so the typo check accepts them.
var knownEnvVars = map[string]bool{
	// Selection
	"INKFIT_CONFIG":  true,
	"INKFIT_PROFILE": true,
	// I/O
	"INKFIT_INPUT_DIR":  true,
	"INKFIT_OUTPUT_DIR": true,
	// Tuning
	"INKFIT_PAGE_SIZE": true,
	"INKFIT_DPI":       true,
	"INKFIT_WORKERS":   true,
	"INKFIT_TIMEOUT":   true,
	"INKFIT_ENGINE":    true,
	"INKFIT_QUALITY":   true,
	// Consumed elsewhere
	"INKFIT_GS":          true,
	"INKFIT_PROFILE_DIR": true,
	"INKFIT_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized INKFIT_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		Config:    os.Getenv("INKFIT_CONFIG"),
		Profile:   os.Getenv("INKFIT_PROFILE"),
		InputDir:  os.Getenv("INKFIT_INPUT_DIR"),
		OutputDir: os.Getenv("INKFIT_OUTPUT_DIR"),
		PageSize:  os.Getenv("INKFIT_PAGE_SIZE"),
		Engine:    os.Getenv("INKFIT_ENGINE"),
		Quality:   os.Getenv("INKFIT_QUALITY"),
	}

	// Parse int for DPI
	if dpi := os.Getenv("INKFIT_DPI"); dpi != "" {
		if d, err := strconv.Atoi(dpi); err == nil && d > 0 {
			cfg.DPI = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("INKFIT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	// Parse duration for timeout
	if timeout := os.Getenv("INKFIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized INKFIT_* variables.
// Helps catch typos like INKFIT_PROFIL instead of INKFIT_PROFILE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "INKFIT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > config file > device profile > env vars
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.DPI > 0 && cfg.Render.DPI == 0 {
		cfg.Render.DPI = env.DPI
	}
	if env.Workers > 0 && cfg.Render.Workers == 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.Timeout > 0 && cfg.Engine.Timeout == "" {
		cfg.Engine.Timeout = env.Timeout.String()
	}
	if env.Engine != "" && cfg.Engine.Mode == "" {
		cfg.Engine.Mode = env.Engine
	}
	if env.Quality != "" && cfg.Engine.Quality == "" {
		cfg.Engine.Quality = env.Quality
	}
}
