package main

import (
	"time"

	inkfit "github.com/alnah/go-inkfit"
	"github.com/alnah/go-inkfit/internal/config"
)

// buildOptions maps the merged configuration onto library options. Unset
// config fields keep the library defaults. The config has already been
// validated, so enum strings and numeric ranges are trusted here.
func buildOptions(cfg *config.Config) *inkfit.Options {
	opts := inkfit.DefaultOptions()

	if cfg.Page.Size != "" {
		opts.PageSize = inkfit.PageSizePreset(cfg.Page.Size)
	}
	if cfg.Page.WidthPt > 0 {
		opts.PageWidthPt = cfg.Page.WidthPt
	}
	if cfg.Page.HeightPt > 0 {
		opts.PageHeightPt = cfg.Page.HeightPt
	}
	if v := cfg.Page.MarginPt; v != nil {
		opts.MarginPt = *v
	}
	if m := cfg.Page.Margins; m != nil {
		opts.Margins = &inkfit.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
	}

	if cfg.Render.DPI > 0 {
		opts.DPI = cfg.Render.DPI
	}

	if v := cfg.Tone.AutoContrast; v != nil {
		opts.AutoContrast = *v
	}
	if v := cfg.Tone.ContrastCutoff; v != nil {
		opts.ContrastCutoff = *v
	}
	if v := cfg.Tone.Bilevel; v != nil {
		opts.Bilevel = *v
	}
	if v := cfg.Tone.Dither; v != nil {
		opts.Dither = *v
	}
	if v := cfg.Tone.Sharpen; v != nil {
		opts.Sharpen = *v
	}

	if v := cfg.Crop.Enabled; v != nil {
		opts.Crop = *v
	}
	if v := cfg.Crop.Threshold; v != nil {
		opts.CropThreshold = uint8(*v) // Validate keeps this in 1-255
	}
	if v := cfg.Crop.PadPt; v != nil {
		opts.CropPadPt = *v
	}

	if cfg.Fit.Mode != "" {
		opts.FitMode = inkfit.FitMode(cfg.Fit.Mode)
	}
	if v := cfg.Fit.RotateLandscape; v != nil {
		opts.RotateLandscape = *v
	}

	if cfg.Engine.Mode != "" {
		opts.EngineMode = inkfit.EngineMode(cfg.Engine.Mode)
	}
	if cfg.Engine.Quality != "" {
		opts.Quality = inkfit.Quality(cfg.Engine.Quality)
	}

	return opts
}

// resolveTimeout parses the merged timeout setting. Validation already
// bounded it; empty means the library default.
func resolveTimeout(cfg *config.Config) time.Duration {
	if cfg.Engine.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(cfg.Engine.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// resolveSuffix picks the output filename suffix. An explicit suffix wins;
// otherwise outputs are tagged with the profile that produced them, so
// doc.pdf optimized for scribe becomes doc_scribe.pdf.
func resolveSuffix(cfg *config.Config, profileName string) string {
	if cfg.Output.Suffix != "" {
		return cfg.Output.Suffix
	}
	return "_" + profileName
}
