package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	inkfit "github.com/alnah/go-inkfit"
	"github.com/alnah/go-inkfit/internal/config"
	"github.com/alnah/go-inkfit/internal/profiles"
)

// runOptimize orchestrates the optimization process.
func runOptimize(ctx context.Context, positionalArgs []string, flags *optimizeFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, profileName, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output directory and filename suffix
	outputDir := resolveOutputDir(flags.output, cfg)
	suffix := resolveSuffix(cfg, profileName)

	// Discover files to optimize
	files, err := discoverFiles(inputPath, outputDir, suffix)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", inputPath)
	}

	opts := buildOptions(cfg)

	// One shared service; cores are split between in-flight documents and
	// per-document page rendering.
	poolSize := resolvePoolSize(cfg.Render.Workers)
	svcOpts := []inkfit.Option{inkfit.WithWorkers(pageWorkersFor(poolSize))}
	if timeout := resolveTimeout(cfg); timeout > 0 {
		svcOpts = append(svcOpts, inkfit.WithTimeout(timeout))
	}
	svc := env.NewService(svcOpts...)

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "profile %s, %d worker(s), %d file(s)\n", profileName, poolSize, len(files))
	}

	// Optimize files
	results := optimizeBatch(ctx, svc, files, opts, poolSize)

	// Print results
	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d optimization(s) failed", failedCount)
	}

	return nil
}

// resolveConfig builds the effective configuration for a run and returns it
// with the resolved profile name. The device profile is the base layer.
// Precedence: flags over config file over profile, with environment
// variables backfilling whatever none of them set.
func resolveConfig(flags *optimizeFlags, env *Environment) (*config.Config, string, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	// Load the user config when one is named. There is no silent
	// auto-discovery; without a name the run is profile + flags only.
	userCfg := config.DefaultConfig()
	configName := firstNonEmpty(flags.common.config, envCfg.Config)
	if configName != "" {
		var err error
		userCfg, err = config.LoadConfig(configName)
		if err != nil {
			return nil, "", fmt.Errorf("loading config: %w", err)
		}
	}

	// Resolve the device profile and use it as the base layer.
	profileName := firstNonEmpty(flags.common.profile, userCfg.Profile, envCfg.Profile, profiles.DefaultProfile)
	cfg, err := env.Profiles.Load(profileName)
	if err != nil {
		return nil, "", fmt.Errorf("loading profile %q: %w", profileName, err)
	}

	cfg.Merge(userCfg)
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, profileName, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *optimizeFlags, cfg *config.Config) error {
	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.width > 0 {
		cfg.Page.WidthPt = flags.page.width
	}
	if flags.page.height > 0 {
		cfg.Page.HeightPt = flags.page.height
	}
	// Bare --page-width/--page-height switch the run to a custom page, so
	// users do not have to spell --page-size custom as well.
	if (flags.page.width > 0 || flags.page.height > 0) && flags.page.size == "" {
		cfg.Page.Size = "custom"
	}
	if flags.page.margin != marginSentinel {
		m := flags.page.margin
		cfg.Page.MarginPt = &m
	}
	if flags.page.margins != "" {
		m, err := parseMargins(flags.page.margins)
		if err != nil {
			return err
		}
		cfg.Page.Margins = m
	}

	// Render flags
	if flags.dpi > 0 {
		cfg.Render.DPI = flags.dpi
	}
	if flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}

	// Tone flags
	mergeToggle(&cfg.Tone.AutoContrast, flags.tone.autoContrast, flags.tone.noAutoContrast)
	mergeToggle(&cfg.Tone.Bilevel, flags.tone.bilevel, flags.tone.noBilevel)
	mergeToggle(&cfg.Tone.Dither, flags.tone.dither, flags.tone.noDither)
	mergeToggle(&cfg.Tone.Sharpen, flags.tone.sharpen, flags.tone.noSharpen)
	if flags.tone.cutoff != cutoffSentinel {
		v := flags.tone.cutoff
		cfg.Tone.ContrastCutoff = &v
	}

	// Crop flags
	mergeToggle(&cfg.Crop.Enabled, flags.crop.crop, flags.crop.noCrop)
	if flags.crop.threshold != thresholdSentinel {
		v := flags.crop.threshold
		cfg.Crop.Threshold = &v
	}
	if flags.crop.pad != cropPadSentinel {
		v := flags.crop.pad
		cfg.Crop.PadPt = &v
	}

	// Fit flags
	if flags.fit.mode != "" {
		cfg.Fit.Mode = flags.fit.mode
	}
	mergeToggle(&cfg.Fit.RotateLandscape, flags.fit.rotate, flags.fit.noRotate)

	// Engine flags
	if flags.engine.mode != "" {
		cfg.Engine.Mode = flags.engine.mode
	}
	if flags.engine.quality != "" {
		cfg.Engine.Quality = flags.engine.quality
	}
	if flags.engine.timeout != "" {
		cfg.Engine.Timeout = flags.engine.timeout
	}

	// Output flags
	if flags.suffix != "" {
		cfg.Output.Suffix = flags.suffix
	}

	return nil
}

// mergeToggle applies a paired --x/--no-x flag onto a pointer config field.
// Neither set leaves the field alone; --no-x wins when both are given.
func mergeToggle(dst **bool, on, off bool) {
	switch {
	case off:
		v := false
		*dst = &v
	case on:
		v := true
		*dst = &v
	}
}

// parseMargins parses "--margins=14,10,14,10" as top,right,bottom,left points.
func parseMargins(value string) (*config.MarginsConfig, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: --margins wants top,right,bottom,left in points, got %q", ErrInvalidFlagValue, value)
	}
	sides := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: --margins value %q is not a number", ErrInvalidFlagValue, strings.TrimSpace(p))
		}
		sides[i] = f
	}
	return &config.MarginsConfig{Top: sides[0], Right: sides[1], Bottom: sides[2], Left: sides[3]}, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// firstNonEmpty returns the first non-empty string, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
