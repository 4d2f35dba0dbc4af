package main

import (
	"context"
	"errors"
	"os"

	inkfit "github.com/alnah/go-inkfit"
	"github.com/alnah/go-inkfit/internal/config"
	"github.com/alnah/go-inkfit/internal/hints"
	"github.com/alnah/go-inkfit/internal/profiles"
)

// Exit codes for the inkfit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful optimization
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitEngine  = 4 // Grayscale engine errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Engine errors (exit 4)
	if errors.Is(err, inkfit.ErrEngine) ||
		errors.Is(err, inkfit.ErrEngineUnavailable) {
		return ExitEngine
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadPDF) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, profiles.ErrProfileNotFound) ||
		errors.Is(err, profiles.ErrInvalidProfileName) ||
		errors.Is(err, profiles.ErrProfileParse) ||
		errors.Is(err, profiles.ErrInvalidBasePath) ||
		errors.Is(err, inkfit.ErrEmptyDocument) ||
		errors.Is(err, inkfit.ErrInvalidPDF) ||
		errors.Is(err, inkfit.ErrInvalidPageSize) ||
		errors.Is(err, inkfit.ErrInvalidCustomSize) ||
		errors.Is(err, inkfit.ErrInvalidMargin) ||
		errors.Is(err, inkfit.ErrMarginTooLarge) ||
		errors.Is(err, inkfit.ErrInvalidDPI) ||
		errors.Is(err, inkfit.ErrInvalidContrastCutoff) ||
		errors.Is(err, inkfit.ErrInvalidCropPad) ||
		errors.Is(err, inkfit.ErrInvalidFitMode) ||
		errors.Is(err, inkfit.ErrInvalidQuality) ||
		errors.Is(err, inkfit.ErrInvalidEngineMode) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFlagValue) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns a recovery hint for well-known failures, or "" when no
// hint applies. configName and loader give the hint text its specifics.
func hintFor(err error, configName string, loader profiles.Loader) string {
	switch {
	case errors.Is(err, inkfit.ErrEngineUnavailable):
		return hints.ForEngineNotFound()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, profiles.ErrProfileNotFound):
		var available []string
		if loader != nil {
			available, _ = loader.List()
		}
		return hints.ForProfileNotFound(available)
	case errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}
