// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-inkfit/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForEngineNotFound returns hints for a missing Ghostscript binary.
// Suggests the platform's package manager and the binary override variable.
func ForEngineNotFound() string {
	var hints []string

	switch {
	case IsInContainer():
		hints = append(hints, "install with: apt-get install ghostscript")
	case runtime.GOOS == "darwin":
		hints = append(hints, "install with: brew install ghostscript")
	case runtime.GOOS == "windows":
		hints = append(hints, "install from ghostscript.com/releases")
	default:
		hints = append(hints, "install with your package manager, e.g. apt install ghostscript")
	}

	if os.Getenv("INKFIT_GS") == "" {
		hints = append(hints, "or set INKFIT_GS to the binary path")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow documents.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/inkfit/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/inkfit) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/inkfit") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForProfileNotFound returns hints for profile not found errors.
func ForProfileNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForVectorFallback explains why a document went through the raster path.
func ForVectorFallback() string {
	return format("vector pass failed; output was rasterized (use --engine vector to fail instead)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
