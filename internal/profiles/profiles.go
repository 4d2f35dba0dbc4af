// Package profiles provides named device profiles: config presets tuned for
// a specific e-reader. Profiles load from embedded files or a custom
// directory, with custom taking precedence.
package profiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-inkfit/internal/config"
)

// DefaultProfile is used when neither flags, config, nor environment pick one.
const DefaultProfile = "scribe"

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidProfileName indicates the profile name contains invalid
	// characters such as path separators or traversal sequences.
	ErrInvalidProfileName = errors.New("invalid profile name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrProfileRead indicates an I/O error occurred while reading a profile file.
	ErrProfileRead = errors.New("failed to read profile")

	// ErrProfileParse indicates the profile file is not valid YAML.
	ErrProfileParse = errors.New("failed to parse profile")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)

// Loader is the contract for loading device profiles by name.
// Implementations may load from embedded files, the filesystem, or both.
type Loader interface {
	// Load returns the profile's config overlay by name (without extension).
	// Returns ErrProfileNotFound if the profile doesn't exist.
	// Returns ErrInvalidProfileName if the name contains invalid characters.
	Load(name string) (*config.Config, error)

	// List returns the available profile names, sorted.
	List() ([]string, error)
}

// ValidateProfileName checks that a profile name is safe for use as a
// filename. Returns ErrInvalidProfileName if the name is empty or contains
// path separators or dots.
func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProfileName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}
	return nil
}
