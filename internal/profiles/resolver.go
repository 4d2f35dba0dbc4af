package profiles

import (
	"errors"
	"sort"

	"github.com/alnah/go-inkfit/internal/config"
)

// Resolver combines a custom profile directory with the embedded set.
// Custom profiles take precedence; a name not found there falls back to the
// embedded profiles. This lets users override one device without losing the
// built-ins.
type Resolver struct {
	custom   Loader // nil if no custom directory configured
	embedded Loader
}

// NewResolver creates a Resolver. If customBasePath is empty, only embedded
// profiles are available. Returns an error if customBasePath is set but
// invalid.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// Load loads a profile, trying the custom directory first if configured.
func (r *Resolver) Load(name string) (*config.Config, error) {
	if r.custom == nil {
		return r.embedded.Load(name)
	}

	cfg, err := r.custom.Load(name)
	if err == nil {
		return cfg, nil
	}

	// Only fall back when the custom directory doesn't have it. Parse and
	// I/O errors surface directly so a broken override isn't silently masked.
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	return r.embedded.Load(name)
}

// List returns the union of custom and embedded profile names, sorted.
func (r *Resolver) List() ([]string, error) {
	names, err := r.embedded.List()
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}

	customNames, err := r.custom.List()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names)+len(customNames))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range customNames {
		if !seen[n] {
			names = append(names, n)
			seen[n] = true
		}
	}
	sort.Strings(names)
	return names, nil
}

// HasCustomLoader returns true if a custom profile directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
