package profiles

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-inkfit/internal/config"
	"github.com/alnah/go-inkfit/internal/yamlutil"
)

//go:embed devices/*.yaml
var devices embed.FS

// descriptions gives the one-line summary shown by the profiles command.
// Keys must match the embedded filenames.
var descriptions = map[string]string{
	"scribe":            "reMarkable-class 446x595 pt pages (default)",
	"a5":                "A5 paper, 420x595 pt",
	"source":            "keep original page size, tone pass only",
	"remarkable2":       "reMarkable 2, 1404x1872 px at 226 ppi",
	"kindle-paperwhite": "Kindle Paperwhite 11th gen, 1236x1648 px at 300 ppi",
	"kobo-libra":        "Kobo Libra 2, 1264x1680 px at 300 ppi",
}

// Describe returns the one-line summary for a built-in profile, or "" for
// profiles it doesn't know (e.g. user-supplied ones).
func Describe(name string) string {
	return descriptions[name]
}

// EmbeddedLoader loads device profiles compiled into the binary.
// Implements the Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load loads an embedded profile by name. Embedded files are ours, so they
// parse strictly; a failure here is a packaging bug, not user error.
func (e *EmbeddedLoader) Load(name string) (*config.Config, error) {
	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}

	data, err := devices.ReadFile("devices/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	var cfg config.Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrProfileParse, name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return &cfg, nil
}

// List returns the embedded profile names, sorted.
func (e *EmbeddedLoader) List() ([]string, error) {
	entries, err := devices.ReadDir("devices")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileRead, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
