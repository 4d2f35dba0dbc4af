package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-inkfit/internal/config"
	"github.com/alnah/go-inkfit/internal/yamlutil"
)

// FilesystemLoader loads device profiles from a directory on disk.
// Implements the Loader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks so the containment check below compares real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// Load reads {basePath}/{name}.yaml, falling back to .yml. User profiles
// parse leniently: unknown keys from a newer release are ignored rather than
// rejected.
func (f *FilesystemLoader) Load(name string) (*config.Config, error) {
	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}

	var data []byte
	var readErr error
	found := false
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(f.basePath, name+ext)
		if err := f.verifyPathContainment(path); err != nil {
			return nil, err
		}
		data, readErr = os.ReadFile(path) // #nosec G304 -- path validated above
		if readErr == nil {
			found = true
			break
		}
		if !os.IsNotExist(readErr) {
			return nil, fmt.Errorf("%w: %v", ErrProfileRead, readErr)
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	var cfg config.Config
	if err := yamlutil.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrProfileParse, name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return &cfg, nil
}

// List returns the profile names found in the base directory, sorted.
func (f *FilesystemLoader) List() ([]string, error) {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileRead, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n := entry.Name()
		switch {
		case strings.HasSuffix(n, ".yaml"):
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		case strings.HasSuffix(n, ".yml"):
			names = append(names, strings.TrimSuffix(n, ".yml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// verifyPathContainment ensures the resolved file path is within basePath.
// Prevents traversal even if name validation is bypassed, including escapes
// through symlinks.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// If the file doesn't exist EvalSymlinks fails; the prefix check below
	// still runs on the unresolved path and the read fails afterwards anyway.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ Loader = (*FilesystemLoader)(nil)
