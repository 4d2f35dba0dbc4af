package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-inkfit/internal/config"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidExtension   = errors.New("file must have .pdf extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToOptimize represents a single file to process.
type FileToOptimize struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all PDF files to optimize. suffix is appended to each
// output filename stem; during directory walks it also identifies and skips
// the outputs of a previous run.
func discoverFiles(inputPath, outputDir, suffix string) ([]FileToOptimize, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validatePDFExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", suffix)
		return []FileToOptimize{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToOptimize
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if !strings.EqualFold(ext, ".pdf") {
			return nil
		}
		// Re-running over the same directory must not optimize its own
		// outputs into doc_scribe_scribe.pdf.
		base := strings.TrimSuffix(filepath.Base(path), ext)
		if suffix != "" && strings.HasSuffix(base, suffix) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, suffix)
		files = append(files, FileToOptimize{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a PDF file.
func resolveOutputPath(inputPath, outputDir, baseInputDir, suffix string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	name := base + suffix + ".pdf"

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validatePDFExtension checks that the file has a .pdf extension.
func validatePDFExtension(path string) error {
	ext := filepath.Ext(path)
	if !strings.EqualFold(ext, ".pdf") {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
