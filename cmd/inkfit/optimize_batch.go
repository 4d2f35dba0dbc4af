package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	inkfit "github.com/alnah/go-inkfit"
	"github.com/alnah/go-inkfit/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadPDF  = errors.New("failed to read PDF file")
	ErrWritePDF = errors.New("failed to write PDF file")
)

// OptimizeResult holds the outcome of a single optimization.
type OptimizeResult struct {
	InputPath   string
	OutputPath  string
	Pipeline    inkfit.Pipeline
	PageCount   int
	FallbackErr error
	Err         error
	Duration    time.Duration
}

// optimizeBatch processes files concurrently on a shared service. The
// service is safe for concurrent use; concurrency bounds how many documents
// are in flight at once.
func optimizeBatch(ctx context.Context, svc Optimizer, files []FileToOptimize, opts *inkfit.Options, concurrency int) []OptimizeResult {
	if len(files) == 0 {
		return nil
	}

	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]OptimizeResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = OptimizeResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = optimizeFile(ctx, svc, files[idx], opts)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// optimizeFile processes a single file and returns the result.
func optimizeFile(ctx context.Context, svc Optimizer, f FileToOptimize, opts *inkfit.Options) OptimizeResult {
	start := time.Now()
	result := OptimizeResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadPDF, err)
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	optResult, err := svc.Optimize(ctx, content, opts)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Pipeline = optResult.UsedPipeline
	result.PageCount = optResult.PageCount
	result.FallbackErr = optResult.FallbackErr

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, optResult.PDF, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed optimizations.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed optimizations.
func countResults(results []OptimizeResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs optimization results using the provided writers.
func printResultsWithWriter(results []OptimizeResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if r.FallbackErr != nil && !quiet {
			fmt.Fprintf(env.Stderr, "WARN %s: %v%s\n", r.InputPath, r.FallbackErr, hints.ForVectorFallback())
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %d pages, %v)\n",
				r.InputPath, r.OutputPath, r.Pipeline, r.PageCount, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
