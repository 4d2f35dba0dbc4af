package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	inkfit "github.com/alnah/go-inkfit"
	"github.com/alnah/go-inkfit/internal/profiles"
)

// Optimizer is the interface for the optimization service.
type Optimizer interface {
	Optimize(ctx context.Context, pdf []byte, opts *inkfit.Options) (*inkfit.Result, error)
	ProbeEngine(ctx context.Context) inkfit.EngineStatus
}

// Compile-time interface implementation check.
var _ Optimizer = (*inkfit.Service)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, profile loading, and service construction.
type Environment struct {
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
	Profiles   profiles.Loader
	NewService func(opts ...inkfit.Option) Optimizer
}

// DefaultEnv returns production dependencies with embedded device profiles.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Profiles: defaultProfileLoader(os.Stderr),
		NewService: func(opts ...inkfit.Option) Optimizer {
			return inkfit.NewService(opts...)
		},
	}
}

// defaultProfileLoader builds the profile source, layering a user directory
// from INKFIT_PROFILE_DIR over the embedded profiles. A broken directory is
// reported and ignored rather than making every command fail.
func defaultProfileLoader(stderr io.Writer) profiles.Loader {
	dir := os.Getenv("INKFIT_PROFILE_DIR")
	resolver, err := profiles.NewResolver(dir)
	if err != nil {
		fmt.Fprintf(stderr, "warning: ignoring INKFIT_PROFILE_DIR=%s: %v\n", dir, err)
		return profiles.NewEmbeddedLoader()
	}
	return resolver
}
