package inkfit

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Service orchestrates PDF optimization. Build it once with NewService and
// reuse it across documents; it is safe for concurrent use.
type Service struct {
	timeout time.Duration
	workers int

	runner CommandRunner
	probe  EngineProbe
	engine grayscaler
	opener rendererOpener
}

// NewService returns a Service wired to Ghostscript discovery and MuPDF
// rendering. Options override individual pieces.
func NewService(opts ...Option) *Service {
	s := &Service{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = &ExecRunner{}
	}
	if s.probe == nil {
		s.probe = gsProbe{runner: s.runner}
	}
	if s.opener == nil {
		s.opener = fitzOpener{}
	}
	if s.workers == 0 {
		s.workers = defaultWorkers()
	}
	return s
}

// defaultWorkers sizes the raster pool at half the available cores, clamped
// to [1, 8]. Rendering is CPU-bound, and leaving headroom keeps the host
// responsive during batch runs.
func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0) / 2
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}
	return n
}

// ProbeEngine reports whether the grayscale engine is reachable and which
// binary would run. Long-lived callers can feed the result back through
// WithEngineProbe to skip per-call discovery.
func (s *Service) ProbeEngine(ctx context.Context) EngineStatus {
	return s.probe.Probe(ctx)
}

// Optimize converts pdf for black-and-white reading devices according to
// opts; nil opts means DefaultOptions(). The Result reports which pipeline
// produced the output and, in auto mode, the vector error that forced a
// raster fallback. The output always has exactly the input's page count.
func (s *Service) Optimize(ctx context.Context, pdf []byte, opts *Options) (*Result, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.normalized()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pctx, err := readContext(pdf)
	if err != nil {
		return nil, err
	}
	srcBoxes, err := effectivePageBoxes(pctx)
	if err != nil {
		return nil, err
	}
	n := len(srcBoxes)

	switch o.EngineMode {
	case EngineRaster:
		out, err := s.runRaster(ctx, pdf, srcBoxes, o)
		if err != nil {
			return nil, err
		}
		return &Result{PDF: out, UsedPipeline: PipelineRaster, PageCount: n}, nil

	case EngineVector:
		status := s.probe.Probe(ctx)
		if !status.Available {
			return nil, ErrEngineUnavailable
		}
		out, err := s.runVector(ctx, pdf, srcBoxes, o, status)
		if err != nil {
			return nil, err
		}
		return &Result{PDF: out, UsedPipeline: PipelineVector, PageCount: n}, nil

	default: // EngineAuto
		var vecErr error
		if status := s.probe.Probe(ctx); status.Available {
			out, err := s.runVector(ctx, pdf, srcBoxes, o, status)
			if err == nil {
				return &Result{PDF: out, UsedPipeline: PipelineVector, PageCount: n}, nil
			}
			// A dead context also kills the fallback's chances; stop here.
			if ctx.Err() != nil {
				return nil, err
			}
			vecErr = err
		} else {
			vecErr = ErrEngineUnavailable
		}

		out, err := s.runRaster(ctx, pdf, srcBoxes, o)
		if err != nil {
			return nil, fmt.Errorf("raster fallback after %v: %w", vecErr, err)
		}
		return &Result{PDF: out, UsedPipeline: PipelineRaster, PageCount: n, FallbackErr: vecErr}, nil
	}
}

func (s *Service) runVector(ctx context.Context, pdf []byte, srcBoxes []PageBox, o *Options, status EngineStatus) ([]byte, error) {
	engine := s.engine
	if engine == nil {
		engine = &gsEngine{runner: s.runner, path: status.Path}
	}
	p := &vectorPipeline{engine: engine, opener: s.opener}
	return p.run(ctx, pdf, srcBoxes, o)
}

func (s *Service) runRaster(ctx context.Context, pdf []byte, srcBoxes []PageBox, o *Options) ([]byte, error) {
	p := &rasterPipeline{opener: s.opener, workers: s.workers}
	return p.run(ctx, pdf, srcBoxes, o)
}
