package inkfit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/alnah/go-inkfit/internal/fileutil"
	"github.com/alnah/go-inkfit/internal/process"
)

// EnvEngineBinary overrides grayscale engine discovery with an explicit
// binary path.
const EnvEngineBinary = "INKFIT_GS"

// engineCandidates are the binary names probed on PATH, in order.
var engineCandidates = []string{"gs", "gswin64c", "gswin32c"}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec. Commands run in their
// own process group so cancellation also reaps any children they spawn.
type ExecRunner struct{}

var _ CommandRunner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// =============================================================================
// Engine discovery
// =============================================================================

// EngineStatus describes the grayscale engine found on this system.
type EngineStatus struct {
	// Available reports whether an engine binary was found.
	Available bool
	// Path is the resolved binary path when Available.
	Path string
	// Version is the engine's self-reported version, best effort.
	Version string
}

// EngineProbe locates the grayscale engine. Probing happens once per
// Optimize call; long-running callers can probe at startup and inject the
// cached result with WithEngineProbe.
type EngineProbe interface {
	Probe(ctx context.Context) EngineStatus
}

// gsProbe discovers Ghostscript on PATH, honoring the EnvEngineBinary
// override.
type gsProbe struct {
	runner CommandRunner
}

var _ EngineProbe = gsProbe{}

func (p gsProbe) Probe(ctx context.Context) EngineStatus {
	path := os.Getenv(EnvEngineBinary)
	if path == "" {
		for _, name := range engineCandidates {
			if found, err := exec.LookPath(name); err == nil {
				path = found
				break
			}
		}
	}
	if path == "" {
		return EngineStatus{}
	}

	status := EngineStatus{Available: true, Path: path}
	if out, _, err := p.runner.Run(ctx, path, "--version"); err == nil {
		status.Version = strings.TrimSpace(string(out))
	}
	return status
}

// staticProbe returns a fixed status. Used to carry a startup probe result
// into the service.
type staticProbe struct {
	status EngineStatus
}

var _ EngineProbe = staticProbe{}

func (p staticProbe) Probe(context.Context) EngineStatus { return p.status }

// StaticEngineProbe wraps an already-known engine status as an EngineProbe.
func StaticEngineProbe(status EngineStatus) EngineProbe {
	return staticProbe{status: status}
}

// =============================================================================
// Grayscale conversion
// =============================================================================

// grayscaler converts a PDF to grayscale without rasterizing it.
type grayscaler interface {
	Grayscale(ctx context.Context, pdf []byte, quality Quality) ([]byte, error)
}

// gsEngine drives Ghostscript's pdfwrite device for vector-preserving
// grayscale conversion.
type gsEngine struct {
	runner CommandRunner
	path   string
}

var _ grayscaler = (*gsEngine)(nil)

func (e *gsEngine) Grayscale(ctx context.Context, pdf []byte, quality Quality) ([]byte, error) {
	if e.path == "" {
		return nil, ErrEngineUnavailable
	}

	inPath, cleanupIn, err := fileutil.WriteTempFile(pdf, "pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	defer cleanupIn()

	outPath, cleanupOut, err := fileutil.WriteTempFile(nil, "pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	defer cleanupOut()

	_, stderr, err := e.runner.Run(ctx, e.path, grayscaleArgs(quality, outPath, inPath)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngine, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrEngine, firstLine(stderr), err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading engine output: %v", ErrEngine, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: engine produced no output", ErrEngine)
	}
	return out, nil
}

// grayscaleArgs builds the pdfwrite invocation. The device keeps text and
// vectors intact while converting all color spaces to DeviceGray; the
// quality preset controls image downsampling inside the engine.
func grayscaleArgs(quality Quality, outPath, inPath string) []string {
	return []string{
		"-dSAFER", "-dBATCH", "-dNOPAUSE",
		"-dCompatibilityLevel=1.7",
		"-sDEVICE=pdfwrite",
		"-sColorConversionStrategy=Gray",
		"-dProcessColorModel=/DeviceGray",
		"-dConvertCMYKImagesToRGB=false",
		"-dDetectDuplicateImages=true",
		"-dPDFSETTINGS=/" + string(quality),
		"-sOutputFile=" + outPath,
		inPath,
	}
}

// firstLine trims engine stderr down to its leading line for error messages.
func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		s = "no diagnostic output"
	}
	return s
}
