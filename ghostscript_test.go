package inkfit

// Notes:
// - The exact engine argument order is pinned: flag order changes engine
//   behavior (later flags override earlier ones), so a reorder is a bug.
// - Probe tests mutate INKFIT_GS and PATH via t.Setenv and cannot run in
//   parallel.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestGrayscaleArgs - Engine invocation
// ---------------------------------------------------------------------------

func TestGrayscaleArgs(t *testing.T) {
	t.Parallel()

	got := grayscaleArgs(QualityPrepress, "/tmp/out.pdf", "/tmp/in.pdf")
	want := []string{
		"-dSAFER", "-dBATCH", "-dNOPAUSE",
		"-dCompatibilityLevel=1.7",
		"-sDEVICE=pdfwrite",
		"-sColorConversionStrategy=Gray",
		"-dProcessColorModel=/DeviceGray",
		"-dConvertCMYKImagesToRGB=false",
		"-dDetectDuplicateImages=true",
		"-dPDFSETTINGS=/prepress",
		"-sOutputFile=/tmp/out.pdf",
		"/tmp/in.pdf",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grayscaleArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestGrayscaleArgs_QualityPresets(t *testing.T) {
	t.Parallel()

	for _, q := range []Quality{QualityScreen, QualityEbook, QualityPrinter, QualityPrepress, QualityDefault} {
		args := grayscaleArgs(q, "out.pdf", "in.pdf")
		want := "-dPDFSETTINGS=/" + string(q)
		found := false
		for _, a := range args {
			if a == want {
				found = true
			}
		}
		if !found {
			t.Errorf("grayscaleArgs(%q) missing %q", q, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGsEngine_Grayscale - Conversion through the runner
// ---------------------------------------------------------------------------

func TestGsEngine_Grayscale(t *testing.T) {
	t.Parallel()

	wantOut := []byte("%PDF-1.7 grayscale fixture")
	runner := &fakeRunner{output: wantOut}
	engine := &gsEngine{runner: runner, path: "/usr/bin/gs"}

	got, err := engine.Grayscale(context.Background(), []byte("%PDF-1.7 input"), QualityEbook)
	if err != nil {
		t.Fatalf("Grayscale() error = %v", err)
	}
	if string(got) != string(wantOut) {
		t.Errorf("Grayscale() = %q, want %q", got, wantOut)
	}

	call := runner.lastCall()
	if call == nil {
		t.Fatal("runner was never invoked")
	}
	if call[0] != "/usr/bin/gs" {
		t.Errorf("binary = %q, want /usr/bin/gs", call[0])
	}
	if call[1] != "-dSAFER" {
		t.Errorf("first flag = %q, want -dSAFER", call[1])
	}
	var hasQuality bool
	for _, a := range call {
		if a == "-dPDFSETTINGS=/ebook" {
			hasQuality = true
		}
	}
	if !hasQuality {
		t.Error("quality flag -dPDFSETTINGS=/ebook not passed")
	}
	if last := call[len(call)-1]; !strings.HasSuffix(last, ".pdf") {
		t.Errorf("input path = %q, want a .pdf temp file", last)
	}
}

func TestGsEngine_Grayscale_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		engine  *gsEngine
		wantErr error
	}{
		{
			name:    "no binary resolved",
			engine:  &gsEngine{runner: &fakeRunner{}, path: ""},
			wantErr: ErrEngineUnavailable,
		},
		{
			name: "engine exits nonzero",
			engine: &gsEngine{
				runner: &fakeRunner{stderr: []byte("GPL Ghostscript: Unrecoverable error\n"), err: errors.New("exit status 1")},
				path:   "/usr/bin/gs",
			},
			wantErr: ErrEngine,
		},
		{
			name: "engine produced no output",
			engine: &gsEngine{
				runner: &fakeRunner{},
				path:   "/usr/bin/gs",
			},
			wantErr: ErrEngine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.engine.Grayscale(context.Background(), []byte("%PDF-1.7"), QualityPrepress)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Grayscale() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGsEngine_Grayscale_IncludesStderr(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		stderr: []byte("Error: /undefined in obj\nsecond line\n"),
		err:    errors.New("exit status 1"),
	}
	engine := &gsEngine{runner: runner, path: "/usr/bin/gs"}

	_, err := engine.Grayscale(context.Background(), []byte("%PDF-1.7"), QualityPrepress)
	if err == nil {
		t.Fatal("Grayscale() error = nil, want engine failure")
	}
	if !strings.Contains(err.Error(), "Error: /undefined in obj") {
		t.Errorf("error %q does not carry the engine diagnostic", err)
	}
	if strings.Contains(err.Error(), "second line") {
		t.Errorf("error %q should only carry the first stderr line", err)
	}
}

func TestGsEngine_Grayscale_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := &gsEngine{runner: &fakeRunner{}, path: "/usr/bin/gs"}
	_, err := engine.Grayscale(ctx, []byte("%PDF-1.7"), QualityPrepress)
	if !errors.Is(err, ErrEngine) {
		t.Errorf("Grayscale() error = %v, want %v", err, ErrEngine)
	}
}

// ---------------------------------------------------------------------------
// TestGsProbe - Engine discovery
// ---------------------------------------------------------------------------

// NOTE: mutates INKFIT_GS; not parallel.
func TestGsProbe_EnvOverride(t *testing.T) {
	t.Setenv(EnvEngineBinary, "/opt/gs/bin/gs")

	probe := gsProbe{runner: &fakeRunner{stdout: []byte("10.03.1\n")}}
	status := probe.Probe(context.Background())

	if !status.Available {
		t.Fatal("Probe() Available = false, want true")
	}
	if status.Path != "/opt/gs/bin/gs" {
		t.Errorf("Path = %q, want env override", status.Path)
	}
	if status.Version != "10.03.1" {
		t.Errorf("Version = %q, want trimmed 10.03.1", status.Version)
	}
}

// NOTE: mutates PATH; not parallel.
func TestGsProbe_NotFound(t *testing.T) {
	t.Setenv(EnvEngineBinary, "")
	t.Setenv("PATH", t.TempDir())

	probe := gsProbe{runner: &fakeRunner{}}
	status := probe.Probe(context.Background())

	if status.Available {
		t.Errorf("Probe() = %+v, want unavailable", status)
	}
}

func TestStaticEngineProbe(t *testing.T) {
	t.Parallel()

	want := EngineStatus{Available: true, Path: "/usr/bin/gs", Version: "10.02"}
	got := StaticEngineProbe(want).Probe(context.Background())
	if got != want {
		t.Errorf("Probe() = %+v, want %+v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestFirstLine - Stderr trimming
// ---------------------------------------------------------------------------

func TestFirstLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{
			name: "multi-line keeps first",
			in:   []byte("first\nsecond\nthird"),
			want: "first",
		},
		{
			name: "surrounding space trimmed",
			in:   []byte("  message  \n"),
			want: "message",
		},
		{
			name: "empty input placeholder",
			in:   nil,
			want: "no diagnostic output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := firstLine(tt.in); got != tt.want {
				t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
