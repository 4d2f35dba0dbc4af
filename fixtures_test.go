package inkfit

// Shared fixtures and fakes for the pipeline tests. Real PDFs are built
// in-process with gofpdf so tests stay hermetic; rendering and the external
// engine are faked so no MuPDF or Ghostscript install is needed.

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// buildTestPDF produces a minimal document with one page per box.
func buildTestPDF(t *testing.T, boxes ...PageBox) []byte {
	t.Helper()

	if len(boxes) == 0 {
		t.Fatal("buildTestPDF needs at least one page")
	}
	first := gofpdf.SizeType{Wd: boxes[0].WidthPt, Ht: boxes[0].HeightPt}
	doc := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: first})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	for i, box := range boxes {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: box.WidthPt, Ht: box.HeightPt})
		doc.SetFillColor(40, 40, 40)
		doc.Rect(box.WidthPt/4, box.HeightPt/4, box.WidthPt/2, box.HeightPt/2, "F")
		doc.SetFont("Helvetica", "", 10)
		doc.Text(box.WidthPt/4, box.HeightPt/5, fmt.Sprintf("page %d", i+1))
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("building fixture PDF: %v", err)
	}
	return buf.Bytes()
}

// fakeRunner records invocations and plays back canned results. When the
// command carries an -sOutputFile= argument, output bytes are written there
// the way the real engine would.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	stdout []byte
	stderr []byte
	err    error
	output []byte
}

var _ CommandRunner = (*fakeRunner)(nil)

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if r.err != nil {
		return r.stdout, r.stderr, r.err
	}
	if r.output != nil {
		for _, arg := range args {
			if path, ok := strings.CutPrefix(arg, "-sOutputFile="); ok {
				if err := os.WriteFile(path, r.output, 0o600); err != nil {
					return nil, nil, err
				}
			}
		}
	}
	return r.stdout, r.stderr, nil
}

func (r *fakeRunner) lastCall() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

// fakeGrayscaler skips the external engine entirely.
type fakeGrayscaler struct {
	mu      sync.Mutex
	out     []byte
	err     error
	quality Quality
	calls   int
}

var _ grayscaler = (*fakeGrayscaler)(nil)

func (g *fakeGrayscaler) Grayscale(ctx context.Context, pdf []byte, quality Quality) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.quality = quality
	if g.err != nil {
		return nil, g.err
	}
	if g.out != nil {
		return g.out, nil
	}
	return pdf, nil
}

// fakePage describes one synthetic page: its size and an optional ink
// region in PDF user space.
type fakePage struct {
	box PageBox
	ink ContentBox
}

// fakeOpener hands out fakeRenderers over the same synthetic pages.
type fakeOpener struct {
	mu      sync.Mutex
	pages   []fakePage
	openErr error
	failAt  int // 1-based page index whose render fails; 0 disables
	opened  int
}

var _ rendererOpener = (*fakeOpener)(nil)

func (o *fakeOpener) Open(pdf []byte) (pageRenderer, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opened++
	return &fakeRenderer{pages: o.pages, failAt: o.failAt}, nil
}

type fakeRenderer struct {
	pages  []fakePage
	failAt int
	closed bool
}

var _ pageRenderer = (*fakeRenderer)(nil)

func (r *fakeRenderer) NumPages() int { return len(r.pages) }

func (r *fakeRenderer) Render(ctx context.Context, pageIdx, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.failAt != 0 && pageIdx == r.failAt-1 {
		return nil, fmt.Errorf("%w: synthetic failure on page %d", ErrRender, pageIdx+1)
	}
	if pageIdx < 0 || pageIdx >= len(r.pages) {
		return nil, fmt.Errorf("%w: page %d out of range", ErrRender, pageIdx+1)
	}

	p := r.pages[pageIdx]
	w := ptToPx(p.box.WidthPt, dpi)
	h := ptToPx(p.box.HeightPt, dpi)
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	if p.ink.Width() > 0 && p.ink.Height() > 0 {
		x0 := ptToPx(p.ink.X0, dpi)
		x1 := ptToPx(p.ink.X1, dpi)
		yTop := ptToPx(p.box.HeightPt-p.ink.Y1, dpi)
		yBot := ptToPx(p.box.HeightPt-p.ink.Y0, dpi)
		for y := yTop; y < yBot && y < h; y++ {
			for x := x0; x < x1 && x < w; x++ {
				if x >= 0 && y >= 0 {
					img.SetGray(x, y, color.Gray{Y: 0})
				}
			}
		}
	}
	return img, nil
}

func (r *fakeRenderer) Close() error {
	r.closed = true
	return nil
}

// outputPageBoxes parses a produced document and returns its page sizes, so
// tests can assert on the geometry the reader will see.
func outputPageBoxes(t *testing.T, pdf []byte) []PageBox {
	t.Helper()

	ctx, err := readContext(pdf)
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	boxes, err := effectivePageBoxes(ctx)
	if err != nil {
		t.Fatalf("reading output page boxes: %v", err)
	}
	return boxes
}
