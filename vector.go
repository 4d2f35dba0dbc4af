package inkfit

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// vectorPipeline produces the optimized document without rasterizing it: the
// external engine converts colors to grayscale, then each page's content
// stream is wrapped in a clip-and-transform prolog that scales and centers
// it on the target page. Text stays selectable and vectors stay sharp.
type vectorPipeline struct {
	engine grayscaler
	opener rendererOpener
}

func (p *vectorPipeline) run(ctx context.Context, pdf []byte, srcBoxes []PageBox, o *Options) ([]byte, error) {
	gray, err := p.engine.Grayscale(ctx, pdf, o.Quality)
	if err != nil {
		return nil, err
	}

	// Source-sized pages without cropping need no geometry work; the
	// grayscale pass is the whole job.
	if o.geometryNoop() {
		n, err := pageCount(gray)
		if err != nil {
			return nil, err
		}
		if n != len(srcBoxes) {
			return nil, fmt.Errorf("%w: engine returned %d pages, want %d", ErrPageCountChanged, n, len(srcBoxes))
		}
		return gray, nil
	}

	contentBoxes, err := p.contentBoxes(ctx, pdf, srcBoxes, o)
	if err != nil {
		return nil, err
	}

	return rewriteGeometry(gray, srcBoxes, contentBoxes, o)
}

// contentBoxes picks the region of each page to keep. Detection renders the
// original document rather than the engine output; the engine preserves
// geometry, and this keeps detection independent of its color rewriting.
func (p *vectorPipeline) contentBoxes(ctx context.Context, pdf []byte, srcBoxes []PageBox, o *Options) ([]ContentBox, error) {
	boxes := make([]ContentBox, len(srcBoxes))
	if !o.Crop {
		for i, pb := range srcBoxes {
			boxes[i] = fullPageBox(pb)
		}
		return boxes, nil
	}

	r, err := p.opener.Open(pdf)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if n := r.NumPages(); n != len(srcBoxes) {
		return nil, fmt.Errorf("%w: renderer sees %d pages, want %d", ErrRender, n, len(srcBoxes))
	}
	for i := range srcBoxes {
		box, err := detectContentBox(ctx, r, i, srcBoxes[i], o)
		if err != nil {
			return nil, err
		}
		boxes[i] = box
	}
	return boxes, nil
}

// rewriteGeometry rewrites every page of pdf so contentBoxes[i] lands scaled
// and centered on the target page. The original content streams are kept
// intact underneath the wrapper.
func rewriteGeometry(pdf []byte, srcBoxes []PageBox, contentBoxes []ContentBox, o *Options) ([]byte, error) {
	pctx, err := readContext(pdf)
	if err != nil {
		return nil, err
	}
	if pctx.PageCount != len(srcBoxes) {
		return nil, fmt.Errorf("%w: engine returned %d pages, want %d", ErrPageCountChanged, pctx.PageCount, len(srcBoxes))
	}

	for i := 1; i <= pctx.PageCount; i++ {
		if err := rewritePage(pctx, i, srcBoxes[i-1], contentBoxes[i-1], o); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := pdfapi.WriteContext(pctx, &out); err != nil {
		return nil, fmt.Errorf("%w: writing document: %v", ErrAssemble, err)
	}
	return out.Bytes(), nil
}

func rewritePage(pctx *model.Context, pageNr int, src PageBox, content ContentBox, o *Options) error {
	pageDict, _, inh, err := pctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrInvalidPDF, pageNr, err)
	}
	if pageDict == nil {
		return fmt.Errorf("%w: page %d not found", ErrInvalidPDF, pageNr)
	}

	target := o.targetBox(src)
	place, err := ComputePlacement(content, target, o.margins())
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNr, err)
	}

	raw, err := pctx.PageContent(pageDict, pageNr)
	if err != nil && !errors.Is(err, model.ErrNoContent) {
		return fmt.Errorf("%w: page %d content: %v", ErrInvalidPDF, pageNr, err)
	}

	box := inh.CropBox
	if box == nil {
		box = inh.MediaBox
	}
	rot := normalizeRotation(inh.Rotate)

	// Content coordinates are offset when the page box does not sit at the
	// origin. Rotated pages are normalized to a zero origin by the rotation
	// prolog instead.
	var llx, lly float64
	if rot == 0 && box != nil {
		llx, lly = box.LL.X, box.LL.Y
	}

	s := place.Scale
	tx := place.OffsetX - s*(llx+content.X0)
	ty := place.OffsetY - s*(lly+content.Y0)

	// Matrices apply to points in reverse emission order: the content first
	// passes through the rotation prolog into viewer space, then through the
	// scale-and-center matrix onto the target page. The clip sits between
	// the two so it is expressed in the same space as the detected box.
	var buf bytes.Buffer
	buf.WriteString("q ")
	fmt.Fprintf(&buf, "%.5f 0 0 %.5f %.5f %.5f cm ", s, s, tx, ty)
	fmt.Fprintf(&buf, "%.5f %.5f %.5f %.5f re W n ", llx+content.X0, lly+content.Y0, content.Width(), content.Height())
	if rot != 0 && box != nil {
		buf.Write(model.ContentBytesForPageRotation(inh.Rotate, box.Width(), box.Height()))
	}
	buf.Write(raw)
	buf.WriteString(" Q ")

	sd, err := pctx.NewStreamDictForBuf(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrAssemble, pageNr, err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrAssemble, pageNr, err)
	}
	indRef, err := pctx.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrAssemble, pageNr, err)
	}
	pageDict["Contents"] = *indRef

	newBox := types.RectForWidthAndHeight(0, 0, target.WidthPt, target.HeightPt)
	pageDict["MediaBox"] = newBox.Array()
	pageDict["CropBox"] = newBox.Array()
	pageDict.Delete("Rotate")
	return nil
}
