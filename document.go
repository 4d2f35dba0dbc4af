package inkfit

import (
	"bytes"
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// readContext parses and validates a PDF into a pdfcpu context.
func readContext(pdf []byte) (*model.Context, error) {
	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if ctx.PageCount == 0 {
		return nil, ErrNoPages
	}
	return ctx, nil
}

// effectivePageBoxes returns the visible size of every page in points, as a
// viewer (or renderer) presents it: the crop box when present, the media box
// otherwise, with /Rotate 90 and 270 swapping the axes.
func effectivePageBoxes(ctx *model.Context) ([]PageBox, error) {
	boxes := make([]PageBox, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		_, _, inh, err := ctx.PageDict(i, false)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrInvalidPDF, i, err)
		}

		box := inh.CropBox
		if box == nil {
			box = inh.MediaBox
		}
		if box == nil {
			return nil, fmt.Errorf("%w: page %d has no media box", ErrInvalidPDF, i)
		}

		w, h := box.Width(), box.Height()
		if rot := normalizeRotation(inh.Rotate); rot == 90 || rot == 270 {
			w, h = h, w
		}
		boxes[i-1] = PageBox{WidthPt: w, HeightPt: h}
	}
	return boxes, nil
}

// normalizeRotation maps any /Rotate value onto {0, 90, 180, 270}.
func normalizeRotation(rotate int) int {
	r := rotate % 360
	if r < 0 {
		r += 360
	}
	return r
}

// pageCount returns the number of pages without keeping a parsed context.
func pageCount(pdf []byte) (int, error) {
	n, err := pdfapi.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return n, nil
}
