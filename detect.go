package inkfit

import (
	"context"
	"fmt"

	"github.com/alnah/go-inkfit/internal/imagex"
)

// detectionDPI returns the resolution for the content-detection render pass.
// Detection only needs to find where ink is, so it runs at a fraction of the
// output resolution: 72 DPI per full 150 DPI step of the render resolution.
func detectionDPI(renderDPI int) int {
	factor := renderDPI / 150
	if factor < 1 {
		factor = 1
	}
	return 72 * factor
}

// detectContentBox renders page pageIdx at low resolution and returns the
// padded bounding box of its content in PDF user space (points, origin
// bottom-left). Pixels at or above o.CropThreshold count as background. A
// blank page yields the full page box, so downstream fitting still produces
// a valid page.
func detectContentBox(ctx context.Context, r pageRenderer, pageIdx int, page PageBox, o *Options) (ContentBox, error) {
	img, err := r.Render(ctx, pageIdx, detectionDPI(o.DPI))
	if err != nil {
		return ContentBox{}, fmt.Errorf("%w: detecting content on page %d: %v", ErrRender, pageIdx+1, err)
	}

	gray := imagex.ToGray(img)
	px, ok := imagex.ContentBounds(gray, o.CropThreshold)
	if !ok {
		return fullPageBox(page), nil
	}

	// Pixel rows count down from the page top; PDF user space counts up
	// from the bottom. Scale against the actual render size rather than
	// the nominal DPI so rounding in the renderer cannot skew the box.
	b := gray.Bounds()
	sx := page.WidthPt / float64(b.Dx())
	sy := page.HeightPt / float64(b.Dy())

	box := ContentBox{
		X0: float64(px.Min.X) * sx,
		Y0: page.HeightPt - float64(px.Max.Y)*sy,
		X1: float64(px.Max.X) * sx,
		Y1: page.HeightPt - float64(px.Min.Y)*sy,
	}
	return padBox(box, o.CropPadPt, page), nil
}
