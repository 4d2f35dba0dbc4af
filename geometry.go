package inkfit

import "fmt"

// ContentBox is an axis-aligned region of a source page in points, in PDF
// user space (origin bottom-left, y up). X1 and Y1 are exclusive-style upper
// bounds: Width is X1-X0.
type ContentBox struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the box width in points.
func (b ContentBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the box height in points.
func (b ContentBox) Height() float64 { return b.Y1 - b.Y0 }

// fullPageBox returns the content box covering an entire page.
func fullPageBox(page PageBox) ContentBox {
	return ContentBox{X0: 0, Y0: 0, X1: page.WidthPt, Y1: page.HeightPt}
}

// Placement maps a content box onto a target page: the content is scaled by
// Scale and its lower-left corner lands at (OffsetX, OffsetY) in target page
// points.
type Placement struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// ComputePlacement fits content into the printable area of target, the page
// minus margins. The scale is the smaller of the two per-axis fits, capped
// at 1.0 so content is never upscaled, and the scaled content is centered in
// the printable area. The same inputs always yield the same placement.
func ComputePlacement(content ContentBox, target PageBox, margins Margins) (Placement, error) {
	cw, ch := content.Width(), content.Height()
	if cw <= 0 || ch <= 0 {
		return Placement{}, fmt.Errorf("%w: %gx%g", ErrEmptyContentBox, cw, ch)
	}

	availW := target.WidthPt - margins.Left - margins.Right
	availH := target.HeightPt - margins.Top - margins.Bottom
	if availW <= 0 || availH <= 0 {
		return Placement{}, fmt.Errorf("%w: printable area is %gx%g pt", ErrMarginTooLarge, availW, availH)
	}

	scale := min(availW/cw, availH/ch)
	if scale > 1.0 {
		scale = 1.0
	}

	sw, sh := cw*scale, ch*scale
	return Placement{
		Scale:   scale,
		OffsetX: margins.Left + (availW-sw)/2,
		OffsetY: margins.Bottom + (availH-sh)/2,
	}, nil
}

// clampBox intersects a content box with its page and restores orientation
// if padding or detection produced an inverted interval.
func clampBox(b ContentBox, page PageBox) ContentBox {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	b.X0 = max(0, b.X0)
	b.Y0 = max(0, b.Y0)
	b.X1 = min(page.WidthPt, b.X1)
	b.Y1 = min(page.HeightPt, b.Y1)
	return b
}

// padBox grows a content box by pad points on every side, clamped to the
// page.
func padBox(b ContentBox, pad float64, page PageBox) ContentBox {
	return clampBox(ContentBox{
		X0: b.X0 - pad,
		Y0: b.Y0 - pad,
		X1: b.X1 + pad,
		Y1: b.Y1 + pad,
	}, page)
}
