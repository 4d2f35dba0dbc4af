package inkfit

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/alnah/go-inkfit/internal/imagex"
)

// ptToPx converts a length in points to pixels at the given resolution.
func ptToPx(pt float64, dpi int) int {
	return int(math.Round(pt * float64(dpi) / 72.0))
}

// pxToPt converts a length in pixels back to points.
func pxToPt(px int, dpi int) float64 {
	return float64(px) * 72.0 / float64(dpi)
}

// composePage turns one full-page render into the final grayscale page
// image: contrast stretch, crop, optional rotation, fit into the printable
// area, sharpen, bilevel, and centering on a white canvas. src is the page
// rendered at o.DPI, srcBox its size in points, and cropBox the detected
// content region in PDF user space.
func composePage(src image.Image, srcBox PageBox, cropBox ContentBox, o *Options) (*image.Gray, error) {
	g := imagex.ToGray(src)
	if o.AutoContrast {
		g = imagex.AutoContrast(g, o.ContrastCutoff)
	}

	// Source-sized output without cropping keeps the page geometry as
	// rendered; tone adjustments still apply.
	if o.geometryNoop() {
		if o.Bilevel {
			g = imagex.Bilevel(g, o.Dither)
		}
		return g, nil
	}

	if o.Crop {
		g = cropToBox(g, srcBox, cropBox)
	}

	if o.RotateLandscape && g.Bounds().Dx() > g.Bounds().Dy() {
		g = imagex.ToGray(imaging.Rotate90(g))
	}

	target := o.targetBox(srcBox)
	margins := o.margins()

	canvasW := ptToPx(target.WidthPt, o.DPI)
	canvasH := ptToPx(target.HeightPt, o.DPI)
	availW := canvasW - ptToPx(margins.Left, o.DPI) - ptToPx(margins.Right, o.DPI)
	availH := canvasH - ptToPx(margins.Top, o.DPI) - ptToPx(margins.Bottom, o.DPI)
	if availW <= 0 || availH <= 0 {
		return nil, fmt.Errorf("%w: printable area is %dx%d px", ErrMarginTooLarge, availW, availH)
	}

	newW, newH, err := fittedSize(g.Bounds().Dx(), g.Bounds().Dy(), availW, availH, target, margins, o)
	if err != nil {
		return nil, err
	}

	var resized image.Image = g
	if newW != g.Bounds().Dx() || newH != g.Bounds().Dy() {
		resized = imaging.Resize(g, newW, newH, imaging.Lanczos)
	}
	if o.Sharpen {
		resized = imaging.Sharpen(resized, 1.0)
	}

	content := imagex.ToGray(resized)
	if o.Bilevel {
		content = imagex.Bilevel(content, o.Dither)
	}

	// White canvas, content centered in the printable area. Fit modes that
	// overflow one axis are clipped by the draw bounds, like the margins of
	// an overful page.
	canvas := image.NewGray(image.Rect(0, 0, canvasW, canvasH))
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}
	x := ptToPx(margins.Left, o.DPI) + (availW-newW)/2
	y := ptToPx(margins.Top, o.DPI) + (availH-newH)/2
	rect := image.Rect(x, y, x+newW, y+newH)
	draw.Draw(canvas, rect, content, image.Point{}, draw.Src)

	return canvas, nil
}

// cropToBox cuts the detected content region out of the render, mapping the
// PDF-space box (y up) onto image rows (y down).
func cropToBox(g *image.Gray, srcBox PageBox, cropBox ContentBox) *image.Gray {
	b := g.Bounds()
	sx := float64(b.Dx()) / srcBox.WidthPt
	sy := float64(b.Dy()) / srcBox.HeightPt

	rect := image.Rect(
		int(math.Floor(cropBox.X0*sx)),
		int(math.Floor((srcBox.HeightPt-cropBox.Y1)*sy)),
		int(math.Ceil(cropBox.X1*sx)),
		int(math.Ceil((srcBox.HeightPt-cropBox.Y0)*sy)),
	).Intersect(b)
	if rect.Empty() {
		return g
	}
	return imagex.ToGray(g.SubImage(rect))
}

// fittedSize returns the content dimensions after applying the fit mode.
// FitContain goes through the shared placement contract, so vector and
// raster runs scale identically; the directed modes fill one axis and may
// upscale.
func fittedSize(w, h, availW, availH int, target PageBox, margins Margins, o *Options) (int, int, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d px", ErrEmptyContentBox, w, h)
	}

	switch o.FitMode {
	case FitWidth:
		return availW, int(math.Round(float64(h) * float64(availW) / float64(w))), nil
	case FitHeight:
		return int(math.Round(float64(w) * float64(availH) / float64(h))), availH, nil
	case FitStretch:
		return availW, availH, nil
	default:
		content := ContentBox{X1: pxToPt(w, o.DPI), Y1: pxToPt(h, o.DPI)}
		place, err := ComputePlacement(content, target, margins)
		if err != nil {
			return 0, 0, err
		}
		return int(math.Round(float64(w) * place.Scale)), int(math.Round(float64(h) * place.Scale)), nil
	}
}
