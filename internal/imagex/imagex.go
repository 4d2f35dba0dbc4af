// Package imagex implements the grayscale raster operations behind page
// optimization:
//   - luma conversion to 8-bit grayscale
//   - histogram-based contrast stretching with percentile cutoff
//   - content bounding-box detection against a near-white threshold
//   - bilevel reduction with optional Floyd-Steinberg dithering
//
// Geometric work (resizing, sharpening, rotation) is handled by the root
// package with github.com/disintegration/imaging; this package covers the
// single-channel operations that library does not expose.
package imagex

import (
	"image"
	"image/color"
)

// ToGray converts src to 8-bit grayscale using Rec. 601 luma weights
// (299/587/114). It always returns a new buffer.
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch s := src.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			srcRow := s.Pix[(b.Min.Y+y-s.Rect.Min.Y)*s.Stride+(b.Min.X-s.Rect.Min.X):]
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], srcRow[:b.Dx()])
		}
	case *image.RGBA:
		grayFromPix(dst, s.Pix, s.Stride, b, s.Rect.Min)
	case *image.NRGBA:
		grayFromPix(dst, s.Pix, s.Stride, b, s.Rect.Min)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := src.At(x, y).RGBA()
				v := (299*r + 587*g + 114*bl) / 1000
				dst.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: uint8(v >> 8)})
			}
		}
	}
	return dst
}

// grayFromPix reads 4-byte-per-pixel RGBA-order buffers. Alpha is ignored;
// rendered PDF pages are opaque.
func grayFromPix(dst *image.Gray, pix []uint8, stride int, b image.Rectangle, min image.Point) {
	for y := 0; y < b.Dy(); y++ {
		si := (b.Min.Y+y-min.Y)*stride + (b.Min.X-min.X)*4
		di := y * dst.Stride
		for x := 0; x < b.Dx(); x++ {
			r := uint32(pix[si])
			g := uint32(pix[si+1])
			bl := uint32(pix[si+2])
			dst.Pix[di+x] = uint8((299*r + 587*g + 114*bl) / 1000)
			si += 4
		}
	}
}

// AutoContrast stretches the histogram of g so the darkest surviving level
// maps to 0 and the lightest to 255. cutoff is the percentage of pixels
// clipped from each end of the histogram before the stretch; 0 stretches the
// full range. The input is not modified.
func AutoContrast(g *image.Gray, cutoff int) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	var histo [256]int
	total := 0
	forEachPixel(g, func(v uint8) {
		histo[v]++
		total++
	})
	if total == 0 {
		return out
	}

	if cutoff > 0 {
		clip := total * cutoff / 100
		for remain, i := clip, 0; i < 256 && remain > 0; i++ {
			if remain > histo[i] {
				remain -= histo[i]
				histo[i] = 0
			} else {
				histo[i] -= remain
				remain = 0
			}
		}
		for remain, i := clip, 255; i >= 0 && remain > 0; i-- {
			if remain > histo[i] {
				remain -= histo[i]
				histo[i] = 0
			} else {
				histo[i] -= remain
				remain = 0
			}
		}
	}

	lo, hi := 0, 255
	for lo < 256 && histo[lo] == 0 {
		lo++
	}
	for hi >= 0 && histo[hi] == 0 {
		hi--
	}

	var lut [256]uint8
	if hi <= lo {
		// Flat image: nothing to stretch.
		for i := range lut {
			lut[i] = uint8(i)
		}
	} else {
		scale := 255.0 / float64(hi-lo)
		for i := range lut {
			v := (float64(i) - float64(lo)) * scale
			switch {
			case v < 0:
				lut[i] = 0
			case v > 255:
				lut[i] = 255
			default:
				lut[i] = uint8(v + 0.5)
			}
		}
	}

	mapPixels(g, out, &lut)
	return out
}

// ContentBounds returns the bounding box, in g's coordinate space, of all
// pixels strictly darker than threshold. ok is false when no pixel qualifies,
// which callers treat as a blank page.
func ContentBounds(g *image.Gray, threshold uint8) (bounds image.Rectangle, ok bool) {
	b := g.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-g.Rect.Min.Y)*g.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[x-g.Rect.Min.X] < threshold {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Bilevel reduces g to pure black and white. With dither set it applies
// Floyd-Steinberg error diffusion, otherwise a fixed threshold at 128. The
// result stays an 8-bit grayscale image holding only 0 and 255, ready for
// single-channel PNG encoding. The input is not modified.
func Bilevel(g *image.Gray, dither bool) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	if !dither {
		var lut [256]uint8
		for i := 128; i < 256; i++ {
			lut[i] = 255
		}
		mapPixels(g, out, &lut)
		return out
	}

	// Error diffusion needs headroom beyond [0,255].
	buf := make([]int32, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[(b.Min.Y+y-g.Rect.Min.Y)*g.Stride+(b.Min.X-g.Rect.Min.X):]
		for x := 0; x < w; x++ {
			buf[y*w+x] = int32(row[x])
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := buf[i]
			var newV int32
			if old >= 128 {
				newV = 255
			}
			out.Pix[y*out.Stride+x] = uint8(newV)

			err := old - newV
			if x+1 < w {
				buf[i+1] += err * 7 / 16
			}
			if y+1 < h {
				if x > 0 {
					buf[i+w-1] += err * 3 / 16
				}
				buf[i+w] += err * 5 / 16
				if x+1 < w {
					buf[i+w+1] += err * 1 / 16
				}
			}
		}
	}
	return out
}

// forEachPixel visits every pixel value inside g's bounds.
func forEachPixel(g *image.Gray, fn func(v uint8)) {
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-g.Rect.Min.Y)*g.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(row[x-g.Rect.Min.X])
		}
	}
}

// mapPixels writes lut[src] into dst, which must have the same dimensions
// as src's bounds with a zero origin.
func mapPixels(src *image.Gray, dst *image.Gray, lut *[256]uint8) {
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[(b.Min.Y+y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X):]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = lut[srcRow[x]]
		}
	}
}
