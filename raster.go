package inkfit

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/jung-kurt/gofpdf"
)

// rasterPipeline is the fallback when the grayscale engine is unavailable or
// fails: every page is rendered to an image, processed, and re-embedded into
// a fresh document. Output pages are bitmaps, so this path trades text
// selectability for independence from the engine.
type rasterPipeline struct {
	opener  rendererOpener
	workers int
}

type pageResult struct {
	idx int
	img *image.Gray
	err error
}

func (p *rasterPipeline) run(ctx context.Context, pdf []byte, srcBoxes []PageBox, o *Options) ([]byte, error) {
	n := len(srcBoxes)
	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	// Renderers are not safe for concurrent use, so each worker gets its
	// own document handle. Opening up front fails fast on broken input.
	renderers := make([]pageRenderer, 0, workers)
	defer func() {
		for _, r := range renderers {
			_ = r.Close()
		}
	}()
	for i := 0; i < workers; i++ {
		r, err := p.opener.Open(pdf)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}
	if got := renderers[0].NumPages(); got != n {
		return nil, fmt.Errorf("%w: renderer sees %d pages, want %d", ErrRender, got, n)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make(chan pageResult, n)

	var wg sync.WaitGroup
	for _, r := range renderers {
		wg.Add(1)
		go func(r pageRenderer) {
			defer wg.Done()
			for idx := range jobs {
				img, err := p.processPage(runCtx, r, idx, srcBoxes[idx], o)
				results <- pageResult{idx: idx, img: img, err: err}
				if err != nil {
					cancel()
					return
				}
			}
		}(r)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Workers report out of order; pages slot back into place by index so
	// assembly preserves the input page order.
	pages := make([]*image.Gray, n)
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		pages[res.idx] = res.img
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return assemblePDF(pages, srcBoxes, o)
}

// processPage runs the per-page raster chain: detect the content box at low
// resolution, render at full resolution, then compose the output page.
func (p *rasterPipeline) processPage(ctx context.Context, r pageRenderer, idx int, srcBox PageBox, o *Options) (*image.Gray, error) {
	cropBox := fullPageBox(srcBox)
	if o.Crop {
		var err error
		cropBox, err = detectContentBox(ctx, r, idx, srcBox, o)
		if err != nil {
			return nil, err
		}
	}

	img, err := r.Render(ctx, idx, o.DPI)
	if err != nil {
		return nil, err
	}
	return composePage(img, srcBox, cropBox, o)
}

// assemblePDF embeds the composed pages into a new document, one image per
// page at the page's exact size.
func assemblePDF(pages []*image.Gray, srcBoxes []PageBox, o *Options) ([]byte, error) {
	var doc *gofpdf.Fpdf
	for i, img := range pages {
		target := o.targetBox(srcBoxes[i])
		if o.geometryNoop() {
			// The composed image kept the render's dimensions; derive the
			// page box from it so rounding cannot drift the page size.
			target = PageBox{
				WidthPt:  pxToPt(img.Bounds().Dx(), o.DPI),
				HeightPt: pxToPt(img.Bounds().Dy(), o.DPI),
			}
		}

		size := gofpdf.SizeType{Wd: target.WidthPt, Ht: target.HeightPt}
		if doc == nil {
			doc = gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: size})
			doc.SetMargins(0, 0, 0)
			doc.SetAutoPageBreak(false, 0)
		}
		doc.AddPageFormat("P", size)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: encoding page %d: %v", ErrAssemble, i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(name, opt, &buf)
		doc.ImageOptions(name, 0, 0, target.WidthPt, target.HeightPt, false, opt, 0, "")
		if doc.Err() {
			return nil, fmt.Errorf("%w: page %d: %v", ErrAssemble, i+1, doc.Error())
		}
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemble, err)
	}
	return out.Bytes(), nil
}
