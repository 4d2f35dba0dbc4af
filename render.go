package inkfit

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// pageRenderer renders pages of one open document to images. Implementations
// are not safe for concurrent use; open one renderer per worker.
type pageRenderer interface {
	// NumPages returns the document page count.
	NumPages() int
	// Render rasterizes page pageIdx (0-based) at the given resolution.
	Render(ctx context.Context, pageIdx, dpi int) (image.Image, error)
	// Close releases the underlying document.
	Close() error
}

// rendererOpener opens a pageRenderer over an in-memory PDF. Injected so
// tests can substitute synthetic pages for real rasterization.
type rendererOpener interface {
	Open(pdf []byte) (pageRenderer, error)
}

// fitzOpener opens documents with MuPDF via go-fitz.
type fitzOpener struct{}

var _ rendererOpener = fitzOpener{}

func (fitzOpener) Open(pdf []byte) (pageRenderer, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: opening document: %v", ErrRender, err)
	}
	return &fitzRenderer{doc: doc}, nil
}

type fitzRenderer struct {
	doc *fitz.Document
}

var _ pageRenderer = (*fitzRenderer)(nil)

func (r *fitzRenderer) NumPages() int {
	return r.doc.NumPage()
}

func (r *fitzRenderer) Render(ctx context.Context, pageIdx, dpi int) (image.Image, error) {
	// MuPDF renders synchronously with no cancellation hook; honor the
	// context between pages instead.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := r.doc.ImageDPI(pageIdx, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("%w: rendering page %d at %d dpi: %v", ErrRender, pageIdx+1, dpi, err)
	}
	return img, nil
}

func (r *fitzRenderer) Close() error {
	return r.doc.Close()
}
