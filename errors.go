package inkfit

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document cannot be empty")
	ErrInvalidPDF    = errors.New("invalid or unreadable PDF")
	ErrNoPages       = errors.New("document has no pages")
	// ErrPageCountChanged guards the page-count invariant: output documents
	// must keep exactly the input's pages.
	ErrPageCountChanged = errors.New("page count changed during optimization")

	// Option validation errors.
	ErrInvalidPageSize       = errors.New("invalid page size preset")
	ErrInvalidCustomSize     = errors.New("custom page size must have positive width and height")
	ErrInvalidMargin         = errors.New("invalid margin")
	ErrMarginTooLarge        = errors.New("margins leave no printable area")
	ErrInvalidDPI            = errors.New("invalid dpi")
	ErrInvalidFitMode        = errors.New("invalid fit mode")
	ErrInvalidQuality        = errors.New("invalid quality preset")
	ErrInvalidEngineMode     = errors.New("invalid engine mode")
	ErrInvalidContrastCutoff = errors.New("invalid contrast cutoff")
	ErrInvalidCropPad        = errors.New("invalid crop pad")

	// Geometry errors.
	ErrEmptyContentBox = errors.New("content box must have positive width and height")

	// Grayscale engine errors. ErrEngine triggers the raster fallback in
	// auto mode; ErrEngineUnavailable means the binary was not found at all.
	ErrEngine            = errors.New("grayscale engine failed")
	ErrEngineUnavailable = errors.New("grayscale engine not found")

	// Raster pipeline errors.
	ErrRender   = errors.New("page rendering failed")
	ErrAssemble = errors.New("page assembly failed")
)
