package inkfit

import (
	"fmt"
	"time"
)

// =============================================================================
// Page geometry
// =============================================================================

// PageBox is a page size in PDF points (1/72 inch).
type PageBox struct {
	WidthPt  float64
	HeightPt float64
}

// PageSizePreset selects the output page size.
type PageSizePreset string

const (
	// PageSizeScribe targets the reMarkable-class 446x595 pt viewport.
	PageSizeScribe PageSizePreset = "scribe"
	// PageSizeA5 targets a 420x595 pt page.
	PageSizeA5 PageSizePreset = "a5"
	// PageSizeSource keeps each page at its original size.
	PageSizeSource PageSizePreset = "source"
	// PageSizeCustom uses Options.PageWidthPt and Options.PageHeightPt.
	PageSizeCustom PageSizePreset = "custom"
)

// Preset page dimensions in points.
const (
	ScribeWidthPt  = 446.0
	ScribeHeightPt = 595.0
	A5WidthPt      = 420.0
	A5HeightPt     = 595.0
)

// Margins holds per-side page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargins returns Margins with the same value on all four sides.
func UniformMargins(pt float64) Margins {
	return Margins{Top: pt, Right: pt, Bottom: pt, Left: pt}
}

// FitMode controls how source content is scaled into the printable area.
type FitMode string

const (
	// FitContain scales to fit both dimensions, never upscaling.
	FitContain FitMode = "contain"
	// FitWidth scales to fill the printable width, may crop height.
	FitWidth FitMode = "fit-width"
	// FitHeight scales to fill the printable height, may crop width.
	FitHeight FitMode = "fit-height"
	// FitStretch distorts content to fill the printable area exactly.
	FitStretch FitMode = "stretch"
)

// Quality selects the grayscale engine's downsampling profile.
type Quality string

const (
	QualityScreen   Quality = "screen"
	QualityEbook    Quality = "ebook"
	QualityPrinter  Quality = "printer"
	QualityPrepress Quality = "prepress"
	QualityDefault  Quality = "default"
)

// EngineMode selects which pipeline handles a document.
type EngineMode string

const (
	// EngineAuto tries the vector pipeline and falls back to raster.
	EngineAuto EngineMode = "auto"
	// EngineVector requires the vector pipeline; no fallback.
	EngineVector EngineMode = "vector"
	// EngineRaster forces the raster pipeline.
	EngineRaster EngineMode = "raster"
)

// Pipeline identifies which pipeline produced a result.
type Pipeline string

const (
	PipelineVector Pipeline = "vector"
	PipelineRaster Pipeline = "raster"
)

// =============================================================================
// Options
// =============================================================================

// Default tuning values applied by DefaultOptions.
const (
	DefaultMarginPt       = 14.0
	DefaultDPI            = 300
	DefaultContrastCutoff = 1
	DefaultCropThreshold  = 245
	DefaultCropPadPt      = 10.0
)

// Options controls a single optimization run. The zero value is not useful;
// start from DefaultOptions and override fields. A nil *Options passed to
// Optimize behaves like DefaultOptions().
type Options struct {
	// PageSize picks the output page preset. Empty means PageSizeScribe.
	PageSize PageSizePreset

	// PageWidthPt and PageHeightPt give the page size in points when
	// PageSize is PageSizeCustom. Ignored otherwise.
	PageWidthPt  float64
	PageHeightPt float64

	// MarginPt is the uniform page margin in points. Ignored when Margins
	// is set.
	MarginPt float64

	// Margins overrides MarginPt with per-side values.
	Margins *Margins

	// DPI is the raster pipeline render resolution. Zero means DefaultDPI.
	DPI int

	// AutoContrast stretches the histogram of rendered pages.
	AutoContrast bool

	// ContrastCutoff is the percentage of darkest and lightest pixels
	// clipped before the histogram stretch. Valid range is 0 to 49.
	ContrastCutoff int

	// Crop detects and trims near-white borders before fitting.
	Crop bool

	// CropThreshold is the gray level (0-255) above which a pixel counts
	// as background during crop detection. Zero means DefaultCropThreshold.
	CropThreshold uint8

	// CropPadPt is padding in points re-added around the detected content
	// box, clamped to the page.
	CropPadPt float64

	// FitMode controls scaling into the printable area. Empty means
	// FitContain.
	FitMode FitMode

	// Sharpen applies an unsharp mask after resizing (raster pipeline).
	Sharpen bool

	// Bilevel reduces pages to pure black and white (raster pipeline).
	Bilevel bool

	// Dither enables Floyd-Steinberg error diffusion when Bilevel is set.
	Dither bool

	// RotateLandscape rotates landscape pages 90 degrees so wide content
	// uses the portrait page fully (raster pipeline).
	RotateLandscape bool

	// Quality is the grayscale engine profile. Empty means QualityPrepress.
	Quality Quality

	// EngineMode selects the pipeline. Empty means EngineAuto.
	EngineMode EngineMode
}

// DefaultOptions returns the options used when Optimize receives nil:
// scribe page size, 14 pt margins, 300 DPI, auto-contrast and crop enabled,
// Floyd-Steinberg dithering armed for bilevel output, prepress quality, and
// automatic pipeline selection.
func DefaultOptions() *Options {
	return &Options{
		PageSize:       PageSizeScribe,
		MarginPt:       DefaultMarginPt,
		DPI:            DefaultDPI,
		AutoContrast:   true,
		ContrastCutoff: DefaultContrastCutoff,
		Crop:           true,
		CropThreshold:  DefaultCropThreshold,
		CropPadPt:      DefaultCropPadPt,
		FitMode:        FitContain,
		Dither:         true,
		Quality:        QualityPrepress,
		EngineMode:     EngineAuto,
	}
}

// Validate reports the first invalid field. A nil receiver is valid and
// means defaults.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}

	switch o.PageSize {
	case "", PageSizeScribe, PageSizeA5, PageSizeSource, PageSizeCustom:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, o.PageSize)
	}
	if o.PageSize == PageSizeCustom && (o.PageWidthPt <= 0 || o.PageHeightPt <= 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidCustomSize, o.PageWidthPt, o.PageHeightPt)
	}

	m := o.margins()
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidMargin)
	}
	if box, fixed := o.presetBox(); fixed {
		if m.Left+m.Right >= box.WidthPt || m.Top+m.Bottom >= box.HeightPt {
			return fmt.Errorf("%w: %s page is %gx%g pt", ErrMarginTooLarge, o.pageSize(), box.WidthPt, box.HeightPt)
		}
	}

	if o.DPI < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDPI, o.DPI)
	}
	if o.ContrastCutoff < 0 || o.ContrastCutoff > 49 {
		return fmt.Errorf("%w: %d (want 0-49)", ErrInvalidContrastCutoff, o.ContrastCutoff)
	}
	if o.CropPadPt < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidCropPad, o.CropPadPt)
	}

	switch o.FitMode {
	case "", FitContain, FitWidth, FitHeight, FitStretch:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFitMode, o.FitMode)
	}
	switch o.Quality {
	case "", QualityScreen, QualityEbook, QualityPrinter, QualityPrepress, QualityDefault:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuality, o.Quality)
	}
	switch o.EngineMode {
	case "", EngineAuto, EngineVector, EngineRaster:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEngineMode, o.EngineMode)
	}
	return nil
}

// normalized returns a copy with empty fields replaced by defaults. A nil
// receiver yields DefaultOptions.
func (o *Options) normalized() *Options {
	if o == nil {
		return DefaultOptions()
	}
	c := *o
	if c.PageSize == "" {
		c.PageSize = PageSizeScribe
	}
	if c.DPI == 0 {
		c.DPI = DefaultDPI
	}
	if c.CropThreshold == 0 {
		c.CropThreshold = DefaultCropThreshold
	}
	if c.FitMode == "" {
		c.FitMode = FitContain
	}
	if c.Quality == "" {
		c.Quality = QualityPrepress
	}
	if c.EngineMode == "" {
		c.EngineMode = EngineAuto
	}
	return &c
}

// pageSize returns the effective preset.
func (o *Options) pageSize() PageSizePreset {
	if o.PageSize == "" {
		return PageSizeScribe
	}
	return o.PageSize
}

// presetBox returns the fixed target box for the effective preset. fixed is
// false for PageSizeSource, whose box depends on each input page.
func (o *Options) presetBox() (box PageBox, fixed bool) {
	switch o.pageSize() {
	case PageSizeA5:
		return PageBox{WidthPt: A5WidthPt, HeightPt: A5HeightPt}, true
	case PageSizeCustom:
		return PageBox{WidthPt: o.PageWidthPt, HeightPt: o.PageHeightPt}, true
	case PageSizeSource:
		return PageBox{}, false
	default:
		return PageBox{WidthPt: ScribeWidthPt, HeightPt: ScribeHeightPt}, true
	}
}

// targetBox resolves the output page box for a page of the given source size.
func (o *Options) targetBox(source PageBox) PageBox {
	if box, fixed := o.presetBox(); fixed {
		return box
	}
	return source
}

// margins returns the effective per-side margins.
func (o *Options) margins() Margins {
	if o.Margins != nil {
		return *o.Margins
	}
	return UniformMargins(o.MarginPt)
}

// geometryNoop reports whether the run keeps source geometry untouched:
// source-sized pages, no crop. The vector pipeline then reduces to a pure
// grayscale pass and the raster pipeline re-embeds pages at original size.
func (o *Options) geometryNoop() bool {
	return o.pageSize() == PageSizeSource && !o.Crop
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one optimization run.
type Result struct {
	// PDF is the optimized document.
	PDF []byte

	// UsedPipeline names the pipeline that produced PDF.
	UsedPipeline Pipeline

	// PageCount is the number of pages in PDF. It always equals the input
	// page count.
	PageCount int

	// FallbackErr is the vector pipeline error that triggered the raster
	// fallback in EngineAuto mode. Nil when no fallback happened.
	FallbackErr error
}

// =============================================================================
// Service configuration
// =============================================================================

const defaultTimeout = 2 * time.Minute

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the per-document processing timeout, covering engine
// calls, rendering, and assembly. Panics if d is not positive; this is a
// programmer error, not user input.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("inkfit: timeout must be positive")
	}
	return func(s *Service) {
		s.timeout = d
	}
}

// WithWorkers caps raster pipeline page concurrency. Zero restores the
// automatic choice. Panics if n is negative.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("inkfit: workers must not be negative")
	}
	return func(s *Service) {
		s.workers = n
	}
}

// WithCommandRunner replaces the subprocess runner used to invoke the
// grayscale engine. Mostly useful in tests.
func WithCommandRunner(r CommandRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithEngineProbe replaces the grayscale engine discovery. Callers that
// probe once at startup can inject the cached status here.
func WithEngineProbe(p EngineProbe) Option {
	return func(s *Service) {
		s.probe = p
	}
}
