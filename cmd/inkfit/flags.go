package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"
)

// Sentinel values that detect whether a flag was explicitly set when its
// zero value is also a legitimate setting.
const (
	// marginSentinel: 0 pt is a valid margin (edge-to-edge content).
	marginSentinel = -1.0
	// cutoffSentinel: 0 disables histogram tail clipping.
	cutoffSentinel = -1
	// cropPadSentinel: 0 pt is a valid pad (crop tight to content).
	cropPadSentinel = -1.0
	// thresholdSentinel: valid crop thresholds are 1-255.
	thresholdSentinel = 0
)

// ErrInvalidFlagValue is returned when a flag value cannot be parsed.
var ErrInvalidFlagValue = errors.New("invalid flag value")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	profile string
	quiet   bool
	verbose bool
}

// pageFlags holds page geometry flags.
type pageFlags struct {
	size    string
	width   float64
	height  float64
	margin  float64 // marginSentinel = not set
	margins string  // "top,right,bottom,left" in points
}

// toneFlags holds grayscale tone flags. On/off pairs let the command line
// flip a profile default in either direction.
type toneFlags struct {
	autoContrast   bool
	noAutoContrast bool
	cutoff         int // cutoffSentinel = not set
	bilevel        bool
	noBilevel      bool
	dither         bool
	noDither       bool
	sharpen        bool
	noSharpen      bool
}

// cropFlags holds content detection flags.
type cropFlags struct {
	crop      bool
	noCrop    bool
	threshold int     // thresholdSentinel = not set
	pad       float64 // cropPadSentinel = not set
}

// fitFlags holds content scaling flags.
type fitFlags struct {
	mode     string
	rotate   bool
	noRotate bool
}

// engineFlags holds grayscale engine flags.
type engineFlags struct {
	mode    string
	quality string
	timeout string
}

// optimizeFlags holds all flags for the optimize command.
type optimizeFlags struct {
	common  commonFlags
	output  string
	suffix  string
	workers int
	dpi     int
	page    pageFlags
	tone    toneFlags
	crop    cropFlags
	fit     fitFlags
	engine  engineFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.profile, "profile", "p", "", "device profile name")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show pipeline, page count, and timing")
}

// addPageFlags adds page geometry flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.size, "page-size", "", "page size: scribe, a5, source, custom")
	fs.Float64Var(&f.width, "page-width", 0, "custom page width in points (implies --page-size custom)")
	fs.Float64Var(&f.height, "page-height", 0, "custom page height in points")
	fs.Float64Var(&f.margin, "margin", marginSentinel, "uniform margin in points")
	fs.StringVar(&f.margins, "margins", "", "per-side margins in points: top,right,bottom,left")
}

// addToneFlags adds tone adjustment flags to a FlagSet.
func addToneFlags(fs *flag.FlagSet, f *toneFlags) {
	fs.BoolVar(&f.autoContrast, "auto-contrast", false, "stretch the tonal range before output")
	fs.BoolVar(&f.noAutoContrast, "no-auto-contrast", false, "disable contrast stretching")
	fs.IntVar(&f.cutoff, "contrast-cutoff", cutoffSentinel, "percent of histogram tails to clip (0-49)")
	fs.BoolVar(&f.bilevel, "bilevel", false, "reduce pages to pure black and white")
	fs.BoolVar(&f.noBilevel, "no-bilevel", false, "keep 8-bit grayscale output")
	fs.BoolVar(&f.dither, "dither", false, "Floyd-Steinberg dithering with --bilevel")
	fs.BoolVar(&f.noDither, "no-dither", false, "disable dithering")
	fs.BoolVar(&f.sharpen, "sharpen", false, "sharpen pages after resizing")
	fs.BoolVar(&f.noSharpen, "no-sharpen", false, "disable sharpening")
}

// addCropFlags adds content detection flags to a FlagSet.
func addCropFlags(fs *flag.FlagSet, f *cropFlags) {
	fs.BoolVar(&f.crop, "crop", false, "trim near-white borders before fitting")
	fs.BoolVar(&f.noCrop, "no-crop", false, "keep original page margins")
	fs.IntVar(&f.threshold, "crop-threshold", thresholdSentinel, "gray level above which a pixel is background (1-255)")
	fs.Float64Var(&f.pad, "crop-pad", cropPadSentinel, "padding around detected content in points")
}

// addFitFlags adds content scaling flags to a FlagSet.
func addFitFlags(fs *flag.FlagSet, f *fitFlags) {
	fs.StringVar(&f.mode, "fit", "", "fit mode: contain, fit-width, fit-height, stretch")
	fs.BoolVar(&f.rotate, "rotate-landscape", false, "rotate landscape pages to portrait")
	fs.BoolVar(&f.noRotate, "no-rotate-landscape", false, "keep landscape pages as-is")
}

// addEngineFlags adds grayscale engine flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVar(&f.mode, "engine", "", "engine mode: auto, vector, raster")
	fs.StringVar(&f.quality, "quality", "", "downsampling preset: screen, ebook, printer, prepress, default")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document time budget (e.g., 90s, 5m)")
}

// parseOptimizeFlags parses optimize command flags and returns positional args.
func parseOptimizeFlags(args []string) (*optimizeFlags, []string, error) {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	f := &optimizeFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.suffix, "suffix", "", "output filename suffix (default: _<profile>)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel documents (0 = auto)")
	fs.IntVar(&f.dpi, "dpi", 0, "raster render resolution (36-1200)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addToneFlags(fs, &f.tone)
	addCropFlags(fs, &f.crop)
	addFitFlags(fs, &f.fit)
	addEngineFlags(fs, &f.engine)

	fs.Usage = func() { printOptimizeUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
