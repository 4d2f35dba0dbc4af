// Package inkfit optimizes PDF documents for black-and-white reading
// devices: e-ink tablets, reMarkable-class scribes, and small e-readers.
//
// # Quick Start
//
// Create a service, optimize a document, and write the result:
//
//	svc := inkfit.NewService()
//
//	result, err := svc.Optimize(ctx, pdfBytes, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// A nil *Options means DefaultOptions(): scribe-sized pages, 14 pt margins,
// content cropping, and automatic pipeline selection. The result reports
// which pipeline ran (result.UsedPipeline) and, when the vector pipeline was
// skipped or failed, why (result.FallbackErr).
//
// # Two Pipelines
//
// The vector pipeline converts colors to grayscale with Ghostscript and then
// rewrites page geometry by wrapping each content stream, so text stays
// selectable and vectors stay sharp. The raster pipeline renders every page
// with MuPDF, processes the images (contrast stretch, crop, bilevel), and
// re-embeds them into a new document. By default the service tries vector
// first and falls back to raster when Ghostscript is missing or fails:
//
//	result, err := svc.Optimize(ctx, pdfBytes, &inkfit.Options{
//	    PageSize:   inkfit.PageSizeA5,
//	    MarginPt:   14,
//	    EngineMode: inkfit.EngineAuto,
//	})
//
// Force a specific pipeline with EngineVector (fails without Ghostscript)
// or EngineRaster.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := inkfit.NewService(
//	    inkfit.WithTimeout(5 * time.Minute),
//	    inkfit.WithWorkers(4),
//	)
//
// Per-document options are passed via Options:
//
//	opts := inkfit.DefaultOptions()
//	opts.PageSize = inkfit.PageSizeCustom
//	opts.PageWidthPt, opts.PageHeightPt = 420, 595
//	opts.Margins = &inkfit.Margins{Top: 20, Right: 12, Bottom: 20, Left: 12}
//	opts.Bilevel = true
//
// # Engine Requirements
//
// The vector pipeline requires Ghostscript on PATH (gs, or gswin64c on
// Windows). Set INKFIT_GS to point at a specific binary. Long-running
// callers can probe once at startup and inject the result:
//
//	status := inkfit.StaticEngineProbe(cachedStatus)
//	svc := inkfit.NewService(inkfit.WithEngineProbe(status))
//
// The raster pipeline has no external dependencies; MuPDF is linked in.
package inkfit
