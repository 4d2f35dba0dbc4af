package main

// Notes:
// - parseOptimizeFlags: we test short/long forms, boolean pairs, value flags,
//   sentinel defaults, and positional arguments.
// - We don't test flag.Parse() internals (pflag's responsibility).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseOptimizeFlags - CLI flag parsing
// ---------------------------------------------------------------------------

func TestParseOptimizeFlags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, f *optimizeFlags)
	}{
		{
			name: "config flag long form",
			args: []string{"--config", "work"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.common.config != "work" {
					t.Errorf("config = %q, want work", f.common.config)
				}
			},
		},
		{
			name: "profile flag short form",
			args: []string{"-p", "kobo-libra"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.common.profile != "kobo-libra" {
					t.Errorf("profile = %q, want kobo-libra", f.common.profile)
				}
			},
		},
		{
			name: "output flag short form",
			args: []string{"-o", "./out/"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.output != "./out/" {
					t.Errorf("output = %q, want ./out/", f.output)
				}
			},
		},
		{
			name: "suffix flag",
			args: []string{"--suffix", "_ink"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.suffix != "_ink" {
					t.Errorf("suffix = %q, want _ink", f.suffix)
				}
			},
		},
		{
			name: "workers and dpi",
			args: []string{"-w", "4", "--dpi", "226"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.workers != 4 {
					t.Errorf("workers = %d, want 4", f.workers)
				}
				if f.dpi != 226 {
					t.Errorf("dpi = %d, want 226", f.dpi)
				}
			},
		},
		{
			name: "page geometry flags",
			args: []string{"--page-size", "custom", "--page-width", "500", "--page-height", "700"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.page.size != "custom" {
					t.Errorf("page.size = %q, want custom", f.page.size)
				}
				if f.page.width != 500 {
					t.Errorf("page.width = %g, want 500", f.page.width)
				}
				if f.page.height != 700 {
					t.Errorf("page.height = %g, want 700", f.page.height)
				}
			},
		},
		{
			name: "zero margin is distinguishable from unset",
			args: []string{"--margin", "0"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.page.margin != 0 {
					t.Errorf("margin = %g, want 0", f.page.margin)
				}
			},
		},
		{
			name: "unset margin keeps sentinel",
			args: []string{},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.page.margin != marginSentinel {
					t.Errorf("margin = %g, want sentinel %g", f.page.margin, marginSentinel)
				}
				if f.tone.cutoff != cutoffSentinel {
					t.Errorf("cutoff = %d, want sentinel %d", f.tone.cutoff, cutoffSentinel)
				}
				if f.crop.pad != cropPadSentinel {
					t.Errorf("crop.pad = %g, want sentinel %g", f.crop.pad, cropPadSentinel)
				}
				if f.crop.threshold != thresholdSentinel {
					t.Errorf("crop.threshold = %d, want sentinel %d", f.crop.threshold, thresholdSentinel)
				}
			},
		},
		{
			name: "margins flag",
			args: []string{"--margins", "14,10,14,10"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.page.margins != "14,10,14,10" {
					t.Errorf("margins = %q, want 14,10,14,10", f.page.margins)
				}
			},
		},
		{
			name: "tone toggles",
			args: []string{"--bilevel", "--no-dither", "--contrast-cutoff", "2"},
			check: func(t *testing.T, f *optimizeFlags) {
				if !f.tone.bilevel {
					t.Error("bilevel should be true")
				}
				if !f.tone.noDither {
					t.Error("noDither should be true")
				}
				if f.tone.cutoff != 2 {
					t.Errorf("cutoff = %d, want 2", f.tone.cutoff)
				}
			},
		},
		{
			name: "crop flags",
			args: []string{"--no-crop", "--crop-threshold", "230", "--crop-pad", "6"},
			check: func(t *testing.T, f *optimizeFlags) {
				if !f.crop.noCrop {
					t.Error("noCrop should be true")
				}
				if f.crop.threshold != 230 {
					t.Errorf("threshold = %d, want 230", f.crop.threshold)
				}
				if f.crop.pad != 6 {
					t.Errorf("pad = %g, want 6", f.crop.pad)
				}
			},
		},
		{
			name: "fit and engine flags",
			args: []string{"--fit", "fit-width", "--rotate-landscape", "--engine", "raster", "--quality", "ebook", "-t", "90s"},
			check: func(t *testing.T, f *optimizeFlags) {
				if f.fit.mode != "fit-width" {
					t.Errorf("fit.mode = %q, want fit-width", f.fit.mode)
				}
				if !f.fit.rotate {
					t.Error("rotate should be true")
				}
				if f.engine.mode != "raster" {
					t.Errorf("engine.mode = %q, want raster", f.engine.mode)
				}
				if f.engine.quality != "ebook" {
					t.Errorf("engine.quality = %q, want ebook", f.engine.quality)
				}
				if f.engine.timeout != "90s" {
					t.Errorf("engine.timeout = %q, want 90s", f.engine.timeout)
				}
			},
		},
		{
			name: "quiet and verbose short forms",
			args: []string{"-q", "-v"},
			check: func(t *testing.T, f *optimizeFlags) {
				if !f.common.quiet {
					t.Error("quiet should be true")
				}
				if !f.common.verbose {
					t.Error("verbose should be true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, _, err := parseOptimizeFlags(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, flags)
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseOptimizeFlags_Errors - Unknown flags
// ---------------------------------------------------------------------------

func TestParseOptimizeFlags_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := parseOptimizeFlags([]string{"--unknown"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

// ---------------------------------------------------------------------------
// TestParseOptimizeFlags_PositionalArgs - Positional argument handling
// ---------------------------------------------------------------------------

func TestParseOptimizeFlags_PositionalArgs(t *testing.T) {
	t.Parallel()

	flags, positional, err := parseOptimizeFlags([]string{"-p", "a5", "doc.pdf", "book.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flags.common.profile != "a5" {
		t.Errorf("profile = %q, want a5", flags.common.profile)
	}
	if len(positional) != 2 {
		t.Fatalf("positional count = %d, want 2", len(positional))
	}
	if positional[0] != "doc.pdf" {
		t.Errorf("positional[0] = %q, want doc.pdf", positional[0])
	}
	if positional[1] != "book.pdf" {
		t.Errorf("positional[1] = %q, want book.pdf", positional[1])
	}
}

// ---------------------------------------------------------------------------
// TestParseOptimizeFlags_FlagsAfterPositional - Interspersed flags
// ---------------------------------------------------------------------------

func TestParseOptimizeFlags_FlagsAfterPositional(t *testing.T) {
	t.Parallel()

	flags, positional, err := parseOptimizeFlags([]string{"doc.pdf", "-o", "./out/", "--verbose"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flags.output != "./out/" {
		t.Errorf("output = %q, want ./out/", flags.output)
	}
	if !flags.common.verbose {
		t.Error("verbose should be true")
	}
	if len(positional) != 1 || positional[0] != "doc.pdf" {
		t.Errorf("positional = %v, want [doc.pdf]", positional)
	}
}
