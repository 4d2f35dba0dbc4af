package hints

// Notes:
// - ForEngineNotFound tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"runtime"
	"strings"
	"testing"
)

func TestForEngineNotFound_InContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("INKFIT_GS", "")

	hint := ForEngineNotFound()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "apt-get install ghostscript") {
		t.Error("expected apt-get suggestion inside a container")
	}
	if !strings.Contains(hint, "INKFIT_GS") {
		t.Error("expected INKFIT_GS suggestion when unset")
	}
}

func TestForEngineNotFound_OverrideAlreadySet(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("INKFIT_GS", "/opt/gs/bin/gs")

	hint := ForEngineNotFound()

	if strings.Contains(hint, "INKFIT_GS") {
		t.Error("should not suggest INKFIT_GS when it is already set")
	}
}

func TestForEngineNotFound_Host(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("INKFIT_GS", "")

	hint := ForEngineNotFound()

	if hint == "" {
		t.Fatal("expected a hint")
	}
	switch runtime.GOOS {
	case "darwin":
		if !strings.Contains(hint, "brew install ghostscript") {
			t.Errorf("expected brew suggestion, got %q", hint)
		}
	case "windows":
		if !strings.Contains(hint, "ghostscript.com") {
			t.Errorf("expected download suggestion, got %q", hint)
		}
	default:
		if !strings.Contains(hint, "ghostscript") {
			t.Errorf("expected install suggestion, got %q", hint)
		}
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	hint := ForTimeout()
	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint = %q, want \\n  hint: prefix", hint)
	}
	if !strings.Contains(hint, "--timeout") {
		t.Error("expected --timeout suggestion")
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	t.Run("suggests user config path when present", func(t *testing.T) {
		t.Parallel()

		paths := []string{
			"reader.yaml",
			"reader.yml",
			"/home/u/.config/inkfit/reader.yaml",
		}
		hint := ForConfigNotFound(paths)
		if !strings.Contains(hint, "--config") {
			t.Error("expected --config suggestion")
		}
		if !strings.Contains(hint, "/home/u/.config/inkfit/reader.yaml") {
			t.Errorf("expected user config path in hint, got %q", hint)
		}
	})

	t.Run("still suggests --config without user path", func(t *testing.T) {
		t.Parallel()

		hint := ForConfigNotFound([]string{"reader.yaml"})
		if !strings.Contains(hint, "--config") {
			t.Error("expected --config suggestion")
		}
	})
}

func TestForOutputDirectory(t *testing.T) {
	t.Parallel()

	if !strings.Contains(ForOutputDirectory(), "writable") {
		t.Error("expected writability suggestion")
	}
}

func TestForProfileNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForProfileNotFound(nil); hint != "" {
		t.Errorf("empty availability should give no hint, got %q", hint)
	}

	hint := ForProfileNotFound([]string{"scribe", "a5"})
	if !strings.Contains(hint, "scribe, a5") {
		t.Errorf("expected available list, got %q", hint)
	}
}

func TestForVectorFallback(t *testing.T) {
	t.Parallel()

	hint := ForVectorFallback()
	if !strings.Contains(hint, "--engine vector") {
		t.Errorf("expected engine flag suggestion, got %q", hint)
	}
}
