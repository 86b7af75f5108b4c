package theme

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	color, prop, ok := Resolve("text-slate-700")
	if !ok {
		t.Fatalf("expected text-slate-700 to resolve")
	}
	if prop != PropColor {
		t.Fatalf("expected color property, got %s", prop)
	}
	if color.CSS() != "rgb(51, 65, 85)" {
		t.Fatalf("unexpected colour %s", color.CSS())
	}

	color, prop, ok = Resolve("bg-slate-50/50")
	if !ok || prop != PropBackground {
		t.Fatalf("expected background overlay to resolve")
	}
	if color.CSS() != "rgba(248, 250, 252, 0.5)" {
		t.Fatalf("unexpected overlay colour %s", color.CSS())
	}

	for _, class := range []string{"bg-magenta-500", "p-4", "text-slate-700/abc", "shadow-slate-200"} {
		if _, _, ok := Resolve(class); ok {
			t.Fatalf("expected %q not to resolve", class)
		}
	}
}

func TestStylesheetUsesOnlyRGB(t *testing.T) {
	css := Stylesheet("#invoice-pdf-content")
	if HasUnsupported(css) {
		t.Fatalf("stylesheet contains unsupported colour syntax")
	}
	if !strings.Contains(css, `#invoice-pdf-content .bg-slate-50\/50 { background-color: rgba(248, 250, 252, 0.5) !important; }`) {
		t.Fatalf("expected scoped overlay rule")
	}
	if !strings.Contains(css, ".border-green-200 { border-color: rgb(187, 247, 208) !important; }") {
		t.Fatalf("expected badge border rule")
	}
	if Stylesheet("#a") == Stylesheet("#b") {
		t.Fatalf("expected scope to change the stylesheet")
	}
}

func TestParseRGB(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
		alpha float64
	}{
		{"rgb(15, 23, 42)", true, 1},
		{"rgba(248, 250, 252, 0.5)", true, 0.5},
		{"rgb(241 245 249 / 50%)", true, 0.5},
		{"oklch(0.7 0.1 200)", false, 0},
		{"#ffffff", false, 0},
		{"rgb(300, 0, 0)", false, 0},
	}
	for _, tc := range cases {
		color, ok := ParseRGB(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParseRGB(%q) ok=%v, want %v", tc.input, ok, tc.ok)
		}
		if ok && color.A != tc.alpha {
			t.Fatalf("ParseRGB(%q) alpha=%v, want %v", tc.input, color.A, tc.alpha)
		}
		if IsRGB(tc.input) != tc.ok {
			t.Fatalf("IsRGB(%q) mismatch", tc.input)
		}
	}
}

func TestStripUnsupported(t *testing.T) {
	input := `<html><head><style>.a{color:oklch(0.5 0.1 20)}</style><style>.b{color:rgb(0,0,0)}</style>` +
		`<style media="print">.c{background:color-mix(in srgb, red, blue)}</style></head><body></body></html>`
	out := StripUnsupported(input)
	if strings.Contains(out, "oklch") || strings.Contains(out, "color-mix") {
		t.Fatalf("expected perceptual colour blocks removed: %s", out)
	}
	if !strings.Contains(out, ".b{color:rgb(0,0,0)}") {
		t.Fatalf("expected rgb block kept: %s", out)
	}
}

func TestHexRoundTrip(t *testing.T) {
	if got := MustResolve("bg-blue-800").Hex(); got != "#1e40af" {
		t.Fatalf("unexpected hex %s", got)
	}
}
