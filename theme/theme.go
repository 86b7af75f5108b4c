package theme

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Property is the CSS property a utility class sets.
type Property string

const (
	PropBackground Property = "background-color"
	PropColor      Property = "color"
	PropBorder     Property = "border-color"
)

var prefixes = map[string]Property{
	"bg":     PropBackground,
	"text":   PropColor,
	"border": PropBorder,
}

// RGBA is an explicit sRGB colour.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// CSS renders the colour as rgb() or rgba().
func (c RGBA) CSS() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex renders the opaque part of the colour as #rrggbb.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Resolve maps a utility class such as "text-slate-700" or "bg-slate-50/50"
// to an explicit colour and the property it applies to.
func Resolve(class string) (RGBA, Property, bool) {
	class = strings.TrimSpace(class)
	prefix, rest, ok := strings.Cut(class, "-")
	if !ok {
		return RGBA{}, "", false
	}
	prop, ok := prefixes[prefix]
	if !ok {
		return RGBA{}, "", false
	}

	alpha := 1.0
	if name, pct, found := strings.Cut(rest, "/"); found {
		value, err := strconv.Atoi(pct)
		if err != nil || value < 0 || value > 100 {
			return RGBA{}, "", false
		}
		alpha = float64(value) / 100
		rest = name
	}

	hex, ok := palette[rest]
	if !ok {
		return RGBA{}, "", false
	}
	color, err := parseHex(hex)
	if err != nil {
		return RGBA{}, "", false
	}
	color.A = alpha
	return color, prop, true
}

// MustResolve is Resolve for classes known to exist in the palette.
func MustResolve(class string) RGBA {
	color, _, ok := Resolve(class)
	if !ok {
		panic("theme: unknown class " + class)
	}
	return color
}

// Stylesheet renders the override layer that pins every palette class to an
// explicit rgb() value. scope prefixes every selector when not empty.
func Stylesheet(scope string) string {
	scope = strings.TrimSpace(scope)
	var b strings.Builder
	b.WriteString("* { -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }\n")

	classes := make([]string, 0, len(palette)*len(prefixes)+len(overlays))
	for name := range palette {
		for prefix := range prefixes {
			classes = append(classes, prefix+"-"+name)
		}
	}
	classes = append(classes, overlays...)
	sort.Strings(classes)

	for _, class := range classes {
		color, prop, ok := Resolve(class)
		if !ok {
			continue
		}
		selector := "." + escapeClass(class)
		if scope != "" {
			selector = scope + " " + selector
		}
		fmt.Fprintf(&b, "%s { %s: %s !important; }\n", selector, prop, color.CSS())
	}
	b.WriteString(".border-y-2, .border-t-2, .border-b-2 { border-color: " + MustResolve("border-slate-300").CSS() + " !important; }\n")
	return b.String()
}

func escapeClass(class string) string {
	return strings.ReplaceAll(class, "/", `\/`)
}

var rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})[\s,]+(\d{1,3})[\s,]+(\d{1,3})\s*(?:[,/]\s*([0-9.]+%?)\s*)?\)$`)

// IsRGB reports whether css is an rgb() or rgba() colour.
func IsRGB(css string) bool {
	_, ok := ParseRGB(css)
	return ok
}

// ParseRGB parses rgb()/rgba() in both comma and space syntax.
func ParseRGB(css string) (RGBA, bool) {
	matches := rgbPattern.FindStringSubmatch(strings.TrimSpace(strings.ToLower(css)))
	if matches == nil {
		return RGBA{}, false
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		value, err := strconv.Atoi(matches[i+1])
		if err != nil || value > 255 {
			return RGBA{}, false
		}
		channels[i] = uint8(value)
	}
	alpha := 1.0
	if raw := matches[4]; raw != "" {
		percent := strings.HasSuffix(raw, "%")
		value, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return RGBA{}, false
		}
		if percent {
			value /= 100
		}
		if value < 0 || value > 1 {
			return RGBA{}, false
		}
		alpha = value
	}
	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, true
}

func parseHex(hex string) (RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return RGBA{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, err
	}
	return RGBA{R: uint8(value >> 16), G: uint8(value >> 8), B: uint8(value), A: 1}, nil
}

var (
	styleBlockPattern  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	unsupportedPattern = regexp.MustCompile(`(?i)\b(oklch|oklab|color-mix|lab|lch)\s*\(`)
)

// StripUnsupported removes <style> blocks that use perceptual colour
// functions the capture path cannot paint.
func StripUnsupported(html string) string {
	return styleBlockPattern.ReplaceAllStringFunc(html, func(block string) string {
		if unsupportedPattern.MatchString(block) {
			return ""
		}
		return block
	})
}

// HasUnsupported reports whether css uses a perceptual colour function.
func HasUnsupported(css string) bool {
	return unsupportedPattern.MatchString(css)
}
