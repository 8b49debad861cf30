package lerp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is wrapped by every ParseColor failure.
var ErrInvalidColor = errors.New("invalid color")

// Color is an RGB colour with channels in [0,255] and an optional alpha in
// [0,1].
type Color struct {
	R, G, B  float64
	A        float64
	HasAlpha bool
}

var namedColors = map[string]Color{
	"red":         {R: 255},
	"green":       {G: 128},
	"blue":        {B: 255},
	"white":       {R: 255, G: 255, B: 255},
	"black":       {},
	"transparent": {A: 0, HasAlpha: true},
	"yellow":      {R: 255, G: 255},
	"cyan":        {G: 255, B: 255},
	"magenta":     {R: 255, B: 255},
	"orange":      {R: 255, G: 165},
	"purple":      {R: 128, B: 128},
	"pink":        {R: 255, G: 192, B: 203},
	"gray":        {R: 128, G: 128, B: 128},
	"grey":        {R: 128, G: 128, B: 128},
}

// IsColorString reports whether s has the shape of one of the recognised
// colour grammars. It does not validate the contents.
func IsColorString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		return true
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return true
	}
	_, ok := namedColors[s]
	return ok
}

// ParseColor parses hex (#RGB, #RRGGBB, #RRGGBBAA), rgb()/rgba() and named
// colours.
func ParseColor(s string) (Color, error) {
	str := strings.ToLower(strings.TrimSpace(s))

	if strings.HasPrefix(str, "#") {
		return parseHex(str)
	}
	if strings.HasPrefix(str, "rgb(") || strings.HasPrefix(str, "rgba(") {
		return parseFunctional(str)
	}
	if c, ok := namedColors[str]; ok {
		return c, nil
	}

	return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(s string) (Color, error) {
	digits := s[1:]
	switch len(digits) {
	case 3, 6, 8:
	default:
		return Color{}, fmt.Errorf("%w: %q has %d hex digits", ErrInvalidColor, s, len(digits))
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("%w: %q contains non-hex digit %q", ErrInvalidColor, s, r)
		}
	}

	// colorful understands the 3 and 6 digit forms, alpha is handled here.
	rgb, err := colorful.Hex("#" + digits[:min(len(digits), 6)])
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	c := FromColorful(rgb)

	if len(digits) == 8 {
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		c.A = float64(a) / 255
		c.HasAlpha = true
	}

	return c, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}

func parseFunctional(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Color{}, fmt.Errorf("%w: %q is not closed", ErrInvalidColor, s)
	}

	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) < 3 || len(parts) > 4 {
		return Color{}, fmt.Errorf("%w: %q needs 3 or 4 channels", ErrInvalidColor, s)
	}

	channels := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q channel %d: %v", ErrInvalidColor, s, i, err)
		}
		channels[i] = f
	}

	c := Color{
		R: clamp(channels[0], 0, 255),
		G: clamp(channels[1], 0, 255),
		B: clamp(channels[2], 0, 255),
	}
	if len(channels) == 4 {
		c.A = clamp(channels[3], 0, 1)
		c.HasAlpha = true
	}

	return c, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// String renders the colour in functional notation. Hex is never emitted.
func (c Color) String() string {
	if c.HasAlpha {
		return fmt.Sprintf("rgba(%s, %s, %s, %s)", fmtChannel(c.R), fmtChannel(c.G), fmtChannel(c.B), fmtChannel(c.A))
	}
	return fmt.Sprintf("rgb(%s, %s, %s)", fmtChannel(c.R), fmtChannel(c.G), fmtChannel(c.B))
}

func fmtChannel(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Colorful converts to a go-colorful colour, dropping alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

// FromColorful converts a go-colorful colour to rounded 0-255 channels.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: float64(r), G: float64(g), B: float64(b)}
}
