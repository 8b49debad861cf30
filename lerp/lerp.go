// Package lerp blends animatable values at a progress fraction.
package lerp

import (
	"fmt"
	"math"
	"sort"
)

// Func blends start and end at progress p. Progress outside [0,1] is
// extended algebraically, never rejected.
type Func func(start, end Value, p float64) Value

// NumberLerp returns start + (end - start) * p without clamping.
func NumberLerp(start, end, p float64) float64 {
	return start + (end-start)*p
}

// ColorLerp blends each channel and rounds it to the nearest integer. Alpha
// is blended only when both sides carry one.
func ColorLerp(start, end Color, p float64) Color {
	c := Color{
		R: math.Round(NumberLerp(start.R, end.R, p)),
		G: math.Round(NumberLerp(start.G, end.G, p)),
		B: math.Round(NumberLerp(start.B, end.B, p)),
	}

	switch {
	case start.HasAlpha && end.HasAlpha:
		c.A, c.HasAlpha = NumberLerp(start.A, end.A, p), true
	case start.HasAlpha:
		c.A, c.HasAlpha = start.A, true
	case end.HasAlpha:
		c.A, c.HasAlpha = end.A, true
	}

	return c
}

// StringLerp blends two colour strings through rgb()/rgba() output. Any
// other pair switches discretely at the halfway point.
func StringLerp(start, end string, p float64) string {
	if IsColorString(start) && IsColorString(end) {
		c1, err1 := ParseColor(start)
		c2, err2 := ParseColor(end)
		if err1 == nil && err2 == nil {
			return ColorLerp(c1, c2, p).String()
		}
	}

	if p < 0.5 {
		return start
	}
	return end
}

func numberFunc(start, end Value, p float64) Value {
	if end.Kind == KindColor || end.Kind == KindString {
		return discrete(start, end, p)
	}
	return Number(NumberLerp(start.Num, end.Num, p))
}

func colorFunc(start, end Value, p float64) Value {
	if end.Kind != KindColor {
		return discrete(start, end, p)
	}
	return ColorValue(ColorLerp(start.Col, end.Col, p))
}

func stringFunc(start, end Value, p float64) Value {
	if end.Kind != KindString {
		return discrete(start, end, p)
	}
	return String(StringLerp(start.Str, end.Str, p))
}

// hclFunc blends in HCL space. Colour strings are accepted and the result
// keeps the kind of start.
func hclFunc(start, end Value, p float64) Value {
	c1, ok1 := asColor(start)
	c2, ok2 := asColor(end)
	if !ok1 || !ok2 {
		return FuncFor(start)(start, end, p)
	}

	c := FromColorful(c1.Colorful().BlendHcl(c2.Colorful(), p))
	mixed := ColorLerp(c1, c2, p)
	c.A, c.HasAlpha = mixed.A, mixed.HasAlpha

	if start.Kind == KindString {
		return String(c.String())
	}
	return ColorValue(c)
}

func asColor(v Value) (Color, bool) {
	switch v.Kind {
	case KindColor:
		return v.Col, true
	case KindString:
		if IsColorString(v.Str) {
			c, err := ParseColor(v.Str)
			return c, err == nil
		}
	}
	return Color{}, false
}

func discrete(start, end Value, p float64) Value {
	if p < 0.5 {
		return start
	}
	return end
}

// FuncFor selects the interpolator for a start value. Unknown kinds fall
// back to numeric blending.
func FuncFor(start Value) Func {
	switch start.Kind {
	case KindColor:
		return colorFunc
	case KindString:
		return stringFunc
	default:
		return numberFunc
	}
}

// Lerp dispatches on the kind of start.
func Lerp(start, end Value, p float64) Value {
	return FuncFor(start)(start, end, p)
}

// Registry maps semantic type names to interpolators. It is an extension
// point independent of FuncFor.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry holding number, color, string and
// color-hcl interpolators.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.funcs["number"] = numberFunc
	r.funcs["color"] = colorFunc
	r.funcs["string"] = stringFunc
	r.funcs["color-hcl"] = hclFunc
	return r
}

// Register adds or replaces the interpolator for name.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("lerp: register needs a name and a function")
	}
	r.funcs[name] = fn
	return nil
}

// Lookup returns the interpolator registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names lists registered type names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
