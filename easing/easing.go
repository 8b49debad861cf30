// Package easing maps linear progress to perceptual progress.
package easing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownPreset is returned by Lookup for names not in the table.
var ErrUnknownPreset = errors.New("unknown easing preset")

// Func is a Penner style easing function: time t, begin b, change c and
// duration d.
type Func func(t, b, c, d float64) float64

// FromUnit adapts a [0,1] -> [0,1] curve to the (t, b, c, d) convention.
func FromUnit(f func(float64) float64) Func {
	return func(t, b, c, d float64) float64 {
		if d == 0 {
			return b + c
		}
		return b + c*f(t/d)
	}
}

// Presets are the named curves available to decks and config.
var Presets = map[string]Func{
	"linear":     FromUnit(ease.Linear),
	"inQuad":     FromUnit(ease.InQuad),
	"outQuad":    FromUnit(ease.OutQuad),
	"inOutQuad":  FromUnit(ease.InOutQuad),
	"inCubic":    FromUnit(ease.InCubic),
	"outCubic":   FromUnit(ease.OutCubic),
	"inOutCubic": FromUnit(ease.InOutCubic),
	"inSine":     FromUnit(ease.InSine),
	"outSine":    FromUnit(ease.OutSine),
	"inOutSine":  FromUnit(ease.InOutSine),
	"inBack":     FromUnit(ease.InBack),
	"outBack":    FromUnit(ease.OutBack),
	"inOutBack":  FromUnit(ease.InOutBack),
	"outBounce":  FromUnit(ease.OutBounce),
}

// DefaultName is the symmetric ease-in-out used when nothing is configured.
const DefaultName = "inOutQuad"

// Default returns the default curve.
func Default() Func {
	return Presets[DefaultName]
}

// Lookup finds a preset by name, ignoring case.
func Lookup(name string) (Func, error) {
	if fn, ok := Presets[name]; ok {
		return fn, nil
	}
	for k, fn := range Presets {
		if strings.EqualFold(k, name) {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Names lists the presets in lexical order.
func Names() []string {
	names := make([]string, 0, len(Presets))
	for k := range Presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Apply evaluates fn at progress with the conventional (p, 0, 1, 1) call. A
// nil or panicking fn degrades to linear progress.
func Apply(progress float64, fn Func) (eased float64) {
	if fn == nil {
		return progress
	}
	defer func() {
		if r := recover(); r != nil {
			eased = progress
		}
	}()
	return fn(progress, 0, 1, 1)
}
