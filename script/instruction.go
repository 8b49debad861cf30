// Package script builds animation steps from declarative instructions.
package script

import (
	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
)

// Options are the optional timing settings of an Instruction.
type Options struct {
	Duration    *float64
	Delay       *float64
	Easing      easing.Func
	Interpolate map[string]lerp.Func
}

// Option sets one of the Options.
type Option func(*Options)

// Duration sets the duration in milliseconds.
func Duration(ms float64) Option {
	return func(o *Options) {
		o.Duration = &ms
	}
}

// Delay sets the delay in milliseconds.
func Delay(ms float64) Option {
	return func(o *Options) {
		o.Delay = &ms
	}
}

// Easing sets the easing curve.
func Easing(fn easing.Func) Option {
	return func(o *Options) {
		o.Easing = fn
	}
}

// Interpolate blends property key with fn instead of the interpolator
// chosen from its start value.
func Interpolate(key string, fn lerp.Func) Option {
	return func(o *Options) {
		if o.Interpolate == nil {
			o.Interpolate = make(map[string]lerp.Func)
		}
		o.Interpolate[key] = fn
	}
}

// Instruction animates one target towards Properties.
type Instruction struct {
	Target     anim.Object
	Properties anim.Props
	Options    Options
}

// Group is a set of instructions that run simultaneously within one step.
type Group []Instruction

// To animates target to props. Ref wrappers are resolved here, so the
// instruction holds the raw object.
func To(target anim.Object, props anim.Props, opts ...Option) Instruction {
	in := Instruction{
		Target:     anim.Unwrap(target),
		Properties: props.Clone(),
	}
	for _, opt := range opts {
		opt(&in.Options)
	}
	return in
}

// ToValue animates a primitive-valued target, such as an anim.Box, through
// its synthetic value property.
func ToValue(target anim.Object, v lerp.Value, opts ...Option) Instruction {
	return To(target, anim.Props{anim.ValueKey: v}, opts...)
}

// All groups instructions to run simultaneously.
func All(instructions ...Instruction) Group {
	g := make(Group, len(instructions))
	copy(g, instructions)
	return g
}
