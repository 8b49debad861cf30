// Package anim turns declared per-step property targets into per-frame value
// updates.
package anim

import (
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
)

// Step is one declared transition of one target. Nil Duration and Delay fall
// back to the caller's defaults, a nil Easing to the default curve.
// Interpolate overrides the interpolator of individual properties, which is
// otherwise chosen from the kind of the start value.
type Step struct {
	Properties  Props
	Duration    *float64
	Delay       *float64
	Easing      easing.Func
	Interpolate map[string]lerp.Func
}

// Ms returns a pointer to v, for the optional Step fields.
func Ms(v float64) *float64 {
	return &v
}

func (s Step) duration(def float64) float64 {
	if s.Duration != nil {
		return *s.Duration
	}
	return def
}

func (s Step) delay() float64 {
	if s.Delay != nil {
		return *s.Delay
	}
	return 0
}

func (s Step) easing(def easing.Func) easing.Func {
	if s.Easing != nil {
		return s.Easing
	}
	return def
}

// Target binds an object to its initial state and its ordered steps. The
// engine never writes InitialState.
type Target struct {
	Object       Object
	InitialState Props
	Steps        []Step
}

// Animation is one prepared transition of one target. Keys, Start and End
// are aligned. An Animation belongs to a single step transition and must not
// be reused for another.
type Animation struct {
	Target   Object
	Keys     []string
	Start    []lerp.Value
	End      []lerp.Value
	Duration float64
	Delay    float64
	Easing   easing.Func

	lerps     []lerp.Func
	completed bool
}

// Completed reports whether the animation reached its end values. Once
// true it stays true.
func (a *Animation) Completed() bool {
	return a.completed
}

// Update is one frame's new values for one target.
type Update struct {
	Target Object
	Values Props
}

// AllCompleted reports whether every animation completed. An empty batch is
// complete.
func AllCompleted(anims []*Animation) bool {
	for _, a := range anims {
		if !a.completed {
			return false
		}
	}
	return true
}

// Apply writes updates to their targets in order.
func Apply(updates []Update) {
	for _, u := range updates {
		for _, k := range u.Values.Keys() {
			u.Target.Set(k, u.Values[k])
		}
	}
}
