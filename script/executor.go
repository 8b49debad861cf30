package script

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
)

// ErrMalformedYield describes a yielded value that is not an Instruction or
// a group of them.
var ErrMalformedYield = errors.New("malformed yield")

// PlaceholderDuration is the duration, in milliseconds, of the no-op step
// that keeps a target aligned on steps it takes no part in.
const PlaceholderDuration = 1.0

// WellKnownProperties are captured into every target's initial state when
// the live object has them.
var WellKnownProperties = []string{
	"x", "y", "width", "height", "rotation", "scaleX", "scaleY",
	"opacity", "fill", "stroke", "strokeWidth", "radius", anim.ValueKey,
}

// Yielder collects the steps produced by a Script.
type Yielder struct {
	groups  []Group
	dropped int
}

// Yield appends one step. v is an Instruction, a Group or an
// []Instruction; other shapes and empty groups are logged and dropped.
// Instructions whose target is nil, a nil pointer or not comparable are
// dropped as well.
func (y *Yielder) Yield(v interface{}) {
	var g Group
	switch t := v.(type) {
	case Instruction:
		g = Group{t}
	case *Instruction:
		if t != nil {
			g = Group{*t}
		}
	case Group:
		g = t
	case []Instruction:
		g = Group(t)
	default:
		log.Printf("script: %v: %T", ErrMalformedYield, v)
	}

	normalized := make(Group, 0, len(g))
	for _, in := range g {
		if !anim.Usable(in.Target) {
			log.Printf("script: dropping instruction for unusable target %T", in.Target)
			continue
		}
		normalized = append(normalized, in)
	}

	if len(normalized) == 0 {
		y.dropped++
		return
	}
	y.groups = append(y.groups, normalized)
}

// Step is shorthand for yielding a group of simultaneous instructions.
func (y *Yielder) Step(instructions ...Instruction) {
	y.Yield(Group(instructions))
}

// Script produces steps by calling Yield once per logical step.
type Script func(y *Yielder) error

// Result is a drained Script.
type Result struct {
	Targets []*anim.Target
	Steps   int
	// Dropped counts yields that produced no instructions.
	Dropped int
}

// Run drains s and builds one anim.Target per distinct object. If s fails or
// panics, the steps yielded so far are kept and the failure is returned with
// them.
func Run(s Script, defaultDuration float64, defaultEasing easing.Func) (*Result, error) {
	y := &Yielder{}
	err := drain(s, y)

	targets := buildTargets(y.groups, defaultDuration, defaultEasing)
	return &Result{Targets: targets, Steps: len(y.groups), Dropped: y.dropped}, err
}

func drain(s Script, y *Yielder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script: producer panicked after %d steps: %v", len(y.groups), r)
		}
	}()
	if err := s(y); err != nil {
		return fmt.Errorf("script: producer failed after %d steps: %w", len(y.groups), err)
	}
	return nil
}

func buildTargets(groups []Group, defaultDuration float64, defaultEasing easing.Func) []*anim.Target {
	var order []anim.Object
	seen := make(map[anim.Object]bool)
	for _, g := range groups {
		for _, in := range g {
			if !seen[in.Target] {
				seen[in.Target] = true
				order = append(order, in.Target)
			}
		}
	}

	targets := make([]*anim.Target, 0, len(order))
	for _, obj := range order {
		t := &anim.Target{Object: obj, Steps: make([]anim.Step, len(groups))}
		for i, g := range groups {
			var mine []Instruction
			for _, in := range g {
				if in.Target == obj {
					mine = append(mine, in)
				}
			}
			if len(mine) == 0 {
				t.Steps[i] = anim.Step{Properties: anim.Props{}, Duration: anim.Ms(PlaceholderDuration)}
				continue
			}
			t.Steps[i] = merge(mine, defaultDuration, defaultEasing)
		}
		t.InitialState = captureInitialState(obj, t.Steps)
		targets = append(targets, t)
	}

	return targets
}

// merge combines simultaneous instructions for one object: properties are
// unioned with later values winning, the longest duration and the earliest
// delay govern, and the last explicit easing and interpolators win.
func merge(instructions []Instruction, defaultDuration float64, defaultEasing easing.Func) anim.Step {
	props := anim.Props{}
	duration := math.Inf(-1)
	delay := math.Inf(1)
	var ease easing.Func
	var interp map[string]lerp.Func

	for _, in := range instructions {
		for k, v := range in.Properties {
			props[k] = v
		}

		d := defaultDuration
		if in.Options.Duration != nil {
			d = *in.Options.Duration
		}
		duration = math.Max(duration, d)

		dl := 0.0
		if in.Options.Delay != nil {
			dl = *in.Options.Delay
		}
		delay = math.Min(delay, dl)

		if in.Options.Easing != nil {
			ease = in.Options.Easing
		}

		for k, fn := range in.Options.Interpolate {
			if interp == nil {
				interp = make(map[string]lerp.Func)
			}
			interp[k] = fn
		}
	}

	if ease == nil {
		ease = defaultEasing
	}

	return anim.Step{
		Properties:  props,
		Duration:    anim.Ms(duration),
		Delay:       anim.Ms(delay),
		Easing:      ease,
		Interpolate: interp,
	}
}

func captureInitialState(obj anim.Object, steps []anim.Step) anim.Props {
	state := anim.Props{}
	for _, k := range WellKnownProperties {
		if v, ok := obj.Get(k); ok {
			state[k] = v
		}
	}

	for _, s := range steps {
		for k := range s.Properties {
			if _, done := state[k]; done {
				continue
			}
			if v, ok := obj.Get(k); ok {
				state[k] = v
			}
		}
	}

	return state
}
