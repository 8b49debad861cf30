package anim

import (
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
)

func newAnimation(obj Object, end Props, duration, delay float64, ease easing.Func, interp map[string]lerp.Func) *Animation {
	keys := end.Keys()
	a := &Animation{
		Target:   obj,
		Keys:     keys,
		Start:    make([]lerp.Value, len(keys)),
		End:      make([]lerp.Value, len(keys)),
		Duration: duration,
		Delay:    delay,
		Easing:   ease,
		lerps:    make([]lerp.Func, len(keys)),
	}

	for i, k := range keys {
		a.End[i] = end[k]
		// A property the object does not have yet starts at its end value.
		start, ok := obj.Get(k)
		if !ok {
			start = end[k]
		}
		a.Start[i] = start
		if fn := interp[k]; fn != nil {
			a.lerps[i] = fn
		} else {
			a.lerps[i] = lerp.FuncFor(start)
		}
	}

	return a
}

// PrepareForward builds one Animation per target that declares step
// stepIndex, starting from the live values of its objects. Targets without
// that step contribute nothing.
func PrepareForward(targets []*Target, stepIndex int, defaultDuration float64, defaultEasing easing.Func) []*Animation {
	var anims []*Animation
	for _, t := range targets {
		if stepIndex < 0 || stepIndex >= len(t.Steps) {
			continue
		}
		s := t.Steps[stepIndex]
		anims = append(anims, newAnimation(t.Object, s.Properties, s.duration(defaultDuration), s.delay(), s.easing(defaultEasing), s.Interpolate))
	}
	return anims
}

// CumulativeState is the initial state overlaid with every step up to and
// including stepIndex. A stepIndex of -1 yields the initial state.
func CumulativeState(t *Target, stepIndex int) Props {
	state := t.InitialState.Clone()
	for i := 0; i <= stepIndex && i < len(t.Steps); i++ {
		for k, v := range t.Steps[i].Properties {
			state[k] = v
		}
	}
	return state
}

// interpolators merges the overrides of every step of t, later steps
// winning, so a reversal blends a property the way it was animated.
func interpolators(t *Target) map[string]lerp.Func {
	var merged map[string]lerp.Func
	for _, s := range t.Steps {
		for k, fn := range s.Interpolate {
			if merged == nil {
				merged = make(map[string]lerp.Func)
			}
			merged[k] = fn
		}
	}
	return merged
}

// PrepareReverse builds one Animation per target back to its cumulative
// state at stepIndex. Reversal uses the defaults only: per-step durations
// and delays are ignored. Properties keep the interpolators their steps
// declared.
func PrepareReverse(targets []*Target, stepIndex int, defaultDuration float64, defaultEasing easing.Func) []*Animation {
	anims := make([]*Animation, 0, len(targets))
	for _, t := range targets {
		anims = append(anims, newAnimation(t.Object, CumulativeState(t, stepIndex), defaultDuration, 0, defaultEasing, interpolators(t)))
	}
	return anims
}

// Snap writes the end values of step stepIndex to every target declaring it.
func Snap(targets []*Target, stepIndex int) []Update {
	var updates []Update
	for _, t := range targets {
		if stepIndex < 0 || stepIndex >= len(t.Steps) {
			continue
		}
		updates = append(updates, Update{Target: t.Object, Values: t.Steps[stepIndex].Properties.Clone()})
	}
	Apply(updates)
	return updates
}

// SnapState writes each target's cumulative state at stepIndex.
func SnapState(targets []*Target, stepIndex int) []Update {
	updates := make([]Update, 0, len(targets))
	for _, t := range targets {
		updates = append(updates, Update{Target: t.Object, Values: CumulativeState(t, stepIndex)})
	}
	Apply(updates)
	return updates
}

// ResetToInitial writes every target's initial state.
func ResetToInitial(targets []*Target) []Update {
	return SnapState(targets, -1)
}
