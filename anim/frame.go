package anim

import (
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
)

// ProcessFrame advances anims to currentTime, measured from startTime. It
// marks finished animations completed and returns the interpolated values;
// targets are not written.
func ProcessFrame(anims []*Animation, currentTime, startTime float64) []Update {
	var updates []Update

	for _, a := range anims {
		if a.completed {
			continue
		}

		// A negative delay leaves elapsed larger, which starts immediately.
		elapsed := currentTime - startTime - a.Delay
		if elapsed < 0 {
			continue
		}

		progress := 1.0
		if a.Duration > 0 {
			progress = min(elapsed/a.Duration, 1)
		}
		eased := easing.Apply(progress, a.Easing)

		values := make(Props, len(a.Keys))
		for i, k := range a.Keys {
			values[k] = a.interpolator(i)(a.Start[i], a.End[i], eased)
		}

		if progress >= 1 {
			a.completed = true
			for i, k := range a.Keys {
				values[k] = a.End[i]
			}
		}

		updates = append(updates, Update{Target: a.Target, Values: values})
	}

	return updates
}

func (a *Animation) interpolator(i int) lerp.Func {
	if i < len(a.lerps) && a.lerps[i] != nil {
		return a.lerps[i]
	}
	return lerp.FuncFor(a.Start[i])
}
