package stream

import (
	"testing"

	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/frameclock"
	"github.com/matt-g-everett/ledstep/lerp"
)

type recorder struct {
	frames []*Frame
}

func (r *recorder) Publish(f *Frame) {
	r.frames = append(r.frames, f)
}

func newTestController(t *testing.T) (*Controller, *frameclock.Manual, *anim.Element, *recorder) {
	t.Helper()
	el := anim.NewElement("box", anim.Props{"x": lerp.Number(0)})
	target := &anim.Target{
		Object:       el,
		InitialState: anim.Props{"x": lerp.Number(0)},
		Steps: []anim.Step{
			{Properties: anim.Props{"x": lerp.Number(100)}},
			{Properties: anim.Props{"x": lerp.Number(200)}},
		},
	}

	clock := frameclock.NewManual(0)
	c := NewController(clock, []*anim.Target{target}, 2, Defaults{
		SkipThreshold: 300,
		Duration:      1000,
		Easing:        easing.Presets["linear"],
		Throttle:      16,
	})
	r := &recorder{}
	c.SetSink(r)
	return c, clock, el, r
}

func xOf(el *anim.Element) float64 {
	v, _ := el.Get("x")
	return v.Num
}

func TestControllerAnimatesForward(t *testing.T) {
	c, clock, el, r := newTestController(t)
	clock.Advance(1000)

	c.Advance(0)
	if !c.Running() {
		t.Fatal("expected a running loop")
	}

	clock.Run(500, 16)
	if x := xOf(el); x <= 0 || x >= 100 {
		t.Errorf("expected x mid-way, got %v", x)
	}

	clock.Run(1000, 16)
	if x := xOf(el); x != 100 {
		t.Errorf("expected x=100, got %v", x)
	}
	if c.Running() {
		t.Error("loop should have completed")
	}
	if c.Click() != 0 {
		t.Errorf("expected click 0, got %d", c.Click())
	}
	if len(r.frames) == 0 || r.frames[len(r.frames)-1].Updates[0].Target != "box" {
		t.Errorf("expected published frames for box, got %+v", r.frames)
	}
}

func TestControllerQuickAdvanceSnaps(t *testing.T) {
	c, clock, el, _ := newTestController(t)
	clock.Advance(1000)

	c.Advance(0)
	clock.Advance(100)
	c.Advance(1)

	if c.Running() {
		t.Error("quick advance should not animate")
	}
	if x := xOf(el); x != 200 {
		t.Errorf("expected x=200, got %v", x)
	}
}

func TestControllerJumpSnapsThroughSteps(t *testing.T) {
	c, _, el, r := newTestController(t)

	c.Advance(1)
	if c.Running() {
		t.Error("a jump should not animate")
	}
	if x := xOf(el); x != 200 {
		t.Errorf("expected x=200, got %v", x)
	}
	if len(r.frames) != 2 {
		t.Errorf("expected one frame per intervening step, got %d", len(r.frames))
	}
}

func TestControllerReverse(t *testing.T) {
	c, clock, el, _ := newTestController(t)
	c.Advance(1)
	clock.Advance(1000)

	c.Prev()
	if !c.Running() {
		t.Fatal("expected reverse animation")
	}
	clock.Run(1200, 16)
	if x := xOf(el); x != 100 {
		t.Errorf("expected x=100, got %v", x)
	}
}

func TestControllerQuickReverseSnaps(t *testing.T) {
	c, clock, el, _ := newTestController(t)
	c.Advance(1)
	clock.Advance(100)

	c.Advance(-1)
	if c.Running() {
		t.Error("quick reverse should not animate")
	}
	if x := xOf(el); x != 0 {
		t.Errorf("expected initial x=0, got %v", x)
	}
}

func TestControllerPageChangeResets(t *testing.T) {
	c, clock, el, _ := newTestController(t)
	clock.Advance(1000)
	c.Advance(0)
	clock.Run(400, 16)

	c.SetPage(1)
	if c.Running() {
		t.Error("page change should stop the loop")
	}
	if c.Click() != -1 {
		t.Errorf("expected click -1, got %d", c.Click())
	}
	if x := xOf(el); x != 0 {
		t.Errorf("expected x reset to 0, got %v", x)
	}

	clock.Run(2000, 16)
	if x := xOf(el); x != 0 {
		t.Errorf("cancelled loop kept writing, x=%v", x)
	}
}

func TestControllerClampsClick(t *testing.T) {
	c, _, _, _ := newTestController(t)
	c.Advance(10)
	if c.Click() != 1 {
		t.Errorf("expected click clamped to 1, got %d", c.Click())
	}
	c.Advance(-5)
	if c.Click() != -1 {
		t.Errorf("expected click clamped to -1, got %d", c.Click())
	}
}

func TestDefaultsFromConfig(t *testing.T) {
	d := DefaultsFromConfig(AnimationConfig{DefaultEasing: "wobble", DefaultDuration: 500})
	if d.Easing == nil || d.Duration != 500 {
		t.Errorf("unexpected defaults %+v", d)
	}
	if v := easing.Apply(0.25, d.Easing); v != easing.Apply(0.25, easing.Default()) {
		t.Errorf("unknown easing should fall back to the default, got %v", v)
	}
}
