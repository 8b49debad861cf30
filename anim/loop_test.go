package anim

import (
	"testing"

	"github.com/matt-g-everett/ledstep/frameclock"
	"github.com/matt-g-everett/ledstep/lerp"
)

func TestLoopRunsToCompletion(t *testing.T) {
	clock := frameclock.NewManual(5000)
	obj := NewElement("box", Props{"x": lerp.Number(0)})
	target := &Target{Object: obj, Steps: []Step{{Properties: Props{"x": lerp.Number(100)}}}}

	calls := 0
	loop := StartLoop(clock, PrepareForward([]*Target{target}, 0, 500, nil), func() {
		calls++
		if v, _ := obj.Get("x"); !v.Equal(lerp.Number(100)) {
			t.Errorf("final values must be applied before completion, got %v", v)
		}
	})

	clock.Run(1000, 16)
	if loop.State() != Completed {
		t.Fatalf("expected completed, got %v", loop.State())
	}
	if calls != 1 {
		t.Errorf("expected one completion callback, got %d", calls)
	}
	if clock.Pending() != 0 {
		t.Errorf("completed loop left %d frame requests", clock.Pending())
	}
}

func TestLoopAnchorsOnFirstTick(t *testing.T) {
	clock := frameclock.NewManual(0)
	obj := NewElement("box", Props{"x": lerp.Number(0)})
	target := &Target{Object: obj, Steps: []Step{{Properties: Props{"x": lerp.Number(100)}}}}

	StartLoop(clock, PrepareForward([]*Target{target}, 0, 1000, nil), nil, WithThrottle(0))

	// A slow first frame does not eat into the animation.
	clock.Advance(400)
	if v, _ := obj.Get("x"); v.Num != 0 {
		t.Fatalf("first tick should be at progress 0, got %v", v)
	}
	clock.Advance(500)
	if v, _ := obj.Get("x"); v.Num != 50 {
		t.Errorf("expected 50 halfway through, got %v", v)
	}
}

func TestLoopThrottle(t *testing.T) {
	clock := frameclock.NewManual(0)
	obj := NewElement("box", Props{"x": lerp.Number(0)})
	target := &Target{Object: obj, Steps: []Step{{Properties: Props{"x": lerp.Number(100)}}}}

	frames := 0
	StartLoop(clock, PrepareForward([]*Target{target}, 0, 1000, nil), nil, WithApply(func(u []Update) {
		frames++
		Apply(u)
	}))

	clock.Run(320, 10)
	// Frames at 10, 50, 90, ... are at least 32ms apart.
	if frames < 8 || frames > 11 {
		t.Errorf("expected about 10 processed frames in 320ms at 10ms ticks, got %d", frames)
	}
}

func TestLoopCancelSuppressesCompletion(t *testing.T) {
	clock := frameclock.NewManual(0)
	obj := NewElement("box", Props{"x": lerp.Number(0)})
	target := &Target{Object: obj, Steps: []Step{{Properties: Props{"x": lerp.Number(100)}}}}

	called := false
	loop := StartLoop(clock, PrepareForward([]*Target{target}, 0, 1000, nil), func() { called = true })

	clock.Run(300, 16)
	loop.Cancel()
	clock.Run(10000, 16)

	if called {
		t.Error("completion callback ran after cancel")
	}
	if loop.State() != Cancelled {
		t.Errorf("expected cancelled, got %v", loop.State())
	}
	v, _ := obj.Get("x")
	if v.Num <= 0 || v.Num >= 100 {
		t.Errorf("expected a partial value to remain, got %v", v)
	}
}

func TestLoopCancelBeforeFirstTick(t *testing.T) {
	clock := frameclock.NewManual(0)
	obj := NewElement("box", Props{"x": lerp.Number(0)})
	target := &Target{Object: obj, Steps: []Step{{Properties: Props{"x": lerp.Number(100)}}}}

	loop := StartLoop(clock, PrepareForward([]*Target{target}, 0, 100, nil), func() { t.Error("completion after cancel") })
	loop.Cancel()
	clock.Run(1000, 16)

	if v, _ := obj.Get("x"); v.Num != 0 {
		t.Errorf("cancelled loop wrote %v", v)
	}
}

func TestLoopEmptyBatchCompletes(t *testing.T) {
	clock := frameclock.NewManual(0)
	called := 0
	StartLoop(clock, nil, func() { called++ })
	clock.Advance(16)
	clock.Advance(16)
	if called != 1 {
		t.Errorf("expected one completion for an empty batch, got %d", called)
	}
}

func TestLoopWritesAfterComputation(t *testing.T) {
	clock := frameclock.NewManual(0)
	a := NewElement("a", Props{"x": lerp.Number(0)})
	b := NewElement("b", Props{"x": lerp.Number(0)})
	targets := []*Target{
		{Object: a, Steps: []Step{{Properties: Props{"x": lerp.Number(10)}}}},
		{Object: b, Steps: []Step{{Properties: Props{"x": lerp.Number(20)}}}},
	}

	var batches [][]Update
	StartLoop(clock, PrepareForward(targets, 0, 100, nil), nil, WithApply(func(u []Update) {
		batches = append(batches, u)
		Apply(u)
	}))

	clock.Run(200, 50)
	for _, batch := range batches {
		if len(batch) > 0 && batch[0].Target != a {
			t.Errorf("batch order changed: %+v", batch)
		}
	}
	if v, _ := b.Get("x"); v.Num != 20 {
		t.Errorf("expected b at 20, got %v", v)
	}
}
