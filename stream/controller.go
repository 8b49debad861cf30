package stream

import (
	"log"
	"math"

	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/frameclock"
)

// Sink receives every batch of values the Controller writes.
type Sink interface {
	Publish(f *Frame)
}

// Defaults are the timing defaults applied by the Controller. Times are in
// milliseconds.
type Defaults struct {
	SkipThreshold float64
	Duration      float64
	Easing        easing.Func
	Throttle      float64
}

// DefaultsFromConfig resolves the animation section of a Config. An unknown
// easing name falls back to the default curve and is logged.
func DefaultsFromConfig(config AnimationConfig) Defaults {
	fn, err := easing.Lookup(config.DefaultEasing)
	if err != nil {
		log.Printf("Using %s: %v", easing.DefaultName, err)
		fn = easing.Default()
	}
	return Defaults{
		SkipThreshold: config.SkipThreshold,
		Duration:      config.DefaultDuration,
		Easing:        fn,
		Throttle:      config.Throttle,
	}
}

// Controller reacts to step-advance and page signals by running, snapping
// or reversing animations. It is not safe for concurrent use; callers on
// other goroutines go through the clock's Post.
type Controller struct {
	clock    frameclock.Clock
	targets  []*anim.Target
	total    int
	defaults Defaults
	sink     Sink

	click       int
	page        int
	lastAdvance float64
	loop        *anim.Loop
}

// NewController creates a Controller positioned before the first step. The
// targets are expected to be at their initial state.
func NewController(clock frameclock.Clock, targets []*anim.Target, total int, defaults Defaults) *Controller {
	c := new(Controller)
	c.clock = clock
	c.targets = targets
	c.total = total
	c.defaults = defaults
	if c.defaults.Throttle <= 0 {
		c.defaults.Throttle = anim.DefaultThrottle
	}
	c.click = -1
	c.lastAdvance = math.Inf(-1)

	for _, t := range targets {
		if len(t.Steps) > c.total {
			c.total = len(t.Steps)
		}
	}

	return c
}

// SetSink registers where applied batches are sent.
func (c *Controller) SetSink(sink Sink) {
	c.sink = sink
}

// Click is the index of the last step reached, -1 before the first.
func (c *Controller) Click() int {
	return c.click
}

// Page is the last page reported through SetPage.
func (c *Controller) Page() int {
	return c.page
}

// Total is the number of steps.
func (c *Controller) Total() int {
	return c.total
}

// Targets returns the animated targets.
func (c *Controller) Targets() []*anim.Target {
	return c.targets
}

// Running reports whether an animation loop is in flight.
func (c *Controller) Running() bool {
	return c.loop != nil && c.loop.State() == anim.Running
}

// Advance moves to step click, clamped to [-1, Total()-1]. Moving forward
// by one step animates it. Moving backwards animates to the cumulative state
// at click. Either direction snaps instead when the previous advance was
// less than SkipThreshold ago, and forward jumps of more than one step
// always snap through every intervening step.
func (c *Controller) Advance(click int) {
	if click < -1 {
		click = -1
	}
	if click > c.total-1 {
		click = c.total - 1
	}
	if click == c.click {
		return
	}

	now := c.clock.Now()
	quick := now-c.lastAdvance < c.defaults.SkipThreshold
	c.lastAdvance = now

	interrupted := c.stop()
	from := c.click
	c.click = click

	// An interrupted forward animation lands before the next one starts.
	if interrupted && click > from {
		c.emit(anim.SnapState(c.targets, from))
	}

	switch {
	case click > from && (quick || click-from > 1):
		for i := from + 1; i <= click; i++ {
			c.emit(anim.Snap(c.targets, i))
		}
	case click > from:
		c.start(anim.PrepareForward(c.targets, click, c.defaults.Duration, c.defaults.Easing))
	case quick:
		c.emit(anim.SnapState(c.targets, click))
	default:
		c.start(anim.PrepareReverse(c.targets, click, c.defaults.Duration, c.defaults.Easing))
	}
}

// Next advances by one step.
func (c *Controller) Next() {
	c.Advance(c.click + 1)
}

// Prev goes back one step.
func (c *Controller) Prev() {
	c.Advance(c.click - 1)
}

// SetPage reports the current page. Changing page resets the targets.
func (c *Controller) SetPage(page int) {
	if page == c.page {
		return
	}
	c.page = page
	c.PageChanged()
}

// PageChanged stops any running loop and writes every target's initial
// state.
func (c *Controller) PageChanged() {
	c.stop()
	c.click = -1
	c.lastAdvance = math.Inf(-1)
	c.emit(anim.ResetToInitial(c.targets))
}

func (c *Controller) stop() bool {
	if c.loop == nil {
		return false
	}
	running := c.loop.State() == anim.Running
	c.loop.Cancel()
	c.loop = nil
	return running
}

func (c *Controller) start(anims []*anim.Animation) {
	var loop *anim.Loop
	loop = anim.StartLoop(c.clock, anims, func() {
		if c.loop == loop {
			c.loop = nil
		}
	}, anim.WithThrottle(c.defaults.Throttle), anim.WithApply(func(updates []anim.Update) {
		anim.Apply(updates)
		c.emit(updates)
	}))
	c.loop = loop
}

func (c *Controller) emit(updates []anim.Update) {
	if c.sink == nil || len(updates) == 0 {
		return
	}
	c.sink.Publish(NewFrame(c.click, updates))
}
