package anim

import (
	"math"

	"github.com/matt-g-everett/ledstep/frameclock"
)

// DefaultThrottle is the minimum time in milliseconds between two processed
// frames, about 30Hz.
const DefaultThrottle = 32.0

// LoopState is the lifecycle state of a Loop.
type LoopState int

const (
	Running LoopState = iota
	Completed
	Cancelled
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithThrottle sets the minimum interval between processed frames.
func WithThrottle(ms float64) LoopOption {
	return func(l *Loop) {
		l.throttle = ms
	}
}

// WithApply replaces the function that writes each frame's updates. The
// default is Apply.
func WithApply(fn func([]Update)) LoopOption {
	return func(l *Loop) {
		l.apply = fn
	}
}

// Loop drives ProcessFrame from a frame clock until every animation is
// completed or the loop is cancelled.
type Loop struct {
	clock      frameclock.Clock
	anims      []*Animation
	onComplete func()
	apply      func([]Update)
	throttle   float64

	state     LoopState
	started   bool
	startTime float64
	lastFrame float64
	handle    frameclock.Handle
	notified  bool
}

// StartLoop schedules the first tick immediately. onComplete, which may be
// nil, runs once after the final frame's updates are applied.
func StartLoop(clock frameclock.Clock, anims []*Animation, onComplete func(), opts ...LoopOption) *Loop {
	l := &Loop{
		clock:      clock,
		anims:      anims,
		onComplete: onComplete,
		apply:      Apply,
		throttle:   DefaultThrottle,
		lastFrame:  math.Inf(-1),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.handle = clock.RequestFrame(l.tick)
	return l
}

// State returns the current lifecycle state.
func (l *Loop) State() LoopState {
	return l.state
}

// Cancel stops future ticks. The completion callback will not run, but
// updates already handed to the clock's deferred queue are still written.
func (l *Loop) Cancel() {
	if l.state != Running {
		return
	}
	l.state = Cancelled
	l.clock.CancelFrame(l.handle)
}

func (l *Loop) tick(ts float64) {
	if l.state != Running {
		return
	}

	if !l.started {
		l.started = true
		l.startTime = ts
	}

	if ts-l.lastFrame < l.throttle {
		l.handle = l.clock.RequestFrame(l.tick)
		return
	}
	l.lastFrame = ts

	updates := ProcessFrame(l.anims, ts, l.startTime)
	done := AllCompleted(l.anims)
	if done {
		l.state = Completed
	} else {
		l.handle = l.clock.RequestFrame(l.tick)
	}

	l.clock.Defer(func() {
		if len(updates) > 0 {
			l.apply(updates)
		}
		if done && l.state == Completed && !l.notified {
			l.notified = true
			if l.onComplete != nil {
				l.onComplete()
			}
		}
	})
}
