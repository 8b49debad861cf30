// Package frameclock provides the frame-request clocks that drive animation
// loops. Every callback of one clock runs on a single goroutine, so the code
// they call needs no locking.
package frameclock

// FrameFunc receives the timestamp, in milliseconds, of the frame it was
// scheduled for.
type FrameFunc func(ts float64)

// Handle identifies a pending frame request.
type Handle uint64

// Clock schedules work against a monotonic per-frame timestamp.
type Clock interface {
	// Now returns the current timestamp in milliseconds.
	Now() float64
	// RequestFrame runs fn once, on the next frame.
	RequestFrame(fn FrameFunc) Handle
	// CancelFrame drops a pending request. Unknown handles are ignored.
	CancelFrame(h Handle)
	// Defer queues fn to run after the current callback returns, before the
	// next frame.
	Defer(fn func())
	// Post runs fn on the clock's goroutine. It is the only method that may be
	// called from other goroutines.
	Post(fn func())
}

type frameRequest struct {
	handle Handle
	fn     FrameFunc
}

// queue holds pending frame requests and deferred work.
type queue struct {
	next     Handle
	frames   []frameRequest
	deferred []func()
	// dropped holds handles cancelled while their frame batch was running.
	dropped map[Handle]bool
}

func (q *queue) request(fn FrameFunc) Handle {
	q.next++
	q.frames = append(q.frames, frameRequest{handle: q.next, fn: fn})
	return q.next
}

func (q *queue) cancel(h Handle) {
	for i, f := range q.frames {
		if f.handle == h {
			q.frames = append(q.frames[:i], q.frames[i+1:]...)
			return
		}
	}
	if q.dropped != nil {
		q.dropped[h] = true
	}
}

// take removes and returns the frames pending right now; requests made while
// running them wait for the following frame.
func (q *queue) take() []frameRequest {
	frames := q.frames
	q.frames = nil
	q.dropped = make(map[Handle]bool)
	return frames
}

// live reports whether a taken frame is still wanted.
func (q *queue) live(h Handle) bool {
	return !q.dropped[h]
}

func (q *queue) done() {
	q.dropped = nil
}

func (q *queue) takeDeferred() []func() {
	d := q.deferred
	q.deferred = nil
	return d
}
