package frameclock

// Manual is a Clock that only moves when told to. Tests and offline
// simulations use it to step animations deterministically.
type Manual struct {
	now float64
	q   queue
}

// NewManual creates a Manual clock reading start.
func NewManual(start float64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() float64 {
	return m.now
}

func (m *Manual) RequestFrame(fn FrameFunc) Handle {
	return m.q.request(fn)
}

func (m *Manual) CancelFrame(h Handle) {
	m.q.cancel(h)
}

func (m *Manual) Defer(fn func()) {
	m.q.deferred = append(m.q.deferred, fn)
}

// Post runs fn immediately, followed by any work it deferred.
func (m *Manual) Post(fn func()) {
	fn()
	m.drain()
}

// Advance moves time forward by ms and fires one frame.
func (m *Manual) Advance(ms float64) {
	m.now += ms
	m.frame()
}

// Run advances total milliseconds in frames of step milliseconds.
func (m *Manual) Run(total, step float64) {
	for elapsed := 0.0; elapsed < total; elapsed += step {
		m.Advance(step)
	}
}

// Pending returns the number of outstanding frame requests.
func (m *Manual) Pending() int {
	return len(m.q.frames)
}

func (m *Manual) frame() {
	for _, f := range m.q.take() {
		if !m.q.live(f.handle) {
			continue
		}
		f.fn(m.now)
		m.drain()
	}
	m.q.done()
}

func (m *Manual) drain() {
	for len(m.q.deferred) > 0 {
		for _, fn := range m.q.takeDeferred() {
			fn()
		}
	}
}
