package frameclock

import (
	"context"
	"sync"
	"time"
)

// Ticker is a real-time Clock firing frames on a fixed interval from one
// goroutine.
type Ticker struct {
	interval time.Duration
	start    time.Time

	mu    sync.Mutex
	q     queue
	posts chan func()
	done  chan struct{}
	once  sync.Once
}

// NewTicker creates a Ticker. Frames only fire once Run is called.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{
		interval: interval,
		start:    time.Now(),
		posts:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

func (t *Ticker) Now() float64 {
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}

func (t *Ticker) RequestFrame(fn FrameFunc) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.q.request(fn)
}

func (t *Ticker) CancelFrame(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.q.cancel(h)
}

func (t *Ticker) Defer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.q.deferred = append(t.q.deferred, fn)
}

// Post hands fn to the Run goroutine. Posts after Run has returned are
// dropped.
func (t *Ticker) Post(fn func()) {
	select {
	case t.posts <- fn:
	case <-t.done:
	}
}

// Run fires frames until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	defer t.once.Do(func() { close(t.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.frame()
		case fn := <-t.posts:
			fn()
			t.drain()
		}
	}
}

func (t *Ticker) frame() {
	t.mu.Lock()
	frames := t.q.take()
	t.mu.Unlock()

	now := t.Now()
	for _, f := range frames {
		t.mu.Lock()
		live := t.q.live(f.handle)
		t.mu.Unlock()
		if !live {
			continue
		}
		f.fn(now)
		t.drain()
	}

	t.mu.Lock()
	t.q.done()
	t.mu.Unlock()
}

func (t *Ticker) drain() {
	for {
		t.mu.Lock()
		deferred := t.q.takeDeferred()
		t.mu.Unlock()
		if len(deferred) == 0 {
			return
		}
		for _, fn := range deferred {
			fn()
		}
	}
}
