package emotion

import (
	"sync"
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

const feedBufferSize = 64

// StaleAfter is how long without observations before the feed reports
// the detector as unavailable.
const StaleAfter = 10 * time.Second

// Feed is a push-based Source fed by the observation ingest endpoint.
// Pushes never block: the detector is lossy by nature and a dropped
// frame reading is cheaper than backpressure on the HTTP handler.
type Feed struct {
	mu       sync.Mutex
	ch       chan mood.Observation
	lastSeen time.Time
	seen     bool
	closed   bool
}

// NewFeed creates an open feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan mood.Observation, feedBufferSize)}
}

// Push delivers one observation. Returns false if the feed is closed or
// the buffer is full.
func (f *Feed) Push(obs mood.Observation) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	select {
	case f.ch <- obs:
		f.lastSeen = obs.Timestamp
		f.seen = true
		return true
	default:
		return false
	}
}

// Observations returns the delivery channel.
func (f *Feed) Observations() <-chan mood.Observation {
	return f.ch
}

// LastSeen returns the timestamp of the last pushed observation.
func (f *Feed) LastSeen() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSeen, f.seen
}

// Stale reports whether the source has gone quiet relative to now.
func (f *Feed) Stale(now time.Time) bool {
	last, ok := f.LastSeen()
	if !ok {
		return true
	}
	return now.Sub(last) > StaleAfter
}

// Close closes the feed. Further pushes are rejected.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.ch)
}

// Verify Feed implements Source at compile time.
var _ Source = (*Feed)(nil)
