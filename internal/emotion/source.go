// Package emotion abstracts the emotion source so the core logic is
// testable without a camera. The actual facial-expression pipeline runs
// out of process and pushes observations through the web layer.
package emotion

import (
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

// Source produces raw emotion observations.
type Source interface {
	// Observations returns the channel observations are delivered on.
	// The channel is closed when the source is closed.
	Observations() <-chan mood.Observation

	// LastSeen returns the timestamp of the most recent observation and
	// false if none has arrived yet.
	LastSeen() (time.Time, bool)

	// Close shuts the source down.
	Close()
}
