// Package playlist holds the per-mood track queue and its advance,
// shuffle and repeat policy.
package playlist

import (
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

// Track represents a single playable track.
type Track struct {
	ID       int64 // library track ID (0 if not indexed)
	Path     string
	Mood     mood.Label
	Title    string
	Artist   string
	Duration time.Duration
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}
