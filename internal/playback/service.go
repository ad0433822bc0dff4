// Package playback owns the playing queue and the audio engine. All mood
// switches, manual or detected, funnel through a single service so they
// serialize on one lock and cannot race each other.
package playback

import (
	"errors"
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

// ErrNoTracks is returned when a mood has no playable tracks and neither
// does the fallback mood.
var ErrNoTracks = errors.New("no tracks for mood")

// TrackSource supplies the tracks belonging to a mood. Implemented by the
// library.
type TrackSource interface {
	TracksByMood(m mood.Label) ([]playlist.Track, error)
}

// Status is a point-in-time snapshot of the playback service.
type Status struct {
	State    string          `json:"state"`
	Mood     mood.Label      `json:"mood"`
	Track    *playlist.Track `json:"track,omitempty"`
	Index    int             `json:"index"`
	QueueLen int             `json:"queue_len"`
	Volume   float64         `json:"volume"`
	Muted    bool            `json:"muted"`
	Shuffle  bool            `json:"shuffle"`
	Repeat   string          `json:"repeat"`
	Position time.Duration   `json:"position"`
	Duration time.Duration   `json:"duration"`
}

// Service defines the playback service contract.
type Service interface {
	// Mood control
	PlayMood(m mood.Label, manual bool) error
	CurrentMood() mood.Label

	// Playback control
	Play() error
	Pause() error
	Resume() error
	Stop() error
	Toggle() error
	Next() error
	Previous() error
	JumpTo(index int) error

	// Volume control
	SetVolume(level float64)
	Volume() float64
	ToggleMute() bool

	// Mode control
	RepeatMode() playlist.RepeatMode
	SetRepeatMode(mode playlist.RepeatMode)
	CycleRepeatMode() playlist.RepeatMode
	Shuffle() bool
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// State queries
	State() player.State
	CurrentTrack() *playlist.Track
	QueueTracks() []playlist.Track
	QueueIndex() int
	Status() Status

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
