// Package player wraps the audio engine behind a small capability
// interface so the playback service is testable without sound hardware.
package player

import "time"

// Interface defines the audio engine contract.
type Interface interface {
	Play(path string) error
	Stop()
	Pause()
	Resume()
	Toggle()
	State() State
	Position() time.Duration
	Duration() time.Duration

	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool

	// FinishedChan signals each time a track plays to completion.
	FinishedChan() <-chan struct{}

	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
