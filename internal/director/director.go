// Package director runs the detection loop: it drains the emotion source
// in order, folds each observation into the stabilizer, and switches the
// playback mood when a change commits and autoplay is on.
package director

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/emotion"
	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/playback"
)

// Status is a snapshot of the detection loop for the API.
type Status struct {
	Detecting  bool       `json:"detecting"`
	Autoplay   bool       `json:"autoplay"`
	Available  bool       `json:"detector_available"`
	Mood       mood.Label `json:"mood"`
	Confidence float64    `json:"confidence"`
	LastChange time.Time  `json:"last_change,omitempty"`
}

// Director owns the observation loop.
type Director struct {
	source     emotion.Source
	stabilizer *mood.Stabilizer
	playback   playback.Service
	log        *slog.Logger

	mu        sync.Mutex
	detecting bool
	autoplay  bool

	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// New creates a director. Detection and autoplay start enabled; Start must
// be called to begin draining the source.
func New(source emotion.Source, stabilizer *mood.Stabilizer, pb playback.Service, log *slog.Logger) *Director {
	return &Director{
		source:     source,
		stabilizer: stabilizer,
		playback:   pb,
		log:        log,
		detecting:  true,
		autoplay:   true,
		done:       make(chan struct{}),
	}
}

// Start launches the observation loop.
func (d *Director) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	d.wg.Add(1)
	go d.loop()
}

func (d *Director) loop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case obs, ok := <-d.source.Observations():
			if !ok {
				return
			}
			d.handle(obs)
		}
	}
}

// handle folds one observation. Observations arriving while detection is
// paused are discarded rather than queued, so resuming starts from a
// fresh picture of the face.
func (d *Director) handle(obs mood.Observation) {
	if !d.Detecting() {
		return
	}

	change := d.stabilizer.Observe(obs)
	if change == nil {
		return
	}

	d.log.Info("mood change committed",
		"from", change.Previous,
		"to", change.Current,
		"confidence", change.Confidence)

	if !d.Autoplay() {
		return
	}
	if err := d.playback.PlayMood(change.Current, false); err != nil {
		d.log.Warn("switch playlist", "mood", change.Current, "error", err)
	}
}

// Override commits a manual mood immediately, bypassing the cooldown, and
// switches the playlist regardless of the autoplay setting.
func (d *Director) Override(label mood.Label) (mood.Change, error) {
	if !label.Valid() {
		return mood.Change{}, fmt.Errorf("override: %w", mood.ErrUnknownLabel)
	}

	change := d.stabilizer.Force(label, time.Now())
	d.log.Info("mood override", "from", change.Previous, "to", change.Current)

	if err := d.playback.PlayMood(label, true); err != nil {
		return change, err
	}
	return change, nil
}

// Restore seeds the stabilized mood from persisted state at startup and,
// when autoplay is on, resumes playing that mood's playlist.
func (d *Director) Restore(label mood.Label) error {
	if !label.Valid() {
		return fmt.Errorf("restore: %w", mood.ErrUnknownLabel)
	}

	d.stabilizer.Force(label, time.Now())
	if !d.Autoplay() {
		return nil
	}
	return d.playback.PlayMood(label, false)
}

// StartDetection resumes folding observations into the stabilizer.
func (d *Director) StartDetection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detecting = true
}

// StopDetection pauses detection. The current mood and playback hold.
func (d *Director) StopDetection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detecting = false
}

// Detecting reports whether observations are being processed.
func (d *Director) Detecting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detecting
}

// SetAutoplay enables or disables automatic playlist switching.
func (d *Director) SetAutoplay(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.autoplay = enabled
}

// ToggleAutoplay flips autoplay and returns the new value.
func (d *Director) ToggleAutoplay() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.autoplay = !d.autoplay
	return d.autoplay
}

// Autoplay reports whether detected mood changes switch playlists.
func (d *Director) Autoplay() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.autoplay
}

// Available reports whether the detector has delivered an observation
// recently enough to be considered alive.
func (d *Director) Available(now time.Time) bool {
	last, ok := d.source.LastSeen()
	if !ok {
		return false
	}
	return now.Sub(last) <= emotion.StaleAfter
}

// Mood returns the stabilized mood and its confidence.
func (d *Director) Mood() (mood.Label, float64) {
	return d.stabilizer.Current()
}

// Stats returns detection window statistics.
func (d *Director) Stats() mood.Stats {
	return d.stabilizer.Stats()
}

// Params returns the active detection parameters.
func (d *Director) Params() mood.Params {
	return d.stabilizer.Params()
}

// SetParams replaces the detection parameters at runtime.
func (d *Director) SetParams(p mood.Params) {
	d.stabilizer.SetParams(p)
}

// Debug returns the stabilizer internals for the debug endpoint.
func (d *Director) Debug() mood.Snapshot {
	return d.stabilizer.Debug()
}

// Status returns a snapshot for the detection status endpoint.
func (d *Director) Status(now time.Time) Status {
	label, conf := d.stabilizer.Current()
	return Status{
		Detecting:  d.Detecting(),
		Autoplay:   d.Autoplay(),
		Available:  d.Available(now),
		Mood:       label,
		Confidence: conf,
		LastChange: d.stabilizer.LastChange(),
	}
}

// Close stops the loop and waits for it to exit.
func (d *Director) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.done)
	d.mu.Unlock()
	d.wg.Wait()
}
