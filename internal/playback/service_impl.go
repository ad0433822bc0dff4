package playback

import (
	"fmt"
	"sync"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	player   player.Interface
	queue    *playlist.Queue
	source   TrackSource
	fallback mood.Label

	currentMood mood.Label

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates a playback service backed by p, pulling mood playlists from
// source. When a mood folder is empty the fallback mood plays instead.
func New(p player.Interface, source TrackSource, fallback mood.Label) Service {
	s := &serviceImpl{
		player:   p,
		queue:    playlist.NewQueue(),
		source:   source,
		fallback: fallback,
		done:     make(chan struct{}),
	}
	go s.watchFinished()
	return s
}

// watchFinished advances the queue each time a track plays to completion.
func (s *serviceImpl) watchFinished() {
	for {
		select {
		case <-s.done:
			return
		case <-s.player.FinishedChan():
			s.handleTrackFinished()
		}
	}
}

func (s *serviceImpl) handleTrackFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := cloneTrack(s.queue.Current())
	if s.queue.Advance() == nil {
		// End of playlist with repeat off. The stream already ended, so
		// the engine is effectively stopped.
		s.player.Stop()
		s.broadcast(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: player.Playing, Current: player.Stopped})
		})
		return
	}
	if err := s.playCurrentLocked(prev); err != nil {
		s.broadcast(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: "advance", Err: err})
		})
	}
}

// PlayMood loads the playlist for m and starts playback on its first
// track. Re-selecting the already-active mood is a no-op so a sustained
// detection stream does not restart the current song. When m has no
// tracks the fallback mood is tried before giving up with ErrNoTracks.
func (s *serviceImpl) PlayMood(m mood.Label, manual bool) error {
	if !m.Valid() {
		return fmt.Errorf("play mood: %w", mood.ErrUnknownLabel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m == s.currentMood && !s.queue.IsEmpty() {
		return nil
	}

	tracks, err := s.source.TracksByMood(m)
	if err != nil {
		return fmt.Errorf("load tracks for %s: %w", m, err)
	}
	if len(tracks) == 0 && m != s.fallback {
		tracks, err = s.source.TracksByMood(s.fallback)
		if err != nil {
			return fmt.Errorf("load fallback tracks: %w", err)
		}
		if len(tracks) > 0 {
			m = s.fallback
		}
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: %s", ErrNoTracks, m)
	}

	if m == s.currentMood && !s.queue.IsEmpty() {
		return nil
	}

	previous := s.currentMood
	prevTrack := cloneTrack(s.queue.Current())
	s.currentMood = m
	s.queue.Replace(tracks...)

	if err := s.playCurrentLocked(prevTrack); err != nil {
		return err
	}

	s.broadcast(func(sub *Subscription) {
		sub.sendMood(MoodChange{Previous: previous, Current: m, Manual: manual})
	})
	return nil
}

// playCurrentLocked starts the queue's current track. Unreadable tracks
// are reported and skipped; at most one full pass over the queue is
// attempted before giving up.
func (s *serviceImpl) playCurrentLocked(prev *playlist.Track) error {
	prevState := s.player.State()

	for attempts := s.queue.Len(); attempts > 0; attempts-- {
		tr := s.queue.Current()
		if tr == nil {
			break
		}
		if err := s.player.Play(tr.Path); err != nil {
			path := tr.Path
			s.broadcast(func(sub *Subscription) {
				sub.sendError(ErrorEvent{Operation: "play", Path: path, Err: err})
			})
			if s.queue.Advance() == nil {
				break
			}
			continue
		}

		cur := cloneTrack(tr)
		index := s.queue.CurrentIndex()
		s.broadcast(func(sub *Subscription) {
			sub.sendTrack(TrackChange{Previous: prev, Current: cur, Index: index})
			if prevState != player.Playing {
				sub.sendState(StateChange{Previous: prevState, Current: player.Playing})
			}
		})
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoTracks, s.currentMood)
}

// CurrentMood returns the mood whose playlist is loaded.
func (s *serviceImpl) CurrentMood() mood.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMood
}

// Play starts the current track, or resumes when paused.
func (s *serviceImpl) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.player.State() {
	case player.Playing:
		return nil
	case player.Paused:
		s.player.Resume()
		s.broadcast(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: player.Paused, Current: player.Playing})
		})
		return nil
	case player.Stopped:
		if s.queue.Current() == nil {
			return ErrNoTracks
		}
		return s.playCurrentLocked(nil)
	}
	return nil
}

// Pause pauses a playing track.
func (s *serviceImpl) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.State() != player.Playing {
		return nil
	}
	s.player.Pause()
	s.broadcast(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: player.Playing, Current: player.Paused})
	})
	return nil
}

// Resume resumes a paused track.
func (s *serviceImpl) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.State() != player.Paused {
		return nil
	}
	s.player.Resume()
	s.broadcast(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: player.Paused, Current: player.Playing})
	})
	return nil
}

// Stop stops playback. The queue and mood are kept so Play can restart.
func (s *serviceImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.player.State()
	if prev == player.Stopped {
		return nil
	}
	s.player.Stop()
	s.broadcast(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: player.Stopped})
	})
	return nil
}

// Toggle pauses when playing and plays otherwise.
func (s *serviceImpl) Toggle() error {
	switch s.State() {
	case player.Playing:
		return s.Pause()
	default:
		return s.Play()
	}
}

// Next skips to the next track per the repeat mode. At the end of the
// playlist with repeat off, playback stops.
func (s *serviceImpl) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := cloneTrack(s.queue.Current())
	if s.queue.Advance() == nil {
		prevState := s.player.State()
		s.player.Stop()
		if prevState != player.Stopped {
			s.broadcast(func(sub *Subscription) {
				sub.sendState(StateChange{Previous: prevState, Current: player.Stopped})
			})
		}
		return nil
	}
	return s.playCurrentLocked(prev)
}

// Previous goes back one track, replaying the head at the start.
func (s *serviceImpl) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := cloneTrack(s.queue.Current())
	if s.queue.Previous() == nil {
		return nil
	}
	return s.playCurrentLocked(prev)
}

// JumpTo plays the track at index.
func (s *serviceImpl) JumpTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := cloneTrack(s.queue.Current())
	if s.queue.JumpTo(index) == nil {
		return fmt.Errorf("jump to %d: index out of range", index)
	}
	return s.playCurrentLocked(prev)
}

// SetVolume sets the volume level (0.0 to 1.0).
func (s *serviceImpl) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.SetVolume(level)
	s.broadcast(func(sub *Subscription) {
		sub.sendVolume(VolumeChange{Level: s.player.Volume(), Muted: s.player.Muted()})
	})
}

// Volume returns the current volume level.
func (s *serviceImpl) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Volume()
}

// ToggleMute flips the mute state and returns the new value.
func (s *serviceImpl) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	muted := !s.player.Muted()
	s.player.SetMuted(muted)
	s.broadcast(func(sub *Subscription) {
		sub.sendVolume(VolumeChange{Level: s.player.Volume(), Muted: muted})
	})
	return muted
}

// RepeatMode returns the current repeat mode.
func (s *serviceImpl) RepeatMode() playlist.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.RepeatMode()
}

// SetRepeatMode sets the repeat mode directly, used when restoring
// persisted settings.
func (s *serviceImpl) SetRepeatMode(mode playlist.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.SetRepeatMode(mode)
	s.broadcastModeLocked()
}

// CycleRepeatMode advances off -> all -> one -> off.
func (s *serviceImpl) CycleRepeatMode() playlist.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.queue.CycleRepeatMode()
	s.broadcastModeLocked()
	return mode
}

// Shuffle reports whether shuffle is enabled.
func (s *serviceImpl) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Shuffle()
}

// SetShuffle enables or disables shuffle.
func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.SetShuffle(enabled)
	s.broadcastModeLocked()
}

// ToggleShuffle flips shuffle and returns the new value.
func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	enabled := !s.queue.Shuffle()
	s.queue.SetShuffle(enabled)
	s.broadcastModeLocked()
	return enabled
}

func (s *serviceImpl) broadcastModeLocked() {
	e := ModeChange{RepeatMode: s.queue.RepeatMode(), Shuffle: s.queue.Shuffle()}
	s.broadcast(func(sub *Subscription) {
		sub.sendMode(e)
	})
}

// State returns the current engine state.
func (s *serviceImpl) State() player.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.State()
}

// CurrentTrack returns the current track, or nil if none.
func (s *serviceImpl) CurrentTrack() *playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTrack(s.queue.Current())
}

// QueueTracks returns a copy of the queue contents.
func (s *serviceImpl) QueueTracks() []playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

// QueueIndex returns the current queue index (-1 if none).
func (s *serviceImpl) QueueIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

// Status returns a consistent snapshot of the whole service.
func (s *serviceImpl) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		State:    s.player.State().String(),
		Mood:     s.currentMood,
		Track:    cloneTrack(s.queue.Current()),
		Index:    s.queue.CurrentIndex(),
		QueueLen: s.queue.Len(),
		Volume:   s.player.Volume(),
		Muted:    s.player.Muted(),
		Shuffle:  s.queue.Shuffle(),
		Repeat:   s.queue.RepeatMode().String(),
		Position: s.player.Position(),
		Duration: s.player.Duration(),
	}
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// broadcast invokes send for every subscriber.
func (s *serviceImpl) broadcast(send func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		send(sub)
	}
}

// Close shuts down the service and the engine.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return s.player.Close()
}

// cloneTrack copies t so callers never hold a pointer into the queue.
func cloneTrack(t *playlist.Track) *playlist.Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
