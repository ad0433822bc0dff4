package playlist

import "math/rand/v2"

// Queue wraps an ordered track list with playback position, shuffle and
// repeat state. Not safe for concurrent use; the playback service owns
// the queue and serializes access.
type Queue struct {
	tracks       []Track
	currentIndex int // -1 if nothing playing
	shuffle      bool
	repeat       RepeatMode
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{currentIndex: -1}
}

// Current returns the current track, or nil if none.
func (q *Queue) Current() *Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.currentIndex]
}

// CurrentIndex returns the index of the current track (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Replace clears the queue, loads tracks and positions at the first one.
// With shuffle enabled the order is randomized first, so the "first"
// track is a random pick. Returns the track to play, nil if empty.
func (q *Queue) Replace(tracks ...Track) *Track {
	q.tracks = make([]Track, len(tracks))
	copy(q.tracks, tracks)
	q.currentIndex = -1

	if len(q.tracks) == 0 {
		return nil
	}
	if q.shuffle {
		rand.Shuffle(len(q.tracks), func(i, j int) {
			q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
		})
	}
	q.currentIndex = 0
	return q.Current()
}

// Advance moves to the next track per the repeat mode and returns it.
// Repeat-one holds the index, repeat-all wraps at the end, otherwise
// returns nil at the end of the list and leaves the index in place.
func (q *Queue) Advance() *Track {
	if len(q.tracks) == 0 || q.currentIndex < 0 {
		return nil
	}

	switch {
	case q.repeat == RepeatOne:
		// hold
	case q.currentIndex < len(q.tracks)-1:
		q.currentIndex++
	case q.repeat == RepeatAll:
		q.currentIndex = 0
	default:
		return nil
	}
	return q.Current()
}

// HasNext reports whether Advance would return a track.
func (q *Queue) HasNext() bool {
	if len(q.tracks) == 0 || q.currentIndex < 0 {
		return false
	}
	return q.repeat != RepeatOff || q.currentIndex < len(q.tracks)-1
}

// Previous moves to the previous track and returns it. At the head,
// repeat-all wraps to the last track; otherwise the head replays.
func (q *Queue) Previous() *Track {
	if len(q.tracks) == 0 || q.currentIndex < 0 {
		return nil
	}

	switch {
	case q.repeat == RepeatOne:
		// hold
	case q.currentIndex > 0:
		q.currentIndex--
	case q.repeat == RepeatAll:
		q.currentIndex = len(q.tracks) - 1
	default:
		q.currentIndex = 0
	}
	return q.Current()
}

// JumpTo sets the position to index and returns the track there, or nil
// if the index is out of bounds.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// SetShuffle toggles shuffle. Enabling it reshuffles the remaining order
// in place while keeping the current track current.
func (q *Queue) SetShuffle(enabled bool) {
	if q.shuffle == enabled {
		return
	}
	q.shuffle = enabled
	if !enabled || len(q.tracks) < 2 {
		return
	}

	var current *Track
	if q.currentIndex >= 0 {
		t := q.tracks[q.currentIndex]
		current = &t
	}
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
	if current != nil {
		for i := range q.tracks {
			if q.tracks[i].Path == current.Path {
				q.currentIndex = i
				break
			}
		}
	}
}

// Shuffle reports whether shuffle is enabled.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// SetRepeatMode sets the repeat mode.
func (q *Queue) SetRepeatMode(mode RepeatMode) {
	q.repeat = mode
}

// RepeatMode returns the repeat mode.
func (q *Queue) RepeatMode() RepeatMode {
	return q.repeat
}

// CycleRepeatMode advances off -> all -> one -> off and returns the new mode.
func (q *Queue) CycleRepeatMode() RepeatMode {
	switch q.repeat {
	case RepeatOff:
		q.repeat = RepeatAll
	case RepeatAll:
		q.repeat = RepeatOne
	default:
		q.repeat = RepeatOff
	}
	return q.repeat
}

// Tracks returns a copy of all tracks.
func (q *Queue) Tracks() []Track {
	result := make([]Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Len returns the number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty reports whether the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Clear removes all tracks and resets the position.
func (q *Queue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}
