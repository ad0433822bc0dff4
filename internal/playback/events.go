package playback

import (
	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

// MoodChange is emitted when the active mood playlist changes.
//
// Emitted by:
//   - PlayMood: when a different mood's playlist is loaded, whether the
//     change came from detection or a manual selection
//
// NOT emitted by:
//   - PlayMood on the already-active mood: reloading the same playlist
//     is a no-op and must not restart playback
type MoodChange struct {
	Previous mood.Label
	Current  mood.Label
	Manual   bool
}

// TrackChange is emitted when playback starts on a different track.
//
// Emitted by:
//   - PlayMood: for the first track of the new playlist
//   - Next/Previous/JumpTo: when navigating with playback control
//   - handleTrackFinished: when a track ends and advances automatically
//
// NOT emitted by:
//   - Pause/Stop: state changes do not emit TrackChange
type TrackChange struct {
	Previous *playlist.Track
	Current  *playlist.Track
	Index    int
}

// StateChange is emitted when the engine playback state changes.
type StateChange struct {
	Previous player.State
	Current  player.State
}

// VolumeChange is emitted when volume level or mute state changes.
type VolumeChange struct {
	Level float64
	Muted bool
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode playlist.RepeatMode
	Shuffle    bool
}

// ErrorEvent is emitted when an error occurs during playback.
type ErrorEvent struct {
	Operation string // e.g., "play", "advance"
	Path      string // track path if applicable
	Err       error
}
