package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

type stubSource struct {
	tracks map[mood.Label][]playlist.Track
	err    error
}

func (s *stubSource) TracksByMood(m mood.Label) ([]playlist.Track, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks[m], nil
}

func makeTracks(m mood.Label, paths ...string) []playlist.Track {
	tracks := make([]playlist.Track, len(paths))
	for i, p := range paths {
		tracks[i] = playlist.Track{ID: int64(i + 1), Path: p, Mood: m}
	}
	return tracks
}

func newTestService(t *testing.T, tracks map[mood.Label][]playlist.Track) (Service, *player.Mock) {
	t.Helper()
	mock := player.NewMock()
	svc := New(mock, &stubSource{tracks: tracks}, mood.Neutral)
	t.Cleanup(func() { svc.Close() })
	return svc, mock
}

func waitMood(t *testing.T, sub *Subscription) MoodChange {
	t.Helper()
	select {
	case e := <-sub.MoodChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mood change")
		return MoodChange{}
	}
}

func waitTrack(t *testing.T, sub *Subscription) TrackChange {
	t.Helper()
	select {
	case e := <-sub.TrackChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for track change")
		return TrackChange{}
	}
}

func waitState(t *testing.T, sub *Subscription) StateChange {
	t.Helper()
	select {
	case e := <-sub.StateChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for state change")
		return StateChange{}
	}
}

func TestPlayMoodStartsFirstTrack(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3", "/m/happy/b.mp3"),
	})
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}

	e := waitMood(t, sub)
	if e.Current != mood.Happy || e.Manual {
		t.Errorf("mood change = %+v, want happy automatic", e)
	}
	tc := waitTrack(t, sub)
	if tc.Current == nil || tc.Current.Path != "/m/happy/a.mp3" {
		t.Errorf("track change = %+v, want first happy track", tc.Current)
	}
	if mock.State() != player.Playing {
		t.Errorf("player state = %v, want Playing", mock.State())
	}
	if svc.CurrentMood() != mood.Happy {
		t.Errorf("CurrentMood = %v, want happy", svc.CurrentMood())
	}
}

func TestPlayMoodSameMoodDoesNotRestart(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3"),
	})

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood second: %v", err)
	}

	if calls := mock.PlayCalls(); len(calls) != 1 {
		t.Errorf("play calls = %v, want exactly one", calls)
	}
}

func TestPlayMoodFallsBackWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Neutral: makeTracks(mood.Neutral, "/m/neutral/a.mp3"),
	})
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Sad, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}

	e := waitMood(t, sub)
	if e.Current != mood.Neutral {
		t.Errorf("mood change current = %v, want fallback neutral", e.Current)
	}
	if svc.CurrentMood() != mood.Neutral {
		t.Errorf("CurrentMood = %v, want neutral", svc.CurrentMood())
	}
}

func TestPlayMoodNoTracksAnywhere(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{})

	err := svc.PlayMood(mood.Angry, false)
	if !errors.Is(err, ErrNoTracks) {
		t.Fatalf("PlayMood error = %v, want ErrNoTracks", err)
	}
}

func TestPlayMoodRejectsInvalidLabel(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{})

	if err := svc.PlayMood(mood.Label("ecstatic"), true); err == nil {
		t.Fatal("PlayMood with invalid label returned nil error")
	}
}

func TestPlayMoodSkipsUnreadableTrack(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/broken.mp3", "/m/happy/ok.mp3"),
	})
	mock.FailPath("/m/happy/broken.mp3")
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}

	select {
	case e := <-sub.Error:
		if e.Path != "/m/happy/broken.mp3" {
			t.Errorf("error event path = %q", e.Path)
		}
	case <-time.After(time.Second):
		t.Fatal("no error event for unreadable track")
	}

	tc := waitTrack(t, sub)
	if tc.Current == nil || tc.Current.Path != "/m/happy/ok.mp3" {
		t.Errorf("track change = %+v, want readable track", tc.Current)
	}
}

func TestTrackFinishedAdvances(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3", "/m/happy/b.mp3"),
	})
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	waitTrack(t, sub)

	mock.SimulateFinished()

	tc := waitTrack(t, sub)
	if tc.Current == nil || tc.Current.Path != "/m/happy/b.mp3" {
		t.Errorf("track after finish = %+v, want second track", tc.Current)
	}
	if tc.Previous == nil || tc.Previous.Path != "/m/happy/a.mp3" {
		t.Errorf("previous after finish = %+v, want first track", tc.Previous)
	}
}

func TestTrackFinishedAtEndStops(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3"),
	})
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	waitState(t, sub) // stopped -> playing

	mock.SimulateFinished()

	e := waitState(t, sub)
	if e.Current != player.Stopped {
		t.Errorf("state after playlist end = %v, want Stopped", e.Current)
	}
}

func TestTrackFinishedRepeatAllWraps(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3"),
	})
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	waitTrack(t, sub)

	svc.CycleRepeatMode() // off -> all
	mock.SimulateFinished()

	tc := waitTrack(t, sub)
	if tc.Current == nil || tc.Current.Path != "/m/happy/a.mp3" {
		t.Errorf("track after wrap = %+v, want same single track", tc.Current)
	}
}

func TestPauseResumeEvents(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3"),
	})
	sub := svc.Subscribe()

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	waitState(t, sub) // stopped -> playing

	if err := svc.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	e := waitState(t, sub)
	if e.Current != player.Paused {
		t.Errorf("state after pause = %v, want Paused", e.Current)
	}

	if err := svc.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	e = waitState(t, sub)
	if e.Current != player.Playing {
		t.Errorf("state after resume = %v, want Playing", e.Current)
	}
}

func TestNextAtEndStops(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3"),
	})

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	if err := svc.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if mock.State() != player.Stopped {
		t.Errorf("state after Next at end = %v, want Stopped", mock.State())
	}
}

func TestPreviousReplaysHead(t *testing.T) {
	svc, mock := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3", "/m/happy/b.mp3"),
	})

	if err := svc.PlayMood(mood.Happy, false); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	if err := svc.Previous(); err != nil {
		t.Fatalf("Previous: %v", err)
	}

	calls := mock.PlayCalls()
	if len(calls) != 2 || calls[1] != "/m/happy/a.mp3" {
		t.Errorf("play calls = %v, want head replayed", calls)
	}
}

func TestVolumeEvents(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{})
	sub := svc.Subscribe()

	svc.SetVolume(0.3)
	select {
	case e := <-sub.VolumeChange:
		if e.Level != 0.3 || e.Muted {
			t.Errorf("volume event = %+v, want level 0.3 unmuted", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no volume event")
	}

	if !svc.ToggleMute() {
		t.Error("ToggleMute = false, want true")
	}
	select {
	case e := <-sub.VolumeChange:
		if !e.Muted {
			t.Errorf("volume event = %+v, want muted", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no mute event")
	}
}

func TestStatusSnapshot(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{
		mood.Happy: makeTracks(mood.Happy, "/m/happy/a.mp3", "/m/happy/b.mp3"),
	})

	if err := svc.PlayMood(mood.Happy, true); err != nil {
		t.Fatalf("PlayMood: %v", err)
	}
	svc.SetVolume(0.7)

	st := svc.Status()
	if st.State != "playing" {
		t.Errorf("Status.State = %q, want playing", st.State)
	}
	if st.Mood != mood.Happy {
		t.Errorf("Status.Mood = %v, want happy", st.Mood)
	}
	if st.Track == nil || st.Track.Path != "/m/happy/a.mp3" {
		t.Errorf("Status.Track = %+v", st.Track)
	}
	if st.QueueLen != 2 || st.Index != 0 {
		t.Errorf("Status queue = len %d index %d", st.QueueLen, st.Index)
	}
	if st.Volume != 0.7 {
		t.Errorf("Status.Volume = %v, want 0.7", st.Volume)
	}
	if st.Repeat != "off" {
		t.Errorf("Status.Repeat = %q, want off", st.Repeat)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, map[mood.Label][]playlist.Track{})
	sub := svc.Subscribe()

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}
