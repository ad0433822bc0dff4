package director

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/emotion"
	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/playback"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

type stubSource struct {
	tracks map[mood.Label][]playlist.Track
}

func (s *stubSource) TracksByMood(m mood.Label) ([]playlist.Track, error) {
	return s.tracks[m], nil
}

func allMoodTracks() map[mood.Label][]playlist.Track {
	tracks := make(map[mood.Label][]playlist.Track)
	for _, m := range mood.Labels() {
		tracks[m] = []playlist.Track{{ID: 1, Path: "/m/" + m.String() + "/a.mp3", Mood: m}}
	}
	return tracks
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDirector(t *testing.T) (*Director, *emotion.Feed, playback.Service) {
	t.Helper()

	feed := emotion.NewFeed()
	stab := mood.NewStabilizer(mood.Params{
		ConfidenceThreshold: 0.5,
		Cooldown:            time.Second,
		WindowSpan:          10 * time.Second,
		WindowSize:          50,
		MinSamples:          2,
	})
	pb := playback.New(player.NewMock(), &stubSource{tracks: allMoodTracks()}, mood.Neutral)

	d := New(feed, stab, pb, discardLogger())
	d.Start()
	t.Cleanup(func() {
		d.Close()
		pb.Close()
	})
	return d, feed, pb
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func pushSustained(t *testing.T, feed *emotion.Feed, label mood.Label, conf float64, n int) {
	t.Helper()
	base := time.Now()
	for i := 0; i < n; i++ {
		ok := feed.Push(mood.Observation{
			Label:      label,
			Confidence: conf,
			Timestamp:  base.Add(time.Duration(i) * 100 * time.Millisecond),
		})
		if !ok {
			t.Fatalf("push %d rejected", i)
		}
	}
}

func TestSustainedMoodSwitchesPlaylist(t *testing.T) {
	d, feed, pb := newTestDirector(t)
	sub := pb.Subscribe()

	pushSustained(t, feed, mood.Happy, 0.9, 3)

	select {
	case e := <-sub.MoodChanged:
		if e.Current != mood.Happy || e.Manual {
			t.Errorf("mood change = %+v, want automatic happy", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no mood change from sustained observations")
	}

	eventually(t, func() bool {
		label, _ := d.Mood()
		return label == mood.Happy
	}, "stabilizer did not commit happy")

	eventually(t, func() bool {
		return pb.CurrentMood() == mood.Happy
	}, "playback did not switch to the happy playlist")
}

func TestAutoplayOffCommitsWithoutSwitching(t *testing.T) {
	d, feed, pb := newTestDirector(t)
	d.SetAutoplay(false)

	pushSustained(t, feed, mood.Sad, 0.9, 3)

	eventually(t, func() bool {
		label, _ := d.Mood()
		return label == mood.Sad
	}, "stabilizer did not commit sad")

	if got := pb.CurrentMood(); got != mood.Label("") {
		t.Errorf("playback mood = %v, want untouched", got)
	}
}

func TestStopDetectionIgnoresObservations(t *testing.T) {
	d, feed, _ := newTestDirector(t)
	d.StopDetection()

	pushSustained(t, feed, mood.Angry, 0.95, 5)

	// Give the loop time to drain the feed, then confirm nothing moved.
	eventually(t, func() bool {
		return d.Stats().Total == 0
	}, "paused detection still folded observations")

	if label, _ := d.Mood(); label != mood.Neutral {
		t.Errorf("mood = %v, want neutral while paused", label)
	}
}

func TestOverrideSwitchesImmediately(t *testing.T) {
	d, _, pb := newTestDirector(t)
	d.SetAutoplay(false)
	sub := pb.Subscribe()

	change, err := d.Override(mood.Fear)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if !change.Manual || change.Current != mood.Fear {
		t.Errorf("change = %+v, want manual fear", change)
	}

	select {
	case e := <-sub.MoodChanged:
		if !e.Manual || e.Current != mood.Fear {
			t.Errorf("mood change = %+v, want manual fear", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no mood change from override")
	}
}

func TestOverrideRejectsUnknownLabel(t *testing.T) {
	d, _, _ := newTestDirector(t)

	if _, err := d.Override(mood.Label("bored")); err == nil {
		t.Fatal("Override with unknown label returned nil error")
	}
}

func TestRestoreResumesLastMood(t *testing.T) {
	d, _, pb := newTestDirector(t)

	if err := d.Restore(mood.Sad); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if label, _ := d.Mood(); label != mood.Sad {
		t.Errorf("mood = %v, want sad", label)
	}
	if got := pb.CurrentMood(); got != mood.Sad {
		t.Errorf("playback mood = %v, want sad", got)
	}
}

func TestRestoreWithAutoplayOffHoldsPlayback(t *testing.T) {
	d, _, pb := newTestDirector(t)
	d.SetAutoplay(false)

	if err := d.Restore(mood.Sad); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if label, _ := d.Mood(); label != mood.Sad {
		t.Errorf("mood = %v, want sad", label)
	}
	if got := pb.CurrentMood(); got != mood.Label("") {
		t.Errorf("playback mood = %v, want untouched", got)
	}
}

func TestRestoreRejectsUnknownLabel(t *testing.T) {
	d, _, _ := newTestDirector(t)

	if err := d.Restore(mood.Label("melancholic")); err == nil {
		t.Fatal("Restore with unknown label returned nil error")
	}
}

func TestToggleAutoplay(t *testing.T) {
	d, _, _ := newTestDirector(t)

	if !d.Autoplay() {
		t.Fatal("autoplay should start enabled")
	}
	if d.ToggleAutoplay() {
		t.Error("first toggle should disable autoplay")
	}
	if !d.ToggleAutoplay() {
		t.Error("second toggle should re-enable autoplay")
	}
}

func TestAvailableTracksFeedActivity(t *testing.T) {
	d, feed, _ := newTestDirector(t)
	now := time.Now()

	if d.Available(now) {
		t.Error("detector available before any observation")
	}

	feed.Push(mood.Observation{Label: mood.Neutral, Confidence: 0.5, Timestamp: now})
	if !d.Available(now) {
		t.Error("detector unavailable right after an observation")
	}
	if d.Available(now.Add(emotion.StaleAfter + time.Second)) {
		t.Error("detector still available after going stale")
	}
}

func TestStatusSnapshot(t *testing.T) {
	d, feed, _ := newTestDirector(t)
	now := time.Now()
	feed.Push(mood.Observation{Label: mood.Neutral, Confidence: 0.5, Timestamp: now})

	st := d.Status(now)
	if !st.Detecting || !st.Autoplay || !st.Available {
		t.Errorf("status = %+v, want detecting+autoplay+available", st)
	}
	if st.Mood != mood.Neutral {
		t.Errorf("status mood = %v, want neutral", st.Mood)
	}
}
