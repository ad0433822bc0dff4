package playlist

import (
	"testing"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

func tracks(paths ...string) []Track {
	result := make([]Track, len(paths))
	for i, p := range paths {
		result[i] = Track{Path: p, Mood: mood.Happy}
	}
	return result
}

func TestQueue_Empty(t *testing.T) {
	q := NewQueue()

	if !q.IsEmpty() {
		t.Error("IsEmpty() = false for new queue")
	}
	if q.Current() != nil {
		t.Error("Current() != nil for new queue")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Advance() != nil {
		t.Error("Advance() != nil for empty queue")
	}
	if q.Previous() != nil {
		t.Error("Previous() != nil for empty queue")
	}
}

func TestQueue_Replace(t *testing.T) {
	q := NewQueue()

	first := q.Replace(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)

	if first == nil || first.Path != "/a.mp3" {
		t.Fatalf("Replace() = %+v, want /a.mp3", first)
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_ReplaceEmpty(t *testing.T) {
	q := NewQueue()
	q.Replace(tracks("/a.mp3")...)

	if got := q.Replace(); got != nil {
		t.Errorf("Replace() with no tracks = %+v, want nil", got)
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_AdvanceStopsAtEnd(t *testing.T) {
	q := NewQueue()
	q.Replace(tracks("/a.mp3", "/b.mp3")...)

	next := q.Advance()
	if next == nil || next.Path != "/b.mp3" {
		t.Fatalf("Advance() = %+v, want /b.mp3", next)
	}

	// Non-repeating queue never advances past the end.
	if got := q.Advance(); got != nil {
		t.Errorf("Advance() past end = %+v, want nil", got)
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1 (unchanged)", q.CurrentIndex())
	}
}

func TestQueue_RepeatAllWraps(t *testing.T) {
	q := NewQueue()
	q.SetRepeatMode(RepeatAll)
	q.Replace(tracks("/a.mp3", "/b.mp3")...)

	q.Advance()
	wrapped := q.Advance()

	if wrapped == nil || wrapped.Path != "/a.mp3" {
		t.Fatalf("Advance() at end = %+v, want wrap to /a.mp3", wrapped)
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_RepeatOneHolds(t *testing.T) {
	q := NewQueue()
	q.SetRepeatMode(RepeatOne)
	q.Replace(tracks("/a.mp3", "/b.mp3")...)

	for range 3 {
		got := q.Advance()
		if got == nil || got.Path != "/a.mp3" {
			t.Fatalf("Advance() = %+v, want /a.mp3 held", got)
		}
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_Previous(t *testing.T) {
	q := NewQueue()
	q.Replace(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)
	q.JumpTo(2)

	prev := q.Previous()
	if prev == nil || prev.Path != "/b.mp3" {
		t.Fatalf("Previous() = %+v, want /b.mp3", prev)
	}

	q.JumpTo(0)
	// At the head without repeat the head replays.
	prev = q.Previous()
	if prev == nil || prev.Path != "/a.mp3" {
		t.Errorf("Previous() at head = %+v, want /a.mp3", prev)
	}

	q.SetRepeatMode(RepeatAll)
	prev = q.Previous()
	if prev == nil || prev.Path != "/c.mp3" {
		t.Errorf("Previous() at head with repeat-all = %+v, want /c.mp3", prev)
	}
}

func TestQueue_JumpTo(t *testing.T) {
	q := NewQueue()
	q.Replace(tracks("/a.mp3", "/b.mp3")...)

	if got := q.JumpTo(1); got == nil || got.Path != "/b.mp3" {
		t.Errorf("JumpTo(1) = %+v, want /b.mp3", got)
	}
	if got := q.JumpTo(5); got != nil {
		t.Errorf("JumpTo(5) = %+v, want nil", got)
	}
	if got := q.JumpTo(-1); got != nil {
		t.Errorf("JumpTo(-1) = %+v, want nil", got)
	}
}

func TestQueue_HasNext(t *testing.T) {
	q := NewQueue()
	q.Replace(tracks("/a.mp3", "/b.mp3")...)

	if !q.HasNext() {
		t.Error("HasNext() = false at head of two-track queue")
	}

	q.JumpTo(1)
	if q.HasNext() {
		t.Error("HasNext() = true at end without repeat")
	}

	q.SetRepeatMode(RepeatAll)
	if !q.HasNext() {
		t.Error("HasNext() = false at end with repeat-all")
	}
}

func TestQueue_ShufflePreservesCurrentTrack(t *testing.T) {
	q := NewQueue()
	paths := []string{"/a.mp3", "/b.mp3", "/c.mp3", "/d.mp3", "/e.mp3"}
	q.Replace(tracks(paths...)...)
	q.JumpTo(2)
	want := q.Current().Path

	q.SetShuffle(true)

	if !q.Shuffle() {
		t.Error("Shuffle() = false after SetShuffle(true)")
	}
	if got := q.Current().Path; got != want {
		t.Errorf("current track after shuffle = %q, want %q", got, want)
	}

	// Same multiset of tracks.
	got := map[string]bool{}
	for _, tr := range q.Tracks() {
		got[tr.Path] = true
	}
	for _, p := range paths {
		if !got[p] {
			t.Errorf("track %q missing after shuffle", p)
		}
	}
}

func TestQueue_ReplaceWithShuffleStartsSomewhere(t *testing.T) {
	q := NewQueue()
	q.SetShuffle(true)

	first := q.Replace(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)

	if first == nil {
		t.Fatal("Replace() = nil")
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
}

func TestQueue_CycleRepeatMode(t *testing.T) {
	q := NewQueue()

	if got := q.CycleRepeatMode(); got != RepeatAll {
		t.Errorf("first cycle = %v, want all", got)
	}
	if got := q.CycleRepeatMode(); got != RepeatOne {
		t.Errorf("second cycle = %v, want one", got)
	}
	if got := q.CycleRepeatMode(); got != RepeatOff {
		t.Errorf("third cycle = %v, want off", got)
	}
}

func TestQueue_TracksReturnsCopy(t *testing.T) {
	q := NewQueue()
	q.Replace(tracks("/a.mp3")...)

	copied := q.Tracks()
	copied[0].Path = "/mutated.mp3"

	if q.Current().Path != "/a.mp3" {
		t.Error("mutating Tracks() copy changed queue state")
	}
}

func TestRepeatMode_String(t *testing.T) {
	cases := map[RepeatMode]string{
		RepeatOff:      "off",
		RepeatAll:      "all",
		RepeatOne:      "one",
		RepeatMode(99): "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}
