package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	MoodChanged  <-chan MoodChange
	TrackChanged <-chan TrackChange
	StateChanged <-chan StateChange
	VolumeChange <-chan VolumeChange
	ModeChanged  <-chan ModeChange
	Error        <-chan ErrorEvent
	Done         <-chan struct{}

	// Internal write channels
	moodCh   chan MoodChange
	trackCh  chan TrackChange
	stateCh  chan StateChange
	volumeCh chan VolumeChange
	modeCh   chan ModeChange
	errorCh  chan ErrorEvent
	doneCh   chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		moodCh:   make(chan MoodChange, eventBufferSize),
		trackCh:  make(chan TrackChange, eventBufferSize),
		stateCh:  make(chan StateChange, eventBufferSize),
		volumeCh: make(chan VolumeChange, eventBufferSize),
		modeCh:   make(chan ModeChange, eventBufferSize),
		errorCh:  make(chan ErrorEvent, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.MoodChanged = s.moodCh
	s.TrackChanged = s.trackCh
	s.StateChanged = s.stateCh
	s.VolumeChange = s.volumeCh
	s.ModeChanged = s.modeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendMood sends a mood change event (non-blocking).
func (s *Subscription) sendMood(e MoodChange) {
	select {
	case s.moodCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
	}
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}

// sendVolume sends a volume change event (non-blocking).
func (s *Subscription) sendVolume(e VolumeChange) {
	select {
	case s.volumeCh <- e:
	default:
	}
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
