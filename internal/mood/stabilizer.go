package mood

import (
	"sync"
	"time"
)

// Params tunes the stabilizer. Zero values are replaced with defaults.
type Params struct {
	ConfidenceThreshold float64       // minimum mean confidence of the winning label
	Cooldown            time.Duration // minimum time between committed changes
	WindowSpan          time.Duration // maximum age of observations in the window
	WindowSize          int           // maximum number of observations kept
	MinSamples          int           // minimum winner observations for a non-neutral change
	SadSensitivity      float64       // vote weight for sad, which FER models under-report
}

// DefaultParams returns the stock detection parameters.
func DefaultParams() Params {
	return Params{
		ConfidenceThreshold: 0.4,
		Cooldown:            10 * time.Second,
		WindowSpan:          15 * time.Second,
		WindowSize:          50,
		MinSamples:          2,
		SadSensitivity:      1.2,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.ConfidenceThreshold <= 0 || p.ConfidenceThreshold > 1 {
		p.ConfidenceThreshold = d.ConfidenceThreshold
	}
	if p.Cooldown <= 0 {
		p.Cooldown = d.Cooldown
	}
	if p.WindowSpan <= 0 {
		p.WindowSpan = d.WindowSpan
	}
	if p.WindowSize <= 0 {
		p.WindowSize = d.WindowSize
	}
	if p.MinSamples <= 0 {
		p.MinSamples = d.MinSamples
	}
	if p.SadSensitivity <= 0 {
		p.SadSensitivity = d.SadSensitivity
	}
	return p
}

// Change is emitted when the stabilized mood commits to a new label.
type Change struct {
	Previous   Label
	Current    Label
	Confidence float64
	At         time.Time
	Manual     bool
}

// Stats summarizes recent detection activity.
type Stats struct {
	Distribution  map[Label]int `json:"distribution"`
	AvgConfidence float64       `json:"average_confidence"`
	Total         int           `json:"total_observations"`
	Current       Label         `json:"current_mood"`
}

// Stabilizer folds raw observations into a stable current mood. A change
// commits only when the confidence-weighted vote over the rolling window
// picks a new label with enough confidence, enough supporting samples,
// and the cooldown since the last committed change has elapsed.
//
// If the source goes silent the stabilizer simply stops being called and
// holds the last committed mood.
type Stabilizer struct {
	mu sync.Mutex

	params     Params
	current    Label
	confidence float64
	lastChange time.Time
	window     []Observation
}

// NewStabilizer creates a stabilizer starting at neutral.
func NewStabilizer(params Params) *Stabilizer {
	return &Stabilizer{
		params:  params.withDefaults(),
		current: Neutral,
	}
}

// Observe folds one observation into the window and returns a Change if
// it commits a new mood, nil otherwise. Observations must arrive in
// timestamp order; the vote is sequence-sensitive.
func (s *Stabilizer) Observe(obs Observation) *Change {
	if !obs.Label.Valid() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.window = append(s.window, obs)
	s.prune(obs.Timestamp)

	winner, meanConf, samples := s.vote()
	if winner == s.current {
		// Keep the reported confidence fresh while the mood holds.
		s.confidence = meanConf
		return nil
	}
	if meanConf < s.params.ConfidenceThreshold {
		return nil
	}
	if winner != Neutral && samples < s.params.MinSamples {
		return nil
	}
	if !s.lastChange.IsZero() && obs.Timestamp.Sub(s.lastChange) < s.params.Cooldown {
		return nil
	}

	change := Change{
		Previous:   s.current,
		Current:    winner,
		Confidence: meanConf,
		At:         obs.Timestamp,
	}
	s.current = winner
	s.confidence = meanConf
	s.lastChange = obs.Timestamp
	return &change
}

// Force commits a manual mood change immediately, bypassing the cooldown.
// The window is cleared so automatic detection has to re-establish a
// different mood from scratch before the cooldown policy governs again.
func (s *Stabilizer) Force(label Label, at time.Time) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := Change{
		Previous:   s.current,
		Current:    label,
		Confidence: 1.0,
		At:         at,
		Manual:     true,
	}
	s.current = label
	s.confidence = 1.0
	s.lastChange = at
	s.window = s.window[:0]
	return change
}

// Current returns the stabilized mood and its confidence.
func (s *Stabilizer) Current() (Label, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.confidence
}

// LastChange returns the timestamp of the last committed change.
func (s *Stabilizer) LastChange() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChange
}

// Params returns the active detection parameters.
func (s *Stabilizer) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParams replaces the detection parameters at runtime.
func (s *Stabilizer) SetParams(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p.withDefaults()
}

// Stats returns the label distribution and mean confidence of the window.
func (s *Stabilizer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Distribution: make(map[Label]int),
		Current:      s.current,
		Total:        len(s.window),
	}
	var sum float64
	for _, obs := range s.window {
		st.Distribution[obs.Label]++
		sum += obs.Confidence
	}
	if st.Total > 0 {
		st.AvgConfidence = sum / float64(st.Total)
	}
	return st
}

// prune drops observations outside the window span or size bounds.
func (s *Stabilizer) prune(now time.Time) {
	cutoff := now.Add(-s.params.WindowSpan)
	start := 0
	for start < len(s.window) && s.window[start].Timestamp.Before(cutoff) {
		start++
	}
	if excess := len(s.window) - start - s.params.WindowSize; excess > 0 {
		start += excess
	}
	if start > 0 {
		s.window = append(s.window[:0], s.window[start:]...)
	}
}

// vote picks the label with the highest confidence-, recency- and
// intensity-weighted score, returning it with the plain mean confidence
// of its observations and their count.
func (s *Stabilizer) vote() (Label, float64, int) {
	if len(s.window) == 0 {
		return s.current, s.confidence, 0
	}

	scores := make(map[Label]float64)
	confSums := make(map[Label]float64)
	counts := make(map[Label]int)
	n := len(s.window)

	for i, obs := range s.window {
		recency := float64(i+1) / float64(n)
		weight := obs.Confidence * recency * s.intensityFor(obs.Label)
		scores[obs.Label] += weight
		confSums[obs.Label] += obs.Confidence
		counts[obs.Label]++
	}

	var winner Label
	best := -1.0
	for label, score := range scores {
		if score > best {
			best = score
			winner = label
		}
	}
	return winner, confSums[winner] / float64(counts[winner]), counts[winner]
}

// intensityFor returns the vote weight for a label. Sad is runtime-tunable
// because facial-expression models score it low.
func (s *Stabilizer) intensityFor(l Label) float64 {
	if l == Sad {
		return s.params.SadSensitivity
	}
	return intensity[l]
}

// Snapshot is a full view of the stabilizer internals for the detection
// debug endpoint.
type Snapshot struct {
	Params     Params
	Current    Label
	Confidence float64
	LastChange time.Time
	Window     []Observation
}

// Debug returns a copy of the stabilizer state, window included.
func (s *Stabilizer) Debug() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	window := make([]Observation, len(s.window))
	copy(window, s.window)
	return Snapshot{
		Params:     s.params,
		Current:    s.current,
		Confidence: s.confidence,
		LastChange: s.lastChange,
		Window:     window,
	}
}
