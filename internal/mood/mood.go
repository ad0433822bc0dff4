// Package mood defines emotion labels and the stabilizer that turns a
// noisy stream of per-frame emotion readings into committed mood changes.
package mood

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownLabel is returned when a label string is not a known emotion.
var ErrUnknownLabel = errors.New("unknown mood label")

// Label is a detectable emotion category. Labels double as the names of
// the per-mood music folders on disk.
type Label string

const (
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Neutral  Label = "neutral"
	Fear     Label = "fear"
	Surprise Label = "surprise"
	Disgust  Label = "disgust"
)

// Labels returns all known labels in a stable order.
func Labels() []Label {
	return []Label{Happy, Sad, Angry, Neutral, Fear, Surprise, Disgust}
}

// Parse validates a raw label string from an external source.
func Parse(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return l, nil
}

// Valid reports whether l is a known label.
func (l Label) Valid() bool {
	switch l {
	case Happy, Sad, Angry, Neutral, Fear, Surprise, Disgust:
		return true
	}
	return false
}

func (l Label) String() string { return string(l) }

// Observation is a single raw emotion reading from the emotion source.
// Immutable once created.
type Observation struct {
	Label      Label
	Confidence float64 // 0.0 to 1.0
	Timestamp  time.Time
}

// intensity biases the vote toward strong emotions; neutral is easy to
// detect and gets damped. Sad is not listed here: its weight is runtime-
// tunable via Params.SadSensitivity.
var intensity = map[Label]float64{
	Happy:    1.0,
	Surprise: 0.8,
	Neutral:  0.5,
	Disgust:  0.6,
	Fear:     0.7,
	Angry:    1.0,
}
