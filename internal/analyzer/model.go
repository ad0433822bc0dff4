package analyzer

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/muesli/clusters"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

// Model is a trained classifier: k-means centroids in feature space,
// each labeled with the majority mood of its member tracks.
type Model struct {
	Centroids [][]float64  `json:"centroids"`
	Labels    []mood.Label `json:"labels"`
	Tracks    int          `json:"tracks"`
	TrainedAt time.Time    `json:"trained_at"`
}

// Marshal serializes the model for persistence.
func (m *Model) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalModel restores a persisted model.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Centroids) != len(m.Labels) {
		return nil, fmt.Errorf("corrupt model: %d centroids, %d labels", len(m.Centroids), len(m.Labels))
	}
	return &m, nil
}

// Classify returns the mood of the nearest centroid and a confidence
// derived from how close the features sit to it relative to the runner-up.
func (m *Model) Classify(f Features) (mood.Label, float64) {
	vec := f.Vector()

	best, second := math.Inf(1), math.Inf(1)
	var label mood.Label
	for i, c := range m.Centroids {
		d := vec.Distance(clusters.Coordinates(c))
		if d < best {
			second = best
			best = d
			label = m.Labels[i]
		} else if d < second {
			second = d
		}
	}

	confidence := 1.0
	if !math.IsInf(second, 1) && best+second > 0 {
		// 0.5 when equidistant between two centroids, toward 1.0 when
		// the nearest is a clear winner.
		confidence = second / (best + second)
	}
	return label, confidence
}
