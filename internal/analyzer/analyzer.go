package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

// ErrNotTrained is returned by Suggest before a model exists.
var ErrNotTrained = errors.New("classifier not trained")

// ErrTooFewTracks is returned when the library has too little sorted
// music to train on.
var ErrTooFewTracks = errors.New("not enough analyzable tracks to train")

const extractWorkers = 4

// TrackSource supplies the already-sorted tracks used as training data.
type TrackSource interface {
	AllTracks() ([]playlist.Track, error)
}

// ModelStore persists the trained model across restarts.
type ModelStore interface {
	SaveModel(model []byte, trainedAt time.Time) error
	GetModel() ([]byte, time.Time, error)
}

// Config tunes the analyzer.
type Config struct {
	SampleWindow time.Duration // how much of each track to analyze (0 = all)
	Clusters     int           // 0 = one per mood present in the training set
}

// TrainReport summarizes a training run.
type TrainReport struct {
	TracksUsed int          `json:"tracks_used"`
	Skipped    int          `json:"skipped"`
	Clusters   int          `json:"clusters"`
	Moods      []mood.Label `json:"moods"`
	TrainedAt  time.Time    `json:"trained_at"`
}

// Suggestion is a classification result for one file.
type Suggestion struct {
	Path       string     `json:"path"`
	Mood       mood.Label `json:"mood"`
	Confidence float64    `json:"confidence"`
}

// Analyzer trains on the sorted library and classifies unsorted files.
type Analyzer struct {
	source TrackSource
	store  ModelStore
	cfg    Config
	log    *slog.Logger

	mu    sync.Mutex
	model *Model
}

// New creates an analyzer. Call LoadModel to restore a persisted model.
func New(source TrackSource, store ModelStore, cfg Config, log *slog.Logger) *Analyzer {
	return &Analyzer{source: source, store: store, cfg: cfg, log: log}
}

// LoadModel restores the persisted model, if any.
func (a *Analyzer) LoadModel() error {
	data, _, err := a.store.GetModel()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	model, err := UnmarshalModel(data)
	if err != nil {
		return fmt.Errorf("restore model: %w", err)
	}

	a.mu.Lock()
	a.model = model
	a.mu.Unlock()
	return nil
}

// Trained reports whether a model is available.
func (a *Analyzer) Trained() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model != nil
}

// TrainedAt returns when the current model was trained.
func (a *Analyzer) TrainedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return time.Time{}
	}
	return a.model.TrainedAt
}

// trainingObservation ties a feature vector back to its mood for the
// majority vote over each cluster.
type trainingObservation struct {
	mood   mood.Label
	coords clusters.Coordinates
}

func (o trainingObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trainingObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Train extracts features from every sorted track, clusters them, labels
// each cluster with the majority mood of its members, and persists the
// resulting model.
func (a *Analyzer) Train() (TrainReport, error) {
	tracks, err := a.source.AllTracks()
	if err != nil {
		return TrainReport{}, err
	}

	obs, skipped := a.extractAll(tracks)

	moodSet := make(map[mood.Label]struct{})
	for _, o := range obs {
		moodSet[o.mood] = struct{}{}
	}

	k := a.cfg.Clusters
	if k <= 0 {
		k = len(moodSet)
	}
	if k < 2 {
		k = 2
	}
	if len(obs) < k || len(moodSet) < 2 {
		return TrainReport{}, fmt.Errorf("%w: %d tracks across %d moods", ErrTooFewTracks, len(obs), len(moodSet))
	}

	var observations clusters.Observations
	for _, o := range obs {
		observations = append(observations, o)
	}

	km := kmeans.New()
	result, err := km.Partition(observations, k)
	if err != nil {
		return TrainReport{}, fmt.Errorf("k-means: %w", err)
	}

	model := &Model{
		Tracks:    len(obs),
		TrainedAt: time.Now(),
	}
	for _, cluster := range result {
		counts := make(map[mood.Label]int)
		for _, co := range cluster.Observations {
			if to, ok := co.(trainingObservation); ok {
				counts[to.mood]++
			}
		}
		var label mood.Label
		best := 0
		for m, c := range counts {
			if c > best {
				best = c
				label = m
			}
		}
		model.Centroids = append(model.Centroids, cluster.Center)
		model.Labels = append(model.Labels, label)
	}

	data, err := model.Marshal()
	if err != nil {
		return TrainReport{}, err
	}
	if err := a.store.SaveModel(data, model.TrainedAt); err != nil {
		return TrainReport{}, fmt.Errorf("persist model: %w", err)
	}

	a.mu.Lock()
	a.model = model
	a.mu.Unlock()

	report := TrainReport{
		TracksUsed: len(obs),
		Skipped:    skipped,
		Clusters:   k,
		TrainedAt:  model.TrainedAt,
	}
	for m := range moodSet {
		report.Moods = append(report.Moods, m)
	}
	return report, nil
}

// extractAll computes features for all tracks with a small worker pool.
// Tracks that fail to decode are skipped.
func (a *Analyzer) extractAll(tracks []playlist.Track) ([]trainingObservation, int) {
	workCh := make(chan playlist.Track, len(tracks))
	resultCh := make(chan trainingObservation, len(tracks))

	var wg sync.WaitGroup
	var skipped atomic.Int64
	for range extractWorkers {
		wg.Go(func() {
			for tr := range workCh {
				feats, err := Extract(tr.Path, a.cfg.SampleWindow)
				if err != nil {
					a.log.Debug("skip track", "path", tr.Path, "error", err)
					skipped.Add(1)
					continue
				}
				resultCh <- trainingObservation{mood: tr.Mood, coords: feats.Vector()}
			}
		})
	}

	go func() {
		for _, tr := range tracks {
			workCh <- tr
		}
		close(workCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var obs []trainingObservation
	for o := range resultCh {
		obs = append(obs, o)
	}
	return obs, int(skipped.Load())
}

// Suggest classifies a single file against the trained model.
func (a *Analyzer) Suggest(path string) (Suggestion, error) {
	a.mu.Lock()
	model := a.model
	a.mu.Unlock()
	if model == nil {
		return Suggestion{}, ErrNotTrained
	}

	feats, err := Extract(path, a.cfg.SampleWindow)
	if err != nil {
		return Suggestion{}, err
	}

	label, confidence := model.Classify(feats)
	return Suggestion{Path: path, Mood: label, Confidence: confidence}, nil
}
