// Package analyzer extracts audio features from tracks and clusters them
// with k-means so unsorted music can be assigned a mood folder.
package analyzer

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/muesli/clusters"
)

// frameSize is the analysis window in samples. At 44.1kHz one frame is
// roughly 23ms, short enough to catch beat-level energy swings.
const frameSize = 1024

// Features are the numeric descriptors used for clustering. All values
// are normalized to comparable magnitudes so no single axis dominates
// the Euclidean distance.
type Features struct {
	Tempo           float64 `json:"tempo"`            // energy peaks per minute, scaled
	Energy          float64 `json:"energy"`           // mean frame RMS
	EnergyVar       float64 `json:"energy_var"`       // RMS standard deviation
	ZeroCrossRate   float64 `json:"zero_cross"`       // proxy for brightness
	SpectralBalance float64 `json:"spectral_balance"` // share of energy below ~500Hz
	DynamicRange    float64 `json:"dynamic_range"`    // loud/quiet spread, scaled dB
}

// Vector returns the features as k-means coordinates.
func (f Features) Vector() clusters.Coordinates {
	return clusters.Coordinates{
		f.Tempo,
		f.Energy,
		f.EnergyVar,
		f.ZeroCrossRate,
		f.SpectralBalance,
		f.DynamicRange,
	}
}

// Extract decodes up to limit of the track and computes its features.
// A zero limit analyzes the whole file. Songs settle into their character
// quickly, so a short prefix is usually enough and much cheaper.
func Extract(path string, limit time.Duration) (Features, error) {
	f, err := os.Open(path)
	if err != nil {
		return Features{}, err
	}
	defer f.Close()

	streamer, format, err := decode(path, f)
	if err != nil {
		return Features{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	maxSamples := 0
	if limit > 0 {
		maxSamples = format.SampleRate.N(limit)
	}
	return compute(streamer, format, maxSamples)
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}
}

func compute(streamer beep.Streamer, format beep.Format, maxSamples int) (Features, error) {
	var (
		frameRMS   []float64
		sumSq      float64
		inFrame    int
		crossings  int
		total      int
		prevSample float64
		lowState   float64
		lowSq      float64
		allSq      float64
	)

	// One-pole low-pass around 500Hz; the low/high energy split stands in
	// for a proper spectral analysis.
	const cutoffHz = 500.0
	alpha := 1 - math.Exp(-2*math.Pi*cutoffHz/float64(format.SampleRate))

	buf := make([][2]float64, 512)
loop:
	for {
		n, ok := streamer.Stream(buf)
		for i := range n {
			if maxSamples > 0 && total >= maxSamples {
				break loop
			}
			sample := (buf[i][0] + buf[i][1]) / 2

			sumSq += sample * sample
			inFrame++
			if inFrame == frameSize {
				frameRMS = append(frameRMS, math.Sqrt(sumSq/float64(frameSize)))
				sumSq = 0
				inFrame = 0
			}

			if (sample >= 0) != (prevSample >= 0) {
				crossings++
			}
			prevSample = sample

			lowState += alpha * (sample - lowState)
			lowSq += lowState * lowState
			allSq += sample * sample

			total++
		}
		if !ok {
			break
		}
	}
	if inFrame > 0 {
		frameRMS = append(frameRMS, math.Sqrt(sumSq/float64(inFrame)))
	}
	if total == 0 || len(frameRMS) == 0 {
		return Features{}, fmt.Errorf("empty audio stream")
	}

	var feats Features
	feats.ZeroCrossRate = float64(crossings) / float64(total)
	if allSq > 0 {
		feats.SpectralBalance = lowSq / allSq
	}

	var sum float64
	minRMS, maxRMS := math.Inf(1), 0.0
	for _, r := range frameRMS {
		sum += r
		if r < minRMS {
			minRMS = r
		}
		if r > maxRMS {
			maxRMS = r
		}
	}
	mean := sum / float64(len(frameRMS))
	feats.Energy = mean

	var varSum float64
	for _, r := range frameRMS {
		d := r - mean
		varSum += d * d
	}
	feats.EnergyVar = math.Sqrt(varSum / float64(len(frameRMS)))

	const eps = 1e-6
	// Scale dB spread down so it sits in the same range as the other axes.
	feats.DynamicRange = 20 * math.Log10((maxRMS+eps)/(minRMS+eps)) / 60

	feats.Tempo = estimateTempo(frameRMS, mean, format.SampleRate, total) / 240

	return feats, nil
}

// estimateTempo counts energy peaks, local maxima well above the mean
// RMS, and converts them to peaks per minute. Crude next to a real onset
// detector, but enough signal for clustering calm against energetic.
func estimateTempo(frameRMS []float64, mean float64, rate beep.SampleRate, totalSamples int) float64 {
	threshold := mean * 1.3
	peaks := 0
	for i := 1; i < len(frameRMS)-1; i++ {
		if frameRMS[i] > threshold && frameRMS[i] > frameRMS[i-1] && frameRMS[i] >= frameRMS[i+1] {
			peaks++
		}
	}

	seconds := float64(totalSamples) / float64(rate)
	if seconds <= 0 {
		return 0
	}
	perMinute := float64(peaks) / seconds * 60
	if perMinute > 240 {
		perMinute = 240
	}
	return perMinute
}
