package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

// handleObservations ingests one raw emotion reading from the external
// detector.
func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	label, err := mood.Parse(req.Label)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		writeError(w, http.StatusBadRequest, "confidence must be in [0,1]")
		return
	}

	accepted := s.feed.Push(mood.Observation{
		Label:      label,
		Confidence: req.Confidence,
		Timestamp:  time.Now(),
	})
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": accepted})
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.director.Status(time.Now()))
}

func (s *Server) handleMoodStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.director.Stats())
}

func (s *Server) handleDetectionStart(w http.ResponseWriter, r *http.Request) {
	s.director.StartDetection()
	writeJSON(w, http.StatusOK, map[string]bool{"detecting": true})
}

func (s *Server) handleDetectionStop(w http.ResponseWriter, r *http.Request) {
	s.director.StopDetection()
	writeJSON(w, http.StatusOK, map[string]bool{"detecting": false})
}

// handleDetectionParams tunes the stabilizer at runtime. Omitted fields
// keep their current value.
func (s *Server) handleDetectionParams(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req struct {
		ConfidenceThreshold *float64 `json:"confidence_threshold"`
		CooldownSeconds     *int     `json:"cooldown_seconds"`
		WindowSeconds       *int     `json:"window_seconds"`
		WindowSize          *int     `json:"window_size"`
		MinSamples          *int     `json:"min_samples"`
		SadSensitivity      *float64 `json:"sad_sensitivity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	params := s.director.Params()
	if req.ConfidenceThreshold != nil {
		params.ConfidenceThreshold = *req.ConfidenceThreshold
	}
	if req.CooldownSeconds != nil {
		params.Cooldown = time.Duration(*req.CooldownSeconds) * time.Second
	}
	if req.WindowSeconds != nil {
		params.WindowSpan = time.Duration(*req.WindowSeconds) * time.Second
	}
	if req.WindowSize != nil {
		params.WindowSize = *req.WindowSize
	}
	if req.MinSamples != nil {
		params.MinSamples = *req.MinSamples
	}
	if req.SadSensitivity != nil {
		params.SadSensitivity = *req.SadSensitivity
	}
	s.director.SetParams(params)

	writeJSON(w, http.StatusOK, paramsJSON(s.director.Params()))
}

// paramsJSON renders detection parameters with durations in seconds, the
// unit the params endpoint accepts them in.
func paramsJSON(p mood.Params) map[string]any {
	return map[string]any{
		"confidence_threshold": p.ConfidenceThreshold,
		"cooldown_seconds":     int(p.Cooldown / time.Second),
		"window_seconds":       int(p.WindowSpan / time.Second),
		"window_size":          p.WindowSize,
		"min_samples":          p.MinSamples,
		"sad_sensitivity":      p.SadSensitivity,
	}
}

// handleDetectionDebug exposes the stabilizer internals: active params,
// current mood and the raw observation window.
func (s *Server) handleDetectionDebug(w http.ResponseWriter, r *http.Request) {
	dbg := s.director.Debug()

	now := time.Now()
	window := make([]map[string]any, 0, len(dbg.Window))
	for _, o := range dbg.Window {
		window = append(window, map[string]any{
			"label":       o.Label,
			"confidence":  o.Confidence,
			"age_seconds": now.Sub(o.Timestamp).Seconds(),
		})
	}

	resp := map[string]any{
		"params":       paramsJSON(dbg.Params),
		"current_mood": dbg.Current,
		"confidence":   dbg.Confidence,
		"window":       window,
	}
	if !dbg.LastChange.IsZero() {
		resp["last_change"] = dbg.LastChange
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAutoplayToggle(w http.ResponseWriter, r *http.Request) {
	enabled := s.director.ToggleAutoplay()
	writeJSON(w, http.StatusOK, map[string]bool{"autoplay": enabled})
}

// handlePlayMood is the manual override path: it forces the stabilized
// mood and switches the playlist immediately.
func (s *Server) handlePlayMood(w http.ResponseWriter, r *http.Request) {
	label, err := mood.Parse(chi.URLParam(r, "mood"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	change, err := s.director.Override(label)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"previous": change.Previous,
		"mood":     s.playback.CurrentMood(),
	})
}
