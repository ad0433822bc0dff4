package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePlayerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.playback.Status())
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req struct {
		Volume float64 `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Volume < 0 || req.Volume > 1 {
		writeError(w, http.StatusBadRequest, "volume must be in [0,1]")
		return
	}

	s.playback.SetVolume(req.Volume)
	writeJSON(w, http.StatusOK, map[string]float64{"volume": s.playback.Volume()})
}

// handlePlayerAction dispatches the simple transport verbs. Anything that
// needs a body (volume) has its own route.
func (s *Server) handlePlayerAction(w http.ResponseWriter, r *http.Request) {
	var err error
	switch action := chi.URLParam(r, "action"); action {
	case "play":
		err = s.playback.Play()
	case "pause":
		err = s.playback.Pause()
	case "resume":
		err = s.playback.Resume()
	case "toggle":
		err = s.playback.Toggle()
	case "stop":
		err = s.playback.Stop()
	case "next":
		err = s.playback.Next()
	case "previous":
		err = s.playback.Previous()
	case "mute":
		s.playback.ToggleMute()
	case "shuffle":
		s.playback.ToggleShuffle()
	case "repeat":
		s.playback.CycleRepeatMode()
	default:
		writeError(w, http.StatusBadRequest, "unknown player action: "+action)
		return
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.playback.Status())
}
