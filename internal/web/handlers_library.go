package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HarshalChaudhari1806/music-mood/internal/analyzer"
	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

func (s *Server) handleLibraryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.library.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLibraryTracks(w http.ResponseWriter, r *http.Request) {
	label, err := mood.Parse(chi.URLParam(r, "mood"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tracks, err := s.library.TracksByMood(label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mood":   label,
		"count":  len(tracks),
		"tracks": tracks,
	})
}

// handleLibraryRefresh rescans the mood folders. The scan is synchronous;
// for a local library it completes fast enough to answer in-request.
func (s *Server) handleLibraryRefresh(w http.ResponseWriter, r *http.Request) {
	stats, err := s.library.Refresh()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleClassifierTrain(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyzer.Train()
	if err != nil {
		if errors.Is(err, analyzer.ErrTooFewTracks) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleClassifierSuggest(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing path parameter")
		return
	}

	suggestion, err := s.analyzer.Suggest(path)
	if err != nil {
		if errors.Is(err, analyzer.ErrNotTrained) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}
