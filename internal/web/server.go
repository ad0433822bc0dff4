// Package web exposes the service over HTTP: a JSON API, a websocket
// event stream and a small embedded status UI.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/HarshalChaudhari1806/music-mood/internal/analyzer"
	"github.com/HarshalChaudhari1806/music-mood/internal/director"
	"github.com/HarshalChaudhari1806/music-mood/internal/emotion"
	"github.com/HarshalChaudhari1806/music-mood/internal/library"
	"github.com/HarshalChaudhari1806/music-mood/internal/playback"
)

var upgrader = websocket.Upgrader{
	// The service binds to localhost by default; cross-origin browser
	// pages are allowed so a separately-served UI can connect.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	playback playback.Service
	director *director.Director
	library  *library.Library
	analyzer *analyzer.Analyzer
	feed     *emotion.Feed
	hub      *Hub
	log      *slog.Logger
	started  time.Time
}

func NewServer(
	pb playback.Service,
	d *director.Director,
	lib *library.Library,
	an *analyzer.Analyzer,
	feed *emotion.Feed,
	hub *Hub,
	log *slog.Logger,
) *Server {
	return &Server{
		playback: pb,
		director: d,
		library:  lib,
		analyzer: an,
		feed:     feed,
		hub:      hub,
		log:      log,
		started:  time.Now(),
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Post("/observations", s.handleObservations)
		r.Get("/mood", s.handleMood)
		r.Get("/mood/stats", s.handleMoodStats)
		r.Post("/detection/start", s.handleDetectionStart)
		r.Post("/detection/stop", s.handleDetectionStop)
		r.Post("/detection/params", s.handleDetectionParams)
		r.Get("/detection/debug", s.handleDetectionDebug)
		r.Post("/autoplay/toggle", s.handleAutoplayToggle)

		r.Post("/moods/{mood}/play", s.handlePlayMood)

		r.Get("/player", s.handlePlayerStatus)
		r.Post("/player/volume", s.handleVolume)
		r.Post("/player/{action}", s.handlePlayerAction)

		r.Get("/library/stats", s.handleLibraryStats)
		r.Get("/library/moods/{mood}/tracks", s.handleLibraryTracks)
		r.Post("/library/refresh", s.handleLibraryRefresh)

		r.Post("/classifier/train", s.handleClassifierTrain)
		r.Get("/classifier/suggest", s.handleClassifierSuggest)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "music-mood",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade", "error", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}
