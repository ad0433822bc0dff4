package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HarshalChaudhari1806/music-mood/internal/analyzer"
	"github.com/HarshalChaudhari1806/music-mood/internal/config"
	"github.com/HarshalChaudhari1806/music-mood/internal/director"
	"github.com/HarshalChaudhari1806/music-mood/internal/emotion"
	"github.com/HarshalChaudhari1806/music-mood/internal/library"
	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/playback"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
	"github.com/HarshalChaudhari1806/music-mood/internal/state"
	"github.com/HarshalChaudhari1806/music-mood/internal/stderr"
	"github.com/HarshalChaudhari1806/music-mood/internal/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Capture fd 2 before the audio backend starts, so ALSA noise lands
	// in the log instead of interleaving with it.
	logOut := io.Writer(os.Stderr)
	if orig, err := stderr.Start(); err == nil {
		logOut = orig
		defer stderr.Stop()
	}

	log := slog.New(slog.NewTextHandler(logOut, nil))
	slog.SetDefault(log)

	go func() {
		for line := range stderr.Messages {
			log.Debug("audio backend", "msg", line)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := state.Open()
	if err != nil {
		return err
	}
	defer st.Close()

	hasSettings, err := st.HasSettings()
	if err != nil {
		return err
	}

	settings, err := st.GetSettings()
	if err != nil {
		return err
	}
	if !hasSettings {
		// Nothing persisted yet; the config file provides the starting
		// volume and mood.
		settings.Volume = cfg.Volume
		settings.LastMood = cfg.DefaultMood
	}

	lib := library.New(st.DB(), cfg.MusicDir)
	if err := lib.EnsureLayout(); err != nil {
		return err
	}
	scan, err := lib.Refresh()
	if err != nil {
		log.Warn("library scan", "error", err)
	} else {
		log.Info("library scanned",
			"root", lib.Root(),
			"tracks", scan.Scanned,
			"added", scan.Added,
			"updated", scan.Updated,
			"removed", scan.Removed)
	}

	fallback, err := mood.Parse(cfg.DefaultMood)
	if err != nil {
		return err
	}

	pb := playback.New(player.New(), lib, fallback)
	defer pb.Close()
	restoreSettings(pb, settings, cfg)

	feed := emotion.NewFeed()
	defer feed.Close()

	stab := mood.NewStabilizer(mood.Params{
		ConfidenceThreshold: cfg.Detection.ConfidenceThreshold,
		Cooldown:            cfg.Cooldown(),
		WindowSpan:          cfg.WindowSpan(),
		WindowSize:          cfg.Detection.WindowSize,
		MinSamples:          cfg.Detection.MinSamples,
	})

	dir := director.New(feed, stab, pb, log)
	dir.SetAutoplay(settings.Autoplay)
	dir.Start()
	defer dir.Close()

	if last, err := mood.Parse(settings.LastMood); err == nil {
		if err := dir.Restore(last); err != nil {
			log.Warn("resume last mood", "mood", last, "error", err)
		}
	}

	an := analyzer.New(lib, st, analyzer.Config{
		SampleWindow: cfg.SampleWindow(),
		Clusters:     cfg.Analyzer.Clusters,
	}, log)
	if err := an.LoadModel(); err != nil {
		log.Warn("load classifier model", "error", err)
	}

	hub := web.NewHub(log)
	go hub.Run()
	defer hub.Stop()

	go web.NewBridge(pb, hub, log).Run()
	go persistChanges(pb, st, log)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: web.NewServer(pb, dir, lib, an, feed, hub, log).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}

	saveSnapshot(pb, dir, st, log)
	return nil
}

// restoreSettings applies the persisted runtime settings to a fresh
// playback service.
func restoreSettings(pb playback.Service, s state.Settings, cfg *config.Config) {
	pb.SetVolume(s.Volume)
	if s.Muted {
		pb.ToggleMute()
	}
	pb.SetShuffle(s.Shuffle || cfg.ShuffleOnMoodChange)
	pb.SetRepeatMode(playlist.RepeatMode(s.RepeatMode))
}

// persistChanges saves volume, mode and mood changes as they happen, so
// a crash loses at most the in-flight event.
func persistChanges(pb playback.Service, st *state.Manager, log *slog.Logger) {
	sub := pb.Subscribe()
	for {
		select {
		case <-sub.Done:
			return
		case e := <-sub.VolumeChange:
			if err := st.SaveVolume(e.Level, e.Muted); err != nil {
				log.Warn("persist volume", "error", err)
			}
		case e := <-sub.ModeChanged:
			if err := st.SaveModes(e.Shuffle, int(e.RepeatMode)); err != nil {
				log.Warn("persist modes", "error", err)
			}
		case e := <-sub.MoodChanged:
			if err := st.SaveMood(e.Current.String()); err != nil {
				log.Warn("persist mood", "error", err)
			}
		}
	}
}

// saveSnapshot writes the full settings row on shutdown.
func saveSnapshot(pb playback.Service, dir *director.Director, st *state.Manager, log *slog.Logger) {
	status := pb.Status()
	s := state.Settings{
		Volume:     status.Volume,
		Muted:      status.Muted,
		Shuffle:    status.Shuffle,
		RepeatMode: int(pb.RepeatMode()),
		Autoplay:   dir.Autoplay(),
		LastMood:   status.Mood.String(),
	}
	if s.LastMood == "" {
		s.LastMood = state.DefaultSettings().LastMood
	}
	if err := st.SaveSettings(s); err != nil {
		log.Warn("persist settings", "error", err)
	}
}
