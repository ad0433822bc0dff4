// Package config loads the application configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	ListenAddr  string  `koanf:"listen_addr"`
	MusicDir    string  `koanf:"music_dir"`
	DefaultMood string  `koanf:"default_mood"`
	Volume      float64 `koanf:"volume"`

	// ShuffleOnMoodChange randomizes each freshly loaded mood playlist.
	ShuffleOnMoodChange bool `koanf:"shuffle_on_mood_change"`

	// Detection settings
	Detection DetectionConfig `koanf:"detection"`

	// Auto-classifier settings
	Analyzer AnalyzerConfig `koanf:"analyzer"`
}

// DetectionConfig tunes the mood stabilizer.
type DetectionConfig struct {
	ConfidenceThreshold float64 `koanf:"confidence_threshold"` // minimum winner confidence (default: 0.4)
	CooldownSeconds     int     `koanf:"cooldown_seconds"`     // seconds between mood changes (default: 10)
	WindowSeconds       int     `koanf:"window_seconds"`       // observation window span (default: 15)
	WindowSize          int     `koanf:"window_size"`          // max observations kept (default: 50)
	MinSamples          int     `koanf:"min_samples"`          // winner samples for non-neutral change (default: 2)
}

// AnalyzerConfig tunes the auto-classifier.
type AnalyzerConfig struct {
	SampleSeconds int `koanf:"sample_seconds"` // audio analyzed per track (default: 30, 0 = all)
	Clusters      int `koanf:"clusters"`       // k-means clusters (default: one per mood present)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.MusicDir = expandPath(cfg.MusicDir)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ListenAddr:  ":8080",
		MusicDir:    "~/Music/moods",
		DefaultMood: "neutral",
		Volume:      0.7,
		Detection: DetectionConfig{
			ConfidenceThreshold: 0.4,
			CooldownSeconds:     10,
			WindowSeconds:       15,
			WindowSize:          50,
			MinSamples:          2,
		},
		Analyzer: AnalyzerConfig{
			SampleSeconds: 30,
		},
	}
}

// SampleWindow returns the analyzer sample window as a duration.
func (c *Config) SampleWindow() time.Duration {
	return time.Duration(c.Analyzer.SampleSeconds) * time.Second
}

// Cooldown returns the detection cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Detection.CooldownSeconds) * time.Second
}

// WindowSpan returns the detection window span as a duration.
func (c *Config) WindowSpan() time.Duration {
	return time.Duration(c.Detection.WindowSeconds) * time.Second
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/music-mood/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "music-mood", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
