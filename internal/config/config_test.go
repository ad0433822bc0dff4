package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/Music/moods",
			expected: filepath.Join(home, "Music", "moods"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/music",
			expected: "/srv/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/moods",
			expected: "music/moods",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaults()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen addr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.Volume != 0.7 {
		t.Errorf("volume = %v, want 0.7", cfg.Volume)
	}
	if cfg.DefaultMood != "neutral" {
		t.Errorf("default mood = %q, want neutral", cfg.DefaultMood)
	}
	if cfg.Detection.ConfidenceThreshold != 0.4 {
		t.Errorf("confidence threshold = %v, want 0.4", cfg.Detection.ConfidenceThreshold)
	}
	if cfg.Cooldown() != 10*time.Second {
		t.Errorf("cooldown = %v, want 10s", cfg.Cooldown())
	}
	if cfg.WindowSpan() != 15*time.Second {
		t.Errorf("window span = %v, want 15s", cfg.WindowSpan())
	}
	if cfg.SampleWindow() != 30*time.Second {
		t.Errorf("sample window = %v, want 30s", cfg.SampleWindow())
	}
}
