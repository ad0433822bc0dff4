package state

import "database/sql"

// Settings holds the persisted runtime settings, restored at startup.
type Settings struct {
	Volume     float64
	Muted      bool
	Shuffle    bool
	RepeatMode int
	Autoplay   bool
	LastMood   string
}

// DefaultSettings are used when nothing has been saved yet.
func DefaultSettings() Settings {
	return Settings{
		Volume:   0.7,
		Autoplay: true,
		LastMood: "neutral",
	}
}

// HasSettings reports whether a settings row has been persisted yet, so
// startup can tell a first run from a restored one.
func (m *Manager) HasSettings() (bool, error) {
	var n int
	if err := m.db.QueryRow(`SELECT COUNT(*) FROM settings WHERE id = 1`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetSettings returns the saved settings, or the defaults on first run.
func (m *Manager) GetSettings() (Settings, error) {
	var s Settings
	row := m.db.QueryRow(`
		SELECT volume, muted, shuffle, repeat_mode, autoplay, last_mood
		FROM settings WHERE id = 1
	`)
	err := row.Scan(&s.Volume, &s.Muted, &s.Shuffle, &s.RepeatMode, &s.Autoplay, &s.LastMood)
	if err == sql.ErrNoRows {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings persists the full settings row.
func (m *Manager) SaveSettings(s Settings) error {
	_, err := m.db.Exec(`
		INSERT INTO settings (id, volume, muted, shuffle, repeat_mode, autoplay, last_mood)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			shuffle = excluded.shuffle,
			repeat_mode = excluded.repeat_mode,
			autoplay = excluded.autoplay,
			last_mood = excluded.last_mood
	`, s.Volume, s.Muted, s.Shuffle, s.RepeatMode, s.Autoplay, s.LastMood)
	return err
}

// SaveVolume persists only the volume level and mute flag.
func (m *Manager) SaveVolume(volume float64, muted bool) error {
	if err := m.ensureSettingsRow(); err != nil {
		return err
	}
	_, err := m.db.Exec(`UPDATE settings SET volume = ?, muted = ? WHERE id = 1`, volume, muted)
	return err
}

// SaveModes persists the shuffle and repeat settings.
func (m *Manager) SaveModes(shuffle bool, repeatMode int) error {
	if err := m.ensureSettingsRow(); err != nil {
		return err
	}
	_, err := m.db.Exec(`UPDATE settings SET shuffle = ?, repeat_mode = ? WHERE id = 1`, shuffle, repeatMode)
	return err
}

// SaveMood persists the last active mood so playback resumes there.
func (m *Manager) SaveMood(mood string) error {
	if err := m.ensureSettingsRow(); err != nil {
		return err
	}
	_, err := m.db.Exec(`UPDATE settings SET last_mood = ? WHERE id = 1`, mood)
	return err
}

// SaveAutoplay persists the autoplay flag.
func (m *Manager) SaveAutoplay(enabled bool) error {
	if err := m.ensureSettingsRow(); err != nil {
		return err
	}
	_, err := m.db.Exec(`UPDATE settings SET autoplay = ? WHERE id = 1`, enabled)
	return err
}

func (m *Manager) ensureSettingsRow() error {
	d := DefaultSettings()
	_, err := m.db.Exec(`
		INSERT OR IGNORE INTO settings (id, volume, muted, shuffle, repeat_mode, autoplay, last_mood)
		VALUES (1, ?, 0, 0, 0, ?, ?)
	`, d.Volume, d.Autoplay, d.LastMood)
	return err
}
