// Package library indexes the mood-folder music collection in SQLite.
// The on-disk layout is one folder per mood under the music root; a
// track's mood is the folder it lives in.
package library

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/playlist"
)

type Library struct {
	db   *sql.DB
	root string
}

// New creates a library over db, indexing the music tree rooted at root.
func New(db *sql.DB, root string) *Library {
	return &Library{db: db, root: root}
}

// Root returns the music root directory.
func (l *Library) Root() string {
	return l.root
}

// MoodDir returns the folder holding tracks for m.
func (l *Library) MoodDir(m mood.Label) string {
	return filepath.Join(l.root, m.String())
}

// EnsureLayout creates the music root and one folder per mood.
func (l *Library) EnsureLayout() error {
	for _, m := range mood.Labels() {
		if err := os.MkdirAll(l.MoodDir(m), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// TracksByMood returns the indexed tracks for m, ordered by title.
func (l *Library) TracksByMood(m mood.Label) ([]playlist.Track, error) {
	rows, err := l.db.Query(`
		SELECT id, path, mood, title, artist
		FROM library_tracks
		WHERE mood = ?
		ORDER BY title COLLATE NOCASE
	`, m.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTracks(rows)
}

// AllTracks returns every indexed track.
func (l *Library) AllTracks() ([]playlist.Track, error) {
	rows, err := l.db.Query(`
		SELECT id, path, mood, title, artist
		FROM library_tracks
		ORDER BY mood, title COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTracks(rows)
}

func scanTracks(rows *sql.Rows) ([]playlist.Track, error) {
	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		var moodStr string
		var artist sql.NullString
		if err := rows.Scan(&t.ID, &t.Path, &moodStr, &t.Title, &artist); err != nil {
			return nil, err
		}
		t.Mood = mood.Label(moodStr)
		t.Artist = artist.String
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// TrackByPath returns the indexed track at path, or nil if unknown.
func (l *Library) TrackByPath(path string) (*playlist.Track, error) {
	row := l.db.QueryRow(`
		SELECT id, path, mood, title, artist
		FROM library_tracks
		WHERE path = ?
	`, path)

	var t playlist.Track
	var moodStr string
	var artist sql.NullString
	err := row.Scan(&t.ID, &t.Path, &moodStr, &t.Title, &artist)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Mood = mood.Label(moodStr)
	t.Artist = artist.String
	return &t, nil
}

// TrackCount returns the number of indexed tracks.
func (l *Library) TrackCount() (int, error) {
	var count int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM library_tracks`).Scan(&count)
	return count, err
}
