package library

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
)

// MoodStats describes one mood folder.
type MoodStats struct {
	Mood   mood.Label `json:"mood"`
	Tracks int        `json:"tracks"`
	Size   string     `json:"size"`
}

// Stats summarizes the whole library.
type Stats struct {
	Root        string      `json:"root"`
	TotalTracks int         `json:"total_tracks"`
	TotalSize   string      `json:"total_size"`
	LastScan    string      `json:"last_scan,omitempty"`
	Moods       []MoodStats `json:"moods"`
}

// Stats aggregates per-mood track counts and sizes from the index.
func (l *Library) Stats() (Stats, error) {
	stats := Stats{Root: l.root}

	counts := make(map[mood.Label]int)
	sizes := make(map[mood.Label]uint64)

	rows, err := l.db.Query(`
		SELECT mood, COUNT(*), COALESCE(SUM(size), 0)
		FROM library_tracks
		GROUP BY mood
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	var total uint64
	for rows.Next() {
		var moodStr string
		var count int
		var size uint64
		if err := rows.Scan(&moodStr, &count, &size); err != nil {
			return stats, err
		}
		counts[mood.Label(moodStr)] = count
		sizes[mood.Label(moodStr)] = size
		stats.TotalTracks += count
		total += size
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}
	stats.TotalSize = humanize.Bytes(total)

	for _, m := range mood.Labels() {
		stats.Moods = append(stats.Moods, MoodStats{
			Mood:   m,
			Tracks: counts[m],
			Size:   humanize.Bytes(sizes[m]),
		})
	}

	var lastScan int64
	err = l.db.QueryRow(`SELECT COALESCE(MAX(updated_at), 0) FROM library_tracks`).Scan(&lastScan)
	if err != nil {
		return stats, err
	}
	if lastScan > 0 {
		stats.LastScan = humanize.Time(time.Unix(lastScan, 0))
	}

	return stats, nil
}
