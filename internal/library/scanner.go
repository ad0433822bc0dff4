package library

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"

	"github.com/HarshalChaudhari1806/music-mood/internal/db"
	"github.com/HarshalChaudhari1806/music-mood/internal/mood"
	"github.com/HarshalChaudhari1806/music-mood/internal/player"
)

const numWorkers = 8

// ScanStats summarizes a completed scan.
type ScanStats struct {
	Scanned int `json:"scanned"`
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}

// fileInfo holds a discovered music file.
type fileInfo struct {
	path  string
	mtime int64
	size  int64
	mood  mood.Label
}

// trackResult holds metadata read from a music file.
type trackResult struct {
	fileInfo
	title  string
	artist string
	isNew  bool
}

// Refresh performs an incremental scan of the mood folders. Files whose
// modification time is unchanged are skipped; files gone from disk are
// removed from the index.
func (l *Library) Refresh() (ScanStats, error) {
	var stats ScanStats

	files := l.discoverFiles()
	stats.Scanned = len(files)

	existing, err := l.existingTracks()
	if err != nil {
		return stats, err
	}

	toProcess := make([]fileInfo, 0, len(files))
	isNew := make(map[string]bool)
	for _, f := range files {
		if mtime, ok := existing[f.path]; ok && mtime == f.mtime {
			continue
		}
		_, existed := existing[f.path]
		isNew[f.path] = !existed
		toProcess = append(toProcess, f)
	}

	if len(toProcess) > 0 {
		added, updated, err := l.processFiles(toProcess, isNew)
		if err != nil {
			return stats, err
		}
		stats.Added = added
		stats.Updated = updated
	}

	// Drop index rows whose file is gone or moved.
	discovered := make(map[string]struct{}, len(files))
	for _, f := range files {
		discovered[f.path] = struct{}{}
	}
	var missing []string
	for path := range existing {
		if _, ok := discovered[path]; !ok {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		if err := l.deleteTracks(missing); err != nil {
			return stats, err
		}
		stats.Removed = len(missing)
	}

	return stats, nil
}

// discoverFiles walks each mood folder for playable files. Files outside
// the mood folders (including the root itself) are not indexed.
func (l *Library) discoverFiles() []fileInfo {
	var files []fileInfo
	for _, m := range mood.Labels() {
		dir := l.MoodDir(m)
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil //nolint:nilerr // skip unreadable entries, keep walking
			}
			if d.IsDir() || !player.IsMusicFile(path) {
				return nil
			}
			info, infoErr := d.Info()
			if infoErr != nil {
				return nil //nolint:nilerr // skip unstattable files
			}
			files = append(files, fileInfo{
				path:  path,
				mtime: info.ModTime().Unix(),
				size:  info.Size(),
				mood:  m,
			})
			return nil
		})
	}
	return files
}

// processFiles reads metadata in parallel and upserts rows sequentially,
// SQLite being happier with a single writer.
func (l *Library) processFiles(toProcess []fileInfo, isNew map[string]bool) (added, updated int, err error) {
	workCh := make(chan fileInfo, len(toProcess))
	resultCh := make(chan trackResult, len(toProcess))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for f := range workCh {
				title, artist := readTags(f.path)
				resultCh <- trackResult{
					fileInfo: f,
					title:    title,
					artist:   artist,
					isNew:    isNew[f.path],
				}
			}
		})
	}

	go func() {
		for _, f := range toProcess {
			workCh <- f
		}
		close(workCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		if err := l.upsertTrack(r); err != nil {
			return added, updated, err
		}
		if r.isNew {
			added++
		} else {
			updated++
		}
	}
	return added, updated, nil
}

// readTags extracts title and artist. Untagged or unreadable files fall
// back to the file name so every playable file is usable.
func readTags(path string) (title, artist string) {
	title = fallbackTitle(path)

	f, err := os.Open(path)
	if err != nil {
		return title, ""
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return title, ""
	}
	if t := strings.TrimSpace(meta.Title()); t != "" {
		title = t
	}
	return title, strings.TrimSpace(meta.Artist())
}

func fallbackTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (l *Library) upsertTrack(r trackResult) error {
	now := time.Now().Unix()
	_, err := l.db.Exec(`
		INSERT INTO library_tracks (path, mtime, mood, title, artist, size, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mtime = excluded.mtime,
			mood = excluded.mood,
			title = excluded.title,
			artist = excluded.artist,
			size = excluded.size,
			updated_at = excluded.updated_at
	`, r.path, r.mtime, r.mood.String(), r.title, r.artist, r.size, r.mtime, now)
	return err
}

// deleteTracks removes all missing paths in a single transaction, so an
// interrupted refresh never leaves a half-pruned index.
func (l *Library) deleteTracks(paths []string) error {
	return db.WithTx(l.db, func(tx *sql.Tx) error {
		for _, path := range paths {
			if _, err := tx.Exec(`DELETE FROM library_tracks WHERE path = ?`, path); err != nil {
				return err
			}
		}
		return nil
	})
}

// existingTracks returns path -> mtime for all indexed tracks.
func (l *Library) existingTracks() (map[string]int64, error) {
	rows, err := l.db.Query(`SELECT path, mtime FROM library_tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		tracks[path] = mtime
	}
	return tracks, rows.Err()
}
