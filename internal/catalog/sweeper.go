package catalog

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// orphanMinAge keeps the sweeper away from files whose catalog insert may
// still be in flight.
const orphanMinAge = time.Hour

// StartSweeper starts a background worker that removes uploaded files no song
// record references. The file write and the record insert are not atomic, so
// a failed insert leaves such an orphan behind.
func (s *Server) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				s.sweepOrphans(ctx, orphanMinAge)
			}
		}
	}()
}

func (s *Server) sweepOrphans(ctx context.Context, minAge time.Duration) {
	entries, err := os.ReadDir(s.songsDir)
	if err != nil {
		log.Printf("media-service: sweep read dir: %v", err)
		return
	}

	referenced, err := s.referencedFilenames(ctx)
	if err != nil {
		log.Printf("media-service: sweep list filenames: %v", err)
		return
	}

	cutoff := time.Now().Add(-minAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.songsDir, entry.Name())); err != nil {
			log.Printf("media-service: sweep remove %s: %v", entry.Name(), err)
			continue
		}
		log.Printf("media-service: sweep removed orphan %s", entry.Name())
	}
}

func (s *Server) referencedFilenames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.Query(ctx, `SELECT filename FROM songs WHERE filename IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referenced := map[string]struct{}{}
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		referenced[filename] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return referenced, nil
}
