package catalog

import (
	"context"
	"log"
	"net/http"
)

// ResolveCategories derives the live category set: the static list first in
// its fixed order, then playlist names in creation order, skipping names
// already present. The result is deterministic for a given input.
func ResolveCategories(playlistNames []string) []string {
	out := make([]string, 0, len(StaticCategories)+len(playlistNames))
	seen := make(map[string]struct{}, len(StaticCategories)+len(playlistNames))
	for _, name := range StaticCategories {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range playlistNames {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (s *Server) listPlaylistNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT name FROM playlists ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := s.listPlaylistNames(r.Context())
	if err != nil {
		log.Printf("media-service: list playlist names: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": ResolveCategories(names),
	})
}
