package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := s.db.Query(ctx, `
		SELECT id, name, created_at
		FROM playlists
		ORDER BY created_at ASC
	`)
	if err != nil {
		log.Printf("media-service: list playlists: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var pl Playlist
		if err := rows.Scan(&pl.ID, &pl.Name, &pl.CreatedAt); err != nil {
			log.Printf("media-service: list playlists scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		log.Printf("media-service: list playlists rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	for i := range playlists {
		songs, err := s.playlistSongs(ctx, playlists[i].ID)
		if err != nil {
			log.Printf("media-service: expand playlist %s: %v", playlists[i].ID, err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		playlists[i].Songs = songs
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

// playlistSongs returns the playlist's member songs as full records, in
// membership insertion order.
func (s *Server) playlistSongs(ctx context.Context, playlistID string) ([]Song, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.title, s.artist, s.category, s.file, s.filename, s.uploaded_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC, ps.created_at ASC
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []Song{}
	for rows.Next() {
		var song Song
		if err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.Artist,
			&song.Category,
			&song.File,
			&song.Filename,
			&song.UploadedAt,
		); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return songs, nil
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	acc, ok := accountFromContext(r)
	if !ok || !hasRole(acc, RoleAdmin) {
		writeError(w, http.StatusForbidden, "only admin")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	pl := Playlist{Name: body.Name, Songs: []Song{}}
	err := s.db.QueryRow(r.Context(), `
		INSERT INTO playlists (name)
		VALUES ($1)
		RETURNING id, created_at
	`, pl.Name).Scan(&pl.ID, &pl.CreatedAt)
	if err != nil {
		log.Printf("media-service: create playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(r.Context(), "playlist.created", map[string]any{"playlist": pl})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"playlist": pl,
	})
}

// handleAddSong adds a song to a playlist. Membership is a set union: adding
// an already-present song is a no-op that still returns the playlist, so
// concurrent adds commute.
func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	acc, ok := accountFromContext(r)
	if !ok || !hasRole(acc, RoleAdmin) {
		writeError(w, http.StatusForbidden, "only admin")
		return
	}

	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(playlistID); err != nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var body struct {
		SongID string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := uuid.Parse(body.SongID); err != nil {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}

	var pl Playlist
	err := s.db.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(&pl.ID, &pl.Name, &pl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("media-service: add song fetch playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var songExists bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)
	`, body.SongID).Scan(&songExists)
	if err != nil {
		log.Printf("media-service: add song check song: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if !songExists {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
		FROM playlist_songs
		WHERE playlist_id = $1
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`, playlistID, body.SongID)
	if err != nil {
		log.Printf("media-service: add song insert: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	songs, err := s.playlistSongs(ctx, playlistID)
	if err != nil {
		log.Printf("media-service: add song expand: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	pl.Songs = songs

	s.publishEvent(ctx, "playlist.song.added", map[string]any{
		"playlistId": playlistID,
		"songId":     body.SongID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"playlist": pl,
	})
}
