package catalog

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("category")

	var (
		rows pgx.Rows
		err  error
	)
	if category == "" {
		rows, err = s.db.Query(ctx, `
			SELECT id, title, artist, category, file, filename, uploaded_at
			FROM songs
			ORDER BY uploaded_at ASC
		`)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT id, title, artist, category, file, filename, uploaded_at
			FROM songs
			WHERE category = $1
			ORDER BY uploaded_at ASC
		`, category)
	}
	if err != nil {
		log.Printf("media-service: list songs: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
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
			log.Printf("media-service: list songs scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		log.Printf("media-service: list songs rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var song Song
	err := s.db.QueryRow(r.Context(), `
		SELECT id, title, artist, category, file, filename, uploaded_at
		FROM songs
		WHERE id = $1
	`, id).Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Category,
		&song.File,
		&song.Filename,
		&song.UploadedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("media-service: get song: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"song": song})
}

const maxUploadSize = 20 * 1024 * 1024 // 20MB

// handleUpload admits a new song. The caller supplies either a file part
// ("songFile") in a multipart form, or a songUrl field; the category must be
// in the live category set at call time. The check is advisory for future
// edits: categories are never re-validated after creation, so removing a
// playlist does not retroactively break songs tagged with its name.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	acc, ok := accountFromContext(r)
	if !ok || !hasRole(acc, RoleAdmin, RoleSubadmin) {
		writeError(w, http.StatusForbidden, "not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var (
		title    string
		artist   string
		category string
		songURL  string
		part     multipart.File
		header   *multipart.FileHeader
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "file too large or invalid form")
			return
		}
		title = r.FormValue("title")
		artist = r.FormValue("artist")
		category = r.FormValue("category")
		songURL = r.FormValue("songUrl")

		f, h, err := r.FormFile("songFile")
		switch {
		case err == nil:
			part, header = f, h
			defer part.Close()
		case errors.Is(err, http.ErrMissingFile):
			// URL-only upload
		default:
			writeError(w, http.StatusBadRequest, "invalid file part")
			return
		}
	} else {
		var body struct {
			Title    string `json:"title"`
			Artist   string `json:"artist"`
			Category string `json:"category"`
			SongURL  string `json:"songUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		title, artist, category, songURL = body.Title, body.Artist, body.Category, body.SongURL
	}

	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	category = strings.TrimSpace(category)
	songURL = strings.TrimSpace(songURL)

	if title == "" || category == "" {
		writeError(w, http.StatusBadRequest, "title and category required")
		return
	}

	// Validate against the live category set. A playlist created concurrently
	// with this request may or may not be visible here; that race is accepted.
	names, err := s.listPlaylistNames(r.Context())
	if err != nil {
		log.Printf("media-service: upload list playlist names: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if !categoryValid(ResolveCategories(names), category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	if part == nil && songURL == "" {
		writeError(w, http.StatusBadRequest, "file or URL required")
		return
	}

	var src SourceRef
	if part != nil {
		filename, err := s.saveUpload(part, header)
		if err != nil {
			log.Printf("media-service: save upload: %v", err)
			writeError(w, http.StatusInternalServerError, "cannot save file")
			return
		}
		src = SourceRef{Local: filename}
	} else {
		src = SourceRef{External: songURL}
	}

	if artist == "" && src.Local != "" {
		artist = s.probeArtist(src.Local)
	}
	if artist == "" {
		artist = "Unknown"
	}

	song := Song{
		Title:    title,
		Artist:   artist,
		Category: category,
		File:     src.AccessPath(),
	}
	if src.Local != "" {
		song.Filename = &src.Local
	}

	// The file is already on disk; a failure here leaves an orphan behind for
	// the sweeper to reclaim.
	err = s.db.QueryRow(r.Context(), `
		INSERT INTO songs (title, artist, category, file, filename)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`, song.Title, song.Artist, song.Category, song.File, song.Filename).Scan(
		&song.ID,
		&song.UploadedAt,
	)
	if err != nil {
		log.Printf("media-service: create song: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(r.Context(), "song.created", map[string]any{"song": song})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"song":    song,
	})
}

func categoryValid(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
