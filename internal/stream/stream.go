// Package stream serves stored audio files over HTTP with single-range
// partial-content support. It operates on filename tokens only and is
// independent of the catalog.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const contentType = "audio/mpeg"

type Server struct {
	root string
}

// NewServer serves files from the given storage root.
func NewServer(root string) *Server {
	return &Server{root: root}
}

// HandleStream serves GET /stream/{filename}. Without a Range header the full
// file is streamed with status 200; with one, the requested span is streamed
// with status 206 and a Content-Range header. Unsatisfiable or malformed
// ranges get 416. Each request opens its own read handle, so concurrent
// overlapping range fetches against the same file never serialize.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	path, ok := s.resolve(name)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("media-service: open %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "cannot open file")
		return
	}
	defer f.Close()

	size := info.Size()
	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		// Headers are gone; a failed copy (usually a disconnect) can only be
		// logged, not reported to the client.
		if _, err := io.Copy(w, f); err != nil {
			log.Printf("media-service: stream %s: %v", name, err)
		}
		return
	}

	start, end, err := parseByteRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		writeError(w, http.StatusRequestedRangeNotSatisfiable, "invalid range")
		return
	}

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		log.Printf("media-service: seek %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "cannot read file")
		return
	}

	chunkSize := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(chunkSize, 10))
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusPartialContent)
	if _, err := io.CopyN(w, f, chunkSize); err != nil {
		log.Printf("media-service: stream range %s: %v", name, err)
	}
}

// resolve joins the untrusted filename token against the storage root.
// Tokens that could escape the root are rejected; the caller reports them as
// not found to avoid leaking filesystem structure.
func (s *Server) resolve(name string) (string, bool) {
	if name == "" || name == "." || name == ".." {
		return "", false
	}
	if strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(s.root, name), true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	})
}
