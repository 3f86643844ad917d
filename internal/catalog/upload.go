package catalog

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
)

const defaultExt = ".mp3"

// generateFilename returns a collision-resistant name for a stored upload:
// unix millis plus a random UUID, keeping the original extension. Names never
// collide in practice, so concurrent uploads need no locking.
func generateFilename(original string) string {
	ext := filepath.Ext(original)
	if ext == "" {
		ext = defaultExt
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

func (s *Server) saveUpload(src multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.songsDir, 0o755); err != nil {
		return "", err
	}

	filename := generateFilename(header.Filename)
	dst, err := os.Create(filepath.Join(s.songsDir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filename, nil
}

// probeArtist reads the artist from the stored file's tags. Best effort:
// unreadable or untagged files yield "".
func (s *Server) probeArtist(filename string) string {
	f, err := os.Open(filepath.Join(s.songsDir, filename))
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(m.Artist())
}
