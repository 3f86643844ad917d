package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOrphans(t *testing.T) {
	s, mock := setupMockServer(t)
	defer mock.Close()

	writeAged := func(name string, age time.Duration) {
		path := filepath.Join(s.songsDir, name)
		require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
		when := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, when, when))
	}

	writeAged("orphan.mp3", 2*time.Hour)
	writeAged("referenced.mp3", 2*time.Hour)
	writeAged("fresh.mp3", time.Minute)

	mock.ExpectQuery("SELECT filename FROM songs").
		WillReturnRows(pgxmock.NewRows([]string{"filename"}).AddRow("referenced.mp3"))

	s.sweepOrphans(context.Background(), time.Hour)

	assert.NoFileExists(t, filepath.Join(s.songsDir, "orphan.mp3"))
	assert.FileExists(t, filepath.Join(s.songsDir, "referenced.mp3"))
	assert.FileExists(t, filepath.Join(s.songsDir, "fresh.mp3"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepOrphansDBErrorRemovesNothing(t *testing.T) {
	s, mock := setupMockServer(t)
	defer mock.Close()

	path := filepath.Join(s.songsDir, "orphan.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	mock.ExpectQuery("SELECT filename FROM songs").
		WillReturnError(os.ErrDeadlineExceeded)

	s.sweepOrphans(context.Background(), time.Hour)

	assert.FileExists(t, path)
}
