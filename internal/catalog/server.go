package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// DB is the subset of pgxpool.Pool methods the handlers use.
// This allows us to inject a mock for testing.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Server struct {
	db       DB
	rdb      *redis.Client
	songsDir string
	apiKey   string
}

func NewServer(db DB, rdb *redis.Client, songsDir, apiKey string) *Server {
	return &Server{
		db:       db,
		rdb:      rdb,
		songsDir: songsDir,
		apiKey:   apiKey,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Get("/playlists", s.handleListPlaylists)
	r.Post("/users/save", s.handleSaveListener)

	// Read-only catalog, gated by the static client key.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Get("/categories", s.handleListCategories)
		r.Get("/songs", s.handleListSongs)
		r.Get("/song/{id}", s.handleGetSong)
	})

	// Mutations, gated by account credentials. Role checks are per handler.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAccount)
		r.Post("/upload", s.handleUpload)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Post("/playlists/{id}/add", s.handleAddSong)
		r.Post("/block-subadmin", s.handleBlockSubadmin)
		r.Post("/unblock-subadmin", s.handleUnblockSubadmin)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "media-service",
	})
}
