package catalog

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		log.Printf("media-service: migrate pgcrypto: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS songs (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          title       TEXT NOT NULL,
          artist      TEXT NOT NULL DEFAULT 'Unknown',
          category    TEXT NOT NULL,
          file        TEXT NOT NULL,
          filename    TEXT,
          uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("media-service: migrate songs: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          name       TEXT NOT NULL,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("media-service: migrate playlists: %v", err)
		return err
	}

	// Membership is a set: the primary key makes re-adding a song a no-op.
	// There is deliberately no unique index on (playlist_id, position), so
	// concurrent adds never conflict; reads tiebreak on created_at.
	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlist_songs (
          playlist_id uuid NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          song_id     uuid NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
          position    INT NOT NULL,
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          PRIMARY KEY (playlist_id, song_id)
      )
    `); err != nil {
		log.Printf("media-service: migrate playlist_songs: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS accounts (
          id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          username   TEXT UNIQUE NOT NULL,
          password   TEXT NOT NULL,
          role       TEXT NOT NULL,
          blocked    BOOLEAN NOT NULL DEFAULT FALSE,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("media-service: migrate accounts: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS listeners (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          name        TEXT NOT NULL DEFAULT '',
          email       TEXT UNIQUE NOT NULL,
          photo_url   TEXT NOT NULL DEFAULT '',
          google_id   TEXT UNIQUE NOT NULL,
          device_info TEXT NOT NULL DEFAULT '',
          login_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("media-service: migrate listeners: %v", err)
		return err
	}

	return nil
}

// SeedAccounts upserts the fixed admin and subadmin accounts the mobile
// clients ship with. Re-seeding at boot resets their passwords and unblocks
// them, so a locked-out deployment recovers on restart.
func SeedAccounts(ctx context.Context, pool *pgxpool.Pool) error {
	seed := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", RoleAdmin},
		{"subadmin", "sub123", RoleSubadmin},
	}
	for _, acc := range seed {
		if _, err := pool.Exec(ctx, `
			INSERT INTO accounts (username, password, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (username) DO UPDATE
			SET password = EXCLUDED.password,
			    role     = EXCLUDED.role,
			    blocked  = FALSE
		`, acc.username, acc.password, acc.role); err != nil {
			log.Printf("media-service: seed account %s: %v", acc.username, err)
			return err
		}
	}
	return nil
}
