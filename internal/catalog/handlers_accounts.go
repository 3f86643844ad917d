package catalog

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
)

func (s *Server) handleBlockSubadmin(w http.ResponseWriter, r *http.Request) {
	s.setSubadminBlocked(w, r, true)
}

func (s *Server) handleUnblockSubadmin(w http.ResponseWriter, r *http.Request) {
	s.setSubadminBlocked(w, r, false)
}

// setSubadminBlocked toggles the blocked flag of the subadmin account. The
// gate in requireAccount reads the flag on every request, so the toggle takes
// effect on the subadmin's next call.
func (s *Server) setSubadminBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	acc, ok := accountFromContext(r)
	if !ok || !hasRole(acc, RoleAdmin) {
		writeError(w, http.StatusForbidden, "only admin")
		return
	}

	var sub Account
	err := s.db.QueryRow(r.Context(), `
		UPDATE accounts
		SET blocked = $1
		WHERE id = (SELECT id FROM accounts WHERE role = 'subadmin' ORDER BY created_at ASC LIMIT 1)
		RETURNING id, username, role, blocked
	`, blocked).Scan(&sub.ID, &sub.Username, &sub.Role, &sub.Blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "subadmin not found")
		return
	}
	if err != nil {
		log.Printf("media-service: set subadmin blocked: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"subadmin": sub,
	})
}

// handleSaveListener registers a Google sign-in listener profile. Saving an
// already-known googleId returns the existing record unchanged.
func (s *Server) handleSaveListener(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		PhotoURL   string `json:"photoUrl"`
		GoogleID   string `json:"googleId"`
		DeviceInfo string `json:"deviceInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	body.GoogleID = strings.TrimSpace(body.GoogleID)
	if body.Email == "" || body.GoogleID == "" {
		writeError(w, http.StatusBadRequest, "email and Google ID required")
		return
	}

	var l Listener
	err := s.db.QueryRow(r.Context(), `
		SELECT id, name, email, photo_url, google_id, device_info, login_at
		FROM listeners
		WHERE google_id = $1
	`, body.GoogleID).Scan(&l.ID, &l.Name, &l.Email, &l.PhotoURL, &l.GoogleID, &l.DeviceInfo, &l.LoginAt)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "listener already exists",
			"listener": l,
		})
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("media-service: find listener: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	l = Listener{
		Name:       body.Name,
		Email:      body.Email,
		PhotoURL:   body.PhotoURL,
		GoogleID:   body.GoogleID,
		DeviceInfo: body.DeviceInfo,
	}
	err = s.db.QueryRow(r.Context(), `
		INSERT INTO listeners (name, email, photo_url, google_id, device_info)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, login_at
	`, l.Name, l.Email, l.PhotoURL, l.GoogleID, l.DeviceInfo).Scan(&l.ID, &l.LoginAt)
	if err != nil {
		log.Printf("media-service: create listener: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "listener created",
		"listener": l,
	})
}
