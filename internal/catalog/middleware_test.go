package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "password", "role", "blocked"})
}

func TestRequireAccount(t *testing.T) {
	s, mock := setupMockServer(t)
	defer mock.Close()

	var seen Account
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, ok := accountFromContext(r)
		require.True(t, ok)
		seen = acc
		w.WriteHeader(http.StatusOK)
	})
	handler := s.requireAccount(next)

	do := func(username, password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/upload", nil)
		if username != "" {
			req.Header.Set("Username", username)
		}
		if password != "" {
			req.Header.Set("Password", password)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("MissingCredentials", func(t *testing.T) {
		w := do("", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = do("admin", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password, role, blocked").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		w := do("ghost", "whatever")
		assert.Equal(t, http.StatusForbidden, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "invalid credentials", body["error"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password, role, blocked").
			WithArgs("admin").
			WillReturnRows(accountRows().AddRow("id-1", "admin", "admin123", "admin", false))

		w := do("admin", "nope")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("BlockedUser", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password, role, blocked").
			WithArgs("subadmin").
			WillReturnRows(accountRows().AddRow("id-2", "subadmin", "sub123", "subadmin", true))

		w := do("subadmin", "sub123")
		assert.Equal(t, http.StatusForbidden, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user blocked", body["error"])
	})

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password, role, blocked").
			WithArgs("admin").
			WillReturnRows(accountRows().AddRow("id-1", "admin", "admin123", "admin", false))

		w := do("admin", "admin123")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", seen.Username)
		assert.Equal(t, RoleAdmin, seen.Role)
		assert.False(t, seen.Blocked)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireAPIKey(t *testing.T) {
	s, mock := setupMockServer(t)
	defer mock.Close()

	handler := s.requireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(key string) int {
		req := httptest.NewRequest("GET", "/songs", nil)
		if key != "" {
			req.Header.Set("X-Api-Key", key)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("wrong-key"))
	assert.Equal(t, http.StatusOK, do("test-key"))
}

func TestHasRole(t *testing.T) {
	admin := Account{Role: RoleAdmin}
	listener := Account{Role: "listener"}

	assert.True(t, hasRole(admin, RoleAdmin))
	assert.True(t, hasRole(admin, RoleAdmin, RoleSubadmin))
	assert.False(t, hasRole(listener, RoleAdmin, RoleSubadmin))
	assert.False(t, hasRole(admin))
}
