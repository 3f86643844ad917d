package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

// Helper to setup mock DB and Server
func setupMockServer(t *testing.T) (*Server, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewServer(mock, nil, t.TempDir(), "test-key"), mock
}

// Helper to create a request carrying an authenticated account, the way
// requireAccount leaves it after a successful lookup.
func newRequestWithAccount(method, url string, body io.Reader, acc Account) *http.Request {
	req := httptest.NewRequest(method, url, body)
	ctx := context.WithValue(req.Context(), ctxAccountKey{}, acc)
	return req.WithContext(ctx)
}

// Helper to add a chi URL param to a request
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func adminAccount() Account {
	return Account{ID: "11111111-1111-1111-1111-111111111111", Username: "admin", Role: RoleAdmin}
}

func subadminAccount() Account {
	return Account{ID: "22222222-2222-2222-2222-222222222222", Username: "subadmin", Role: RoleSubadmin}
}

func strPtr(s string) *string {
	return &s
}
