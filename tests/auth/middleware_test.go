package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/config"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware(t *testing.T) *auth.Middleware {
	t.Helper()
	cfg := &config.Config{}
	cfg.ApiKey.Value = "test-service-key"
	return auth.NewMiddleware(cfg, zap.NewNop())
}

// next handler that records whether it ran and with which user context
func recordingHandler(called *bool, userCtx **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if got, ok := auth.FromContext(r.Context()); ok {
			*userCtx = got
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_APIKey(t *testing.T) {
	m := newTestMiddleware(t)

	var called bool
	var userCtx *auth.UserContext
	handler := m.Authenticate(recordingHandler(&called, &userCtx))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("x-api-key", "test-service-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	require.NotNil(t, userCtx)
	assert.Equal(t, "system", userCtx.Auth0UserID)
	assert.True(t, userCtx.IsOwner())
}

func TestAuthenticate_RejectsBadCredentials(t *testing.T) {
	m := newTestMiddleware(t)

	var called bool
	var userCtx *auth.UserContext
	handler := m.Authenticate(recordingHandler(&called, &userCtx))

	cases := map[string]func(r *http.Request){
		"wrong api key":  func(r *http.Request) { r.Header.Set("x-api-key", "nope") },
		"no credentials": func(r *http.Request) {},
		"malformed authorization header": func(r *http.Request) {
			r.Header.Set("Authorization", "Token abc")
		},
	}

	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
			prepare(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireOwner(t *testing.T) {
	m := newTestMiddleware(t)

	var called bool
	var userCtx *auth.UserContext
	handler := m.RequireOwner(recordingHandler(&called, &userCtx))

	run := func(user *auth.UserContext) *httptest.ResponseRecorder {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil)
		if user != nil {
			req = req.WithContext(auth.WithUserContext(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Owner passes through
	rec := run(&auth.UserContext{Auth0UserID: "auth0|owner", Roles: []domain.UserRole{domain.RoleOwner}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	// A contractor is turned away
	rec = run(&auth.UserContext{Auth0UserID: "auth0|builder", Roles: []domain.UserRole{domain.RoleContractor}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Body.String(), "owner access required")

	// Missing user context is forbidden, not a panic
	rec = run(nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireRole(t *testing.T) {
	m := newTestMiddleware(t)

	var called bool
	var userCtx *auth.UserContext
	staff := m.RequireRole(domain.RoleOwner, domain.RoleSalesperson)
	handler := staff(recordingHandler(&called, &userCtx))

	run := func(roles ...domain.UserRole) *httptest.ResponseRecorder {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/lots", nil)
		user := &auth.UserContext{Auth0UserID: "auth0|someone", Roles: roles}
		req = req.WithContext(auth.WithUserContext(req.Context(), user))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := run(domain.RoleSalesperson)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	rec = run(domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Body.String(), "insufficient permissions")
}
