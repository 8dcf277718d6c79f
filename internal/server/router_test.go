package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/config"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/handler"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func accessClaims(role domain.UserRole) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":        "operator-1",
		"role":       string(role),
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
}

func newTestRouter(t *testing.T, secret string) (http.Handler, *testutil.PartStore, *bytes.Buffer) {
	t.Helper()
	store := testutil.NewPartStore()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	cfg := config.Config{JWTSecret: secret, RateLimit: 1000, OpenAPIPath: "missing.yaml"}
	r := NewRouter(cfg, logger,
		handler.HealthHandler{DB: store},
		handler.PartHandler{Repo: store},
		handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath},
	)
	return r, store, &logs
}

func post(r http.Handler, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/parts", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_AdminCanWrite(t *testing.T) {
	r, store, logs := newTestRouter(t, testSecret)

	w := post(r, signToken(t, testSecret, accessClaims(domain.RoleAdmin)), `{"name":"gear"}`)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, store.Count("gear", false))
	assert.Contains(t, logs.String(), "http request")
}

func TestRouter_RejectsBadTokens(t *testing.T) {
	r, store, _ := newTestRouter(t, testSecret)

	refresh := accessClaims(domain.RoleAdmin)
	refresh["token_type"] = "refresh"
	expired := accessClaims(domain.RoleAdmin)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noSubject := accessClaims(domain.RoleAdmin)
	delete(noSubject, "sub")

	for name, tc := range map[string]struct {
		token string
		code  int
	}{
		"missing":      {"", http.StatusUnauthorized},
		"garbage":      {"not-a-jwt", http.StatusUnauthorized},
		"wrong secret": {signToken(t, "other", accessClaims(domain.RoleAdmin)), http.StatusUnauthorized},
		"refresh":      {signToken(t, testSecret, refresh), http.StatusUnauthorized},
		"expired":      {signToken(t, testSecret, expired), http.StatusUnauthorized},
		"no subject":   {signToken(t, testSecret, noSubject), http.StatusUnauthorized},
		"viewer":       {signToken(t, testSecret, accessClaims(domain.RoleViewer)), http.StatusForbidden},
	} {
		t.Run(name, func(t *testing.T) {
			w := post(r, tc.token, `{"name":"gear"}`)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, store.Len())
}

func TestRouter_RejectsOtherSigningMethods(t *testing.T) {
	r, _, _ := newTestRouter(t, testSecret)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, accessClaims(domain.RoleAdmin)).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, post(r, tok, `{"name":"gear"}`).Code)
}

func TestRouter_WritesDisabledWithoutSecret(t *testing.T) {
	r, _, logs := newTestRouter(t, "")

	w := post(r, "", `{"name":"gear"}`)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, logs.String(), "part write routes disabled")
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, store, _ := newTestRouter(t, testSecret)
	store.Add(domain.Part{Name: "dog", Description: domain.DemoDescription, IsDemo: true})

	for path, code := range map[string]int{
		"/health":       http.StatusOK,
		"/parts":        http.StatusOK,
		"/parts/1":      http.StatusOK,
		"/metrics":      http.StatusOK,
		"/openapi.yaml": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, w.Code, path)
	}
}
