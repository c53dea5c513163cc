package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthGuardsMutationsOnly(t *testing.T) {
	const secret = "test-secret"
	a := newTestAPI(t, map[string]string{"JWT_SECRET": secret})

	rec := a.do(http.MethodPost, "/genres/", `{"name":"Drama"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authorization", decodeError(t, rec).Field)
	assert.Equal(t, `Bearer realm="movies"`, rec.Header().Get("WWW-Authenticate"))

	expired := signToken(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana", "exp": time.Now().Add(-time.Hour).Unix()})
	rec = a.do(http.MethodPost, "/genres/", `{"name":"Drama"}`, "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongKey := signToken(t, "other", jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana", "exp": time.Now().Add(time.Hour).Unix()})
	rec = a.do(http.MethodPost, "/genres/", `{"name":"Drama"}`, "Authorization", "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	valid := signToken(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana", "exp": time.Now().Add(time.Hour).Unix()})
	rec = a.do(http.MethodPost, "/genres/", `{"name":"Drama"}`, "Authorization", "Bearer "+valid)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/genres/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Drama"}]`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	a := newTestAPI(t, map[string]string{"RATE_LIMIT_RPS": "0.001", "RATE_LIMIT_BURST": "1"})

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/movies/", "").Code)

	rec := a.do(http.MethodGet, "/movies/", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMaxBodySize(t *testing.T) {
	a := newTestAPI(t, map[string]string{"MAX_BODY_BYTES": "32"})

	body := `{"title":"` + strings.Repeat("x", 64) + `"}`
	rec := a.do(http.MethodPost, "/movies/", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_size", decodeError(t, rec).Field)
}

func TestCORSPreflight(t *testing.T) {
	a := newTestAPI(t, map[string]string{"ACCEPTED_ORIGINS": "http://allowed.test"})

	rec := a.do(http.MethodOptions, "/movies/", "",
		"Origin", "http://allowed.test",
		"Access-Control-Request-Method", http.MethodPost)
	assert.Equal(t, "http://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = a.do(http.MethodOptions, "/movies/", "",
		"Origin", "http://evil.test",
		"Access-Control-Request-Method", http.MethodPost)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	a := newTestAPI(t, nil)

	rec := a.do(http.MethodGet, "/movies/", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = a.do(http.MethodGet, "/movies/", "", requestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestTrailingSlashOptional(t *testing.T) {
	a := newTestAPI(t, nil)
	a.mustDo(http.StatusCreated, http.MethodPost, "/directors", `{"name":"Varda"}`)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/directors", "").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/directors/", "").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/directors/1/", "").Code)
}

func TestPanicBecomesInternalError(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", decodeError(t, rec).Status)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t, nil)

	rec := a.mustDo(http.StatusOK, http.MethodGet, "/healthz", "")
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	require.NoError(t, a.db.Close())
	rec = a.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
