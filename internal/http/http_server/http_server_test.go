package http_server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRoutes struct{}

func (pingRoutes) Register(r gin.IRoutes) {
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
}

func newEngine(opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHttpServer(context.Background(), "test", 0, []RouteRegistrar{pingRoutes{}}, opts...).Engine()
}

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, h.Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
}

func TestPreflightOnAnyPath(t *testing.T) {
	r := newEngine(WithCORS())

	for _, path := range []string{"/ping", "/worlds/Acres", "/nowhere"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
		assertCORS(t, w.Header())
	}
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	r := newEngine(WithCORS())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assertCORS(t, w.Header())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertCORS(t, w.Header())
}

func TestNoCORSUnlessEnabled(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoversFromPanics(t *testing.T) {
	r := newEngine(WithCORS())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServesAPISpecs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "swagger.json"), []byte(`{"swagger":"2.0"}`), 0o644))
	r := newEngine(WithAPIDocs(dir))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-specs/swagger.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "2.0"))
}

func TestDisposeBeforeStart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHttpServer(context.Background(), "test", 0, []RouteRegistrar{pingRoutes{}})

	require.NoError(t, h.Dispose())
	assert.NoError(t, h.Start(), "a disposed server does not serve")
}

func TestDisposeStopsRunningServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHttpServer(context.Background(), "test", 0, []RouteRegistrar{pingRoutes{}})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Start() }()
	require.NoError(t, h.Dispose())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Dispose")
	}
}
