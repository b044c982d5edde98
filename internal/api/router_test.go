package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		RateLimit:   config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173", "https://*.vercel.app"}},
		DedupWindow: time.Second,
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "router.db"),
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, catalog.Migrate(db))

	return SetupRouter(testConfig(), Dependencies{Catalog: catalog.NewRepository(db)})
}

func request(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, httptest.NewRequest(http.MethodGet, "/api/ingredients", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"test"`)

	assert.Equal(t, http.StatusOK, request(r, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)
	assert.Equal(t, http.StatusOK, request(r, httptest.NewRequest(http.MethodGet, "/live", nil)).Code)

	w = request(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	assert.Equal(t, http.StatusBadRequest, request(r, httptest.NewRequest(http.MethodGet, "/api/recipes/abc/detail", nil)).Code)
	w = request(r, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}

func TestRouterCORS(t *testing.T) {
	r := newTestRouter(t)

	for _, origin := range []string{"http://localhost:5173", "https://preview.vercel.app"} {
		req := httptest.NewRequest(http.MethodOptions, "/api/recipes/recommend", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := request(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes/recommend", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := request(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
