package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fridge-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &resp))
	return resp.Code
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(1, time.Minute))
	r.GET("/x", ok)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "").Code)

	w := do(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, common.ErrCodeTooManyRequests, errorCode(t, w))
}

func TestDeduplicatorWindow(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	d := NewDeduplicator(time.Second)
	d.now = func() time.Time { return now }

	assert.False(t, d.Seen("fp"))
	assert.True(t, d.Seen("fp"))
	assert.False(t, d.Seen("other"))

	now = now.Add(2 * time.Second)
	assert.False(t, d.Seen("fp"))
}

func TestDeduplicationMiddleware(t *testing.T) {
	var bodies []string
	r := newEngine(Deduplication(time.Minute))
	r.POST("/x", func(c *gin.Context) {
		raw, err := c.GetRawData()
		require.NoError(t, err)
		bodies = append(bodies, string(raw))
		c.Status(http.StatusOK)
	})
	r.GET("/x", ok)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/x", `{"a":1}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/x", `{"a":1}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/x", `{"a":2}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "").Code)

	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, bodies)
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(10), Deduplication(time.Minute))
	r.POST("/x", ok)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/x", `{}`).Code)

	w := do(r, http.MethodPost, "/x", strings.Repeat("x", 20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, common.ErrCodePayloadTooLarge, errorCode(t, w))

	// 沒有 Content-Length 時由讀取上限攔下
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("y", 20)))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTimeout(t *testing.T) {
	r := newEngine(Timeout(20*time.Millisecond, map[string]any{"config": "cfg"}))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		v, exists := c.Get("config")
		assert.True(t, exists)
		assert.Equal(t, "cfg", v)
		c.Status(http.StatusOK)
	})

	w := do(r, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, common.ErrCodeGatewayTimeout, errorCode(t, w))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/fast", "").Code)
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), Logger())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.ErrCodeInternalError, errorCode(t, w))
}
