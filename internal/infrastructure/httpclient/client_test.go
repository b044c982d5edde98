package httpclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"fridge-recipe/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecodesWithResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"김치"}`))
	}))
	defer srv.Close()

	client := New(config.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: time.Second, UserAgent: "test-agent"})

	var out struct {
		Name string `json:"name"`
	}
	resp, err := client.R().SetResult(&out).Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "김치", out.Name)
}

func TestNewReadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(config.HTTPConfig{ConnectTimeout: 50 * time.Millisecond, ReadTimeout: 50 * time.Millisecond})
	_, err := client.R().Get(srv.URL)
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	inner := errors.New("connection refused")
	err := RedactURL(&url.Error{Op: "Get", URL: "https://api.example.com/search?key=secret", Err: inner}, "/search")

	assert.Equal(t, "Get /search: connection refused", err.Error())
	assert.NotContains(t, err.Error(), "secret")
	assert.ErrorIs(t, err, inner)

	plain := errors.New("plain")
	assert.Same(t, plain, RedactURL(plain, "/x"))
}
