// Package httpclient 第三方 API 共用的 resty client。
package httpclient

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"fridge-recipe/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// New 依連線/讀取超時建立 client；不重試
func New(cfg config.HTTPConfig) *resty.Client {
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = 8 * time.Second
	}
	read := cfg.ReadTimeout
	if read <= 0 {
		read = 18 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connect,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}

	client := resty.New().
		SetTransport(transport).
		SetTimeout(connect + read).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return client
}

// RedactURL 把 *url.Error 裡的完整 URL 換成路徑，避免 query 中的金鑰進入日誌
func RedactURL(err error, path string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, path, urlErr.Err)
	}
	return err
}
