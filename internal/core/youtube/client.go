// Package youtube 以 YouTube Data API v3 搜尋食譜影片。
//
// 所有方法都不回傳錯誤：沒有金鑰、API 錯誤、逾時都退化為空結果，
// 食材搜尋另外附上可顯示給使用者的原因。
package youtube

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fridge-recipe/internal/core/quota"
	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/infrastructure/httpclient"
	"fridge-recipe/internal/pkg/common"
	"fridge-recipe/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	serviceName = "youtube"

	// MaxQueryNames 查詢字串最多使用的食材數
	MaxQueryNames = 10
	// SearchCandidates 每次搜尋要求的候選數
	SearchCandidates = 15
	// MaxVideos 回傳的影片上限
	MaxVideos = 9
)

// Client YouTube 搜尋
type Client struct {
	http    *resty.Client
	cfg     config.YouTubeConfig
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	usage   *quota.UsageTracker
	noKey   *common.OnceNotice
	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

// Option 客戶端選項
type Option func(*Client)

// WithShuffle 替換洗牌函式
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(c *Client) { c.shuffle = shuffle }
}

// WithClock 替換時間來源
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithUsageTracker 每次搜尋記錄估計用量
func WithUsageTracker(t *quota.UsageTracker) Option {
	return func(c *Client) { c.usage = t }
}

// WithNoKeyNotice 共用的「缺少金鑰」一次性警告
func WithNoKeyNotice(n *common.OnceNotice) Option {
	return func(c *Client) { c.noKey = n }
}

// NewClient 創建 YouTube 客戶端
func NewClient(httpClient *resty.Client, cfg config.YouTubeConfig, opts ...Option) *Client {
	c := &Client{
		http:    httpClient,
		cfg:     cfg,
		shuffle: rand.Shuffle,
		now:     time.Now,
		noKey:   common.NewOnceNotice("YouTube API 金鑰未設定，影片推薦停用"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	c.cfg.BaseURL = strings.TrimRight(c.cfg.BaseURL, "/")

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	c.breaker = gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:    serviceName,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("YouTube 斷路器狀態變更",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// HasKey 是否設定了非空白金鑰
func (c *Client) HasKey() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

func (c *Client) warnNoKey(operation string) {
	c.noKey.Warn(zap.String("operation", operation))
	metrics.RecordExternalCall(serviceName, operation, metrics.OutcomeNoKey, 0)
}

// BuildQuery 最多取前 10 個非空白名稱，依模式加上後綴
func BuildQuery(names []string, strict bool, strictSuffix, looseSuffix string) string {
	parts := make([]string, 0, MaxQueryNames)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		parts = append(parts, name)
		if len(parts) == MaxQueryNames {
			break
		}
	}
	if len(parts) == 0 {
		return ""
	}
	suffix := looseSuffix
	if strict {
		suffix = strictSuffix
	}
	q := strings.Join(parts, " ")
	if suffix != "" {
		q += " " + suffix
	}
	return q
}

// SearchByIngredients 以食材名稱搜尋近一年的影片，洗牌後最多回傳 9 部
func (c *Client) SearchByIngredients(ctx context.Context, names []string, strict bool) SearchResult {
	const op = "search_by_ingredients"
	if !c.HasKey() {
		c.warnNoKey(op)
		return SearchResult{Videos: []Video{}, ErrorReason: ReasonNoKey}
	}

	q := BuildQuery(names, strict, c.cfg.StrictSuffix, c.cfg.LooseSuffix)
	if q == "" {
		return SearchResult{Videos: []Video{}}
	}

	resp, err := c.search(ctx, op, q, SearchCandidates)
	if err != nil {
		reason := ReasonFor(err)
		common.LogWarn("YouTube 食材搜尋失敗",
			zap.String("query", q),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return SearchResult{Videos: []Video{}, ErrorReason: reason}
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if strings.TrimSpace(item.ID.VideoID) == "" {
			continue
		}
		videos = append(videos, Video{ID: item.ID.VideoID, Title: item.Snippet.Title})
	}
	if len(videos) == 0 {
		common.LogDebug("YouTube 搜尋沒有結果", zap.String("query", q))
	}

	c.shuffle(len(videos), func(i, j int) { videos[i], videos[j] = videos[j], videos[i] })
	if len(videos) > MaxVideos {
		videos = videos[:MaxVideos]
	}
	return SearchResult{Videos: videos}
}

// SearchTopVideo 近一年觀看數最高的一部影片，失敗或沒有時回傳 nil
func (c *Client) SearchTopVideo(ctx context.Context, name string) *Video {
	const op = "search_top_video"
	if !c.HasKey() {
		c.warnNoKey(op)
		return nil
	}
	q := strings.TrimSpace(name)
	if q == "" {
		return nil
	}

	resp, err := c.search(ctx, op, q, 1)
	if err != nil {
		common.LogWarn("YouTube 影片搜尋失敗", zap.String("query", q), zap.Error(err))
		return nil
	}
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			return &Video{ID: item.ID.VideoID, Title: item.Snippet.Title}
		}
	}
	return nil
}

// GetVideoDescription 影片說明欄，失敗時回傳空字串
func (c *Client) GetVideoDescription(ctx context.Context, videoID string) string {
	const op = "video_description"
	if !c.HasKey() {
		c.warnNoKey(op)
		return ""
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return ""
	}

	var out videosResponse
	err := c.get(ctx, op, "/videos", map[string]string{
		"part": "snippet",
		"id":   videoID,
	}, &out)
	if err == nil && out.Error != nil {
		err = &StatusError{Status: out.Error.Code, Message: out.Error.Message}
	}
	if err != nil {
		common.LogDebug("YouTube 影片說明取得失敗", zap.String("video_id", videoID), zap.Error(err))
		return ""
	}
	if len(out.Items) == 0 {
		return ""
	}
	return out.Items[0].Snippet.Description
}

func (c *Client) search(ctx context.Context, op, q string, maxResults int) (*searchResponse, error) {
	if c.usage != nil {
		c.usage.AddSearch()
	}

	var out searchResponse
	err := c.get(ctx, op, "/search", map[string]string{
		"part":           "snippet",
		"type":           "video",
		"order":          "viewCount",
		"maxResults":     strconv.Itoa(maxResults),
		"q":              q,
		"publishedAfter": c.now().AddDate(-1, 0, 0).UTC().Format(time.RFC3339),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, &StatusError{Status: out.Error.Code, Message: out.Error.Message}
	}
	return &out, nil
}

// get 經由斷路器發出請求並解析 JSON
func (c *Client) get(ctx context.Context, op, path string, params map[string]string, out interface{}) error {
	start := time.Now()
	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		r, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("key", c.cfg.APIKey).
			Get(c.cfg.BaseURL + path)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return r, statusError(c.http, r)
		}
		return r, nil
	})
	duration := time.Since(start)

	if err != nil {
		err = httpclient.RedactURL(err, path)
		outcome := metrics.OutcomeError
		if isBreakerOpen(err) {
			outcome = metrics.OutcomeCircuitOpen
		}
		metrics.RecordExternalCall(serviceName, op, outcome, duration)
		common.LogExternalCall(serviceName, op, duration, err)
		return err
	}
	metrics.RecordExternalCall(serviceName, op, metrics.OutcomeSuccess, duration)
	common.LogExternalCall(serviceName, op, duration, nil)

	return c.http.JSONUnmarshal(resp.Body(), out)
}

func statusError(client *resty.Client, r *resty.Response) error {
	se := &StatusError{Status: r.StatusCode(), Body: r.String()}
	var body struct {
		Error *apiError `json:"error"`
	}
	if err := client.JSONUnmarshal(r.Body(), &body); err == nil && body.Error != nil {
		se.Message = body.Error.Message
		for _, e := range body.Error.Errors {
			if e.Reason != "" && !strings.Contains(se.Body, e.Reason) {
				se.Body += " " + e.Reason
			}
		}
	}
	return se
}

// isClientError 4xx（含配額用盡的 403）不計入斷路器失敗
func isClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// ReasonFor 將錯誤轉為給使用者看的原因
func ReasonFor(err error) string {
	if err == nil {
		return ""
	}
	if isBreakerOpen(err) {
		return ReasonUnavailable
	}
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusForbidden {
		if strings.Contains(strings.ToLower(se.Body+" "+se.Message), "quota") {
			return ReasonQuotaExceeded
		}
		return ReasonAccessDenied
	}
	msg := err.Error()
	if msg == "" {
		msg = "connection error"
	}
	return reasonFailedPrefix + msg
}
