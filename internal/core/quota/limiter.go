// Package quota 外部 API 的每日配額。
package quota

import (
	"context"
	"sync"
	"time"
)

const dayLayout = "2006-01-02"

// Limiter 每日請求配額
type Limiter interface {
	// Allow 原子地完成日期檢查與佔用，回傳 false 表示今日已用盡
	Allow(ctx context.Context) bool
	// Used 今日已佔用次數
	Used(ctx context.Context) int
	Limit() int
}

type options struct {
	now func() time.Time
}

// Option 配額選項
type Option func(*options)

// WithClock 替換時間來源（測試用）
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DailyLimiter 單一進程內的每日計數器
type DailyLimiter struct {
	mu    sync.Mutex
	limit int
	loc   *time.Location
	now   func() time.Time
	day   string
	used  int
}

// NewDailyLimiter 創建每日配額，loc 決定換日時間
func NewDailyLimiter(limit int, loc *time.Location, opts ...Option) *DailyLimiter {
	if loc == nil {
		loc = time.Local
	}
	o := buildOptions(opts)
	return &DailyLimiter{limit: limit, loc: loc, now: o.now}
}

func (l *DailyLimiter) Allow(context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	if l.used >= l.limit {
		return false
	}
	l.used++
	return true
}

func (l *DailyLimiter) Used(context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	return l.used
}

func (l *DailyLimiter) Limit() int {
	return l.limit
}

// rollover 必須在持有鎖時調用
func (l *DailyLimiter) rollover() {
	today := l.now().In(l.loc).Format(dayLayout)
	if today != l.day {
		l.day = today
		l.used = 0
	}
}
