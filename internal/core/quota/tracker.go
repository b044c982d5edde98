package quota

import (
	"sync"
	"time"
)

// UsageTracker 估算 YouTube Data API 當日已用單位（只是估計，不阻擋請求）
type UsageTracker struct {
	mu    sync.Mutex
	limit int
	cost  int
	loc   *time.Location
	now   func() time.Time
	day   string
	used  int
}

// NewUsageTracker 每次搜尋計 cost 單位，每日上限 limit
func NewUsageTracker(limit, cost int, loc *time.Location, opts ...Option) *UsageTracker {
	if loc == nil {
		loc = time.Local
	}
	o := buildOptions(opts)
	return &UsageTracker{limit: limit, cost: cost, loc: loc, now: o.now}
}

// AddSearch 記錄一次搜尋
func (t *UsageTracker) AddSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollover()
	t.used += t.cost
}

// UsedToday 今日估計已用單位
func (t *UsageTracker) UsedToday() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollover()
	return t.used
}

func (t *UsageTracker) Limit() int {
	return t.limit
}

func (t *UsageTracker) rollover() {
	today := t.now().In(t.loc).Format(dayLayout)
	if today != t.day {
		t.day = today
		t.used = 0
	}
}
