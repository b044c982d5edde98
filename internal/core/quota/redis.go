package quota

import (
	"context"
	"time"

	"fridge-recipe/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 讀取、比較、遞增在同一個 script 內完成
var allowScript = redis.NewScript(`
local used = tonumber(redis.call('GET', KEYS[1]) or '0')
if used >= tonumber(ARGV[1]) then
  return 0
end
redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// RedisLimiter 多個實例共享的每日配額；Redis 不可用時退回進程內計數
type RedisLimiter struct {
	client   *redis.Client
	name     string
	prefix   string
	limit    int
	loc      *time.Location
	now      func() time.Time
	fallback *DailyLimiter
}

// NewRedisLimiter 創建 Redis 配額，name 區分不同外部服務
func NewRedisLimiter(client *redis.Client, prefix, name string, limit int, loc *time.Location, opts ...Option) *RedisLimiter {
	if loc == nil {
		loc = time.Local
	}
	o := buildOptions(opts)
	return &RedisLimiter{
		client:   client,
		name:     name,
		prefix:   prefix,
		limit:    limit,
		loc:      loc,
		now:      o.now,
		fallback: NewDailyLimiter(limit, loc, opts...),
	}
}

func (l *RedisLimiter) key() string {
	return l.prefix + ":" + l.name + ":" + l.now().In(l.loc).Format(dayLayout)
}

func (l *RedisLimiter) Allow(ctx context.Context) bool {
	ok, err := allowScript.Run(ctx, l.client, []string{l.key()}, l.limit, int((48 * time.Hour).Seconds())).Int()
	if err != nil {
		common.LogWarn("Redis 配額檢查失敗，改用本地計數",
			zap.String("quota", l.name),
			zap.Error(err),
		)
		return l.fallback.Allow(ctx)
	}
	return ok == 1
}

func (l *RedisLimiter) Used(ctx context.Context) int {
	used, err := l.client.Get(ctx, l.key()).Int()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		return l.fallback.Used(ctx)
	}
	return used
}

func (l *RedisLimiter) Limit() int {
	return l.limit
}
