package common

import (
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// OnceNotice 整個進程只輸出一次的警告，由建構時共享
type OnceNotice struct {
	msg  string
	done atomic.Bool
}

// NewOnceNotice 創建只記錄一次的警告
func NewOnceNotice(msg string) *OnceNotice {
	return &OnceNotice{msg: msg}
}

// Warn 第一次調用時記錄，之後返回 false
func (n *OnceNotice) Warn(fields ...zap.Field) bool {
	if n == nil || !n.done.CompareAndSwap(false, true) {
		return false
	}
	LogWarn(n.msg, fields...)
	return true
}
