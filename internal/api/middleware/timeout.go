package middleware

import (
	"context"
	"errors"
	"time"

	"fridge-recipe/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Timeout 為請求加上截止時間，並把共用物件放進 context
func Timeout(timeout time.Duration, values map[string]any) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		for k, v := range values {
			c.Set(k, v)
		}

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			if !c.Writer.Written() {
				common.AbortWithError(c, common.ErrGatewayTimeout)
			}
		}
	}
}
