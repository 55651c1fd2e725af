package middleware

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-graphql/pkg/response"
)

// Recovery 捕获 panic 并返回 500；需放在 Sentry 之前，Sentry 上报后会重新抛出
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				response.InternalError(c, fmt.Errorf("panic: %v", r))
			}
		}()
		c.Next()
	}
}

// Sentry 上报 panic，未初始化 Sentry 时不上报
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// SentryHub 把 sentrygin 创建的 Hub 挂到 request context
func SentryHub() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag(KeyRequestID, c.GetString(KeyRequestID))
			c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))
		}
		c.Next()
	}
}
