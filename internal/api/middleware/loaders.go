package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-graphql/internal/loader"
)

// Loaders 为每个请求创建一组新的 loader，并放进 request context
func Loaders(reg *loader.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := loader.NewContext(c.Request.Context(), reg.New())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
