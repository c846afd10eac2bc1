package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware 内部接口认证中间件
// 未配置 INTERNAL_AUTH_TOKEN 时内部接口一律拒绝
func InternalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("INTERNAL_AUTH_TOKEN")
		authToken := c.GetHeader("X-Internal-Auth")

		if expected == "" || authToken != expected {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
			})
			return
		}

		c.Next()
	}
}
