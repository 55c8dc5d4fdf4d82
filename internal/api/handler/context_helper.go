package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kaiki2/scheduler-app/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTokenInfo 从 Gin 上下文中安全提取当前令牌的 jti 与过期时间。
func MustGetTokenInfo(c *gin.Context) (string, time.Time, bool) {
	v, exists := c.Get("token_jti")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", time.Time{}, false
	}
	jti, ok := v.(string)
	if !ok || jti == "" {
		response.Unauthorized(c, "未认证")
		return "", time.Time{}, false
	}

	expiresAt, _ := c.Get("token_expires_at")
	exp, _ := expiresAt.(time.Time)
	return jti, exp, true
}
