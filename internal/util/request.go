package util

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie checked when no Authorization header is sent.
const TokenCookie = "pl_token"

// TokenFromRequest 依次从 Header、查询参数 ?token=、Cookie 中取 token
func TokenFromRequest(c *gin.Context) string {
	// 1) Authorization: Bearer xxx
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2) ?token=xxx，用于下载等无法自定义 Header 的场景
	if token := c.Query("token"); token != "" {
		return token
	}

	// 3) Cookie
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
