package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/saledash/pkg/errors"
	"github.com/xiebiao/saledash/pkg/jwt"
	"github.com/xiebiao/saledash/pkg/response"
)

// AuthMiddleware 管理员令牌校验
// 只保护会清空数据的接口（/dbInit），查询接口保持公开
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	enabled    bool
}

// NewAuthMiddleware 创建认证中间件，enabled=false时所有请求直接放行
func NewAuthMiddleware(jwtManager *jwt.Manager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		enabled:    enabled,
	}
}

// RequireAdmin 要求管理员令牌
// 格式：Authorization: Bearer <token>
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		// 1. 提取Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		// 2. 校验签名与有效期
		claims, err := m.jwtManager.ParseToken(parts[1])
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 3. 校验角色
		if !claims.IsAdmin() {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// ContextKeySubject 令牌subject在gin.Context中的键
const ContextKeySubject = "subject"
