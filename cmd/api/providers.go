package main

import (
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/internal/interface/http/middleware"
	"github.com/xiebiao/saledash/pkg/jwt"
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
}

// provideAuthMiddleware auth.enabled=false时/dbInit不校验令牌
func provideAuthMiddleware(cfg *config.Config, manager *jwt.Manager) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(manager, cfg.Auth.Enabled)
}
