// admintoken 离线签发管理员令牌，用于auth.enabled=true时调用/dbInit
//
//	go run ./cmd/admintoken -subject ops -expire 2h
//	curl -H "Authorization: Bearer $(go run ./cmd/admintoken)" localhost:8888/dbInit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/pkg/jwt"
)

func main() {
	subject := flag.String("subject", "admin", "令牌subject")
	role := flag.String("role", jwt.RoleAdmin, "令牌角色")
	expire := flag.Duration("expire", 0, "有效期，0表示使用jwt.expire")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	ttl := cfg.JWT.Expire
	if *expire > 0 {
		ttl = *expire
	}

	token, err := jwt.NewManager(cfg.JWT.Secret, ttl).GenerateToken(*subject, *role)
	if err != nil {
		log.Fatalf("签发令牌失败: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}
