// Package router 组装gin引擎：中间件、业务路由、运维路由
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/saledash/docs"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/internal/interface/http/dto"
	"github.com/xiebiao/saledash/internal/interface/http/handler"
	"github.com/xiebiao/saledash/internal/interface/http/middleware"
	"github.com/xiebiao/saledash/pkg/response"
)

// New 创建gin引擎并注册全部路由
//
// 中间件顺序：Recovery → Tracing → Logger → Metrics → CORS
func New(
	cfg *config.Config,
	logger *zap.Logger,
	transactionHandler *handler.TransactionHandler,
	datasetHandler *handler.DatasetHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(cors.New(corsConfig(cfg.CORS)))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, dto.PingResponse{Message: "pong", Status: "healthy"})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Swagger文档只在非release模式开放
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 交易与分析（路径沿用现有前端，/getStatisics拼写不改）
	r.GET("/transactions", transactionHandler.ListTransactions)
	r.GET("/getStatisics", transactionHandler.GetStatistics)
	r.GET("/barChart", transactionHandler.GetBarChart)
	r.GET("/getBarChartData", transactionHandler.GetBarChart)
	r.GET("/getPieChartData", transactionHandler.GetPieChart)
	r.GET("/combinedData", transactionHandler.CombinedData)

	// 数据集导入
	r.GET("/dbInit", authMiddleware.RequireAdmin(), datasetHandler.InitDatabase)

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	c.ExposeHeaders = []string{middleware.HeaderRequestID}

	if len(cfg.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowOrigins
	return c
}
