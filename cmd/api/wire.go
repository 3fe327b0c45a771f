//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：
//
//	*gin.Engine ← Handler ← UseCase ← sale.Service ← sale.Repository ← (mongo | mysql)
//	                         UseCase ← AnalyticsCache ← redis（可选）
//	                         InitDatabaseUseCase ← source.Client / EventPublisher ← rabbitmq（可选）

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appdataset "github.com/xiebiao/saledash/internal/application/dataset"
	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/internal/infrastructure/bootstrap"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/internal/infrastructure/source"
	"github.com/xiebiao/saledash/internal/interface/http/handler"
	"github.com/xiebiao/saledash/internal/interface/http/router"
)

// infrastructureSet 存储、缓存、消息队列、数据源
var infrastructureSet = wire.NewSet(
	bootstrap.OpenSaleRepository,
	bootstrap.OpenAnalyticsCache,
	bootstrap.AnalyticsCache,
	bootstrap.CacheInvalidator,
	bootstrap.OpenPublisher,
	source.NewClient,
	wire.Bind(new(appdataset.Source), new(*source.Client)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	sale.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	apptransaction.NewListTransactionsUseCase,
	apptransaction.NewGetStatisticsUseCase,
	apptransaction.NewGetBarChartUseCase,
	apptransaction.NewGetPieChartUseCase,
	apptransaction.NewCombinedDataUseCase,
	appdataset.NewInitDatabaseUseCase,
)

// interfaceSet HTTP处理器、中间件、路由
var interfaceSet = wire.NewSet(
	handler.NewTransactionHandler,
	handler.NewDatasetHandler,
	provideJWTManager,
	provideAuthMiddleware,
	router.New,
)

// InitializeApp 组装gin引擎
// cleanup按创建的逆序关闭存储、Redis和MQ连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
