// warmer 订阅dataset.reloaded事件，为12个月预先计算分析视图并写入Redis
//
// 需要 redis.enabled=true 和 mq.enabled=true；-once 只预热一次后退出
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appdataset "github.com/xiebiao/saledash/internal/application/dataset"
	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/internal/infrastructure/bootstrap"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/pkg/metrics"
)

func main() {
	once := flag.Bool("once", false, "预热一次后退出，不订阅事件")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger, syncLogger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer syncLogger()
	logger = logger.Named("warmer")

	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	// 1. 存储与缓存
	repo, closeRepo, err := bootstrap.OpenSaleRepository(cfg, logger)
	if err != nil {
		logger.Fatal("打开存储失败", zap.Error(err))
	}
	defer closeRepo()

	cache, closeCache, err := bootstrap.OpenAnalyticsCache(cfg, logger)
	if err != nil {
		logger.Fatal("打开Redis失败", zap.Error(err))
	}
	defer closeCache()
	if cache == nil {
		logger.Fatal("warmer需要redis.enabled=true")
	}

	// 2. 用例
	svc := sale.NewService(repo)
	analytics := bootstrap.AnalyticsCache(cache)
	warmer := apptransaction.NewWarmCacheUseCase(
		apptransaction.NewGetStatisticsUseCase(svc, analytics, logger),
		apptransaction.NewGetBarChartUseCase(svc, analytics, logger),
		apptransaction.NewGetPieChartUseCase(svc, analytics, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if _, err := warmer.Execute(ctx); err != nil {
			logger.Fatal("预热失败", zap.Error(err))
		}
		return
	}

	// 3. 订阅事件
	if !cfg.MQ.Enabled {
		logger.Fatal("warmer需要mq.enabled=true，或使用-once")
	}
	consumer, closeConsumer, err := bootstrap.OpenConsumer(cfg, logger)
	if err != nil {
		logger.Fatal("连接RabbitMQ失败", zap.Error(err))
	}
	defer closeConsumer()

	err = consumer.Consume(ctx, func(ctx context.Context, body []byte) error {
		var event appdataset.ReloadedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			// 格式错误的消息重试也不会成功，直接确认
			logger.Warn("忽略无法解析的消息", zap.ByteString("body", body), zap.Error(err))
			return nil
		}
		logger.Info("收到dataset.reloaded", zap.Int64("count", event.Count), zap.Time("reloaded_at", event.ReloadedAt))

		_, err := warmer.Execute(ctx)
		return err
	})
	if err != nil {
		logger.Error("消费中断", zap.Error(err))
	}
}
