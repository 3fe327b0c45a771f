// Package bootstrap 按配置打开外部依赖（存储、缓存、消息队列），供cmd下的各进程复用
//
// 每个Open函数都返回cleanup，调用方在退出时执行
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appdataset "github.com/xiebiao/saledash/internal/application/dataset"
	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
	"github.com/xiebiao/saledash/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/saledash/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/saledash/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/saledash/pkg/logger"
	"github.com/xiebiao/saledash/pkg/mq"
)

// ExchangeType 事件交换机类型
const ExchangeType = "topic"

// NewLogger 按配置创建日志实例，并替换zap全局logger
func NewLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.EnableCaller)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(l)
	return l, func() {
		undo()
		_ = l.Sync()
	}, nil
}

// OpenSaleRepository 按store.driver打开销售记录仓储
func OpenSaleRepository(cfg *config.Config, log *zap.Logger) (sale.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMySQL:
		db, err := mysql.NewDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return mysql.NewSaleRepository(db, cfg.Store.QueryTimeout, cfg.Store.ReplaceTimeout), cleanup, nil

	case config.DriverMongo, "":
		client, err := mongo.NewClient(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			_ = client.Disconnect(context.Background())
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
		defer cancel()
		coll, err := mongo.NewCollection(ctx, client, cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		search := mongo.SearchOptions{
			Atlas:      cfg.Search.Mode == config.SearchModeAtlas,
			AtlasIndex: cfg.Search.AtlasIndex,
		}
		return mongo.NewSaleRepository(coll, search, cfg.Store.QueryTimeout, cfg.Store.ReplaceTimeout), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Store.Driver)
	}
}

// OpenAnalyticsCache 打开Redis分析缓存，redis.enabled=false时返回nil
func OpenAnalyticsCache(cfg *config.Config, log *zap.Logger) (*redis.AnalyticsCache, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("分析缓存未启用")
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewAnalyticsCache(client, cfg.Redis.TTL), func() { _ = client.Close() }, nil
}

// AnalyticsCache 未启用缓存时退化为NopCache
// 不能直接把nil的*redis.AnalyticsCache赋给接口，否则接口不为nil
func AnalyticsCache(c *redis.AnalyticsCache) apptransaction.AnalyticsCache {
	if c == nil {
		return apptransaction.NopCache{}
	}
	return c
}

// CacheInvalidator 未启用缓存时退化为NopInvalidator
func CacheInvalidator(c *redis.AnalyticsCache) appdataset.CacheInvalidator {
	if c == nil {
		return appdataset.NopInvalidator{}
	}
	return c
}

// OpenPublisher 打开事件发布者，mq.enabled=false时返回NopPublisher
func OpenPublisher(cfg *config.Config, log *zap.Logger) (appdataset.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return appdataset.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

// OpenConsumer 打开warmer使用的消费者，订阅dataset.reloaded
func OpenConsumer(cfg *config.Config, log *zap.Logger) (*mq.Consumer, func(), error) {
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, ExchangeType, cfg.MQ.WarmerQueue,
		[]string{appdataset.RoutingKeyReloaded}, log)
	if err != nil {
		return nil, nil, err
	}
	return consumer, func() { _ = consumer.Close() }, nil
}
