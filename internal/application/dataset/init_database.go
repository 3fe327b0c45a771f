// Package dataset 数据集导入用例
package dataset

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/metrics"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// RoutingKeyReloaded 数据集替换完成事件
const RoutingKeyReloaded = "dataset.reloaded"

// Source 数据集来源
type Source interface {
	Fetch(ctx context.Context) ([]*sale.Sale, error)
}

// EventPublisher 事件发布
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, msg interface{}) error
}

// CacheInvalidator 分析缓存失效
type CacheInvalidator interface {
	Flush(ctx context.Context) error
}

// NopPublisher 未启用MQ时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// NopInvalidator 未启用Redis时使用
type NopInvalidator struct{}

func (NopInvalidator) Flush(context.Context) error { return nil }

// ReloadedEvent dataset.reloaded消息体
type ReloadedEvent struct {
	Count      int64     `json:"count"`
	ReloadedAt time.Time `json:"reloadedAt"`
}

// InitDatabaseUseCase 拉取数据集并整体替换存储中的记录
//
// 流程：
//  1. 从数据源拉取（经过熔断器）
//  2. 删除全部旧记录，批量写入新记录
//  3. 清空分析缓存
//  4. 发布dataset.reloaded事件，由warmer预热缓存
//
// 3、4失败只记日志：数据已经替换成功，缓存最迟在TTL后过期
type InitDatabaseUseCase struct {
	source      Source
	saleService sale.Service
	cache       CacheInvalidator
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewInitDatabaseUseCase 创建导入用例
func NewInitDatabaseUseCase(
	source Source,
	saleService sale.Service,
	cache CacheInvalidator,
	publisher EventPublisher,
	logger *zap.Logger,
) *InitDatabaseUseCase {
	return &InitDatabaseUseCase{
		source:      source,
		saleService: saleService,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
	}
}

// InitDatabaseResponse 导入结果
type InitDatabaseResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// Execute 执行导入
func (uc *InitDatabaseUseCase) Execute(ctx context.Context) (resp *InitDatabaseResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "saledash/dataset", "InitDatabase")
	defer func() {
		metrics.ObserveIngestion(countOf(resp), err)
		tracing.End(span, err)
	}()

	sales, err := uc.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	count, err := uc.saleService.ReplaceAll(ctx, sales)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("数据集导入完成", zap.Int64("count", count))

	if err := uc.cache.Flush(ctx); err != nil {
		uc.logger.Warn("清空分析缓存失败", zap.Error(err))
	}

	event := ReloadedEvent{Count: count, ReloadedAt: time.Now().UTC()}
	if err := uc.publisher.Publish(ctx, RoutingKeyReloaded, event); err != nil {
		uc.logger.Warn("发布dataset.reloaded失败", zap.Error(err))
	}

	return &InitDatabaseResponse{
		Message: "Database initialized successfully!",
		Count:   count,
	}, nil
}

func countOf(resp *InitDatabaseResponse) int64 {
	if resp == nil {
		return 0
	}
	return resp.Count
}
