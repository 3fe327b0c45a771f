package transaction

import (
	"context"

	"go.uber.org/zap"
)

// 缓存视图名，同时作为Redis键的一部分和指标标签
const (
	ViewStatistics = "statistics"
	ViewBarChart   = "bar_chart"
	ViewPieChart   = "pie_chart"
)

const tracerName = "saledash/transaction"

// AnalyticsCache 按(视图, 月份)缓存分析结果
// Get返回读取时的数据集版本号，未命中回填时原样传给Set；导入后Flush会作废旧版本
// 由redis.AnalyticsCache实现；未启用Redis时注入NopCache
type AnalyticsCache interface {
	Get(ctx context.Context, view string, month int, dst interface{}) (gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, view string, month int, value interface{}) error
}

// NopCache 不缓存任何内容
type NopCache struct{}

func (NopCache) Get(context.Context, string, int, interface{}) (int64, bool, error) {
	return 0, false, nil
}

func (NopCache) Set(context.Context, int64, string, int, interface{}) error { return nil }

// cached 先查缓存，未命中时调用load并按读取时的版本回填
// 读缓存失败只记日志并回源；此时不知道版本号，不回填
func cached[T any](ctx context.Context, cache AnalyticsCache, logger *zap.Logger, view string, month int, load func(context.Context) (T, error)) (T, error) {
	var value T
	gen, hit, err := cache.Get(ctx, view, month, &value)
	if err != nil {
		logger.Warn("读取分析缓存失败", zap.String("view", view), zap.Int("month", month), zap.Error(err))
	}
	if hit {
		return value, nil
	}
	readOK := err == nil

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	if !readOK {
		return value, nil
	}
	if err := cache.Set(ctx, gen, view, month, value); err != nil {
		logger.Warn("写入分析缓存失败", zap.String("view", view), zap.Int("month", month), zap.Error(err))
	}
	return value, nil
}
