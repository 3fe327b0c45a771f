package transaction

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// WarmCacheUseCase 数据集替换后预先计算12个月的三个分析视图
// 各视图用例在未命中时会回填缓存，这里只需要逐月调用一次
type WarmCacheUseCase struct {
	statistics *GetStatisticsUseCase
	barChart   *GetBarChartUseCase
	pieChart   *GetPieChartUseCase
	logger     *zap.Logger
}

// NewWarmCacheUseCase 创建缓存预热用例
func NewWarmCacheUseCase(
	statistics *GetStatisticsUseCase,
	barChart *GetBarChartUseCase,
	pieChart *GetPieChartUseCase,
	logger *zap.Logger,
) *WarmCacheUseCase {
	return &WarmCacheUseCase{
		statistics: statistics,
		barChart:   barChart,
		pieChart:   pieChart,
		logger:     logger,
	}
}

// WarmCacheResponse 预热结果
type WarmCacheResponse struct {
	Warmed int // 成功计算的(视图, 月份)数
	Empty  int // 没有数据的月份数
}

// Execute 逐月预热，遇到存储错误立即返回（消息会被重新投递）
func (uc *WarmCacheUseCase) Execute(ctx context.Context) (resp *WarmCacheResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "WarmCache")
	defer func() { tracing.End(span, err) }()

	resp = &WarmCacheResponse{}
	for month := 1; month <= 12; month++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 没有数据的月份不缓存汇总，但区间和类目视图仍然有结果（全0/空）
		if _, err := uc.statistics.Execute(ctx, GetStatisticsRequest{Month: month}); err != nil {
			if !errors.Is(err, sale.ErrNoData) {
				return nil, err
			}
			resp.Empty++
		} else {
			resp.Warmed++
		}

		if _, err := uc.barChart.Execute(ctx, GetBarChartRequest{Month: month}); err != nil {
			return nil, err
		}
		resp.Warmed++

		if _, err := uc.pieChart.Execute(ctx, GetPieChartRequest{Month: month}); err != nil {
			return nil, err
		}
		resp.Warmed++
	}

	uc.logger.Info("分析缓存预热完成", zap.Int("warmed", resp.Warmed), zap.Int("empty_months", resp.Empty))
	return resp, nil
}
