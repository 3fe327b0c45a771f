package transaction

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// GetBarChartUseCase 月度价格区间分布用例
type GetBarChartUseCase struct {
	saleService sale.Service
	cache       AnalyticsCache
	logger      *zap.Logger
}

// NewGetBarChartUseCase 创建价格区间分布用例
func NewGetBarChartUseCase(saleService sale.Service, cache AnalyticsCache, logger *zap.Logger) *GetBarChartUseCase {
	return &GetBarChartUseCase{
		saleService: saleService,
		cache:       cache,
		logger:      logger,
	}
}

// GetBarChartRequest 价格区间分布请求
type GetBarChartRequest struct {
	Month int
}

// BarChartResponse 价格区间分布
// Buckets总是10个，顺序固定，没有记录的区间计数为0
type BarChartResponse struct {
	Buckets []sale.BucketCount
}

// Execute 执行价格区间统计
func (uc *GetBarChartUseCase) Execute(ctx context.Context, req GetBarChartRequest) (resp *BarChartResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBarChart")
	defer func() { tracing.End(span, err) }()

	if err := sale.ValidateMonth(req.Month); err != nil {
		return nil, err
	}

	buckets, err := cached(ctx, uc.cache, uc.logger, ViewBarChart, req.Month, func(ctx context.Context) ([]sale.BucketCount, error) {
		return uc.saleService.PriceHistogram(ctx, req.Month)
	})
	if err != nil {
		return nil, err
	}
	return &BarChartResponse{Buckets: buckets}, nil
}
