package transaction

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// GetPieChartUseCase 月度类目分布用例
type GetPieChartUseCase struct {
	saleService sale.Service
	cache       AnalyticsCache
	logger      *zap.Logger
}

// NewGetPieChartUseCase 创建类目分布用例
func NewGetPieChartUseCase(saleService sale.Service, cache AnalyticsCache, logger *zap.Logger) *GetPieChartUseCase {
	return &GetPieChartUseCase{
		saleService: saleService,
		cache:       cache,
		logger:      logger,
	}
}

// GetPieChartRequest 类目分布请求
type GetPieChartRequest struct {
	Month int
}

// CategoryCount 类目计数
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// PieChartResponse 类目分布，计数降序，同数按类目名升序
type PieChartResponse struct {
	Categories []CategoryCount `json:"categories"`
}

// Execute 执行类目统计
func (uc *GetPieChartUseCase) Execute(ctx context.Context, req GetPieChartRequest) (resp *PieChartResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetPieChart")
	defer func() { tracing.End(span, err) }()

	if err := sale.ValidateMonth(req.Month); err != nil {
		return nil, err
	}

	categories, err := cached(ctx, uc.cache, uc.logger, ViewPieChart, req.Month, func(ctx context.Context) ([]CategoryCount, error) {
		rows, err := uc.saleService.CategoryBreakdown(ctx, req.Month)
		if err != nil {
			return nil, err
		}
		out := make([]CategoryCount, len(rows))
		for i, r := range rows {
			out[i] = CategoryCount{Category: r.Key, Count: r.Count}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return &PieChartResponse{Categories: categories}, nil
}
