package transaction

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// GetStatisticsUseCase 月度销售汇总用例
type GetStatisticsUseCase struct {
	saleService sale.Service
	cache       AnalyticsCache
	logger      *zap.Logger
}

// NewGetStatisticsUseCase 创建月度汇总用例
func NewGetStatisticsUseCase(saleService sale.Service, cache AnalyticsCache, logger *zap.Logger) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{
		saleService: saleService,
		cache:       cache,
		logger:      logger,
	}
}

// GetStatisticsRequest 月度汇总请求
type GetStatisticsRequest struct {
	Month int // 必填，1-12
}

// StatisticsResponse 月度汇总响应
type StatisticsResponse struct {
	TotalSaleAmount   float64 `json:"totalSaleAmount"`
	TotalSoldItems    int64   `json:"totalSoldItems"`
	TotalNotSoldItems int64   `json:"totalNotSoldItems"`
}

// Execute 执行月度汇总
// 该月没有记录时返回sale.ErrNoData（不写缓存）
func (uc *GetStatisticsUseCase) Execute(ctx context.Context, req GetStatisticsRequest) (resp *StatisticsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetStatistics")
	defer func() { tracing.End(span, err) }()

	if err := sale.ValidateMonth(req.Month); err != nil {
		return nil, err
	}

	stats, err := cached(ctx, uc.cache, uc.logger, ViewStatistics, req.Month, func(ctx context.Context) (StatisticsResponse, error) {
		summary, err := uc.saleService.Statistics(ctx, req.Month)
		if err != nil {
			return StatisticsResponse{}, err
		}
		return StatisticsResponse{
			TotalSaleAmount:   summary.TotalSaleAmount,
			TotalSoldItems:    summary.TotalSoldItems,
			TotalNotSoldItems: summary.TotalNotSoldItems,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
