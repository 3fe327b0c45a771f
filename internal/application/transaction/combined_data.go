package transaction

import (
	"context"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// CombinedDataUseCase 一次返回列表和三个分析视图
// 依次调用其他用例，任一失败即返回该错误
type CombinedDataUseCase struct {
	list       *ListTransactionsUseCase
	statistics *GetStatisticsUseCase
	barChart   *GetBarChartUseCase
	pieChart   *GetPieChartUseCase
}

// NewCombinedDataUseCase 创建组合查询用例
func NewCombinedDataUseCase(
	list *ListTransactionsUseCase,
	statistics *GetStatisticsUseCase,
	barChart *GetBarChartUseCase,
	pieChart *GetPieChartUseCase,
) *CombinedDataUseCase {
	return &CombinedDataUseCase{
		list:       list,
		statistics: statistics,
		barChart:   barChart,
		pieChart:   pieChart,
	}
}

// CombinedDataRequest 组合查询请求，Month必填
type CombinedDataRequest struct {
	Month   int
	Page    int
	PerPage int
	Search  string
}

// CombinedDataResponse 组合查询响应
type CombinedDataResponse struct {
	Transactions *ListTransactionsResponse `json:"transactions"`
	Statistics   *StatisticsResponse       `json:"statistics"`
	BarData      []sale.BucketCount        `json:"barData"`
	PieData      *PieChartResponse         `json:"pieData"`
}

// Execute 执行组合查询
func (uc *CombinedDataUseCase) Execute(ctx context.Context, req CombinedDataRequest) (resp *CombinedDataResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CombinedData")
	defer func() { tracing.End(span, err) }()

	// 列表允许不带月份，这里先统一校验，避免列表查询白跑一次
	if err := sale.ValidateMonth(req.Month); err != nil {
		return nil, err
	}

	transactions, err := uc.list.Execute(ctx, ListTransactionsRequest{
		Month:   req.Month,
		Page:    req.Page,
		PerPage: req.PerPage,
		Search:  req.Search,
	})
	if err != nil {
		return nil, err
	}

	statistics, err := uc.statistics.Execute(ctx, GetStatisticsRequest{Month: req.Month})
	if err != nil {
		return nil, err
	}

	bar, err := uc.barChart.Execute(ctx, GetBarChartRequest{Month: req.Month})
	if err != nil {
		return nil, err
	}

	pie, err := uc.pieChart.Execute(ctx, GetPieChartRequest{Month: req.Month})
	if err != nil {
		return nil, err
	}

	return &CombinedDataResponse{
		Transactions: transactions,
		Statistics:   statistics,
		BarData:      bar.Buckets,
		PieData:      pie,
	}, nil
}
