package sale

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service 销售领域服务
// 负责参数规则校验和计划构造，计算全部交给存储
type Service interface {
	// List 分页列表
	// total是全部记录数，不是匹配数（与现有前端的分页约定保持一致）
	List(ctx context.Context, q ListQuery) (sales []*Sale, total int64, err error)

	// Statistics 月度汇总，没有记录时返回ErrNoData
	Statistics(ctx context.Context, month int) (*Summary, error)

	// PriceHistogram 月度价格区间分布，总是10个区间
	PriceHistogram(ctx context.Context, month int) ([]BucketCount, error)

	// CategoryBreakdown 月度类目分布，计数降序、同数按名称升序
	CategoryBreakdown(ctx context.Context, month int) ([]KeyCount, error)

	// ReplaceAll 整体替换数据集
	ReplaceAll(ctx context.Context, sales []*Sale) (int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建销售领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, q ListQuery) ([]*Sale, int64, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	sales, err := s.repo.Find(ctx, BuildListPlan(q))
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (s *service) Statistics(ctx context.Context, month int) (*Summary, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}

	summary, err := s.repo.Summarize(ctx, BuildSummaryPlan(month))
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrNoData
	}

	// 浮点求和会出现 300.00000000000006 这类尾数
	summary.TotalSaleAmount = decimal.NewFromFloat(summary.TotalSaleAmount).Round(2).InexactFloat64()
	return summary, nil
}

func (s *service) PriceHistogram(ctx context.Context, month int) ([]BucketCount, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}

	rows, err := s.repo.CountByKey(ctx, BuildHistogramPlan(month))
	if err != nil {
		return nil, err
	}
	return FillBuckets(rows), nil
}

func (s *service) CategoryBreakdown(ctx context.Context, month int) ([]KeyCount, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}

	rows, err := s.repo.CountByKey(ctx, BuildCategoryPlan(month))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []KeyCount{}
	}
	return rows, nil
}

func (s *service) ReplaceAll(ctx context.Context, sales []*Sale) (int64, error) {
	return s.repo.ReplaceAll(ctx, sales)
}
