package sale

import (
	"context"
)

// Repository 销售记录仓储接口
// 每个方法对应存储的一次往返，Plan由领域层构造、由实现编译
type Repository interface {
	// Find 执行列表计划（搜索/月份/排序/分页）
	Find(ctx context.Context, plan Plan) ([]*Sale, error)

	// CountAll 全部记录数（不受任何过滤影响）
	CountAll(ctx context.Context) (int64, error)

	// Summarize 执行汇总计划，没有匹配记录时返回(nil, nil)
	Summarize(ctx context.Context, plan Plan) (*Summary, error)

	// CountByKey 执行按区间或类目分组的计划，按计划中的排序返回
	CountByKey(ctx context.Context, plan Plan) ([]KeyCount, error)

	// ReplaceAll 删除全部记录后批量插入，返回插入条数
	ReplaceAll(ctx context.Context, sales []*Sale) (int64, error)
}
