package sale

import (
	apperrors "github.com/xiebiao/saledash/pkg/errors"
)

// 销售领域错误定义
var (
	// ErrMonthRequired 分析接口缺少month参数
	ErrMonthRequired = apperrors.New(apperrors.ErrCodeMissingParam, "Month is required")

	// ErrInvalidMonth month不在1-12之间
	ErrInvalidMonth = apperrors.New(apperrors.ErrCodeInvalidParams, "Month must be between 1 and 12")

	// ErrInvalidPage 页码必须>=1
	ErrInvalidPage = apperrors.New(apperrors.ErrCodeInvalidParams, "page must be a positive integer")

	// ErrPageOutOfRange 页码过大，跳过的记录数溢出
	ErrPageOutOfRange = apperrors.New(apperrors.ErrCodeInvalidParams, "page is too large")

	// ErrInvalidPerPage 每页数量超出范围
	ErrInvalidPerPage = apperrors.New(apperrors.ErrCodeInvalidParams, "perPage must be between 1 and 100")

	// ErrSearchTooLong 搜索词过长
	ErrSearchTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "search must be at most 100 characters")

	// ErrNoData 该月没有任何记录
	ErrNoData = apperrors.New(apperrors.ErrCodeNoData, "No data found for the selected month")

	// ErrInvalidSourcePayload 数据源返回的不是记录数组
	ErrInvalidSourcePayload = apperrors.New(apperrors.ErrCodeInvalidSourcePayload, "Invalid data format from API")
)
