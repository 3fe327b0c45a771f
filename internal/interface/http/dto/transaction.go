package dto

import (
	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/domain/sale"
)

// ListTransactionsQuery GET /transactions 查询参数
// 数值参数用指针区分"未传"和"传了0"：未传用默认值，传了非法值返回400
type ListTransactionsQuery struct {
	Month   *int   `form:"month" binding:"omitempty,min=1,max=12" example:"3"`
	Page    *int   `form:"page" binding:"omitempty,min=1" example:"1"`
	PerPage *int   `form:"perPage" binding:"omitempty,min=1,max=100" example:"10"`
	Search  string `form:"search" binding:"max=100" example:"backpack"`
}

// ToRequest 转换为用例请求
func (q ListTransactionsQuery) ToRequest() apptransaction.ListTransactionsRequest {
	return apptransaction.ListTransactionsRequest{
		Month:   intValue(q.Month),
		Page:    intValue(q.Page),
		PerPage: intValue(q.PerPage),
		Search:  q.Search,
	}
}

// ToCombinedRequest 转换为组合查询请求
func (q ListTransactionsQuery) ToCombinedRequest() apptransaction.CombinedDataRequest {
	return apptransaction.CombinedDataRequest{
		Month:   intValue(q.Month),
		Page:    intValue(q.Page),
		PerPage: intValue(q.PerPage),
		Search:  q.Search,
	}
}

// MonthQuery 分析接口的查询参数
// month必填，缺失时由用例返回"Month is required"
type MonthQuery struct {
	Month *int `form:"month" binding:"omitempty,min=1,max=12" example:"11"`
}

// Value 未传时为0
func (q MonthQuery) Value() int {
	return intValue(q.Month)
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// 以下类型只用于Swagger文档

// BarChartItem 价格区间计数
type BarChartItem = sale.BucketCount

// PingResponse 健康检查响应
type PingResponse struct {
	Message string `json:"message" example:"pong"`
	Status  string `json:"status" example:"healthy"`
}
