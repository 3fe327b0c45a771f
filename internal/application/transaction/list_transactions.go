// Package transaction 交易列表与月度分析用例
package transaction

import (
	"context"

	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/pkg/tracing"
)

// ListTransactionsUseCase 交易列表查询用例
// 支持按月份过滤、关键词/价格搜索、分页
type ListTransactionsUseCase struct {
	saleService sale.Service
}

// NewListTransactionsUseCase 创建列表查询用例
func NewListTransactionsUseCase(saleService sale.Service) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		saleService: saleService,
	}
}

// ListTransactionsRequest 列表查询请求
type ListTransactionsRequest struct {
	Month   int    // 0表示不过滤
	Page    int    // 0表示默认值1
	PerPage int    // 0表示默认值10
	Search  string // 标题/描述关键词，或精确价格
}

// TransactionItem 列表项
type TransactionItem struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Sold        bool    `json:"sold"`
	DateOfSale  string  `json:"dateOfSale"` // YYYY-MM-DD
}

// ListTransactionsResponse 列表查询响应
// TotalCount是全部记录数，前端用它计算总页数
type ListTransactionsResponse struct {
	TotalCount   int64             `json:"totalCount"`
	Page         int               `json:"page"`
	PerPage      int               `json:"perPage"`
	Transactions []TransactionItem `json:"transactions"`
}

// Execute 执行列表查询
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, req ListTransactionsRequest) (resp *ListTransactionsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListTransactions")
	defer func() { tracing.End(span, err) }()

	// 1. 默认值（校验在领域服务中进行）
	q := sale.ListQuery{
		Month:   req.Month,
		Page:    req.Page,
		PerPage: req.PerPage,
		Search:  req.Search,
	}.Normalize()

	// 2. 查询
	sales, total, err := uc.saleService.List(ctx, q)
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	return &ListTransactionsResponse{
		TotalCount:   total,
		Page:         q.Page,
		PerPage:      q.PerPage,
		Transactions: toTransactionItems(sales),
	}, nil
}

func toTransactionItems(sales []*sale.Sale) []TransactionItem {
	items := make([]TransactionItem, len(sales))
	for i, s := range sales {
		items[i] = TransactionItem{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Price:       s.Price,
			Category:    s.Category,
			Image:       s.Image,
			Sold:        s.Sold,
			DateOfSale:  s.FormatDate(),
		}
	}
	return items
}
