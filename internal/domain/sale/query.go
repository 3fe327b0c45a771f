package sale

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// 查询计划（Plan）是一组有序的类型化阶段，由仓储实现编译为各自的查询语言：
//
//	Mongo: []bson.D 聚合管道
//	MySQL: WHERE / GROUP BY / ORDER BY / LIMIT
//
// 领域层只决定"做什么"，不关心存储如何执行。

// 分页与搜索的边界
const (
	DefaultPage     = 1
	DefaultPerPage  = 10
	MaxPerPage      = 100
	MaxSearchLength = 100
)

// Stage 查询阶段，只能是本包定义的几种类型
type Stage interface {
	stage()
}

// SearchStage 搜索过滤
// Price非nil时（搜索词是有限数字），匹配 price==*Price 或 标题/描述包含Text；
// 否则只匹配标题/描述（不区分大小写、按字面量）
type SearchStage struct {
	Text  string
	Price *float64
}

// MonthStage 按dateOfSale的月份过滤，与年份无关
type MonthStage struct {
	Month int
}

// PaginateStage 分页
type PaginateStage struct {
	Skip  int64
	Limit int64
}

// GroupKey 分组方式
type GroupKey int

const (
	// GroupSummary 整体汇总：已售数、未售数、已售金额
	GroupSummary GroupKey = iota + 1
	// GroupPriceBucket 按价格区间计数
	GroupPriceBucket
	// GroupCategory 按类目计数
	GroupCategory
)

func (g GroupKey) String() string {
	switch g {
	case GroupSummary:
		return "summary"
	case GroupPriceBucket:
		return "price_bucket"
	case GroupCategory:
		return "category"
	default:
		return "unknown"
	}
}

// GroupStage 分组聚合
type GroupStage struct {
	By GroupKey
}

// SortField 排序字段
type SortField int

const (
	// SortByID 按记录ID排序（列表的稳定顺序）
	SortByID SortField = iota + 1
	// SortByCount 按分组计数排序
	SortByCount
	// SortByKey 按分组键排序
	SortByKey
)

// SortStage 排序，同一计划中可以有多个，靠前的优先
type SortStage struct {
	Field SortField
	Desc  bool
}

func (SearchStage) stage()   {}
func (MonthStage) stage()    {}
func (PaginateStage) stage() {}
func (GroupStage) stage()    {}
func (SortStage) stage()     {}

// Plan 有序的查询阶段
type Plan struct {
	Stages []Stage
}

// Search 返回搜索阶段
func (p Plan) Search() (SearchStage, bool) {
	for _, s := range p.Stages {
		if st, ok := s.(SearchStage); ok {
			return st, true
		}
	}
	return SearchStage{}, false
}

// Month 返回月份阶段
func (p Plan) Month() (MonthStage, bool) {
	for _, s := range p.Stages {
		if st, ok := s.(MonthStage); ok {
			return st, true
		}
	}
	return MonthStage{}, false
}

// Pagination 返回分页阶段
func (p Plan) Pagination() (PaginateStage, bool) {
	for _, s := range p.Stages {
		if st, ok := s.(PaginateStage); ok {
			return st, true
		}
	}
	return PaginateStage{}, false
}

// Group 返回分组阶段
func (p Plan) Group() (GroupStage, bool) {
	for _, s := range p.Stages {
		if st, ok := s.(GroupStage); ok {
			return st, true
		}
	}
	return GroupStage{}, false
}

// Sorts 按出现顺序返回所有排序阶段
func (p Plan) Sorts() []SortStage {
	var sorts []SortStage
	for _, s := range p.Stages {
		if st, ok := s.(SortStage); ok {
			sorts = append(sorts, st)
		}
	}
	return sorts
}

// HasFilters 是否包含搜索或月份过滤
// 没有过滤时仓储可以退化为普通的分页扫描，结果相同
func (p Plan) HasFilters() bool {
	_, search := p.Search()
	_, month := p.Month()
	return search || month
}

// ListQuery 列表查询参数，Month为0表示不过滤
type ListQuery struct {
	Month   int
	Page    int
	PerPage int
	Search  string
}

// Normalize 为未设置的分页参数填默认值，并去掉搜索词首尾空白
func (q ListQuery) Normalize() ListQuery {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Validate 严格校验：非法值直接拒绝，不做修正
func (q ListQuery) Validate() error {
	if q.Month != 0 {
		if err := ValidateMonth(q.Month); err != nil {
			return err
		}
	}
	if q.Page < 1 {
		return ErrInvalidPage
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		return ErrInvalidPerPage
	}
	// (page-1)*perPage 必须能用int64表示，否则skip溢出为负数
	if int64(q.Page-1) > math.MaxInt64/int64(q.PerPage) {
		return ErrPageOutOfRange
	}
	if utf8.RuneCountInString(q.Search) > MaxSearchLength {
		return ErrSearchTooLong
	}
	return nil
}

// ValidateMonth 分析接口的月份校验：0表示缺失
func ValidateMonth(month int) error {
	if month == 0 {
		return ErrMonthRequired
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewSearchStage 根据搜索词构造搜索阶段
// 搜索词能解析为有限浮点数时同时按价格精确匹配
func NewSearchStage(text string) SearchStage {
	text = strings.TrimSpace(text)
	stage := SearchStage{Text: text}
	if price, ok := parsePrice(text); ok {
		stage.Price = &price
	}
	return stage
}

func parsePrice(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// BuildListPlan 列表查询计划：搜索 → 月份 → 按ID排序 → 分页
// 调用方应先Normalize并Validate
func BuildListPlan(q ListQuery) Plan {
	var stages []Stage

	if q.Search != "" {
		stages = append(stages, NewSearchStage(q.Search))
	}
	if q.Month != 0 {
		stages = append(stages, MonthStage{Month: q.Month})
	}

	stages = append(stages,
		SortStage{Field: SortByID},
		PaginateStage{
			Skip:  int64(q.Page-1) * int64(q.PerPage),
			Limit: int64(q.PerPage),
		},
	)

	return Plan{Stages: stages}
}

// BuildSummaryPlan 月度汇总：月份 → 汇总
func BuildSummaryPlan(month int) Plan {
	return Plan{Stages: []Stage{
		MonthStage{Month: month},
		GroupStage{By: GroupSummary},
	}}
}

// BuildHistogramPlan 价格区间分布：月份 → 按区间计数 → 按区间排序
// 最终顺序由FillBuckets决定，这里的排序只让结果稳定
func BuildHistogramPlan(month int) Plan {
	return Plan{Stages: []Stage{
		MonthStage{Month: month},
		GroupStage{By: GroupPriceBucket},
		SortStage{Field: SortByKey},
	}}
}

// BuildCategoryPlan 类目分布：月份 → 按类目计数 → 计数降序，同数按类目名升序
func BuildCategoryPlan(month int) Plan {
	return Plan{Stages: []Stage{
		MonthStage{Month: month},
		GroupStage{By: GroupCategory},
		SortStage{Field: SortByCount, Desc: true},
		SortStage{Field: SortByKey},
	}}
}
