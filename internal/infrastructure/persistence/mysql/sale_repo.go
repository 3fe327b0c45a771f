package mysql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/saledash/internal/domain/sale"
	apperrors "github.com/xiebiao/saledash/pkg/errors"
	"github.com/xiebiao/saledash/pkg/metrics"
)

// insertBatchSize 批量插入每批条数
const insertBatchSize = 500

type summaryRow struct {
	TotalSaleAmount   float64
	TotalSoldItems    int64
	TotalNotSoldItems int64
	Matched           int64
}

type keyCountRow struct {
	GroupKey string
	Cnt      int64
}

// saleRepository 销售记录仓储实现(MySQL)
// 与Mongo实现编译同一个sale.Plan，结果保持一致
type saleRepository struct {
	db             *gorm.DB
	timeout        time.Duration
	replaceTimeout time.Duration
}

// NewSaleRepository 创建销售记录仓储
// replaceTimeout只用于ReplaceAll的事务
func NewSaleRepository(db *gorm.DB, timeout, replaceTimeout time.Duration) sale.Repository {
	return &saleRepository{db: db, timeout: timeout, replaceTimeout: replaceTimeout}
}

func (r *saleRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return boundedContext(ctx, r.timeout)
}

func (r *saleRepository) withReplaceTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return boundedContext(ctx, r.replaceTimeout)
}

func boundedContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Find 列表查询
func (r *saleRepository) Find(ctx context.Context, plan sale.Plan) (sales []*sale.Sale, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("list", start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var models []SaleModel
	if err := buildQuery(r.db.WithContext(ctx), plan).Find(&models).Error; err != nil {
		return nil, storeError(err)
	}

	sales = make([]*sale.Sale, 0, len(models))
	for i := range models {
		sales = append(sales, toSaleEntity(&models[i]))
	}
	return sales, nil
}

// CountAll 全部记录数
func (r *saleRepository) CountAll(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("count", start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Model(&SaleModel{}).Count(&n).Error; err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

// Summarize 月度汇总，Matched=0时返回nil
func (r *saleRepository) Summarize(ctx context.Context, plan sale.Plan) (summary *sale.Summary, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("summary", start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var row summaryRow
	if err := buildQuery(r.db.WithContext(ctx), plan).Scan(&row).Error; err != nil {
		return nil, storeError(err)
	}
	if row.Matched == 0 {
		return nil, nil
	}

	return &sale.Summary{
		TotalSaleAmount:   row.TotalSaleAmount,
		TotalSoldItems:    row.TotalSoldItems,
		TotalNotSoldItems: row.TotalNotSoldItems,
	}, nil
}

// CountByKey 价格区间或类目计数
func (r *saleRepository) CountByKey(ctx context.Context, plan sale.Plan) (out []sale.KeyCount, err error) {
	start := time.Now()
	group, _ := plan.Group()
	defer func() { metrics.ObserveStore(group.By.String(), start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []keyCountRow
	if err := buildQuery(r.db.WithContext(ctx), plan).Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}

	out = make([]sale.KeyCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, sale.KeyCount{Key: row.GroupKey, Count: row.Cnt})
	}
	return out, nil
}

// ReplaceAll 在一个事务中清空并批量插入
// InnoDB下其他连接在提交前仍能读到旧数据
func (r *saleRepository) ReplaceAll(ctx context.Context, sales []*sale.Sale) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("replace", start, err) }()

	models := make([]*SaleModel, 0, len(sales))
	for _, s := range sales {
		models = append(models, toSaleModel(s))
	}

	ctx, cancel := r.withReplaceTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SaleModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, insertBatchSize).Error
	})
	if err != nil {
		return 0, storeError(err)
	}
	return int64(len(models)), nil
}

// buildQuery 把计划编译为GORM链式查询
func buildQuery(tx *gorm.DB, plan sale.Plan) *gorm.DB {
	tx = tx.Model(&SaleModel{})
	group, grouped := plan.Group()

	for _, st := range plan.Stages {
		switch s := st.(type) {
		case sale.SearchStage:
			clause, args := searchClause(s)
			tx = tx.Where(clause, args...)
		case sale.MonthStage:
			tx = tx.Where("MONTH(date_of_sale) = ?", s.Month)
		case sale.GroupStage:
			tx = applyGroup(tx, s.By)
		case sale.SortStage:
			tx = tx.Order(orderClause(s, grouped && group.By != sale.GroupSummary))
		case sale.PaginateStage:
			tx = tx.Offset(int(s.Skip)).Limit(int(s.Limit))
		}
	}
	return tx
}

func applyGroup(tx *gorm.DB, by sale.GroupKey) *gorm.DB {
	switch by {
	case sale.GroupSummary:
		return tx.Select(summarySelect)
	case sale.GroupPriceBucket:
		return tx.Select(bucketCaseSQL() + " AS group_key, COUNT(*) AS cnt").Group("group_key")
	case sale.GroupCategory:
		return tx.Select("category AS group_key, COUNT(*) AS cnt").Group("category")
	}
	return tx
}

const summarySelect = "COALESCE(SUM(CASE WHEN sold THEN price ELSE 0 END), 0) AS total_sale_amount, " +
	"COALESCE(SUM(CASE WHEN sold THEN 1 ELSE 0 END), 0) AS total_sold_items, " +
	"COALESCE(SUM(CASE WHEN sold THEN 0 ELSE 1 END), 0) AS total_not_sold_items, " +
	"COUNT(*) AS matched"

// bucketCaseSQL 价格区间CASE表达式，区间与sale.PriceBuckets一致，上界包含
func bucketCaseSQL() string {
	var b strings.Builder
	b.WriteString("CASE")
	buckets := sale.PriceBuckets
	for _, bucket := range buckets[:len(buckets)-1] {
		fmt.Fprintf(&b, " WHEN price <= %s THEN '%s'",
			strconv.FormatFloat(bucket.Upper, 'f', -1, 64), bucket.Label)
	}
	fmt.Fprintf(&b, " ELSE '%s' END", buckets[len(buckets)-1].Label)
	return b.String()
}

// searchClause 标题/描述按字面量子串匹配（不区分大小写），数字搜索额外匹配价格
func searchClause(s sale.SearchStage) (string, []interface{}) {
	pattern := "%" + escapeLike(strings.ToLower(s.Text)) + "%"
	clause := "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?"
	args := []interface{}{pattern, pattern}
	if s.Price != nil {
		clause += " OR price = ?"
		args = append(args, *s.Price)
	}
	return clause + ")", args
}

// escapeLike 转义LIKE通配符，MySQL默认转义符是反斜杠
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderClause(s sale.SortStage, grouped bool) string {
	column := "id"
	switch {
	case grouped && s.Field == sale.SortByCount:
		column = "cnt"
	case grouped:
		column = "group_key"
	}
	if s.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

func toSaleEntity(m *SaleModel) *sale.Sale {
	return &sale.Sale{
		ID:          strconv.FormatUint(uint64(m.ID), 10),
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Image:       m.Image,
		Sold:        m.Sold,
		DateOfSale:  sale.NormalizeDate(m.DateOfSale),
	}
}

func toSaleModel(s *sale.Sale) *SaleModel {
	return &SaleModel{
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		Category:    s.Category,
		Image:       s.Image,
		Sold:        s.Sold,
		DateOfSale:  sale.NormalizeDate(s.DateOfSale),
	}
}

func storeError(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "Server error")
}
