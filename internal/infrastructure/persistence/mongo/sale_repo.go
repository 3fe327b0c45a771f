package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/saledash/internal/domain/sale"
	apperrors "github.com/xiebiao/saledash/pkg/errors"
	"github.com/xiebiao/saledash/pkg/metrics"
)

// saleDocument 集合中的文档结构
type saleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Sold        bool               `bson:"sold"`
	DateOfSale  time.Time          `bson:"dateOfSale"`
}

type summaryRow struct {
	TotalSaleAmount   float64 `bson:"totalSaleAmount"`
	TotalSoldItems    int64   `bson:"totalSoldItems"`
	TotalNotSoldItems int64   `bson:"totalNotSoldItems"`
}

type keyCountRow struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

// saleRepository 销售记录仓储实现(MongoDB)
type saleRepository struct {
	coll           *mongo.Collection
	search         SearchOptions
	timeout        time.Duration
	replaceTimeout time.Duration
}

// NewSaleRepository 创建销售记录仓储
// timeout限制每次查询的耗时，replaceTimeout限制ReplaceAll；<=0表示只依赖调用方的ctx
func NewSaleRepository(coll *mongo.Collection, search SearchOptions, timeout, replaceTimeout time.Duration) sale.Repository {
	return &saleRepository{
		coll:           coll,
		search:         search,
		timeout:        timeout,
		replaceTimeout: replaceTimeout,
	}
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

// Find 没有过滤条件时退化为普通find分页，结果与聚合一致
func (r *saleRepository) Find(ctx context.Context, plan sale.Plan) (sales []*sale.Sale, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("list", start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var cursor *mongo.Cursor
	if plan.HasFilters() {
		cursor, err = r.coll.Aggregate(ctx, compile(plan, r.search))
	} else {
		cursor, err = r.coll.Find(ctx, bson.D{}, findOptions(plan))
	}
	if err != nil {
		return nil, storeError(err)
	}

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError(err)
	}

	sales = make([]*sale.Sale, 0, len(docs))
	for i := range docs {
		sales = append(sales, toSaleEntity(&docs[i]))
	}
	return sales, nil
}

func findOptions(plan sale.Plan) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if page, ok := plan.Pagination(); ok {
		opts.SetSkip(page.Skip).SetLimit(page.Limit)
	}
	return opts
}

// CountAll 全部记录数
func (r *saleRepository) CountAll(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("count", start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err = r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

// Summarize 没有匹配记录时管道不产出任何行，返回nil
func (r *saleRepository) Summarize(ctx context.Context, plan sale.Plan) (summary *sale.Summary, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("summary", start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, compile(plan, r.search))
	if err != nil {
		return nil, storeError(err)
	}

	var rows []summaryRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &sale.Summary{
		TotalSaleAmount:   rows[0].TotalSaleAmount,
		TotalSoldItems:    rows[0].TotalSoldItems,
		TotalNotSoldItems: rows[0].TotalNotSoldItems,
	}, nil
}

// CountByKey 价格区间或类目计数
func (r *saleRepository) CountByKey(ctx context.Context, plan sale.Plan) (out []sale.KeyCount, err error) {
	start := time.Now()
	group, _ := plan.Group()
	defer func() { metrics.ObserveStore(group.By.String(), start, err) }()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, compile(plan, r.search))
	if err != nil {
		return nil, storeError(err)
	}

	var rows []keyCountRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, storeError(err)
	}

	out = make([]sale.KeyCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, sale.KeyCount{Key: row.Key, Count: row.Count})
	}
	return out, nil
}

// ReplaceAll 先清空再批量插入
// 两步之间的读请求会看到空集合或部分数据
func (r *saleRepository) ReplaceAll(ctx context.Context, sales []*sale.Sale) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("replace", start, err) }()

	ctx, cancel := r.withReplaceTimeout(ctx)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, storeError(err)
	}
	if len(sales) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(sales))
	for _, s := range sales {
		docs = append(docs, toSaleDocument(s))
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, storeError(err)
	}
	return int64(len(res.InsertedIDs)), nil
}

func toSaleEntity(d *saleDocument) *sale.Sale {
	return &sale.Sale{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
		Sold:        d.Sold,
		DateOfSale:  sale.NormalizeDate(d.DateOfSale),
	}
}

func toSaleDocument(s *sale.Sale) saleDocument {
	doc := saleDocument{
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		Category:    s.Category,
		Image:       s.Image,
		Sold:        s.Sold,
		DateOfSale:  sale.NormalizeDate(s.DateOfSale),
	}
	if id, err := primitive.ObjectIDFromHex(s.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func storeError(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "Server error")
}
