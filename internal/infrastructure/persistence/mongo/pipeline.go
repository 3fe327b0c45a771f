package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/xiebiao/saledash/internal/domain/sale"
)

// 把sale.Plan编译为聚合管道
//
// 列表:  [$match 搜索] [$match 月份] $sort{_id} $skip $limit
// 汇总:  $match 月份 → $group{_id:null, 三个$cond累加}
// 区间:  $match 月份 → $project{$switch} → $group{_id:区间} → $sort
// 类目:  $match 月份 → $group{_id:类目} → $sort{count:-1,_id:1}

// SearchOptions 搜索编译选项
type SearchOptions struct {
	// Atlas 为true时数字搜索编译为Atlas $search（需要在集群上建好索引）
	Atlas      bool
	AtlasIndex string
}

// compile 按计划阶段顺序生成管道，相邻的排序阶段合并为一个$sort
func compile(plan sale.Plan, opts SearchOptions) []bson.D {
	var (
		pipeline []bson.D
		sortDoc  bson.D
	)

	flushSort := func() {
		if len(sortDoc) > 0 {
			pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortDoc}})
			sortDoc = nil
		}
	}

	group, _ := plan.Group()

	for _, st := range plan.Stages {
		if s, ok := st.(sale.SortStage); ok {
			sortDoc = append(sortDoc, sortField(s, group.By))
			continue
		}
		flushSort()

		switch s := st.(type) {
		case sale.SearchStage:
			pipeline = append(pipeline, searchStage(s, opts))
		case sale.MonthStage:
			pipeline = append(pipeline, monthStage(s.Month))
		case sale.GroupStage:
			pipeline = append(pipeline, groupStages(s.By)...)
		case sale.PaginateStage:
			pipeline = append(pipeline,
				bson.D{{Key: "$skip", Value: s.Skip}},
				bson.D{{Key: "$limit", Value: s.Limit}},
			)
		}
	}
	flushSort()

	return pipeline
}

func searchStage(s sale.SearchStage, opts SearchOptions) bson.D {
	if opts.Atlas && s.Price != nil {
		return bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: opts.AtlasIndex},
			{Key: "compound", Value: bson.D{
				{Key: "should", Value: bson.A{
					bson.D{{Key: "text", Value: bson.D{
						{Key: "query", Value: s.Text},
						{Key: "path", Value: bson.A{"title", "description"}},
					}}},
					bson.D{{Key: "equals", Value: bson.D{
						{Key: "path", Value: "price"},
						{Key: "value", Value: *s.Price},
					}}},
				}},
			}},
		}}}
	}

	return bson.D{{Key: "$match", Value: searchFilter(s)}}
}

// searchFilter 搜索条件，也用于find
// 搜索词按字面量匹配，正则元字符会被转义
func searchFilter(s sale.SearchStage) bson.D {
	pattern := regexp.QuoteMeta(s.Text)
	or := bson.A{
		bson.D{{Key: "title", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
		bson.D{{Key: "description", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
	}
	if s.Price != nil {
		or = append(or, bson.D{{Key: "price", Value: *s.Price}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

// monthStage 只比较月份，不同年份的同一月会一起统计
func monthStage(month int) bson.D {
	return bson.D{{Key: "$match", Value: bson.D{
		{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{bson.D{{Key: "$month", Value: "$dateOfSale"}}, month}},
		}},
	}}}
}

func groupStages(by sale.GroupKey) []bson.D {
	switch by {
	case sale.GroupSummary:
		soldIs := func(v bool) bson.D {
			return bson.D{{Key: "$eq", Value: bson.A{"$sold", v}}}
		}
		return []bson.D{{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSaleAmount", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{soldIs(true), "$price", 0}}}}}},
			{Key: "totalSoldItems", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{soldIs(true), 1, 0}}}}}},
			{Key: "totalNotSoldItems", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{soldIs(false), 1, 0}}}}}},
		}}}}

	case sale.GroupPriceBucket:
		return []bson.D{
			{{Key: "$project", Value: bson.D{{Key: "priceRange", Value: bucketSwitch()}}}},
			countBy("$priceRange"),
		}

	case sale.GroupCategory:
		return []bson.D{countBy("$category")}
	}
	return nil
}

// bucketSwitch 依次判断 price<=上界，未命中的归入最后一个开放区间
func bucketSwitch() bson.D {
	buckets := sale.PriceBuckets
	branches := make(bson.A, 0, len(buckets)-1)
	for _, b := range buckets[:len(buckets)-1] {
		branches = append(branches, bson.D{
			{Key: "case", Value: bson.D{{Key: "$lte", Value: bson.A{"$price", b.Upper}}}},
			{Key: "then", Value: b.Label},
		})
	}
	return bson.D{{Key: "$switch", Value: bson.D{
		{Key: "branches", Value: branches},
		{Key: "default", Value: buckets[len(buckets)-1].Label},
	}}}
}

func countBy(field string) bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: field},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}}
}

func sortField(s sale.SortStage, group sale.GroupKey) bson.E {
	dir := 1
	if s.Desc {
		dir = -1
	}

	// 分组后分组键在_id上
	name := "_id"
	if s.Field == sale.SortByCount && group != 0 {
		name = "count"
	}
	return bson.E{Key: name, Value: dir}
}
