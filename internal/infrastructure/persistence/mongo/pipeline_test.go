package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/xiebiao/saledash/internal/domain/sale"
)

func stageNames(pipeline []bson.D) []string {
	names := make([]string, 0, len(pipeline))
	for _, st := range pipeline {
		names = append(names, st[0].Key)
	}
	return names
}

func TestCompile_ListPlan(t *testing.T) {
	t.Run("文本搜索+月份+分页", func(t *testing.T) {
		plan := sale.BuildListPlan(sale.ListQuery{Month: 3, Page: 2, PerPage: 5, Search: "a.b"})
		pipeline := compile(plan, SearchOptions{})

		assert.Equal(t, []string{"$match", "$match", "$sort", "$skip", "$limit"}, stageNames(pipeline))
		assert.Equal(t, bson.D{{Key: "$skip", Value: int64(5)}}, pipeline[3])
		assert.Equal(t, bson.D{{Key: "$limit", Value: int64(5)}}, pipeline[4])

		or := pipeline[0][0].Value.(bson.D)[0].Value.(bson.A)
		require.Len(t, or, 2, "非数字搜索不匹配价格")
		title := or[0].(bson.D)[0].Value.(bson.D)
		assert.Equal(t, `a\.b`, title[0].Value, "正则元字符应被转义")
		assert.Equal(t, "i", title[1].Value)
	})

	t.Run("数字搜索在regex模式下匹配价格", func(t *testing.T) {
		plan := sale.BuildListPlan(sale.ListQuery{Page: 1, PerPage: 10, Search: "150"})
		pipeline := compile(plan, SearchOptions{})

		or := pipeline[0][0].Value.(bson.D)[0].Value.(bson.A)
		require.Len(t, or, 3)
		assert.Equal(t, bson.D{{Key: "price", Value: 150.0}}, or[2])
	})

	t.Run("数字搜索在atlas模式下使用$search", func(t *testing.T) {
		plan := sale.BuildListPlan(sale.ListQuery{Page: 1, PerPage: 10, Search: "150"})
		pipeline := compile(plan, SearchOptions{Atlas: true, AtlasIndex: "searching"})

		assert.Equal(t, "$search", pipeline[0][0].Key)
		search := pipeline[0][0].Value.(bson.D)
		assert.Equal(t, bson.E{Key: "index", Value: "searching"}, search[0])
	})

	t.Run("atlas模式下文本搜索仍用正则", func(t *testing.T) {
		plan := sale.BuildListPlan(sale.ListQuery{Page: 1, PerPage: 10, Search: "shirt"})
		pipeline := compile(plan, SearchOptions{Atlas: true, AtlasIndex: "searching"})
		assert.Equal(t, "$match", pipeline[0][0].Key)
	})
}

func TestCompile_AnalyticsPlans(t *testing.T) {
	t.Run("月份过滤", func(t *testing.T) {
		pipeline := compile(sale.BuildSummaryPlan(11), SearchOptions{})

		want := bson.D{{Key: "$match", Value: bson.D{
			{Key: "$expr", Value: bson.D{
				{Key: "$eq", Value: bson.A{bson.D{{Key: "$month", Value: "$dateOfSale"}}, 11}},
			}},
		}}}
		assert.Equal(t, want, pipeline[0])
		assert.Equal(t, []string{"$match", "$group"}, stageNames(pipeline))
	})

	t.Run("价格区间", func(t *testing.T) {
		pipeline := compile(sale.BuildHistogramPlan(5), SearchOptions{})
		assert.Equal(t, []string{"$match", "$project", "$group", "$sort"}, stageNames(pipeline))

		sw := pipeline[1][0].Value.(bson.D)[0].Value.(bson.D)[0].Value.(bson.D)
		branches := sw[0].Value.(bson.A)
		assert.Len(t, branches, 9)
		assert.Equal(t, bson.E{Key: "default", Value: "901-above"}, sw[1])
	})

	t.Run("类目排序合并为一个$sort", func(t *testing.T) {
		pipeline := compile(sale.BuildCategoryPlan(3), SearchOptions{})
		assert.Equal(t, []string{"$match", "$group", "$sort"}, stageNames(pipeline))
		assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}}, pipeline[2])
	})
}
