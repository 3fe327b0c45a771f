package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/xiebiao/saledash/internal/domain/sale"
	apperrors "github.com/xiebiao/saledash/pkg/errors"
)

const ns = "saledash.transactions"

func newMockRepo(mt *mtest.T) sale.Repository {
	return NewSaleRepository(mt.Coll, SearchOptions{}, 5*time.Second, time.Minute)
}

func TestSaleRepository_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("解码文档", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Fjallraven Backpack"},
			{Key: "description", Value: "Your perfect pack"},
			{Key: "price", Value: 329.85},
			{Key: "category", Value: "men's clothing"},
			{Key: "image", Value: "https://example.com/81fPKd-2AYL.jpg"},
			{Key: "sold", Value: false},
			{Key: "dateOfSale", Value: time.Date(2021, 11, 27, 0, 0, 0, 0, time.UTC)},
		}))

		repo := newMockRepo(mt)
		plan := sale.BuildListPlan(sale.ListQuery{Month: 11, Page: 1, PerPage: 10})

		got, err := repo.Find(context.Background(), plan)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, id.Hex(), got[0].ID)
		assert.Equal(t, 329.85, got[0].Price)
		assert.Equal(t, "2021-11-27", got[0].FormatDate())
	})

	mt.Run("无过滤走find", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		repo := newMockRepo(mt)
		got, err := repo.Find(context.Background(), sale.BuildListPlan(sale.ListQuery{}.Normalize()))
		require.NoError(t, err)
		assert.Empty(t, got)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "find", started.CommandName)
	})

	mt.Run("存储错误不暴露细节", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11600, Message: "interrupted at shutdown",
		}))

		repo := newMockRepo(mt)
		_, err := repo.Find(context.Background(), sale.BuildListPlan(sale.ListQuery{Month: 1, Page: 1, PerPage: 10}))
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeDatabaseError, appErr.Code)
		assert.Equal(t, "Server error", appErr.Message)
	})
}

func TestSaleRepository_CountAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("总数", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(60)}}))

		n, err := newMockRepo(mt).CountAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(60), n)
	})
}

func TestSaleRepository_Summarize(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("11月汇总", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSaleAmount", Value: 300.0},
			{Key: "totalSoldItems", Value: int32(2)},
			{Key: "totalNotSoldItems", Value: int32(1)},
		}))

		got, err := newMockRepo(mt).Summarize(context.Background(), sale.BuildSummaryPlan(11))
		require.NoError(t, err)
		assert.Equal(t, &sale.Summary{TotalSaleAmount: 300, TotalSoldItems: 2, TotalNotSoldItems: 1}, got)
	})

	mt.Run("没有记录", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := newMockRepo(mt).Summarize(context.Background(), sale.BuildSummaryPlan(2))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSaleRepository_CountByKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("类目计数", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "A"}, {Key: "count", Value: int32(3)}},
			bson.D{{Key: "_id", Value: "B"}, {Key: "count", Value: int32(1)}},
		))

		got, err := newMockRepo(mt).CountByKey(context.Background(), sale.BuildCategoryPlan(3))
		require.NoError(t, err)
		assert.Equal(t, []sale.KeyCount{{Key: "A", Count: 3}, {Key: "B", Count: 1}}, got)
	})
}

func TestSaleRepository_ReplaceAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	sales := []*sale.Sale{
		sale.NewSale("A", "a", 10, "x", "", true, time.Now()),
		sale.NewSale("B", "b", 20, "y", "", false, time.Now()),
	}

	mt.Run("清空后插入", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 5}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		n, err := newMockRepo(mt).ReplaceAll(context.Background(), sales)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		assert.Equal(t, "delete", mt.GetStartedEvent().CommandName)
		assert.Equal(t, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("空数据集只清空", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 5}))

		n, err := newMockRepo(mt).ReplaceAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSaleRepository_ReplaceTimeout(t *testing.T) {
	r := &saleRepository{timeout: time.Second, replaceTimeout: time.Minute}

	ctx, cancel := r.withReplaceTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok, "整体替换必须有超时")
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	r.replaceTimeout = 0
	ctx, cancel = r.withReplaceTimeout(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok, "未配置时只依赖调用方的ctx")
}
