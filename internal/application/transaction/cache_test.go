package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/saledash/internal/application/dataset"
	"github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/domain/sale"
	"github.com/xiebiao/saledash/internal/domain/sale/mocks"
	saleredis "github.com/xiebiao/saledash/internal/infrastructure/persistence/redis"
)

type staticSource []*sale.Sale

func (s staticSource) Fetch(context.Context) ([]*sale.Sale, error) { return s, nil }

// 导入前开始的读取在导入完成后才回填，之后的读取必须回源拿到新数据
func TestGetBarChart_ReadOverlappingReload(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := saleredis.NewAnalyticsCache(client, 10*time.Minute)

	repo := new(mocks.Repository)
	svc := sale.NewService(repo)
	barChart := transaction.NewGetBarChartUseCase(svc, cache, zap.NewNop())

	date := time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)
	sales := staticSource{sale.NewSale("A", "a", 50, "x", "", true, date)}
	reload := dataset.NewInitDatabaseUseCase(sales, svc, cache, dataset.NopPublisher{}, zap.NewNop())

	repo.On("ReplaceAll", mock.Anything, mock.Anything).Return(int64(5), nil)
	// 第一次读取拿到的是替换前的空数据集，返回前导入已经完成
	repo.On("CountByKey", mock.Anything, isMonth(11)).
		Run(func(mock.Arguments) {
			_, err := reload.Execute(ctx)
			require.NoError(t, err)
		}).
		Return([]sale.KeyCount{}, nil).Once()
	repo.On("CountByKey", mock.Anything, isMonth(11)).
		Return([]sale.KeyCount{{Key: "0-100", Count: 5}}, nil).Once()

	stale, err := barChart.Execute(ctx, transaction.GetBarChartRequest{Month: 11})
	require.NoError(t, err)
	assert.Zero(t, stale.Buckets[0].Count)

	fresh, err := barChart.Execute(ctx, transaction.GetBarChartRequest{Month: 11})
	require.NoError(t, err)
	assert.Equal(t, int64(5), fresh.Buckets[0].Count)
	repo.AssertNumberOfCalls(t, "CountByKey", 2)

	// 新数据已回填，再读命中缓存
	cachedResp, err := barChart.Execute(ctx, transaction.GetBarChartRequest{Month: 11})
	require.NoError(t, err)
	assert.Equal(t, int64(5), cachedResp.Buckets[0].Count)
	repo.AssertNumberOfCalls(t, "CountByKey", 2)
}
