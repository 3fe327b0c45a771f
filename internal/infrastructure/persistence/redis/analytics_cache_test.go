package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/saledash/pkg/errors"
)

type cachedStats struct {
	TotalSaleAmount float64 `json:"totalSaleAmount"`
	TotalSoldItems  int64   `json:"totalSoldItems"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*AnalyticsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAnalyticsCache(client, ttl), mr
}

func TestAnalyticsCache_GetSet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got cachedStats
	gen, hit, err := cache.Get(ctx, "statistics", 11, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, cache.Set(ctx, gen, "statistics", 11, cachedStats{TotalSaleAmount: 300, TotalSoldItems: 2}))
	assert.True(t, mr.Exists("saledash:analytics:v0:statistics:11"))

	_, hit, err = cache.Get(ctx, "statistics", 11, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cachedStats{TotalSaleAmount: 300, TotalSoldItems: 2}, got)

	t.Run("过期后未命中", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)
		_, hit, err := cache.Get(ctx, "statistics", 11, &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestAnalyticsCache_CorruptValue(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("saledash:analytics:v0:bar_chart:5", "not-json"))

	var got []int
	_, hit, err := cache.Get(context.Background(), "bar_chart", 5, &got)
	assert.False(t, hit)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCacheError, apperrors.GetAppError(err).Code)
}

func TestAnalyticsCache_Flush(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for m := 1; m <= 12; m++ {
		require.NoError(t, cache.Set(ctx, 0, "pie_chart", m, []string{"x"}))
		require.NoError(t, cache.Set(ctx, 0, "bar_chart", m, []int{m}))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, cache.Flush(ctx))

	assert.False(t, mr.Exists("saledash:analytics:v0:pie_chart:1"))
	assert.False(t, mr.Exists("saledash:analytics:v0:bar_chart:12"))
	assert.True(t, mr.Exists("other:key"), "只删除分析缓存")

	gen, err := mr.Get("saledash:analytics:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

// 读取在导入前开始、回填在Flush之后完成：旧版本的值不能被后续读取命中
func TestAnalyticsCache_SetAfterFlush(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got []int
	gen, hit, err := cache.Get(ctx, "bar_chart", 11, &got)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, cache.Flush(ctx))
	require.NoError(t, cache.Set(ctx, gen, "bar_chart", 11, []int{0}))

	newGen, hit, err := cache.Get(ctx, "bar_chart", 11, &got)
	require.NoError(t, err)
	assert.False(t, hit, "Flush之前读到的结果不应在Flush之后被命中")
	assert.Equal(t, gen+1, newGen)

	require.NoError(t, cache.Set(ctx, newGen, "bar_chart", 11, []int{5}))
	_, hit, err = cache.Get(ctx, "bar_chart", 11, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []int{5}, got)
}

func TestAnalyticsCache_RedisDown(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	var got cachedStats
	_, _, err := cache.Get(context.Background(), "statistics", 1, &got)
	assert.Error(t, err)
	assert.Error(t, cache.Flush(context.Background()))
}
