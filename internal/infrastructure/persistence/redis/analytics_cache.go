package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/saledash/pkg/errors"
	"github.com/xiebiao/saledash/pkg/metrics"
)

// 键格式：
//
//	saledash:analytics:gen                数据集版本号，Flush时递增
//	saledash:analytics:v{gen}:{view}:{month}  如 saledash:analytics:v3:pie_chart:3
const (
	genKey      = "saledash:analytics:gen"
	valuePrefix = "saledash:analytics:v"
)

// flushBatch 每次SCAN/DEL的键数
const flushBatch = 100

// AnalyticsCache 按(视图, 月份)缓存分析结果
// 键里带数据集版本号：读取开始时拿到的版本在Flush后作废，
// 与导入并发的读取即使在Flush之后才回填，也写不进当前版本
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache 创建分析缓存
func NewAnalyticsCache(client *redis.Client, ttl time.Duration) *AnalyticsCache {
	return &AnalyticsCache{client: client, ttl: ttl}
}

func cacheKey(gen int64, view string, month int) string {
	return fmt.Sprintf("%s%d:%s:%d", valuePrefix, gen, view, month)
}

// generation 当前数据集版本号，从未Flush过时为0
func (c *AnalyticsCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get 命中时把JSON解码到dst并返回true
// 无论是否命中都返回读取时的版本号，回填时原样传给Set
func (c *AnalyticsCache) Get(ctx context.Context, view string, month int, dst interface{}) (int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		metrics.ObserveCache(view, "error")
		return 0, false, cacheError(err, "读取缓存版本失败")
	}

	data, err := c.client.Get(ctx, cacheKey(gen, view, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveCache(view, "miss")
		return gen, false, nil
	}
	if err != nil {
		metrics.ObserveCache(view, "error")
		return gen, false, cacheError(err, "读取缓存失败")
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// 格式不兼容的旧值当作未命中，随TTL过期或在下次Flush时删除
		metrics.ObserveCache(view, "error")
		return gen, false, cacheError(err, "缓存数据格式错误")
	}

	metrics.ObserveCache(view, "hit")
	return gen, true, nil
}

// Set 以JSON写入gen版本并设置过期时间
// gen已被Flush作废时写入的值不会再被读到，随TTL过期
func (c *AnalyticsCache) Set(ctx context.Context, gen int64, view string, month int, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return cacheError(err, "序列化缓存数据失败")
	}
	if err := c.client.Set(ctx, cacheKey(gen, view, month), data, c.ttl).Err(); err != nil {
		return cacheError(err, "写入缓存失败")
	}
	return nil
}

// Flush 递增版本号使所有已缓存结果失效，再删除旧键
// 用SCAN而不是KEYS，避免阻塞Redis
func (c *AnalyticsCache) Flush(ctx context.Context) error {
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return cacheError(err, "递增缓存版本失败")
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, valuePrefix+"*", flushBatch).Result()
		if err != nil {
			return cacheError(err, "扫描缓存键失败")
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return cacheError(err, "删除缓存失败")
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func cacheError(err error, message string) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeCacheError, message)
}
