package bootstrap

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appdataset "github.com/xiebiao/saledash/internal/application/dataset"
	apptransaction "github.com/xiebiao/saledash/internal/application/transaction"
	"github.com/xiebiao/saledash/internal/infrastructure/config"
)

func TestOpenAnalyticsCache_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cache, cleanup, err := OpenAnalyticsCache(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, cache)
	assert.IsType(t, apptransaction.NopCache{}, AnalyticsCache(cache))
	assert.IsType(t, appdataset.NopInvalidator{}, CacheInvalidator(cache))
}

func TestOpenAnalyticsCache_Enabled(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{Redis: config.RedisConfig{
		Enabled:     true,
		Host:        mr.Host(),
		Port:        port,
		DialTimeout: time.Second,
		TTL:         time.Minute,
	}}
	cache, cleanup, err := OpenAnalyticsCache(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, cache)
	ctx := context.Background()
	require.NoError(t, AnalyticsCache(cache).Set(ctx, 0, apptransaction.ViewPieChart, 3, []int{1}))
	assert.True(t, mr.Exists("saledash:analytics:v0:pie_chart:3"))

	require.NoError(t, CacheInvalidator(cache).Flush(ctx))
	assert.False(t, mr.Exists("saledash:analytics:v0:pie_chart:3"))
}

func TestOpenPublisher_Disabled(t *testing.T) {
	publisher, cleanup, err := OpenPublisher(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, appdataset.NopPublisher{}, publisher)
}

func TestOpenSaleRepository_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	_, _, err := OpenSaleRepository(cfg, zap.NewNop())
	assert.Error(t, err)
}
