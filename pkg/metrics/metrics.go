// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP：请求总数、耗时、处理中的请求数（由gin中间件记录）
//   - 存储：每类查询的耗时与错误数（operation标签：list/count/summary/histogram/categories/replace）
//   - 业务：数据导入次数、最近一次导入记录数、分析缓存命中率、熔断器状态、事件发布/消费数
//
// 命名规范沿用Prometheus约定：Counter以_total结尾，Histogram以单位结尾。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	rows, err := repo.CountByKey(ctx, plan)
//	metrics.ObserveStore("histogram", start, err)
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，避免高基数）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// StoreQueryDuration 存储查询耗时
	// 标签：operation
	StoreQueryDuration *prometheus.HistogramVec

	// StoreErrorsTotal 存储查询失败总数
	StoreErrorsTotal *prometheus.CounterVec

	// IngestionRunsTotal 数据导入执行次数
	// 标签：result（success/failure）
	IngestionRunsTotal *prometheus.CounterVec

	// IngestedRecords 最近一次导入的记录数
	IngestedRecords prometheus.Gauge

	// CacheRequestsTotal 分析缓存访问次数
	// 标签：view（statistics/bar_chart/pie_chart）、result（hit/miss/error）
	CacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// promauto注册到默认Registry，重复调用是安全的
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		StoreQueryDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "store_query_duration_seconds",
				Help: "存储查询耗时（秒）",
				// 聚合查询一般在10ms-1s之间，导入（replace）可能达到数秒
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"operation"},
		)

		StoreErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_errors_total",
				Help: "存储查询失败总数",
			},
			[]string{"operation"},
		)

		IngestionRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingestion_runs_total",
				Help: "数据导入执行次数",
			},
			[]string{"result"},
		)

		IngestedRecords = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ingested_records",
				Help: "最近一次导入的记录数",
			},
		)

		CacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_cache_requests_total",
				Help: "分析缓存访问次数",
			},
			[]string{"view", "result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"},
		)
	})
}

// 以下便捷函数在指标未初始化时静默跳过，
// 单元测试不需要先调用InitMetrics

// ObserveHTTP 记录一次HTTP请求
func ObserveHTTP(method, path string, status int, start time.Time) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}

// ObserveStore 记录一次存储查询
func ObserveStore(operation string, start time.Time, err error) {
	if StoreQueryDuration == nil {
		return
	}
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// ObserveIngestion 记录一次数据导入
func ObserveIngestion(count int64, err error) {
	if IngestionRunsTotal == nil {
		return
	}
	if err != nil {
		IngestionRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	IngestionRunsTotal.WithLabelValues("success").Inc()
	IngestedRecords.Set(float64(count))
}

// ObserveCache 记录一次缓存访问（result: hit/miss/error）
func ObserveCache(view, result string) {
	if CacheRequestsTotal == nil {
		return
	}
	CacheRequestsTotal.WithLabelValues(view, result).Inc()
}

// SetBreakerState 更新熔断器状态
func SetBreakerState(name string, state int) {
	if CircuitBreakerState == nil {
		return
	}
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveBreaker 记录熔断器请求结果
func ObserveBreaker(name, result string) {
	if CircuitBreakerRequests == nil {
		return
	}
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// ObservePublish 记录一次消息发布
func ObservePublish(exchange, routingKey string) {
	if MessagesPublishedTotal == nil {
		return
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}

// ObserveConsume 记录一次消息消费
func ObserveConsume(queue string, err error) {
	if MessagesConsumedTotal == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
}
