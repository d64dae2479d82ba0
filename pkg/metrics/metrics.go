// Package metrics 基于Prometheus的指标收集
//
// 所有指标在包初始化时注册到默认Registry，通过Handler()暴露/metrics端点。
//
// 命名规范：
//   - Counter以_total结尾：http_requests_total
//   - Histogram以单位结尾：http_request_duration_seconds
//   - 标签只使用有限取值（method、路由模板、status），不要用ISBN或ID做标签
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/books/:isbn）、status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// StoreOperationsTotal 存储操作总数
	// 标签：operation（insert/find_by_isbn/...）、result（success/failure）
	// 记录不存在属于正常结果，计为success
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_store_operations_total",
			Help: "图书存储操作总数",
		},
		[]string{"operation", "result"},
	)

	// CacheRequestsTotal ISBN缓存访问总数
	// 标签：result（hit/miss/error）
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_requests_total",
			Help: "图书缓存访问总数",
		},
		[]string{"result"},
	)

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key、result
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
)

// Handler /metrics端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordStoreOperation 记录一次存储操作
func RecordStoreOperation(operation string, err error) {
	StoreOperationsTotal.WithLabelValues(operation, result(err)).Inc()
}

// RecordCache 记录一次缓存访问
func RecordCache(outcome string) {
	CacheRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordPublish 记录一次消息发布
func RecordPublish(exchange, routingKey string, err error) {
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result(err)).Inc()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
