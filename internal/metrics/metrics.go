// Package metrics 提供 loader 批次与 GraphQL 请求的 Prometheus 指标
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/d60-Lab/gin-graphql/internal/dataloader"
)

const namespace = "gin_graphql"

// Metrics 实现 dataloader.Observer
type Metrics struct {
	batches       *prometheus.CounterVec
	batchSize     *prometheus.HistogramVec
	batchDuration *prometheus.HistogramVec
	keyErrors     *prometheus.CounterVec
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
}

var _ dataloader.Observer = (*Metrics)(nil)

// New 创建指标并注册到 reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "batches_total",
			Help:      "Executed loader windows by outcome.",
		}, []string{"loader", "outcome"}),
		batchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "batch_size",
			Help:      "Distinct keys per loader window.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}, []string{"loader"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "batch_duration_seconds",
			Help:      "Bulk fetch latency per loader window.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"loader"}),
		keyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "key_errors_total",
			Help:      "Per-key errors returned by bulk fetches.",
		}, []string{"loader"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "requests_total",
			Help:      "GraphQL operations by type and status.",
		}, []string{"operation", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "request_duration_seconds",
			Help:      "GraphQL execution latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.batches, m.batchSize, m.batchDuration, m.keyErrors, m.requests, m.reqDuration)
	return m
}

func (m *Metrics) ObserveBatch(_ context.Context, ev dataloader.BatchEvent) {
	outcome := "ok"
	if ev.Err != nil {
		outcome = "error"
	}
	m.batches.WithLabelValues(ev.Loader, outcome).Inc()
	m.batchSize.WithLabelValues(ev.Loader).Observe(float64(ev.Size))
	m.batchDuration.WithLabelValues(ev.Loader).Observe(ev.Duration.Seconds())
	if ev.KeyErrors > 0 {
		m.keyErrors.WithLabelValues(ev.Loader).Add(float64(ev.KeyErrors))
	}
}

// ObserveRequest 记录一次 GraphQL 操作，operation 为 "query"、"mutation" 或 "unknown"
func (m *Metrics) ObserveRequest(operation string, failed bool, d time.Duration) {
	status := "ok"
	if failed {
		status = "error"
	}
	m.requests.WithLabelValues(operation, status).Inc()
	m.reqDuration.WithLabelValues(operation).Observe(d.Seconds())
}
