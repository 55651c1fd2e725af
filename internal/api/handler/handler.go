package handler

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/d60-Lab/gin-graphql/internal/apq"
	"github.com/d60-Lab/gin-graphql/internal/metrics"
)

// Check 健康检查项，返回 nil 表示正常
type Check func(ctx context.Context) error

// Handler HTTP 处理器
type Handler struct {
	schema  graphql.Schema
	apq     *apq.Store
	metrics *metrics.Metrics
	timeout time.Duration
	checks  map[string]Check
}

// Option 配置 Handler
type Option func(*Handler)

// WithAPQ 启用持久化查询
func WithAPQ(s *apq.Store) Option { return func(h *Handler) { h.apq = s } }

// WithMetrics 记录 GraphQL 请求指标
func WithMetrics(m *metrics.Metrics) Option { return func(h *Handler) { h.metrics = m } }

// WithTimeout 限制单次 GraphQL 执行时间
func WithTimeout(d time.Duration) Option { return func(h *Handler) { h.timeout = d } }

// WithCheck 注册健康检查项
func WithCheck(name string, c Check) Option {
	return func(h *Handler) { h.checks[name] = c }
}

func NewHandler(schema graphql.Schema, opts ...Option) *Handler {
	h := &Handler{schema: schema, checks: map[string]Check{}}
	for _, o := range opts {
		o(h)
	}
	return h
}
