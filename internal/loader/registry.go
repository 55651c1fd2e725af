package loader

import (
	"context"
	"time"

	"github.com/d60-Lab/gin-graphql/internal/dataloader"
)

// Registry 为每个请求创建新的 Loaders
type Registry struct {
	src  Sources
	opts []dataloader.Option
	fuse bool
}

// Option 配置 Registry
type Option func(*Registry)

// WithWait 窗口在 d 之后即使没有 thunk 被求值也会关闭
func WithWait(d time.Duration) Option {
	return func(r *Registry) { r.opts = append(r.opts, dataloader.WithWait(d)) }
}

// WithMaxBatch 限制每个窗口的不同 key 数
func WithMaxBatch(n int) Option {
	return func(r *Registry) { r.opts = append(r.opts, dataloader.WithMaxBatch(n)) }
}

// WithObserver 为 registry 创建的每个 loader 挂上 obs
func WithObserver(obs dataloader.Observer) Option {
	return func(r *Registry) { r.opts = append(r.opts, dataloader.WithObserver(obs)) }
}

// WithFusion 开关根查询 users 对订阅关系的融合查询
func WithFusion(enabled bool) Option {
	return func(r *Registry) { r.fuse = enabled }
}

func NewRegistry(src Sources, opts ...Option) *Registry {
	r := &Registry{src: src, fuse: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// New 返回缓存为空的 loaders，每个请求调用一次
func (r *Registry) New() *Loaders {
	return newLoaders(r.src, r.fuse, r.opts)
}

type ctxKey struct{}

// NewContext 返回携带 l 的 ctx 副本
func NewContext(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// For 返回 ctx 上绑定的 loaders，没有时返回 nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxKey{}).(*Loaders)
	return l
}
