package dataloader

import (
	"context"
	"time"
)

// BatchEvent 描述一次已执行的窗口
type BatchEvent struct {
	Loader    string
	Size      int
	Duration  time.Duration
	KeyErrors int
	// Err 窗口失败原因，批量查询成功时为 nil
	Err error
}

// Observer 在每个窗口执行后收到通知
type Observer interface {
	ObserveBatch(ctx context.Context, ev BatchEvent)
}

// ObserverFunc 把函数适配为 Observer
type ObserverFunc func(ctx context.Context, ev BatchEvent)

func (f ObserverFunc) ObserveBatch(ctx context.Context, ev BatchEvent) { f(ctx, ev) }

type options struct {
	name      string
	wait      time.Duration
	maxBatch  int
	observers []Observer
}

// Option 配置 Loader
type Option func(*options)

// WithName 设置 loader 在错误和批次事件中的名称
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithWait 窗口在 d 之后即使无人求值也会关闭；0 表示只按需关闭
func WithWait(d time.Duration) Option { return func(o *options) { o.wait = d } }

// WithMaxBatch 限制每个窗口的不同 key 数，0 表示不限制
func WithMaxBatch(n int) Option { return func(o *options) { o.maxBatch = n } }

// WithObserver 注册观察者，nil 会被忽略
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}
