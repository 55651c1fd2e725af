package dataloader

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BatchFunc 一次查询 keys 对应的值。
//
// 成功时每个 key 恰好对应一个值，与 keys 按位置对齐。errs 为 nil，或同样与
// keys 对齐并携带单个 key 的错误。零值且无错误表示该 key 不存在。
//
// 整个窗口失败时返回 nil 值和单个错误，见 Fail。
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, []error)

// Fail 构造整个窗口查询失败时的 BatchFunc 返回值
func Fail[V any](err error) ([]V, []error) { return nil, []error{err} }

// Thunk 阻塞直到对应 key 的值可用
type Thunk[V any] func() (V, error)

// Loader 按 K 批量查询并缓存 V
type Loader[K comparable, V any] struct {
	fetch BatchFunc[K, V]
	opts  options

	mu    sync.Mutex
	cache map[K]*slot[K, V]
	batch *batch[K, V]
}

type slot[K comparable, V any] struct {
	batch *batch[K, V] // Prime 写入的值为 nil
	value V
	err   error
}

type batch[K comparable, V any] struct {
	ctx   context.Context
	keys  []K
	slots []*slot[K, V]
	timer *time.Timer
	once  sync.Once
	done  chan struct{}
}

// New 基于 fetch 创建 Loader
func New[K comparable, V any](fetch BatchFunc[K, V], opts ...Option) *Loader[K, V] {
	l := &Loader[K, V]{fetch: fetch, cache: make(map[K]*slot[K, V])}
	for _, o := range opts {
		o(&l.opts)
	}
	return l
}

// Name 返回 WithName 设置的名称
func (l *Loader[K, V]) Name() string { return l.opts.name }

// Load 返回 key 的值，等待所在窗口查询完成
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, error) {
	return l.LoadThunk(ctx, key)()
}

// LoadThunk 把 key 登记到当前窗口并返回对应的 Thunk。
// 未配置 wait 时，调用 Thunk 会关闭仍打开的窗口；配置了 wait 时，
// Thunk 阻塞到定时器或 max batch 关闭窗口。
func (l *Loader[K, V]) LoadThunk(ctx context.Context, key K) Thunk[V] {
	l.mu.Lock()
	s, ok := l.cache[key]
	if !ok {
		s = l.enqueue(ctx, key)
	}
	l.mu.Unlock()

	return func() (V, error) {
		if b := s.batch; b != nil {
			if l.opts.wait > 0 {
				<-b.done
			} else {
				l.run(b)
			}
		}
		return s.value, s.err
	}
}

// LoadMany 在同一个窗口中加载 keys，返回值与 keys 对齐；全部成功时 errs 为 nil
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, []error) {
	thunks := make([]Thunk[V], len(keys))
	for i, k := range keys {
		thunks[i] = l.LoadThunk(ctx, k)
	}

	values := make([]V, len(keys))
	var errs []error
	for i, th := range thunks {
		v, err := th()
		values[i] = v
		if err != nil {
			if errs == nil {
				errs = make([]error, len(keys))
			}
			errs[i] = err
		}
	}
	return values, errs
}

// Prime 在 key 尚未出现过时写入缓存，返回是否写入
func (l *Loader[K, V]) Prime(key K, value V) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[key]; ok {
		return false
	}
	l.cache[key] = &slot[K, V]{value: value}
	return true
}

// Clear 清除 key 的缓存，下次 Load 重新查询；仍在打开窗口中等待的 key 保留
func (l *Loader[K, V]) Clear(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.cache[key]
	if !ok {
		return
	}
	if s.batch != nil && s.batch == l.batch {
		return
	}
	delete(l.cache, key)
}

// enqueue 把 key 加入当前窗口，调用方需持有 l.mu
func (l *Loader[K, V]) enqueue(ctx context.Context, key K) *slot[K, V] {
	b := l.batch
	if b == nil {
		b = &batch[K, V]{ctx: ctx, done: make(chan struct{})}
		l.batch = b
		if l.opts.wait > 0 {
			b.timer = time.AfterFunc(l.opts.wait, func() { l.run(b) })
		}
	}

	s := &slot[K, V]{batch: b}
	b.keys = append(b.keys, key)
	b.slots = append(b.slots, s)
	l.cache[key] = s

	if l.opts.maxBatch > 0 && len(b.keys) >= l.opts.maxBatch {
		l.batch = nil
		if l.opts.wait > 0 {
			go l.run(b)
		}
	}
	return s
}

// run 只执行一次窗口查询，并发调用方阻塞到查询完成
func (l *Loader[K, V]) run(b *batch[K, V]) {
	b.once.Do(func() {
		l.mu.Lock()
		if l.batch == b {
			l.batch = nil
		}
		if b.timer != nil {
			b.timer.Stop()
		}
		l.mu.Unlock()

		start := time.Now()
		values, errs, failure := l.call(b)

		ev := BatchEvent{Loader: l.opts.name, Size: len(b.keys)}
		if failure != nil {
			be := &BatchError{Loader: l.opts.name, Keys: len(b.keys), Err: failure}
			l.mu.Lock()
			for i, k := range b.keys {
				b.slots[i].err = be
				if l.cache[k] == b.slots[i] {
					delete(l.cache, k)
				}
			}
			l.mu.Unlock()
			ev.Err = be
		} else {
			for i, s := range b.slots {
				s.value = values[i]
				if errs != nil && errs[i] != nil {
					s.err = errs[i]
					ev.KeyErrors++
				}
			}
		}

		ev.Duration = time.Since(start)
		close(b.done)
		for _, o := range l.opts.observers {
			o.ObserveBatch(b.ctx, ev)
		}
	})
}

func (l *Loader[K, V]) call(b *batch[K, V]) (values []V, errs []error, failure error) {
	defer func() {
		if r := recover(); r != nil {
			values, errs = nil, nil
			failure = fmt.Errorf("panic in batch function: %v", r)
		}
	}()

	values, errs = l.fetch(b.ctx, b.keys)
	switch {
	case len(values) == 0 && len(errs) == 1 && errs[0] != nil:
		return nil, nil, errs[0]
	case len(values) != len(b.keys):
		return nil, nil, fmt.Errorf("%w: %d keys, %d values", ErrResultCount, len(b.keys), len(values))
	case errs != nil && len(errs) != len(b.keys):
		return nil, nil, fmt.Errorf("%w: %d keys, %d errors", ErrResultCount, len(b.keys), len(errs))
	}
	return values, errs, nil
}
