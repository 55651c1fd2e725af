// Package apq 基于 Redis 实现 Automatic Persisted Queries。
//
// 客户端先只在 extensions.persistedQuery 中发送查询的 sha256 哈希；未命中时
// 带上完整查询和哈希重试，服务端保存后供后续请求使用。
package apq

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/gin-graphql/internal/graph"
)

var (
	// ErrNotFound 哈希未知，客户端需重发完整查询
	ErrNotFound = errors.New("PersistedQueryNotFound")
	// ErrHashMismatch 查询的哈希与 sha256Hash 不一致
	ErrHashMismatch = errors.New("provided sha does not match query")
	// ErrUnsupportedVersion persistedQuery 版本不是 1
	ErrUnsupportedVersion = errors.New("PersistedQueryNotSupported")
)

const keyPrefix = "apq:"

// Store 以哈希为 key 保存查询文本
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Hash 返回 query 的 sha256 十六进制串
func Hash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

func (s *Store) Get(ctx context.Context, hash string) (string, bool, error) {
	q, err := s.rdb.Get(ctx, keyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return q, true, nil
}

func (s *Store) Put(ctx context.Context, hash, query string) error {
	return s.rdb.Set(ctx, keyPrefix+hash, query, s.ttl).Err()
}

// Resolve 按 persistedQuery 扩展从存储中补全 req.Query 或写入存储；
// 不带该扩展的请求保持不变
func (s *Store) Resolve(ctx context.Context, req *graph.Request) error {
	hash, ok, err := persistedHash(req.Extensions)
	if err != nil || !ok {
		return err
	}

	if req.Query == "" {
		q, found, err := s.Get(ctx, hash)
		if err != nil {
			return fmt.Errorf("apq lookup: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		req.Query = q
		return nil
	}

	if Hash(req.Query) != hash {
		return ErrHashMismatch
	}
	if err := s.Put(ctx, hash, req.Query); err != nil {
		return fmt.Errorf("apq store: %w", err)
	}
	return nil
}

func persistedHash(ext map[string]interface{}) (string, bool, error) {
	pq, ok := ext["persistedQuery"].(map[string]interface{})
	if !ok {
		return "", false, nil
	}
	if v, ok := pq["version"].(float64); ok && v != 1 {
		return "", false, ErrUnsupportedVersion
	}
	hash, _ := pq["sha256Hash"].(string)
	if hash == "" {
		return "", false, nil
	}
	return hash, true, nil
}
