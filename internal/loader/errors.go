package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-graphql/pkg/logger"
)

// ErrIntegrity 匹配所有 IntegrityError
var ErrIntegrity = errors.New("data integrity violation")

// IntegrityError 存储的数据违反了 schema 约束，例如资料指向封闭集合之外的会员类型
type IntegrityError struct {
	Entity string
	Key    string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Entity, e.Key, e.Reason)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

func (e *IntegrityError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":   "INTEGRITY_VIOLATION",
		"entity": e.Entity,
		"key":    e.Key,
	}
}

// reportIntegrity 记录错误日志并上报到 ctx 上的 Sentry hub
func reportIntegrity(ctx context.Context, err *IntegrityError) {
	logger.Error("integrity violation",
		zap.String("entity", err.Entity),
		zap.String("key", err.Key),
		zap.String("reason", err.Reason),
	)
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
