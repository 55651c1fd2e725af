package dataloader

import (
	"errors"
	"fmt"
)

// ErrResultCount BatchFunc 返回的结果数与 key 数不一致
var ErrResultCount = errors.New("dataloader: result count does not match key count")

// BatchError 批量查询失败时交付给该窗口的每个调用方
type BatchError struct {
	Loader string
	Keys   int
	Err    error
}

func (e *BatchError) Error() string {
	if e.Loader == "" {
		return fmt.Sprintf("batch fetch of %d keys failed: %v", e.Keys, e.Err)
	}
	return fmt.Sprintf("%s: batch fetch of %d keys failed: %v", e.Loader, e.Keys, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Extensions 写入 GraphQL 错误的 extensions 字段
func (e *BatchError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":   "BATCH_FETCH_FAILED",
		"loader": e.Loader,
	}
}

// IsBatchError 判断 err 是否来自失败的窗口
func IsBatchError(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}
