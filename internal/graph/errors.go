package graph

import (
	"errors"

	"github.com/d60-Lab/gin-graphql/internal/service"
)

var errNoLoaders = errors.New("graph: no loaders bound to request context")

// codedError 为 service 错误附带 extensions.code
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// classify 给已知的 service 错误打上错误码，其他错误原样返回
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound):
		return &codedError{code: "NOT_FOUND", err: err}
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnknownMemberType),
		errors.Is(err, service.ErrSubscribeSelf):
		return &codedError{code: "BAD_USER_INPUT", err: err}
	case errors.Is(err, service.ErrProfileExists):
		return &codedError{code: "CONFLICT", err: err}
	}
	return err
}
