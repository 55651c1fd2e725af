package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-graphql/internal/apq"
	"github.com/d60-Lab/gin-graphql/internal/graph"
	"github.com/d60-Lab/gin-graphql/pkg/logger"
	"github.com/d60-Lab/gin-graphql/pkg/response"
)

// GraphQL 执行 GraphQL 请求
// @Summary 执行 GraphQL 查询或变更
// @Description 支持 Automatic Persisted Queries（extensions.persistedQuery.sha256Hash）
// @Tags GraphQL
// @Accept json
// @Produce json
// @Param request body graph.Request true "GraphQL 请求"
// @Success 200 {object} map[string]interface{} "data 与 errors"
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /graphql [post]
func (h *Handler) GraphQL(c *gin.Context) {
	var req graph.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.execute(c, req)
}

// GraphQLGet 通过 GET 执行只读查询
// @Summary 执行 GraphQL 查询（只读）
// @Tags GraphQL
// @Produce json
// @Param query query string false "查询文本（持久化查询命中时可省略）"
// @Param operationName query string false "操作名"
// @Param variables query string false "JSON 编码的变量"
// @Param extensions query string false "JSON 编码的扩展"
// @Success 200 {object} map[string]interface{} "data 与 errors"
// @Failure 400 {object} response.Response
// @Router /graphql [get]
func (h *Handler) GraphQLGet(c *gin.Context) {
	req := graph.Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
		ReadOnly:      true,
	}
	for param, dst := range map[string]*map[string]interface{}{
		"variables":  &req.Variables,
		"extensions": &req.Extensions,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			response.BadRequest(c, "invalid "+param+": "+err.Error())
			return
		}
	}
	h.execute(c, req)
}

func (h *Handler) execute(c *gin.Context, req graph.Request) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if err := h.resolvePersisted(ctx, &req); err != nil {
		if errors.Is(err, apq.ErrNotFound) || errors.Is(err, apq.ErrUnsupportedVersion) || errors.Is(err, apq.ErrHashMismatch) {
			c.JSON(http.StatusOK, persistedError(err))
			return
		}
		response.InternalError(c, err)
		return
	}
	if req.Query == "" {
		response.BadRequest(c, "query is required")
		return
	}

	start := time.Now()
	res, opType := graph.Execute(ctx, h.schema, req)
	if h.metrics != nil {
		h.metrics.ObserveRequest(opType, res.HasErrors(), time.Since(start))
	}
	if res.HasErrors() {
		logger.Debug("graphql errors",
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(res.Errors)),
			zap.String("first", res.Errors[0].Message),
		)
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) resolvePersisted(ctx context.Context, req *graph.Request) error {
	if h.apq != nil {
		return h.apq.Resolve(ctx, req)
	}
	if _, ok := req.Extensions["persistedQuery"]; ok && req.Query == "" {
		return apq.ErrUnsupportedVersion
	}
	return nil
}

// persistedError 按 Apollo 约定返回持久化查询错误，客户端据此重发完整查询
func persistedError(err error) *graphql.Result {
	code := "PERSISTED_QUERY_NOT_FOUND"
	switch {
	case errors.Is(err, apq.ErrUnsupportedVersion):
		code = "PERSISTED_QUERY_NOT_SUPPORTED"
	case errors.Is(err, apq.ErrHashMismatch):
		code = "BAD_USER_INPUT"
	}
	fe := gqlerrors.NewFormattedError(err.Error())
	fe.Extensions = map[string]interface{}{"code": code}
	return &graphql.Result{Errors: []gqlerrors.FormattedError{fe}}
}
