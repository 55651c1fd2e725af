// Package graph 构建 GraphQL schema。嵌套字段通过请求级 loaders 解析并返回 thunk，
// graphql-go 会先执行同一层的全部 resolver，再触发第一次批量查询。mutation 中
// 嵌套字段立即取值，每个变更字段的结果在下一个变更执行前完成。
package graph

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/d60-Lab/gin-graphql/internal/loader"
	"github.com/d60-Lab/gin-graphql/internal/repository"
	"github.com/d60-Lab/gin-graphql/internal/service"
)

type schemaBuilder struct {
	repos    *repository.Repositories
	services *service.Services
	types    *types
}

// NewSchema 构建 schema，顶层列表直接读 repos，写操作经过 services
func NewSchema(repos *repository.Repositories, services *service.Services) (graphql.Schema, error) {
	b := &schemaBuilder{repos: repos, services: services, types: newTypes()}
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.query(),
		Mutation: b.mutation(),
	})
}

func loaderOrNil(p graphql.ResolveParams) *loader.Loaders {
	return loader.For(p.Context)
}

// Request 客户端提交的一次 GraphQL 操作
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`

	// ReadOnly 拒绝 mutation，用于 GET 请求
	ReadOnly bool `json:"-"`
}

var errMutationNotAllowed = errors.New("mutations are only accepted over POST")

// Execute 解析、校验并执行 req，同时返回操作类型（"query"、"mutation"，
// 文档非法时为 "unknown"）。ctx 需携带 loaders，见 loader.NewContext。
func Execute(ctx context.Context, schema graphql.Schema, req Request) (*graphql.Result, string) {
	ctx, span := otel.Tracer("github.com/d60-Lab/gin-graphql/internal/graph").Start(ctx, "graphql.execute")
	defer span.End()

	src := source.NewSource(&source.Source{Body: []byte(req.Query), Name: "GraphQL request"})
	doc, err := parser.Parse(parser.ParseParams{Source: src})
	if err != nil {
		span.SetStatus(codes.Error, "parse")
		return &graphql.Result{Errors: gqlerrors.FormatErrors(err)}, "unknown"
	}

	opType := operationType(doc, req.OperationName)
	span.SetAttributes(
		attribute.String("graphql.operation.type", opType),
		attribute.String("graphql.operation.name", req.OperationName),
	)

	if req.ReadOnly && opType == "mutation" {
		span.SetStatus(codes.Error, "read only")
		return &graphql.Result{Errors: gqlerrors.FormatErrors(errMutationNotAllowed)}, opType
	}

	if vr := graphql.ValidateDocument(&schema, doc, nil); !vr.IsValid {
		span.SetStatus(codes.Error, "validation")
		return &graphql.Result{Errors: vr.Errors}, opType
	}

	res := graphql.Execute(graphql.ExecuteParams{
		Schema:        schema,
		AST:           doc,
		OperationName: req.OperationName,
		Args:          req.Variables,
		Context:       ctx,
	})
	if res.HasErrors() {
		span.SetStatus(codes.Error, res.Errors[0].Message)
	}
	return res, opType
}

func operationType(doc *ast.Document, name string) string {
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if name == "" || (op.Name != nil && op.Name.Value == name) {
			return op.Operation
		}
	}
	return "unknown"
}
