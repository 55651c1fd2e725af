package graph

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

// UUID 输入输出均为规范的小写 UUID 字符串
var UUID = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "UUID",
	Description: "A UUID in its canonical textual form.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			return v
		case *string:
			if v == nil {
				return nil
			}
			return *v
		case uuid.UUID:
			return v.String()
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseUUID(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		s, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		return parseUUID(s.Value)
	},
})

// parseUUID 非法输入返回 nil，由 graphql-go 报告类型转换错误
func parseUUID(s string) interface{} {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return id.String()
}

// MemberTypeID 会员类型 id 的封闭集合
var MemberTypeID = graphql.NewEnum(graphql.EnumConfig{
	Name: "MemberTypeId",
	Values: graphql.EnumValueConfigMap{
		string(model.MemberTypeBasic):    &graphql.EnumValueConfig{Value: model.MemberTypeBasic},
		string(model.MemberTypeBusiness): &graphql.EnumValueConfig{Value: model.MemberTypeBusiness},
	},
})
